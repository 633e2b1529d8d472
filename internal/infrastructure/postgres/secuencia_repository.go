package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo implementación de SequenceRepository sobre PostgreSQL.
//
// La atomicidad por tupla la da un único statement con upsert: el
// INSERT .. ON CONFLICT .. DO UPDATE toma el bloqueo de fila y dos llamadas
// concurrentes sobre la misma tupla se serializan en el motor. No hay ventana
// leer-luego-escribir y por tanto no hay duplicados posibles.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el contador de la tupla.
func (r *SequenceRepo) Next(ctx context.Context, companyID, docType, establecimiento, puntoEmision string) (int64, error) {
	const query = `
		INSERT INTO document_sequences (company_id, doc_type, establecimiento, punto_emision, last_number)
		VALUES ($1, $2, $3, $4, 1)
		ON CONFLICT (company_id, doc_type, establecimiento, punto_emision)
		DO UPDATE SET last_number = document_sequences.last_number + 1
		RETURNING last_number`
	var n int64
	if err := r.q.QueryRow(ctx, query, companyID, docType, establecimiento, puntoEmision).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence %s-%s-%s: %w", docType, establecimiento, puntoEmision, err)
	}
	return n, nil
}
