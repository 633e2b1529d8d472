package billing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// maxSecuencial es el tope del campo de 9 dígitos del esquema SRI.
const maxSecuencial = 999_999_999

// SequenceAllocator entrega secuenciales formateados a 9 dígitos por tupla
// (empresa, tipo de comprobante, establecimiento, punto de emisión).
//
// La atomicidad vive en el repositorio (incremento transaccional por tupla);
// este servicio añade el formato y el tope. Un número entregado jamás vuelve
// al pozo: si la construcción del comprobante falla después de asignar, el
// hueco queda registrado en el log como consumo justificado.
type SequenceAllocator struct {
	sequences repository.SequenceRepository
	logger    zerolog.Logger
}

// NewSequenceAllocator construye el asignador.
func NewSequenceAllocator(sequences repository.SequenceRepository, logger zerolog.Logger) *SequenceAllocator {
	return &SequenceAllocator{sequences: sequences, logger: logger}
}

// Next devuelve el siguiente secuencial como cadena de 9 dígitos con ceros a
// la izquierda. Error si la serie se agotó (más de 999.999.999 emisiones).
func (a *SequenceAllocator) Next(ctx context.Context, companyID, docType, establecimiento, puntoEmision string) (string, error) {
	n, err := a.sequences.Next(ctx, companyID, docType, establecimiento, puntoEmision)
	if err != nil {
		return "", fmt.Errorf("asignar secuencial %s-%s-%s: %w", docType, establecimiento, puntoEmision, err)
	}
	if n < 1 || n > maxSecuencial {
		return "", fmt.Errorf("secuencial %d fuera del rango [1, %d] para %s-%s-%s",
			n, maxSecuencial, docType, establecimiento, puntoEmision)
	}
	return fmt.Sprintf("%09d", n), nil
}

// ReportGap deja constancia en el log de un secuencial consumido cuyo
// comprobante no llegó a persistirse. El hueco es definitivo: la numeración
// admite huecos justificados, nunca reutilización.
func (a *SequenceAllocator) ReportGap(companyID, docType, establecimiento, puntoEmision, secuencial string, cause error) {
	a.logger.Warn().
		Str("company_id", companyID).
		Str("tipo", docType).
		Str("serie", establecimiento+"-"+puntoEmision).
		Str("secuencial", secuencial).
		Err(cause).
		Msg("secuencial consumido sin comprobante: hueco justificado en la numeración")
}
