package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.JournalRepository = (*JournalRepo)(nil)

// JournalRepo implementación de JournalRepository sobre PostgreSQL.
// Sin UPDATE ni DELETE: los asientos contabilizados son inmutables.
type JournalRepo struct {
	q  Querier
	tx *TxRunner
}

// NewJournalRepository construye el adaptador.
func NewJournalRepository(q Querier, tx *TxRunner) *JournalRepo {
	return &JournalRepo{q: q, tx: tx}
}

// Create persiste el asiento con todas sus líneas en una sola transacción.
func (r *JournalRepo) Create(entry *entity.JournalEntry) error {
	entry.CreatedAt = time.Now()

	return r.tx.Run(context.Background(), func(q Querier) error {
		const entryQuery = `
			INSERT INTO journal_entries (id, company_id, date, description, document_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := q.Exec(context.Background(), entryQuery,
			entry.ID, entry.CompanyID, entry.Date, entry.Description, entry.DocumentID, entry.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert journal entry: %w", err)
		}

		const lineQuery = `
			INSERT INTO journal_lines (id, entry_id, account_code, description, debit, credit)
			VALUES ($1, $2, $3, $4, $5, $6)`
		for _, l := range entry.Lines {
			if _, err := q.Exec(context.Background(), lineQuery,
				l.ID, l.EntryID, l.AccountCode, l.Description, l.Debit, l.Credit,
			); err != nil {
				return fmt.Errorf("insert journal line: %w", err)
			}
		}
		return nil
	})
}

// GetByID obtiene un asiento con sus líneas.
func (r *JournalRepo) GetByID(id string) (*entity.JournalEntry, error) {
	const query = `
		SELECT id, company_id, date, description, document_id, created_at
		FROM journal_entries WHERE id = $1`
	var e entity.JournalEntry
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.CompanyID, &e.Date, &e.Description, &e.DocumentID, &e.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: asiento %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get journal entry: %w", err)
	}

	lines, err := r.GetLines(id)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		e.Lines = append(e.Lines, *l)
	}
	return &e, nil
}

// GetLines obtiene las líneas de un asiento.
func (r *JournalRepo) GetLines(entryID string) ([]*entity.JournalLine, error) {
	const query = `
		SELECT id, entry_id, account_code, description, debit, credit
		FROM journal_lines WHERE entry_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, entryID)
	if err != nil {
		return nil, fmt.Errorf("list journal lines: %w", err)
	}
	defer rows.Close()

	var list []*entity.JournalLine
	for rows.Next() {
		var l entity.JournalLine
		if err := rows.Scan(&l.ID, &l.EntryID, &l.AccountCode, &l.Description, &l.Debit, &l.Credit); err != nil {
			return nil, fmt.Errorf("scan journal line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// ListByCompany devuelve los asientos (sin líneas) de la empresa paginados.
func (r *JournalRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.JournalEntry, error) {
	const query = `
		SELECT id, company_id, date, description, document_id, created_at
		FROM journal_entries WHERE company_id = $1
		ORDER BY date DESC, created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	var list []*entity.JournalEntry
	for rows.Next() {
		var e entity.JournalEntry
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.Date, &e.Description, &e.DocumentID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
