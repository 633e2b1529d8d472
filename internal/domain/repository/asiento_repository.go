package repository

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// JournalRepository define el puerto de persistencia del libro diario.
// No hay Update ni Delete: los asientos contabilizados son inmutables y las
// correcciones se registran como asientos de reversa.
type JournalRepository interface {
	// Create persiste el asiento con todas sus líneas en una sola
	// transacción: un asiento jamás queda contabilizado a medias.
	Create(entry *entity.JournalEntry) error
	GetByID(id string) (*entity.JournalEntry, error)
	GetLines(entryID string) ([]*entity.JournalLine, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.JournalEntry, error)
}
