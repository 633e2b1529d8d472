package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry representa un asiento de partida doble.
// Una vez contabilizado es inmutable: las correcciones se hacen con un asiento
// de reversa, nunca mutando el original.
type JournalEntry struct {
	ID          string
	CompanyID   string
	Date        time.Time
	Description string
	DocumentID  *string // comprobante que originó el asiento (nil para asientos manuales)
	Lines       []JournalLine
	CreatedAt   time.Time
}

// JournalLine es una línea del asiento: exactamente uno de Debit/Credit es distinto de cero.
type JournalLine struct {
	ID          string
	EntryID     string
	AccountCode string
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// TotalDebits suma los débitos del asiento.
func (e *JournalEntry) TotalDebits() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range e.Lines {
		sum = sum.Add(l.Debit)
	}
	return sum
}

// TotalCredits suma los créditos del asiento.
func (e *JournalEntry) TotalCredits() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range e.Lines {
		sum = sum.Add(l.Credit)
	}
	return sum
}
