package dto

import "time"

// CreateAccountRequest alta de una cuenta del plan de cuentas.
type CreateAccountRequest struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Type       string  `json:"type"` // asset, liability, equity, income, expense
	ParentCode *string `json:"parent_code,omitempty"`
	IsDetail   bool    `json:"is_detail"`
}

// AccountResponse representación de una cuenta hacia fuera.
type AccountResponse struct {
	ID         string  `json:"id"`
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	ParentCode *string `json:"parent_code,omitempty"`
	Level      int     `json:"level"`
	IsDetail   bool    `json:"is_detail"`
	Active     bool    `json:"active"`
}

// CreateJournalEntryRequest contabilización de un asiento manual.
type CreateJournalEntryRequest struct {
	Date        *time.Time           `json:"date"` // nil = hoy
	Description string               `json:"description"`
	Lines       []JournalLineRequest `json:"lines"`
}

// JournalLineRequest una línea del asiento: exactamente uno de debit/credit.
type JournalLineRequest struct {
	AccountCode string `json:"account_code"`
	Description string `json:"description,omitempty"`
	Debit       string `json:"debit,omitempty"`
	Credit      string `json:"credit,omitempty"`
}

// JournalEntryResponse representación de un asiento contabilizado.
type JournalEntryResponse struct {
	ID          string                `json:"id"`
	Date        time.Time             `json:"date"`
	Description string                `json:"description"`
	DocumentID  *string               `json:"document_id,omitempty"`
	Lines       []JournalLineResponse `json:"lines"`
	TotalDebit  string                `json:"total_debit"`
	TotalCredit string                `json:"total_credit"`
}

// JournalLineResponse una línea del asiento.
type JournalLineResponse struct {
	AccountCode string `json:"account_code"`
	Description string `json:"description,omitempty"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
}
