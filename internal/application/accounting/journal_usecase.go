package accounting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/ledger"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/pkg/config"
)

// JournalUsecase contabiliza asientos de partida doble. El asiento se valida
// completo contra el plan de cuentas vigente antes de tocar la base; la
// persistencia del asiento con sus líneas es una sola transacción en el
// repositorio: o entra todo o no entra nada.
type JournalUsecase struct {
	entries  repository.JournalRepository
	chart    *ChartUsecase
	accounts config.AccountingConfig
	logger   zerolog.Logger
}

// NewJournalUsecase construye el caso de uso. accounts define las cuentas de
// los asientos automáticos de compras.
func NewJournalUsecase(entries repository.JournalRepository, chart *ChartUsecase, accounts config.AccountingConfig, logger zerolog.Logger) *JournalUsecase {
	return &JournalUsecase{entries: entries, chart: chart, accounts: accounts, logger: logger}
}

// Post valida y contabiliza un asiento manual.
func (u *JournalUsecase) Post(companyID string, req *dto.CreateJournalEntryRequest) (*entity.JournalEntry, error) {
	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	entry := &entity.JournalEntry{
		ID:          uuid.NewString(),
		CompanyID:   companyID,
		Date:        date,
		Description: req.Description,
	}
	for _, lr := range req.Lines {
		debit, err := parseOptionalAmount(lr.Debit)
		if err != nil {
			return nil, fmt.Errorf("%w: débito %q no es un decimal válido", domain.ErrInvalidInput, lr.Debit)
		}
		credit, err := parseOptionalAmount(lr.Credit)
		if err != nil {
			return nil, fmt.Errorf("%w: crédito %q no es un decimal válido", domain.ErrInvalidInput, lr.Credit)
		}
		entry.Lines = append(entry.Lines, entity.JournalLine{
			ID:          uuid.NewString(),
			EntryID:     entry.ID,
			AccountCode: lr.AccountCode,
			Description: lr.Description,
			Debit:       debit,
			Credit:      credit,
		})
	}

	return u.post(companyID, entry)
}

// PostPurchase contabiliza el asiento automático de una liquidación de compra
// autorizada: compras e IVA crédito al debe, cuentas por pagar al haber.
// Implementa el puerto billing.PurchasePoster.
func (u *JournalUsecase) PostPurchase(ctx context.Context, doc *entity.Document) error {
	if doc.ImporteTotal.IsZero() {
		return nil
	}
	entry := &entity.JournalEntry{
		ID:          uuid.NewString(),
		CompanyID:   doc.CompanyID,
		Date:        doc.FechaEmision,
		Description: fmt.Sprintf("Liquidación de compra %s-%s-%s", doc.Establecimiento, doc.PuntoEmision, doc.Secuencial),
		DocumentID:  &doc.ID,
	}
	entry.Lines = append(entry.Lines, entity.JournalLine{
		ID:          uuid.NewString(),
		EntryID:     entry.ID,
		AccountCode: u.accounts.PurchasesAccount,
		Description: "Compra de bienes y servicios",
		Debit:       doc.TotalSinImpuestos,
	})
	if doc.TotalImpuestos.IsPositive() {
		entry.Lines = append(entry.Lines, entity.JournalLine{
			ID:          uuid.NewString(),
			EntryID:     entry.ID,
			AccountCode: u.accounts.VATCreditAccount,
			Description: "IVA crédito tributario",
			Debit:       doc.TotalImpuestos,
		})
	}
	entry.Lines = append(entry.Lines, entity.JournalLine{
		ID:          uuid.NewString(),
		EntryID:     entry.ID,
		AccountCode: u.accounts.PayablesAccount,
		Description: "Cuentas por pagar proveedores",
		Credit:      doc.ImporteTotal,
	})

	if _, err := u.post(doc.CompanyID, entry); err != nil {
		return fmt.Errorf("asiento de compra de %s: %w", doc.ID, err)
	}
	return nil
}

// GetEntry devuelve un asiento con sus líneas.
func (u *JournalUsecase) GetEntry(companyID, entryID string) (*entity.JournalEntry, error) {
	entry, err := u.entries.GetByID(entryID)
	if err != nil {
		return nil, err
	}
	if entry.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}

// ListEntries devuelve los asientos de la empresa paginados.
func (u *JournalUsecase) ListEntries(companyID string, limit, offset int) ([]*entity.JournalEntry, error) {
	return u.entries.ListByCompany(companyID, limit, offset)
}

func (u *JournalUsecase) post(companyID string, entry *entity.JournalEntry) (*entity.JournalEntry, error) {
	resolver, err := u.chart.Resolver(companyID)
	if err != nil {
		return nil, err
	}
	if err := ledger.NewValidator(resolver).Validate(entry); err != nil {
		return nil, err
	}
	if err := u.entries.Create(entry); err != nil {
		return nil, fmt.Errorf("contabilizar asiento: %w", err)
	}

	u.logger.Info().
		Str("company_id", companyID).
		Str("entry_id", entry.ID).
		Str("total", entry.TotalDebits().StringFixed(2)).
		Int("lines", len(entry.Lines)).
		Msg("asiento contabilizado")
	return entry, nil
}

func parseOptionalAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
