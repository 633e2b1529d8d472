package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// fail traduce un error de dominio a la respuesta HTTP uniforme.
func fail(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	return c.Status(status).JSON(dto.ErrorResponse{Error: code, Details: err.Error()})
}

// classify mapea los errores centinela del dominio a status HTTP. Todo lo no
// reconocido es un 500 sin filtrar detalles internos al código de error.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "EMAIL_EXISTS"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrSequenceConflict), errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrImbalance):
		return fiber.StatusUnprocessableEntity, "IMBALANCE"
	case errors.Is(err, domain.ErrNotDetailAccount):
		return fiber.StatusUnprocessableEntity, "NOT_DETAIL_ACCOUNT"
	case errors.Is(err, domain.ErrHierarchy):
		return fiber.StatusUnprocessableEntity, "HIERARCHY"
	case errors.Is(err, domain.ErrAuthorityRejected):
		return fiber.StatusUnprocessableEntity, "SRI_DEVUELTO"
	case errors.Is(err, domain.ErrTransport):
		return fiber.StatusBadGateway, "SRI_TRANSPORT"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

func badRequest(c *fiber.Ctx, code, details string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: code, Details: details})
}

func toCompanyResponse(co *entity.Company) dto.CompanyResponse {
	return dto.CompanyResponse{
		ID:              co.ID,
		Name:            co.Name,
		TradeName:       co.TradeName,
		RUC:             co.RUC,
		Ambiente:        co.Ambiente,
		Establecimiento: co.Establecimiento,
		PuntoEmision:    co.PuntoEmision,
		Address:         co.Address,
		Status:          co.Status,
	}
}

func toDocumentResponse(doc *entity.Document, details []*entity.DocumentDetail) dto.DocumentResponse {
	resp := dto.DocumentResponse{
		ID:                 doc.ID,
		Tipo:               doc.Tipo,
		Establecimiento:    doc.Establecimiento,
		PuntoEmision:       doc.PuntoEmision,
		Secuencial:         doc.Secuencial,
		ClaveAcceso:        doc.ClaveAcceso,
		Estado:             doc.Estado,
		FechaEmision:       doc.FechaEmision,
		TotalSinImpuestos:  doc.TotalSinImpuestos.StringFixed(2),
		TotalDescuento:     doc.TotalDescuento.StringFixed(2),
		TotalImpuestos:     doc.TotalImpuestos.StringFixed(2),
		ImporteTotal:       doc.ImporteTotal.StringFixed(2),
		NumeroAutorizacion: doc.NumeroAutorizacion,
		FechaAutorizacion:  doc.FechaAutorizacion,
		MensajesSRI:        doc.MensajesSRI,
	}
	for _, d := range details {
		resp.Lines = append(resp.Lines, dto.DocumentLineResponse{
			ProductID:    d.ProductID,
			Description:  d.Description,
			Quantity:     d.Quantity.String(),
			UnitPrice:    d.UnitPrice.StringFixed(6),
			Discount:     d.Discount.StringFixed(2),
			TarifaCodigo: d.TarifaCodigo,
			Subtotal:     d.Subtotal.StringFixed(2),
			TaxValue:     d.TaxValue.StringFixed(2),
		})
	}
	return resp
}

func toAccountResponse(a *entity.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:         a.ID,
		Code:       a.Code,
		Name:       a.Name,
		Type:       a.Type,
		ParentCode: a.ParentCode,
		Level:      a.Level,
		IsDetail:   a.IsDetail,
		Active:     a.Active,
	}
}

func toJournalEntryResponse(e *entity.JournalEntry) dto.JournalEntryResponse {
	resp := dto.JournalEntryResponse{
		ID:          e.ID,
		Date:        e.Date,
		Description: e.Description,
		DocumentID:  e.DocumentID,
		TotalDebit:  e.TotalDebits().StringFixed(2),
		TotalCredit: e.TotalCredits().StringFixed(2),
	}
	for _, l := range e.Lines {
		resp.Lines = append(resp.Lines, dto.JournalLineResponse{
			AccountCode: l.AccountCode,
			Description: l.Description,
			Debit:       l.Debit.StringFixed(2),
			Credit:      l.Credit.StringFixed(2),
		})
	}
	return resp
}
