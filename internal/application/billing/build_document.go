package billing

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
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	domainsri "github.com/jhoicas/Facturacion-api/internal/domain/sri"
)

// DocumentBuilder construye comprobantes: valida la petición, calcula líneas y
// totales, asigna el secuencial, genera la clave de acceso y persiste el
// comprobante en BORRADOR.
//
// Orden del pipeline: todo lo validable se valida ANTES de pedir el
// secuencial. Desde que el secuencial se asigna no hay vuelta atrás: un fallo
// posterior deja un hueco justificado (se reporta vía allocator), nunca un
// número reutilizado.
type DocumentBuilder struct {
	documents repository.DocumentRepository
	companies repository.CompanyRepository
	customers repository.CustomerRepository
	suppliers repository.SupplierRepository
	products  repository.ProductRepository
	allocator *SequenceAllocator
	claves    *domainsri.ClaveAccesoGenerator
	taxes     *domainsri.TaxCalculator
	logger    zerolog.Logger
}

// NewDocumentBuilder construye el servicio.
func NewDocumentBuilder(
	documents repository.DocumentRepository,
	companies repository.CompanyRepository,
	customers repository.CustomerRepository,
	suppliers repository.SupplierRepository,
	products repository.ProductRepository,
	allocator *SequenceAllocator,
	claves *domainsri.ClaveAccesoGenerator,
	taxes *domainsri.TaxCalculator,
	logger zerolog.Logger,
) *DocumentBuilder {
	return &DocumentBuilder{
		documents: documents,
		companies: companies,
		customers: customers,
		suppliers: suppliers,
		products:  products,
		allocator: allocator,
		claves:    claves,
		taxes:     taxes,
		logger:    logger,
	}
}

// Build emite un comprobante nuevo para la empresa. Devuelve el comprobante
// persistido en estado BORRADOR con su clave de acceso definitiva.
func (b *DocumentBuilder) Build(ctx context.Context, companyID string, req *dto.CreateDocumentRequest) (*entity.Document, []*entity.DocumentDetail, error) {
	company, err := b.companies.GetByID(companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("cargar empresa %s: %w", companyID, err)
	}

	fechaEmision := time.Now()
	if req.FechaEmision != nil {
		fechaEmision = *req.FechaEmision
	}

	doc := &entity.Document{
		ID:              uuid.NewString(),
		CompanyID:       company.ID,
		Tipo:            req.Tipo,
		Establecimiento: company.Establecimiento,
		PuntoEmision:    company.PuntoEmision,
		FechaEmision:    fechaEmision,
		Estado:          entity.EstadoBorrador,
		CustomerID:      req.CustomerID,
		SupplierID:      req.SupplierID,
	}

	if err := b.resolveCounterparty(doc); err != nil {
		return nil, nil, err
	}

	details, lines, totalDescuento, err := b.buildLines(doc, req.Lines)
	if err != nil {
		return nil, nil, err
	}

	totals, err := b.taxes.ComputeTotals(lines, totalDescuento)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}
	doc.TotalSinImpuestos = totals.TotalSinImpuestos
	doc.TotalDescuento = totals.TotalDescuento
	doc.TotalImpuestos = totals.TotalImpuestos
	doc.ImporteTotal = totals.ImporteTotal

	// Punto de no retorno: el secuencial asignado queda consumido aunque lo
	// que sigue falle.
	secuencial, err := b.allocator.Next(ctx, company.ID, doc.Tipo, doc.Establecimiento, doc.PuntoEmision)
	if err != nil {
		return nil, nil, err
	}
	doc.Secuencial = secuencial

	clave, err := b.claves.Generate(&domainsri.ClaveAccesoParams{
		FechaEmision:    doc.FechaEmision,
		TipoComprobante: doc.Tipo,
		RUC:             company.RUC,
		Ambiente:        company.Ambiente,
		Establecimiento: doc.Establecimiento,
		PuntoEmision:    doc.PuntoEmision,
		Secuencial:      doc.Secuencial,
	})
	if err != nil {
		b.allocator.ReportGap(company.ID, doc.Tipo, doc.Establecimiento, doc.PuntoEmision, doc.Secuencial, err)
		return nil, nil, fmt.Errorf("generar clave de acceso: %w", err)
	}
	doc.ClaveAcceso = clave

	// Validación final de la cabecera ya completa.
	if err := domainsri.ValidateDocumentHeader(doc); err != nil {
		b.allocator.ReportGap(company.ID, doc.Tipo, doc.Establecimiento, doc.PuntoEmision, doc.Secuencial, err)
		return nil, nil, err
	}

	for _, d := range details {
		d.DocumentID = doc.ID
	}
	if err := b.documents.Create(doc, details); err != nil {
		b.allocator.ReportGap(company.ID, doc.Tipo, doc.Establecimiento, doc.PuntoEmision, doc.Secuencial, err)
		return nil, nil, fmt.Errorf("persistir comprobante: %w", err)
	}

	b.logger.Info().
		Str("document_id", doc.ID).
		Str("tipo", doc.Tipo).
		Str("clave_acceso", doc.ClaveAcceso).
		Str("importe_total", doc.ImporteTotal.StringFixed(2)).
		Msg("comprobante construido")
	return doc, details, nil
}

// resolveCounterparty verifica que la contraparte exigida por el tipo de
// comprobante exista y pertenezca a la empresa.
func (b *DocumentBuilder) resolveCounterparty(doc *entity.Document) error {
	if doc.CustomerID != "" {
		c, err := b.customers.GetByID(doc.CustomerID)
		if err != nil {
			return fmt.Errorf("cargar comprador %s: %w", doc.CustomerID, err)
		}
		if c.CompanyID != doc.CompanyID {
			return fmt.Errorf("%w: el comprador pertenece a otra empresa", domain.ErrForbidden)
		}
	}
	if doc.SupplierID != "" {
		s, err := b.suppliers.GetByID(doc.SupplierID)
		if err != nil {
			return fmt.Errorf("cargar proveedor %s: %w", doc.SupplierID, err)
		}
		if s.CompanyID != doc.CompanyID {
			return fmt.Errorf("%w: el proveedor pertenece a otra empresa", domain.ErrForbidden)
		}
	}
	return nil
}

// buildLines resuelve productos, aplica valores por defecto y calcula cada línea.
func (b *DocumentBuilder) buildLines(doc *entity.Document, reqs []dto.DocumentLineRequest) ([]*entity.DocumentDetail, []domainsri.LineAmounts, decimal.Decimal, error) {
	if len(reqs) == 0 {
		return nil, nil, decimal.Zero, fmt.Errorf("%w: un comprobante requiere al menos una línea", domain.ErrInvalidInput)
	}

	details := make([]*entity.DocumentDetail, 0, len(reqs))
	lines := make([]domainsri.LineAmounts, 0, len(reqs))
	totalDescuento := decimal.Zero

	for i, lr := range reqs {
		product, err := b.products.GetByID(lr.ProductID)
		if err != nil {
			return nil, nil, decimal.Zero, fmt.Errorf("línea %d: cargar producto %s: %w", i+1, lr.ProductID, err)
		}
		if product.CompanyID != doc.CompanyID {
			return nil, nil, decimal.Zero, fmt.Errorf("%w: línea %d: el producto pertenece a otra empresa", domain.ErrForbidden, i+1)
		}

		quantity, err := parseAmount("cantidad", lr.Quantity, i)
		if err != nil {
			return nil, nil, decimal.Zero, err
		}
		unitPrice := product.Price
		if lr.UnitPrice != "" {
			if unitPrice, err = parseAmount("precio unitario", lr.UnitPrice, i); err != nil {
				return nil, nil, decimal.Zero, err
			}
		}
		discount := decimal.Zero
		if lr.Discount != "" {
			if discount, err = parseAmount("descuento", lr.Discount, i); err != nil {
				return nil, nil, decimal.Zero, err
			}
		}
		tarifa := product.TarifaCodigo
		if lr.TarifaCodigo != "" {
			tarifa = lr.TarifaCodigo
		}
		description := product.Name
		if lr.Description != "" {
			description = lr.Description
		}

		amounts, err := b.taxes.ComputeLine(quantity, unitPrice, discount, tarifa)
		if err != nil {
			return nil, nil, decimal.Zero, fmt.Errorf("%w: línea %d: %s", domain.ErrInvalidInput, i+1, err)
		}

		details = append(details, &entity.DocumentDetail{
			ID:           uuid.NewString(),
			ProductID:    product.ID,
			Description:  description,
			Quantity:     quantity,
			UnitPrice:    unitPrice,
			Discount:     discount,
			TarifaCodigo: tarifa,
			Subtotal:     amounts.Subtotal,
			TaxValue:     amounts.TaxValue,
		})
		lines = append(lines, *amounts)
		totalDescuento = totalDescuento.Add(discount)
	}

	return details, lines, totalDescuento, nil
}

func parseAmount(name, s string, line int) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: línea %d: %s %q no es un decimal válido", domain.ErrInvalidInput, line+1, name, s)
	}
	return d, nil
}
