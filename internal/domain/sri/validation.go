package sri

import (
	"errors"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	pkgsri "github.com/jhoicas/Facturacion-api/pkg/sri"
)

// ValidateDocumentHeader valida la cabecera de un comprobante: tipo dentro del
// conjunto cerrado, anchos fijos 3/3/9 de la serie y el secuencial, fecha de
// emisión presente, y contraparte obligatoria según el tipo (comprador en
// ventas, proveedor en liquidaciones de compra y retenciones).
// Acumula todas las violaciones con errors.Join.
func ValidateDocumentHeader(doc *entity.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: comprobante nulo", domain.ErrInvalidInput)
	}
	var errs []error

	if !pkgsri.ValidDocumentTypes[doc.Tipo] {
		errs = append(errs, fmt.Errorf("tipo de comprobante %q fuera del catálogo", doc.Tipo))
	}
	if err := requireDigits("establecimiento", doc.Establecimiento, widthSerie); err != nil {
		errs = append(errs, err)
	}
	if err := requireDigits("punto de emisión", doc.PuntoEmision, widthSerie); err != nil {
		errs = append(errs, err)
	}
	if err := requireDigits("secuencial", doc.Secuencial, widthSecuencial); err != nil {
		errs = append(errs, err)
	}
	if doc.FechaEmision.IsZero() {
		errs = append(errs, fmt.Errorf("fecha de emisión es obligatoria"))
	}

	switch doc.Tipo {
	case pkgsri.DocLiquidacionCompra, pkgsri.DocRetencion:
		if doc.SupplierID == "" {
			errs = append(errs, fmt.Errorf("el comprobante %s requiere proveedor", doc.Tipo))
		}
	case pkgsri.DocFactura, pkgsri.DocNotaCredito, pkgsri.DocNotaDebito:
		if doc.CustomerID == "" {
			errs = append(errs, fmt.Errorf("el comprobante %s requiere comprador", doc.Tipo))
		}
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{domain.ErrInvalidInput}, errs...)...)
	}
	return nil
}

// ValidateDetail valida una línea antes del cálculo: referencia de producto,
// cantidad y precio no negativos, descuento dentro del bruto.
func ValidateDetail(d *entity.DocumentDetail) error {
	if d == nil {
		return fmt.Errorf("%w: detalle nulo", domain.ErrInvalidInput)
	}
	var errs []error
	if d.ProductID == "" {
		errs = append(errs, fmt.Errorf("la línea requiere producto"))
	}
	if d.Quantity.IsNegative() {
		errs = append(errs, fmt.Errorf("cantidad negativa %s", d.Quantity))
	}
	if d.UnitPrice.IsNegative() {
		errs = append(errs, fmt.Errorf("precio unitario negativo %s", d.UnitPrice))
	}
	if d.Discount.IsNegative() {
		errs = append(errs, fmt.Errorf("descuento negativo %s", d.Discount))
	}
	if d.Discount.GreaterThan(d.Quantity.Mul(d.UnitPrice)) {
		errs = append(errs, fmt.Errorf("descuento %s mayor que el bruto de la línea", d.Discount))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{domain.ErrInvalidInput}, errs...)...)
	}
	return nil
}

// LineSubtotalMatches comprueba el invariante de línea
// subtotal == round(cantidad*precio - descuento, 2).
func LineSubtotalMatches(d *entity.DocumentDetail) bool {
	expected := d.Quantity.Mul(d.UnitPrice).Sub(d.Discount).Round(2)
	return d.Subtotal.Equal(expected)
}
