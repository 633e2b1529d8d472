package sri

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	pkgsri "github.com/jhoicas/Facturacion-api/pkg/sri"
)

func validHeader() *entity.Document {
	return &entity.Document{
		Tipo:            pkgsri.DocFactura,
		Establecimiento: "001",
		PuntoEmision:    "001",
		Secuencial:      "000000001",
		FechaEmision:    time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		CustomerID:      "cli-1",
	}
}

func TestValidateDocumentHeader(t *testing.T) {
	assert.NoError(t, ValidateDocumentHeader(validHeader()))

	tests := []struct {
		name   string
		mutate func(d *entity.Document)
	}{
		{"tipo fuera de catálogo", func(d *entity.Document) { d.Tipo = "99" }},
		{"establecimiento de 2 dígitos", func(d *entity.Document) { d.Establecimiento = "01" }},
		{"punto de emisión no numérico", func(d *entity.Document) { d.PuntoEmision = "0A1" }},
		{"secuencial sin relleno", func(d *entity.Document) { d.Secuencial = "1" }},
		{"sin fecha de emisión", func(d *entity.Document) { d.FechaEmision = time.Time{} }},
		{"factura sin comprador", func(d *entity.Document) { d.CustomerID = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validHeader()
			tt.mutate(d)
			err := ValidateDocumentHeader(d)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestValidateDocumentHeader_LiquidacionRequiereProveedor(t *testing.T) {
	d := validHeader()
	d.Tipo = pkgsri.DocLiquidacionCompra
	d.CustomerID = ""
	assert.ErrorIs(t, ValidateDocumentHeader(d), domain.ErrInvalidInput)

	d.SupplierID = "prov-1"
	assert.NoError(t, ValidateDocumentHeader(d))
}

func TestValidateDocumentHeader_AcumulaViolaciones(t *testing.T) {
	d := validHeader()
	d.Tipo = "99"
	d.Establecimiento = "1"
	d.Secuencial = "abc"

	err := ValidateDocumentHeader(d)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "tipo de comprobante")
	assert.Contains(t, err.Error(), "establecimiento")
	assert.Contains(t, err.Error(), "secuencial")
}

func TestValidateDetail(t *testing.T) {
	ok := &entity.DocumentDetail{
		ProductID: "prod-1",
		Quantity:  dec("2"),
		UnitPrice: dec("5.00"),
		Discount:  dec("1.00"),
	}
	assert.NoError(t, ValidateDetail(ok))

	tests := []struct {
		name   string
		mutate func(d *entity.DocumentDetail)
	}{
		{"sin producto", func(d *entity.DocumentDetail) { d.ProductID = "" }},
		{"cantidad negativa", func(d *entity.DocumentDetail) { d.Quantity = dec("-1") }},
		{"precio negativo", func(d *entity.DocumentDetail) { d.UnitPrice = dec("-0.01") }},
		{"descuento negativo", func(d *entity.DocumentDetail) { d.Discount = dec("-1") }},
		{"descuento mayor que el bruto", func(d *entity.DocumentDetail) { d.Discount = dec("10.01") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := *ok
			tt.mutate(&d)
			assert.ErrorIs(t, ValidateDetail(&d), domain.ErrInvalidInput)
		})
	}
}

func TestLineSubtotalMatches(t *testing.T) {
	d := &entity.DocumentDetail{
		Quantity:  dec("10"),
		UnitPrice: dec("2.50"),
		Discount:  dec("0"),
		Subtotal:  dec("25.00"),
	}
	assert.True(t, LineSubtotalMatches(d))

	d.Subtotal = dec("25.01")
	assert.False(t, LineSubtotalMatches(d))
}
