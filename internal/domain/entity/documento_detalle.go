package entity

import "github.com/shopspring/decimal"

// DocumentDetail representa una línea de detalle de un comprobante.
// Invariante: Subtotal = round(Quantity*UnitPrice - Discount, 2).
type DocumentDetail struct {
	ID           string
	DocumentID   string
	ProductID    string
	Description  string
	Quantity     decimal.Decimal // hasta 6 decimales
	UnitPrice    decimal.Decimal // hasta 6 decimales
	Discount     decimal.Decimal
	TarifaCodigo string          // codigoPorcentaje SRI ("0", "2", "4", ...)
	Subtotal     decimal.Decimal // precioTotalSinImpuesto
	TaxValue     decimal.Decimal // valor del IVA de la línea
}
