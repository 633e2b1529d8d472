package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o servicio facturable.
// El motor lo consume como referencia de solo lectura: el catálogo y su stock
// pertenecen a otro sistema.
type Product struct {
	ID           string
	CompanyID    string
	SKU          string // codigoPrincipal en el XML; único por empresa
	Name         string
	Description  string
	Price        decimal.Decimal // precio de venta sugerido
	TarifaCodigo string          // codigoPorcentaje IVA por defecto ("0", "2", "4", ...)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
