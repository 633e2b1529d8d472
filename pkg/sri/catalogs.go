// Package sri contiene catálogos y validaciones alineados a la Ficha Técnica
// de Comprobantes Electrónicos del SRI (Ecuador), esquema offline v1.1.0.
package sri

import "github.com/shopspring/decimal"

// =============================================================================
// Tabla 3 - Tipos de comprobante (codDoc)
// Conjunto cerrado: cualquier otro código se rechaza en la capa de dominio.
// =============================================================================

const (
	DocFactura           = "01" // Factura de venta
	DocLiquidacionCompra = "03" // Liquidación de compra de bienes y prestación de servicios
	DocNotaCredito       = "04" // Nota de crédito
	DocNotaDebito        = "05" // Nota de débito
	DocGuiaRemision      = "06" // Guía de remisión
	DocRetencion         = "07" // Comprobante de retención
)

// ValidDocumentTypes contiene los códigos de comprobante admitidos.
var ValidDocumentTypes = map[string]bool{
	DocFactura:           true,
	DocLiquidacionCompra: true,
	DocNotaCredito:       true,
	DocNotaDebito:        true,
	DocGuiaRemision:      true,
	DocRetencion:         true,
}

// DocumentRootName devuelve el nombre del elemento raíz del XML por tipo de comprobante.
func DocumentRootName(codDoc string) string {
	switch codDoc {
	case DocFactura:
		return "factura"
	case DocLiquidacionCompra:
		return "liquidacionCompra"
	case DocNotaCredito:
		return "notaCredito"
	case DocNotaDebito:
		return "notaDebito"
	case DocGuiaRemision:
		return "guiaRemision"
	case DocRetencion:
		return "comprobanteRetencion"
	default:
		return ""
	}
}

// =============================================================================
// Tabla 4 - Ambiente y Tabla 2 - Tipo de emisión
// =============================================================================

const (
	AmbientePruebas    = "1" // celcer.sri.gob.ec
	AmbienteProduccion = "2" // cel.sri.gob.ec

	EmisionNormal = "1" // Único tipo de emisión vigente en el esquema offline
)

// ValidAmbientes contiene los códigos de ambiente admitidos.
var ValidAmbientes = map[string]bool{
	AmbientePruebas:    true,
	AmbienteProduccion: true,
}

// =============================================================================
// Tabla 6 - Tipos de identificación del comprador
// =============================================================================

const (
	IdentificacionRUC             = "04"
	IdentificacionCedula          = "05"
	IdentificacionPasaporte       = "06"
	IdentificacionConsumidorFinal = "07"
	IdentificacionExterior        = "08"
)

// RUCConsumidorFinal es la identificación genérica de ventas a consumidor final.
const RUCConsumidorFinal = "9999999999999"

// =============================================================================
// Tabla 17 - Tarifas de IVA (codigoPorcentaje)
// La tarifa vigente entra por configuración: TarifaTable es un valor inmutable
// que se inyecta en TaxCalculator/DocumentBuilder, no estado global.
// =============================================================================

const (
	TarifaCero     = "0" // 0%
	TarifaDoce     = "2" // 12% (tarifa general histórica)
	TarifaCatorce  = "3" // 14%
	TarifaQuince   = "4" // 15% (tarifa general vigente)
	TarifaCinco    = "5" // 5%
	TarifaNoObjeto = "6" // No objeto de impuesto
	TarifaExento   = "7" // Exento de IVA
	TarifaOcho     = "8" // 8% (zonas de régimen especial)
)

// CodigoImpuestoIVA es el código de impuesto IVA en los bloques totalImpuesto/impuesto.
const CodigoImpuestoIVA = "2"

// TarifaTable asocia codigoPorcentaje -> porcentaje (ej: "2" -> 12).
// Es un valor de solo lectura una vez construido.
type TarifaTable map[string]decimal.Decimal

// DefaultTarifas devuelve la tabla de tarifas de IVA del SRI.
func DefaultTarifas() TarifaTable {
	return TarifaTable{
		TarifaCero:     decimal.Zero,
		TarifaDoce:     decimal.NewFromInt(12),
		TarifaCatorce:  decimal.NewFromInt(14),
		TarifaQuince:   decimal.NewFromInt(15),
		TarifaCinco:    decimal.NewFromInt(5),
		TarifaNoObjeto: decimal.Zero,
		TarifaExento:   decimal.Zero,
		TarifaOcho:     decimal.NewFromInt(8),
	}
}

// Porcentaje devuelve la tarifa para un codigoPorcentaje. ok=false si el código no existe.
func (t TarifaTable) Porcentaje(codigo string) (decimal.Decimal, bool) {
	p, ok := t[codigo]
	return p, ok
}
