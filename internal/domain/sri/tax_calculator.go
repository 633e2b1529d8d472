package sri

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	pkgsri "github.com/jhoicas/Facturacion-api/pkg/sri"
)

// TaxCalculator calcula subtotales e impuestos por línea y por comprobante.
// La tabla de tarifas entra por construcción (valor inmutable), no como
// estado global: un cambio de tarifa general es un cambio de configuración.
//
// Política de redondeo: los valores monetarios se redondean half-up a 2
// decimales a nivel de línea y OTRA VEZ a nivel de totales; no se acumulan
// subcentavos sin redondear entre líneas. Así cuadran las conciliaciones del SRI.
type TaxCalculator struct {
	tarifas pkgsri.TarifaTable
}

// NewTaxCalculator construye el servicio con la tabla de tarifas vigente.
func NewTaxCalculator(tarifas pkgsri.TarifaTable) *TaxCalculator {
	return &TaxCalculator{tarifas: tarifas}
}

// LineAmounts es el resultado de una línea: base imponible e IVA, ambos a 2 decimales.
type LineAmounts struct {
	TarifaCodigo string
	Subtotal     decimal.Decimal // round(cantidad*precio - descuento, 2)
	TaxValue     decimal.Decimal // round(subtotal * tarifa, 2)
}

// TaxBucket agrupa los totales de un codigoPorcentaje (bloque totalImpuesto del XML).
type TaxBucket struct {
	Codigo     string
	Porcentaje decimal.Decimal
	Base       decimal.Decimal
	Valor      decimal.Decimal
}

// DocumentTotals son los totales del comprobante: cubetas por tarifa y total general.
type DocumentTotals struct {
	Buckets           []TaxBucket // ordenadas por código para salida determinista
	TotalSinImpuestos decimal.Decimal
	TotalDescuento    decimal.Decimal
	TotalImpuestos    decimal.Decimal
	ImporteTotal      decimal.Decimal
}

// ComputeLine calcula subtotal e IVA de una línea.
// Restricciones: cantidad y precio unitario >= 0; descuento >= 0 y <= bruto;
// código de tarifa debe existir en la tabla.
func (c *TaxCalculator) ComputeLine(quantity, unitPrice, discount decimal.Decimal, tarifaCodigo string) (*LineAmounts, error) {
	if quantity.IsNegative() {
		return nil, fmt.Errorf("sri: cantidad negativa %s", quantity)
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("sri: precio unitario negativo %s", unitPrice)
	}
	if discount.IsNegative() {
		return nil, fmt.Errorf("sri: descuento negativo %s", discount)
	}
	gross := quantity.Mul(unitPrice)
	if discount.GreaterThan(gross) {
		return nil, fmt.Errorf("sri: descuento %s mayor que el valor bruto %s", discount, gross)
	}
	pct, ok := c.tarifas.Porcentaje(tarifaCodigo)
	if !ok {
		return nil, fmt.Errorf("sri: código de tarifa %q desconocido", tarifaCodigo)
	}

	subtotal := gross.Sub(discount).Round(2)
	tax := subtotal.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)
	return &LineAmounts{TarifaCodigo: tarifaCodigo, Subtotal: subtotal, TaxValue: tax}, nil
}

// ComputeTotals agrupa líneas por tarifa, suma base e impuesto de cada cubeta
// y calcula el total general. Las líneas ya vienen redondeadas por ComputeLine;
// las sumas se redondean nuevamente a 2 decimales.
func (c *TaxCalculator) ComputeTotals(lines []LineAmounts, totalDescuento decimal.Decimal) (*DocumentTotals, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("sri: un comprobante requiere al menos una línea")
	}
	byCodigo := make(map[string]*TaxBucket)
	for _, l := range lines {
		pct, ok := c.tarifas.Porcentaje(l.TarifaCodigo)
		if !ok {
			return nil, fmt.Errorf("sri: código de tarifa %q desconocido", l.TarifaCodigo)
		}
		b, exists := byCodigo[l.TarifaCodigo]
		if !exists {
			b = &TaxBucket{Codigo: l.TarifaCodigo, Porcentaje: pct}
			byCodigo[l.TarifaCodigo] = b
		}
		b.Base = b.Base.Add(l.Subtotal)
		b.Valor = b.Valor.Add(l.TaxValue)
	}

	totals := &DocumentTotals{TotalDescuento: totalDescuento.Round(2)}
	for _, b := range byCodigo {
		b.Base = b.Base.Round(2)
		b.Valor = b.Valor.Round(2)
		totals.Buckets = append(totals.Buckets, *b)
		totals.TotalSinImpuestos = totals.TotalSinImpuestos.Add(b.Base)
		totals.TotalImpuestos = totals.TotalImpuestos.Add(b.Valor)
	}
	sort.Slice(totals.Buckets, func(i, j int) bool {
		return totals.Buckets[i].Codigo < totals.Buckets[j].Codigo
	})

	totals.TotalSinImpuestos = totals.TotalSinImpuestos.Round(2)
	totals.TotalImpuestos = totals.TotalImpuestos.Round(2)
	totals.ImporteTotal = totals.TotalSinImpuestos.Add(totals.TotalImpuestos).Round(2)
	return totals, nil
}
