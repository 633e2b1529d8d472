package sri

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgsri "github.com/jhoicas/Facturacion-api/pkg/sri"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeLine(t *testing.T) {
	c := NewTaxCalculator(pkgsri.DefaultTarifas())

	tests := []struct {
		name         string
		qty, price   string
		discount     string
		tarifa       string
		wantSubtotal string
		wantTax      string
	}{
		{"IVA 12 sin descuento", "10", "2.50", "0", pkgsri.TarifaDoce, "25.00", "3.00"},
		{"IVA 15 con descuento", "3", "10.00", "5.00", pkgsri.TarifaQuince, "25.00", "3.75"},
		{"tarifa cero", "1", "100.00", "0", pkgsri.TarifaCero, "100.00", "0.00"},
		{"exento", "2", "7.25", "0", pkgsri.TarifaExento, "14.50", "0.00"},
		{"redondeo half-up de la línea", "1", "0.125", "0", pkgsri.TarifaCero, "0.13", "0.00"},
		{"redondeo half-up del IVA", "1", "0.41", "0", pkgsri.TarifaDoce, "0.41", "0.05"}, // 0.0492 -> 0.05
		{"cantidad fraccionaria", "2.5", "3.333333", "0", pkgsri.TarifaDoce, "8.33", "1.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ComputeLine(dec(tt.qty), dec(tt.price), dec(tt.discount), tt.tarifa)
			require.NoError(t, err)
			assert.True(t, dec(tt.wantSubtotal).Equal(got.Subtotal), "subtotal: esperado %s, obtenido %s", tt.wantSubtotal, got.Subtotal)
			assert.True(t, dec(tt.wantTax).Equal(got.TaxValue), "impuesto: esperado %s, obtenido %s", tt.wantTax, got.TaxValue)
		})
	}
}

func TestComputeLine_Rechazos(t *testing.T) {
	c := NewTaxCalculator(pkgsri.DefaultTarifas())

	_, err := c.ComputeLine(dec("-1"), dec("1"), dec("0"), pkgsri.TarifaDoce)
	assert.Error(t, err, "cantidad negativa")

	_, err = c.ComputeLine(dec("1"), dec("-1"), dec("0"), pkgsri.TarifaDoce)
	assert.Error(t, err, "precio negativo")

	_, err = c.ComputeLine(dec("1"), dec("1"), dec("-0.01"), pkgsri.TarifaDoce)
	assert.Error(t, err, "descuento negativo")

	_, err = c.ComputeLine(dec("2"), dec("5"), dec("10.01"), pkgsri.TarifaDoce)
	assert.Error(t, err, "descuento mayor que el bruto")

	_, err = c.ComputeLine(dec("1"), dec("1"), dec("0"), "42")
	assert.Error(t, err, "código de tarifa desconocido")
}

func TestComputeTotals_CubetasPorTarifa(t *testing.T) {
	c := NewTaxCalculator(pkgsri.DefaultTarifas())

	l1, err := c.ComputeLine(dec("10"), dec("2.50"), dec("0"), pkgsri.TarifaDoce)
	require.NoError(t, err)
	l2, err := c.ComputeLine(dec("4"), dec("5.00"), dec("2.00"), pkgsri.TarifaDoce)
	require.NoError(t, err)
	l3, err := c.ComputeLine(dec("1"), dec("30.00"), dec("0"), pkgsri.TarifaCero)
	require.NoError(t, err)

	totals, err := c.ComputeTotals([]LineAmounts{*l1, *l2, *l3}, dec("2.00"))
	require.NoError(t, err)

	// Líneas: 25.00+3.00, 18.00+2.16, 30.00+0.00
	assert.True(t, dec("73.00").Equal(totals.TotalSinImpuestos), "obtenido %s", totals.TotalSinImpuestos)
	assert.True(t, dec("5.16").Equal(totals.TotalImpuestos), "obtenido %s", totals.TotalImpuestos)
	assert.True(t, dec("78.16").Equal(totals.ImporteTotal), "obtenido %s", totals.ImporteTotal)
	assert.True(t, dec("2.00").Equal(totals.TotalDescuento))

	require.Len(t, totals.Buckets, 2)
	assert.Equal(t, pkgsri.TarifaCero, totals.Buckets[0].Codigo)
	assert.True(t, dec("30.00").Equal(totals.Buckets[0].Base))
	assert.Equal(t, pkgsri.TarifaDoce, totals.Buckets[1].Codigo)
	assert.True(t, dec("43.00").Equal(totals.Buckets[1].Base))
	assert.True(t, dec("5.16").Equal(totals.Buckets[1].Valor))
}

func TestComputeTotals_SinLineas(t *testing.T) {
	c := NewTaxCalculator(pkgsri.DefaultTarifas())
	_, err := c.ComputeTotals(nil, decimal.Zero)
	assert.Error(t, err)
}

func TestComputeTotals_TarifaDesconocidaEnLinea(t *testing.T) {
	c := NewTaxCalculator(pkgsri.DefaultTarifas())
	_, err := c.ComputeTotals([]LineAmounts{{TarifaCodigo: "42", Subtotal: dec("1.00")}}, decimal.Zero)
	assert.Error(t, err)
}
