package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	r, err := NewResolver(testChart())
	require.NoError(t, err)
	return NewValidator(r)
}

func balancedEntry() *entity.JournalEntry {
	return &entity.JournalEntry{
		Description: "Venta de contado",
		Lines: []entity.JournalLine{
			{AccountCode: "1.1.01", Debit: dec("112.00")},
			{AccountCode: "4.1", Credit: dec("112.00")},
		},
	}
}

func TestValidate_AsientoCuadrado(t *testing.T) {
	v := newTestValidator(t)
	assert.NoError(t, v.Validate(balancedEntry()))
}

func TestValidate_MultiplesLineas(t *testing.T) {
	v := newTestValidator(t)
	e := &entity.JournalEntry{
		Lines: []entity.JournalLine{
			{AccountCode: "1.1.01", Debit: dec("50.00")},
			{AccountCode: "1.1.02", Debit: dec("62.00")},
			{AccountCode: "4.1", Credit: dec("112.00")},
		},
	}
	assert.NoError(t, v.Validate(e))
}

func TestValidate_Descuadre(t *testing.T) {
	v := newTestValidator(t)
	e := balancedEntry()
	e.Lines[1].Credit = dec("112.01")

	err := v.Validate(e)
	assert.ErrorIs(t, err, domain.ErrImbalance)
	assert.Contains(t, err.Error(), "112.00")
	assert.Contains(t, err.Error(), "112.01")
}

func TestValidate_DescuadrePorUnCentavo(t *testing.T) {
	// La comparación es en centavos enteros: un centavo de diferencia descuadra,
	// sin tolerancias de punto flotante.
	v := newTestValidator(t)
	e := &entity.JournalEntry{
		Lines: []entity.JournalLine{
			{AccountCode: "1.1.01", Debit: dec("0.01")},
			{AccountCode: "4.1", Credit: dec("0.02")},
		},
	}
	assert.ErrorIs(t, v.Validate(e), domain.ErrImbalance)
}

func TestValidate_MenosDeDosLineas(t *testing.T) {
	v := newTestValidator(t)

	assert.ErrorIs(t, v.Validate(&entity.JournalEntry{}), domain.ErrInvalidInput)

	e := &entity.JournalEntry{Lines: []entity.JournalLine{{AccountCode: "1.1.01", Debit: dec("1.00")}}}
	assert.ErrorIs(t, v.Validate(e), domain.ErrInvalidInput)
}

func TestValidate_LineasInvalidas(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name   string
		mutate func(e *entity.JournalEntry)
		want   error
	}{
		{"débito y crédito en la misma línea", func(e *entity.JournalEntry) {
			e.Lines[0].Credit = dec("5.00")
		}, domain.ErrInvalidInput},
		{"línea sin monto", func(e *entity.JournalEntry) {
			e.Lines[0].Debit = decimal.Zero
		}, domain.ErrInvalidInput},
		{"monto negativo", func(e *entity.JournalEntry) {
			e.Lines[0].Debit = dec("-112.00")
		}, domain.ErrInvalidInput},
		{"cuenta agrupadora", func(e *entity.JournalEntry) {
			e.Lines[0].AccountCode = "1.1"
		}, domain.ErrNotDetailAccount},
		{"cuenta inactiva", func(e *entity.JournalEntry) {
			e.Lines[0].AccountCode = "1.1.03"
		}, domain.ErrNotDetailAccount},
		{"cuenta inexistente", func(e *entity.JournalEntry) {
			e.Lines[0].AccountCode = "7.7.77"
		}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := balancedEntry()
			tt.mutate(e)
			assert.ErrorIs(t, v.Validate(e), tt.want)
		})
	}
}

func TestValidate_AcumulaViolacionesDeLinea(t *testing.T) {
	v := newTestValidator(t)
	// agrupadora, sin monto e inexistente: las tres violaciones deben reportarse
	e := &entity.JournalEntry{
		Lines: []entity.JournalLine{
			{AccountCode: "1.1", Debit: dec("10.00")},
			{AccountCode: "4.1"},
			{AccountCode: "9.9", Credit: dec("10.00")},
		},
	}
	err := v.Validate(e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 1")
	assert.Contains(t, err.Error(), "línea 2")
	assert.Contains(t, err.Error(), "línea 3")
}
