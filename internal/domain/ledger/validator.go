package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// Validator aplica las reglas de partida doble sobre un asiento antes de
// contabilizarlo. La comparación de cuadre se hace en centavos enteros, nunca
// con tolerancia en punto flotante.
type Validator struct {
	resolver *Resolver
}

// NewValidator construye el validador sobre el plan de cuentas de la empresa.
func NewValidator(resolver *Resolver) *Validator {
	return &Validator{resolver: resolver}
}

// Validate verifica el asiento completo:
//   - al menos dos líneas;
//   - cada línea con exactamente uno de débito/crédito mayor que cero;
//   - cada cuenta referida es de detalle y está activa;
//   - suma de débitos == suma de créditos al centavo.
//
// Acumula todas las violaciones de línea; el descuadre se reporta con
// domain.ErrImbalance.
func (v *Validator) Validate(e *entity.JournalEntry) error {
	if e == nil {
		return fmt.Errorf("%w: asiento nulo", domain.ErrInvalidInput)
	}
	if len(e.Lines) < 2 {
		return fmt.Errorf("%w: un asiento requiere al menos dos líneas, tiene %d", domain.ErrInvalidInput, len(e.Lines))
	}

	var errs []error
	for i, l := range e.Lines {
		if err := v.validateLine(i, &l); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{domain.ErrInvalidInput}, errs...)...)
	}

	debits := cents(e.TotalDebits())
	credits := cents(e.TotalCredits())
	if debits != credits {
		return fmt.Errorf("%w: débitos %s vs créditos %s",
			domain.ErrImbalance, e.TotalDebits().StringFixed(2), e.TotalCredits().StringFixed(2))
	}
	return nil
}

func (v *Validator) validateLine(i int, l *entity.JournalLine) error {
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return fmt.Errorf("línea %d: los montos no admiten negativos", i+1)
	}
	hasDebit := l.Debit.IsPositive()
	hasCredit := l.Credit.IsPositive()
	if hasDebit == hasCredit {
		return fmt.Errorf("línea %d: exactamente uno de débito/crédito debe ser mayor que cero", i+1)
	}
	if _, err := v.resolver.AssertPostable(l.AccountCode); err != nil {
		return fmt.Errorf("línea %d: %w", i+1, err)
	}
	return nil
}

// cents redondea a 2 decimales y lleva el monto a centavos enteros.
func cents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}
