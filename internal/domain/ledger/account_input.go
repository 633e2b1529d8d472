package ledger

import (
	"errors"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// ValidateAccountInput valida los datos de creación de una cuenta contable:
// código y nombre obligatorios, tipo dentro del conjunto cerrado y nivel
// positivo. Acumula todas las violaciones con errors.Join.
func ValidateAccountInput(code, name, accountType string, level int) error {
	var errs []error
	if code == "" {
		errs = append(errs, fmt.Errorf("código de cuenta es obligatorio"))
	}
	if name == "" {
		errs = append(errs, fmt.Errorf("nombre de cuenta es obligatorio"))
	}
	if !entity.ValidAccountTypes[accountType] {
		errs = append(errs, fmt.Errorf("tipo de cuenta %q fuera del conjunto {asset, liability, equity, income, expense}", accountType))
	}
	if level < 1 {
		errs = append(errs, fmt.Errorf("nivel de cuenta debe ser un entero positivo, se recibió %d", level))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{domain.ErrInvalidInput}, errs...)...)
	}
	return nil
}
