// Package ledger contiene la lógica de dominio del libro contable: resolución
// de cuentas en el plan jerárquico y validación de asientos de partida doble.
package ledger

import (
	"errors"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// Resolver navega el plan de cuentas de una empresa. Se construye desde la
// lista plana de cuentas y resuelve padre/hijo por código, nunca por punteros.
type Resolver struct {
	byCode map[string]*entity.Account
}

// NewResolver indexa las cuentas por código. Los códigos duplicados se
// rechazan: el código es único por empresa.
func NewResolver(accounts []*entity.Account) (*Resolver, error) {
	byCode := make(map[string]*entity.Account, len(accounts))
	for _, a := range accounts {
		if _, exists := byCode[a.Code]; exists {
			return nil, fmt.Errorf("%w: código de cuenta %s repetido", domain.ErrDuplicate, a.Code)
		}
		byCode[a.Code] = a
	}
	return &Resolver{byCode: byCode}, nil
}

// Resolve devuelve la cuenta por código o domain.ErrNotFound.
func (r *Resolver) Resolve(code string) (*entity.Account, error) {
	a, ok := r.byCode[code]
	if !ok {
		return nil, fmt.Errorf("%w: cuenta %s", domain.ErrNotFound, code)
	}
	return a, nil
}

// Parent devuelve la cuenta padre, o nil si es de primer nivel.
func (r *Resolver) Parent(a *entity.Account) (*entity.Account, error) {
	if a.ParentCode == nil {
		return nil, nil
	}
	return r.Resolve(*a.ParentCode)
}

// ValidateHierarchy verifica los invariantes estructurales de una cuenta
// dentro del plan: el padre referido existe y el nivel es padre+1 (o 1 si no
// tiene padre).
func (r *Resolver) ValidateHierarchy(a *entity.Account) error {
	if a.ParentCode == nil {
		if a.Level != 1 {
			return fmt.Errorf("%w: la cuenta %s no tiene padre y declara nivel %d", domain.ErrHierarchy, a.Code, a.Level)
		}
		return nil
	}
	parent, err := r.Resolve(*a.ParentCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: la cuenta %s refiere al padre inexistente %s", domain.ErrHierarchy, a.Code, *a.ParentCode)
		}
		return err
	}
	if a.Level != parent.Level+1 {
		return fmt.Errorf("%w: la cuenta %s declara nivel %d bajo el padre %s de nivel %d",
			domain.ErrHierarchy, a.Code, a.Level, parent.Code, parent.Level)
	}
	return nil
}

// AssertPostable verifica que la cuenta admita movimientos del libro diario:
// debe existir, estar activa y ser de detalle. Las cuentas agrupadoras solo
// acumulan saldos por jerarquía.
func (r *Resolver) AssertPostable(code string) (*entity.Account, error) {
	a, err := r.Resolve(code)
	if err != nil {
		return nil, err
	}
	if !a.Active {
		return nil, fmt.Errorf("%w: la cuenta %s está inactiva", domain.ErrNotDetailAccount, code)
	}
	if !a.IsDetail {
		return nil, fmt.Errorf("%w: la cuenta %s es agrupadora, no recibe movimientos", domain.ErrNotDetailAccount, code)
	}
	return a, nil
}
