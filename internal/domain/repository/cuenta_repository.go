package repository

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// AccountRepository define el puerto de persistencia del plan de cuentas.
// La unicidad del código por empresa se exige en la creación (constraint
// única), no como verificación posterior.
type AccountRepository interface {
	Create(account *entity.Account) error
	GetByCode(companyID, code string) (*entity.Account, error)
	ListByCompany(companyID string) ([]*entity.Account, error)
	Update(account *entity.Account) error
}
