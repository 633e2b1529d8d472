// Package accounting contiene los casos de uso del plan de cuentas y el libro
// diario de partida doble.
package accounting

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/ledger"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// ChartUsecase administra el plan de cuentas jerárquico de cada empresa.
type ChartUsecase struct {
	accounts repository.AccountRepository
	logger   zerolog.Logger
}

// NewChartUsecase construye el caso de uso.
func NewChartUsecase(accounts repository.AccountRepository, logger zerolog.Logger) *ChartUsecase {
	return &ChartUsecase{accounts: accounts, logger: logger}
}

// CreateAccount da de alta una cuenta validando unicidad del código y
// consistencia jerárquica (padre existente, nivel = padre+1, tipo coherente).
func (u *ChartUsecase) CreateAccount(companyID string, req *dto.CreateAccountRequest) (*entity.Account, error) {
	level := 1
	if req.ParentCode != nil {
		parent, err := u.accounts.GetByCode(companyID, *req.ParentCode)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: el padre %s no existe", domain.ErrHierarchy, *req.ParentCode)
			}
			return nil, fmt.Errorf("cargar cuenta padre: %w", err)
		}
		if parent.Type != req.Type {
			return nil, fmt.Errorf("%w: la cuenta %s de tipo %s no puede colgar del padre %s de tipo %s",
				domain.ErrHierarchy, req.Code, req.Type, parent.Code, parent.Type)
		}
		level = parent.Level + 1
	}

	if err := ledger.ValidateAccountInput(req.Code, req.Name, req.Type, level); err != nil {
		return nil, err
	}
	if existing, err := u.accounts.GetByCode(companyID, req.Code); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: el código %s ya existe en el plan", domain.ErrDuplicate, req.Code)
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("verificar unicidad de %s: %w", req.Code, err)
	}

	account := &entity.Account{
		ID:         uuid.NewString(),
		CompanyID:  companyID,
		Code:       req.Code,
		Name:       req.Name,
		Type:       req.Type,
		ParentCode: req.ParentCode,
		Level:      level,
		IsDetail:   req.IsDetail,
		Active:     true,
	}
	if err := u.accounts.Create(account); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("%w: el código %s ya existe en el plan", domain.ErrDuplicate, req.Code)
		}
		return nil, fmt.Errorf("crear cuenta %s: %w", req.Code, err)
	}

	u.logger.Info().
		Str("company_id", companyID).
		Str("code", account.Code).
		Str("type", account.Type).
		Int("level", account.Level).
		Msg("cuenta creada")
	return account, nil
}

// GetAccount devuelve una cuenta por código.
func (u *ChartUsecase) GetAccount(companyID, code string) (*entity.Account, error) {
	return u.accounts.GetByCode(companyID, code)
}

// ListAccounts devuelve el plan de cuentas completo de la empresa.
func (u *ChartUsecase) ListAccounts(companyID string) ([]*entity.Account, error) {
	return u.accounts.ListByCompany(companyID)
}

// Deactivate marca una cuenta como inactiva: deja de admitir movimientos pero
// conserva su historial. Las cuentas nunca se borran.
func (u *ChartUsecase) Deactivate(companyID, code string) error {
	account, err := u.accounts.GetByCode(companyID, code)
	if err != nil {
		return err
	}
	if !account.Active {
		return nil
	}
	account.Active = false
	if err := u.accounts.Update(account); err != nil {
		return fmt.Errorf("desactivar cuenta %s: %w", code, err)
	}
	u.logger.Info().Str("company_id", companyID).Str("code", code).Msg("cuenta desactivada")
	return nil
}

// Resolver construye el resolvedor de dominio sobre el plan actual de la empresa.
func (u *ChartUsecase) Resolver(companyID string) (*ledger.Resolver, error) {
	accounts, err := u.accounts.ListByCompany(companyID)
	if err != nil {
		return nil, fmt.Errorf("cargar plan de cuentas de %s: %w", companyID, err)
	}
	return ledger.NewResolver(accounts)
}
