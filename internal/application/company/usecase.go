// Package company administra las empresas emisoras (tenants).
package company

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	pkgsri "github.com/jhoicas/Facturacion-api/pkg/sri"
)

// Usecase casos de uso de empresas emisoras.
type Usecase struct {
	companies repository.CompanyRepository
	logger    zerolog.Logger
}

// NewUsecase construye el caso de uso.
func NewUsecase(companies repository.CompanyRepository, logger zerolog.Logger) *Usecase {
	return &Usecase{companies: companies, logger: logger}
}

// Create da de alta una empresa emisora. El RUC se valida con dígito
// verificador y es inmutable después del alta.
func (u *Usecase) Create(req *dto.CreateCompanyRequest) (*entity.Company, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: la razón social es requerida", domain.ErrInvalidInput)
	}
	if err := pkgsri.ValidateRUC(req.RUC); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}
	ambiente := req.Ambiente
	if ambiente == "" {
		ambiente = pkgsri.AmbientePruebas
	}
	if !pkgsri.ValidAmbientes[ambiente] {
		return nil, fmt.Errorf("%w: ambiente %q desconocido", domain.ErrInvalidInput, ambiente)
	}

	company := &entity.Company{
		ID:              uuid.NewString(),
		Name:            req.Name,
		TradeName:       req.TradeName,
		RUC:             req.RUC,
		Ambiente:        ambiente,
		Establecimiento: defaultSerie(req.Establecimiento),
		PuntoEmision:    defaultSerie(req.PuntoEmision),
		Address:         req.Address,
		Phone:           req.Phone,
		Email:           req.Email,
		Status:          "active",
	}
	if err := u.companies.Create(company); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("%w: ya existe una empresa con RUC %s", domain.ErrDuplicate, req.RUC)
		}
		return nil, fmt.Errorf("crear empresa: %w", err)
	}

	u.logger.Info().Str("company_id", company.ID).Str("ruc", company.RUC).Msg("empresa creada")
	return company, nil
}

// GetByID devuelve una empresa por ID.
func (u *Usecase) GetByID(id string) (*entity.Company, error) {
	return u.companies.GetByID(id)
}

// List devuelve las empresas paginadas.
func (u *Usecase) List(limit, offset int) ([]*entity.Company, error) {
	return u.companies.List(limit, offset)
}

func defaultSerie(s string) string {
	if s == "" {
		return "001"
	}
	return s
}
