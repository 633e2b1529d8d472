package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, trade_name, ruc, ambiente, establecimiento, punto_emision,
	address, phone, email, status, created_at, updated_at`

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(company *entity.Company) error {
	now := time.Now()
	if company.CreatedAt.IsZero() {
		company.CreatedAt = now
	}
	company.UpdatedAt = now
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		company.ID, company.Name, company.TradeName, company.RUC,
		company.Ambiente, company.Establecimiento, company.PuntoEmision,
		company.Address, company.Phone, company.Email, company.Status,
		company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: RUC %s ya registrado", domain.ErrDuplicate, company.RUC)
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByRUC obtiene una empresa por RUC.
func (r *CompanyRepo) GetByRUC(ruc string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE ruc = $1`
	return r.scanOne(query, ruc)
}

// Update actualiza los campos mutables de la empresa. El RUC no se toca:
// cambiarlo invalidaría las claves de acceso ya emitidas.
func (r *CompanyRepo) Update(company *entity.Company) error {
	company.UpdatedAt = time.Now()
	query := `
		UPDATE companies
		SET name = $2, trade_name = $3, ambiente = $4, establecimiento = $5,
		    punto_emision = $6, address = $7, phone = $8, email = $9,
		    status = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		company.ID, company.Name, company.TradeName, company.Ambiente,
		company.Establecimiento, company.PuntoEmision, company.Address,
		company.Phone, company.Email, company.Status, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: empresa %s", domain.ErrNotFound, company.ID)
	}
	return nil
}

// List devuelve empresas con paginación.
func (r *CompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var list []*entity.Company
	for rows.Next() {
		var c entity.Company
		if err := scanCompany(rows.Scan, &c); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func (r *CompanyRepo) scanOne(query string, arg any) (*entity.Company, error) {
	var c entity.Company
	row := r.q.QueryRow(context.Background(), query, arg)
	if err := scanCompany(row.Scan, &c); err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: empresa", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

func scanCompany(scan func(...any) error, c *entity.Company) error {
	return scan(
		&c.ID, &c.Name, &c.TradeName, &c.RUC, &c.Ambiente,
		&c.Establecimiento, &c.PuntoEmision, &c.Address, &c.Phone,
		&c.Email, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
}
