package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación de AccountRepository sobre PostgreSQL.
// La unicidad (company_id, code) la exige la constraint de la tabla.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador.
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

const accountColumns = `id, company_id, code, name, type, parent_code, level, is_detail, active, created_at, updated_at`

// Create persiste una cuenta nueva del plan.
func (r *AccountRepo) Create(account *entity.Account) error {
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		account.ID, account.CompanyID, account.Code, account.Name, account.Type,
		account.ParentCode, account.Level, account.IsDetail, account.Active,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: cuenta %s", domain.ErrDuplicate, account.Code)
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByCode obtiene una cuenta por (empresa, código).
func (r *AccountRepo) GetByCode(companyID, code string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 AND code = $2`
	var a entity.Account
	err := r.q.QueryRow(context.Background(), query, companyID, code).Scan(
		&a.ID, &a.CompanyID, &a.Code, &a.Name, &a.Type, &a.ParentCode,
		&a.Level, &a.IsDetail, &a.Active, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: cuenta %s", domain.ErrNotFound, code)
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

// ListByCompany devuelve el plan de cuentas completo de la empresa.
func (r *AccountRepo) ListByCompany(companyID string) ([]*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 ORDER BY code`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var list []*entity.Account
	for rows.Next() {
		var a entity.Account
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.Code, &a.Name, &a.Type, &a.ParentCode,
			&a.Level, &a.IsDetail, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// Update actualiza nombre y estado de la cuenta. El código, el tipo y la
// posición jerárquica son inmutables una vez creada.
func (r *AccountRepo) Update(account *entity.Account) error {
	account.UpdatedAt = time.Now()
	query := `
		UPDATE accounts SET name = $3, is_detail = $4, active = $5, updated_at = $6
		WHERE company_id = $1 AND code = $2`
	cmd, err := r.q.Exec(context.Background(), query,
		account.CompanyID, account.Code, account.Name, account.IsDetail, account.Active, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: cuenta %s", domain.ErrNotFound, account.Code)
	}
	return nil
}
