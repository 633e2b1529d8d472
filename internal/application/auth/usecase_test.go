package auth

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/pkg/config"
	"github.com/jhoicas/Facturacion-api/pkg/jwt"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) Create(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) FindByEmail(email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email && u.CompanyID == companyID {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type memCompanyRepo struct {
	companies map[string]*entity.Company
}

func (r *memCompanyRepo) Create(c *entity.Company) error { return nil }
func (r *memCompanyRepo) Update(c *entity.Company) error { return nil }

func (r *memCompanyRepo) GetByID(id string) (*entity.Company, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (r *memCompanyRepo) GetByRUC(string) (*entity.Company, error) { return nil, domain.ErrNotFound }
func (r *memCompanyRepo) List(int, int) ([]*entity.Company, error) { return nil, nil }

var testJWT = config.JWTConfig{Secret: "secreto-de-test-no-productivo", Expiration: 60, Issuer: "facturacion-api"}

func newAuthFixture(t *testing.T) (*Usecase, *memUserRepo) {
	t.Helper()
	users := newMemUserRepo()
	companies := &memCompanyRepo{companies: map[string]*entity.Company{
		"co-1": {ID: "co-1", Name: "Comercial Andina S.A."},
	}}
	return NewUsecase(users, companies, testJWT, zerolog.Nop()), users
}

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		CompanyID: "co-1",
		Email:     "maria@example.com",
		Password:  "contrasena-larga",
		Name:      "María Quispe",
		Role:      entity.RoleContador,
	}
}

func TestRegister(t *testing.T) {
	u, users := newAuthFixture(t)

	resp, err := u.Register(registerRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "maria@example.com", resp.User.Email)
	assert.Equal(t, entity.RoleContador, resp.User.Role)

	// El token lleva el contexto de tenant
	userID, companyID, role, err := jwt.Parse(testJWT.Secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, "co-1", companyID)
	assert.Equal(t, entity.RoleContador, role)

	// La contraseña jamás se guarda en claro
	saved, err := users.GetByID(resp.User.ID)
	require.NoError(t, err)
	assert.NotContains(t, saved.PasswordHash, "contrasena-larga")
}

func TestRegister_Rechazos(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *dto.RegisterRequest)
		want   error
	}{
		{"email inválido", func(r *dto.RegisterRequest) { r.Email = "sin-arroba" }, domain.ErrInvalidInput},
		{"contraseña corta", func(r *dto.RegisterRequest) { r.Password = "corta" }, domain.ErrInvalidInput},
		{"rol desconocido", func(r *dto.RegisterRequest) { r.Role = "gerente" }, domain.ErrInvalidInput},
		{"empresa inexistente", func(r *dto.RegisterRequest) { r.CompanyID = "co-9" }, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, _ := newAuthFixture(t)
			req := registerRequest()
			tt.mutate(req)
			_, err := u.Register(req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegister_EmailDuplicadoEnLaEmpresa(t *testing.T) {
	u, _ := newAuthFixture(t)

	_, err := u.Register(registerRequest())
	require.NoError(t, err)

	_, err = u.Register(registerRequest())
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	u, _ := newAuthFixture(t)
	_, err := u.Register(registerRequest())
	require.NoError(t, err)

	resp, err := u.Login(&dto.LoginRequest{Email: "MARIA@example.com", Password: "contrasena-larga"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	u, users := newAuthFixture(t)
	_, err := u.Register(registerRequest())
	require.NoError(t, err)

	// Contraseña incorrecta y usuario inexistente responden idéntico
	_, err = u.Login(&dto.LoginRequest{Email: "maria@example.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = u.Login(&dto.LoginRequest{Email: "nadie@example.com", Password: "da igual"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Usuario suspendido
	for _, usr := range users.users {
		usr.Status = "suspended"
	}
	_, err = u.Login(&dto.LoginRequest{Email: "maria@example.com", Password: "contrasena-larga"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
