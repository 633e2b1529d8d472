// Package auth implementa registro y login de usuarios con bcrypt y JWT.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/pkg/config"
	"github.com/jhoicas/Facturacion-api/pkg/jwt"
)

var validRoles = map[string]bool{
	entity.RoleAdmin:      true,
	entity.RoleContador:   true,
	entity.RoleFacturador: true,
}

// Usecase casos de uso de autenticación.
type Usecase struct {
	users     repository.UserRepository
	companies repository.CompanyRepository
	jwtCfg    config.JWTConfig
	logger    zerolog.Logger
}

// NewUsecase construye el caso de uso.
func NewUsecase(users repository.UserRepository, companies repository.CompanyRepository, jwtCfg config.JWTConfig, logger zerolog.Logger) *Usecase {
	return &Usecase{users: users, companies: companies, jwtCfg: jwtCfg, logger: logger}
}

// Register da de alta un usuario dentro de una empresa y devuelve su token.
func (u *Usecase) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: la contraseña requiere al menos 8 caracteres", domain.ErrInvalidInput)
	}
	if !validRoles[req.Role] {
		return nil, fmt.Errorf("%w: rol %q desconocido", domain.ErrInvalidInput, req.Role)
	}
	if _, err := u.companies.GetByID(req.CompanyID); err != nil {
		return nil, fmt.Errorf("cargar empresa %s: %w", req.CompanyID, err)
	}
	if existing, err := u.users.GetByEmailAndCompany(email, req.CompanyID); err == nil && existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("verificar email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashear contraseña: %w", err)
	}

	user := &entity.User{
		ID:           uuid.NewString(),
		CompanyID:    req.CompanyID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         req.Role,
		Status:       "active",
	}
	if err := u.users.Create(user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("crear usuario: %w", err)
	}

	u.logger.Info().Str("user_id", user.ID).Str("company_id", user.CompanyID).Str("role", user.Role).Msg("usuario registrado")
	return u.issueToken(user)
}

// Login valida credenciales y devuelve un token.
// Email inexistente y contraseña incorrecta responden el mismo error.
func (u *Usecase) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := u.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if user.Status != "active" {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	return u.issueToken(user)
}

func (u *Usecase) issueToken(user *entity.User) (*dto.AuthResponse, error) {
	token, err := jwt.Generate(u.jwtCfg.Secret, user.ID, user.CompanyID, user.Role, u.jwtCfg.Issuer, u.jwtCfg.Expiration)
	if err != nil {
		return nil, fmt.Errorf("emitir token: %w", err)
	}
	return &dto.AuthResponse{
		Token: token,
		User: dto.UserResponse{
			ID:        user.ID,
			CompanyID: user.CompanyID,
			Email:     user.Email,
			Name:      user.Name,
			Role:      user.Role,
		},
	}, nil
}
