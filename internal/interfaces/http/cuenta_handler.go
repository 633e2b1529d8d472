package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/accounting"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
)

// AccountHandler maneja el plan de cuentas de la empresa.
type AccountHandler struct {
	uc *accounting.ChartUsecase
}

// NewAccountHandler construye el handler.
func NewAccountHandler(uc *accounting.ChartUsecase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cuenta contable
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAccountRequest  true  "Datos de la cuenta"
// @Success      201   {object}  dto.AccountResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/accounts [post]
func (h *AccountHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	account, err := h.uc.CreateAccount(GetCompanyID(c), &in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAccountResponse(account))
}

// GetByCode godoc
// @Summary      Obtener cuenta por código
// @Tags         accounts
// @Produce      json
// @Param        code  path  string  true  "Código de la cuenta"
// @Success      200   {object}  dto.AccountResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/accounts/{code} [get]
func (h *AccountHandler) GetByCode(c *fiber.Ctx) error {
	account, err := h.uc.GetAccount(GetCompanyID(c), c.Params("code"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toAccountResponse(account))
}

// List godoc
// @Summary      Listar el plan de cuentas completo
// @Tags         accounts
// @Produce      json
// @Success      200  {array}  dto.AccountResponse
// @Security     BearerAuth
// @Router       /api/accounts [get]
func (h *AccountHandler) List(c *fiber.Ctx) error {
	accounts, err := h.uc.ListAccounts(GetCompanyID(c))
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar una cuenta
// @Description  La cuenta deja de admitir movimientos pero conserva su historial.
// @Tags         accounts
// @Produce      json
// @Param        code  path  string  true  "Código de la cuenta"
// @Success      204   "sin contenido"
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/accounts/{code} [delete]
func (h *AccountHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(GetCompanyID(c), c.Params("code")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
