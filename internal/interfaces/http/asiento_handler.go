package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/accounting"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
)

// JournalHandler maneja el libro diario.
type JournalHandler struct {
	uc *accounting.JournalUsecase
}

// NewJournalHandler construye el handler.
func NewJournalHandler(uc *accounting.JournalUsecase) *JournalHandler {
	return &JournalHandler{uc: uc}
}

// Post godoc
// @Summary      Contabilizar un asiento manual
// @Description  El asiento debe cuadrar (débitos = créditos) y mover solo
// @Description  cuentas de detalle activas. Una vez contabilizado es inmutable.
// @Tags         journal
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateJournalEntryRequest  true  "Líneas del asiento"
// @Success      201   {object}  dto.JournalEntryResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/journal [post]
func (h *JournalHandler) Post(c *fiber.Ctx) error {
	var in dto.CreateJournalEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	entry, err := h.uc.Post(GetCompanyID(c), &in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toJournalEntryResponse(entry))
}

// GetByID godoc
// @Summary      Obtener un asiento con sus líneas
// @Tags         journal
// @Produce      json
// @Param        id   path  string  true  "ID del asiento"
// @Success      200  {object}  dto.JournalEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/journal/{id} [get]
func (h *JournalHandler) GetByID(c *fiber.Ctx) error {
	entry, err := h.uc.GetEntry(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toJournalEntryResponse(entry))
}

// List godoc
// @Summary      Listar asientos de la empresa
// @Tags         journal
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.JournalEntryResponse
// @Security     BearerAuth
// @Router       /api/journal [get]
func (h *JournalHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.Normalize()
	entries, err := h.uc.ListEntries(GetCompanyID(c), page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.JournalEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toJournalEntryResponse(e))
	}
	return c.JSON(out)
}
