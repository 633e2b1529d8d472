package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// DocumentHandler maneja la emisión y el ciclo SRI de comprobantes.
type DocumentHandler struct {
	builder      *billing.DocumentBuilder
	orchestrator *billing.SRIOrchestrator
	ride         billing.RIDEGenerator
	documents    repository.DocumentRepository
	companies    repository.CompanyRepository
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(
	builder *billing.DocumentBuilder,
	orchestrator *billing.SRIOrchestrator,
	ride billing.RIDEGenerator,
	documents repository.DocumentRepository,
	companies repository.CompanyRepository,
) *DocumentHandler {
	return &DocumentHandler{
		builder:      builder,
		orchestrator: orchestrator,
		ride:         ride,
		documents:    documents,
		companies:    companies,
	}
}

// Create godoc
// @Summary      Emitir un comprobante
// @Description  Construye el comprobante (secuencial, clave de acceso y totales)
// @Description  y, si submit=true, lo firma y envía al SRI en segundo plano.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDocumentRequest  true  "Datos del comprobante"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/documents [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	doc, details, err := h.builder.Build(c.Context(), GetCompanyID(c), &in)
	if err != nil {
		return fail(c, err)
	}
	if in.Submit {
		h.orchestrator.ProcessAsync(doc.ID)
	}
	return c.Status(fiber.StatusCreated).JSON(toDocumentResponse(doc, details))
}

// GetByID godoc
// @Summary      Obtener un comprobante con sus líneas
// @Tags         documents
// @Produce      json
// @Param        id   path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.loadOwned(c)
	if err != nil {
		return fail(c, err)
	}
	details, err := h.documents.GetDetails(doc.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toDocumentResponse(doc, details))
}

// List godoc
// @Summary      Listar comprobantes de la empresa
// @Tags         documents
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.DocumentResponse
// @Security     BearerAuth
// @Router       /api/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.Normalize()
	docs, err := h.documents.ListByCompany(GetCompanyID(c), page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d, nil))
	}
	return c.JSON(out)
}

// Submit godoc
// @Summary      Avanzar el ciclo SRI de un comprobante
// @Description  Firma, envía y consulta la autorización desde el estado actual.
// @Tags         documents
// @Produce      json
// @Param        id   path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/documents/{id}/submit [post]
func (h *DocumentHandler) Submit(c *fiber.Ctx) error {
	doc, err := h.loadOwned(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.orchestrator.Process(c.Context(), doc.ID); err != nil {
		return fail(c, err)
	}
	return h.respondFresh(c, doc.ID)
}

// Reconcile godoc
// @Summary      Reconsultar la autorización de un comprobante ENVIADO
// @Tags         documents
// @Produce      json
// @Param        id   path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/documents/{id}/reconcile [post]
func (h *DocumentHandler) Reconcile(c *fiber.Ctx) error {
	doc, err := h.loadOwned(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.orchestrator.Reconcile(c.Context(), doc.ID); err != nil {
		return fail(c, err)
	}
	return h.respondFresh(c, doc.ID)
}

// GetXML godoc
// @Summary      Descargar el XML firmado
// @Tags         documents
// @Produce      xml
// @Param        id   path  string  true  "ID del comprobante"
// @Success      200  {string}  string
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/documents/{id}/xml [get]
func (h *DocumentHandler) GetXML(c *fiber.Ctx) error {
	doc, err := h.loadOwned(c)
	if err != nil {
		return fail(c, err)
	}
	if doc.XMLFirmado == "" {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error:   "CONFLICT",
			Details: "el comprobante aún no está firmado",
		})
	}
	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	return c.SendString(doc.XMLFirmado)
}

// GetRIDE godoc
// @Summary      Descargar el RIDE (PDF) de un comprobante autorizado
// @Tags         documents
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del comprobante"
// @Success      200  {file}  binary
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/documents/{id}/ride [get]
func (h *DocumentHandler) GetRIDE(c *fiber.Ctx) error {
	doc, err := h.loadOwned(c)
	if err != nil {
		return fail(c, err)
	}
	if doc.Estado != entity.EstadoAutorizado {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error:   "CONFLICT",
			Details: "el RIDE solo está disponible para comprobantes AUTORIZADOS",
		})
	}
	details, err := h.documents.GetDetails(doc.ID)
	if err != nil {
		return fail(c, err)
	}
	company, err := h.companies.GetByID(doc.CompanyID)
	if err != nil {
		return fail(c, err)
	}
	pdfBytes, err := h.ride.Generate(c.Context(), doc, details, company)
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(pdfBytes)
}

// loadOwned carga el comprobante y verifica que pertenezca a la empresa del
// token. Un comprobante ajeno responde NOT_FOUND, no FORBIDDEN: no se revela
// su existencia.
func (h *DocumentHandler) loadOwned(c *fiber.Ctx) (*entity.Document, error) {
	doc, err := h.documents.GetByID(c.Params("id"))
	if err != nil {
		return nil, err
	}
	if doc.CompanyID != GetCompanyID(c) {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (h *DocumentHandler) respondFresh(c *fiber.Ctx, documentID string) error {
	doc, err := h.documents.GetByID(documentID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toDocumentResponse(doc, nil))
}
