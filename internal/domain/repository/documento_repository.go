package repository

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// DocumentRepository define el puerto de persistencia para comprobantes y detalles.
type DocumentRepository interface {
	// Create persiste cabecera y detalles en una sola transacción:
	// nunca queda un comprobante sin líneas ni líneas huérfanas.
	Create(doc *entity.Document, details []*entity.DocumentDetail) error
	// UpdateStatus persiste los campos mutables del ciclo SRI:
	// estado, xml_firmado, numero_autorizacion, fecha_autorizacion, mensajes_sri.
	UpdateStatus(doc *entity.Document) error
	GetByID(id string) (*entity.Document, error)
	GetByClaveAcceso(claveAcceso string) (*entity.Document, error)
	GetDetails(documentID string) ([]*entity.DocumentDetail, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Document, error)
}
