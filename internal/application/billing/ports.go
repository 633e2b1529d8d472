// Package billing orquesta la emisión de comprobantes electrónicos: asignación
// de secuenciales, construcción del comprobante y ciclo de autorización SRI.
package billing

import (
	"context"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// XMLBuilder construye el XML del comprobante según el esquema offline del SRI.
type XMLBuilder interface {
	Build(ctx context.Context, doc *entity.Document, details []*entity.DocumentDetail, company *entity.Company) ([]byte, error)
}

// DocumentSigner firma el XML del comprobante (XAdES-BES) con el certificado del emisor.
type DocumentSigner interface {
	Sign(ctx context.Context, xmlDoc []byte) ([]byte, error)
}

// ReceptionResult respuesta del WS de recepción del SRI.
type ReceptionResult struct {
	Estado   string // RECIBIDA | DEVUELTA
	Mensajes []string
}

// AuthorizationResult respuesta del WS de autorización del SRI.
type AuthorizationResult struct {
	Estado             string // AUTORIZADO | NO AUTORIZADO | EN PROCESO
	NumeroAutorizacion string
	FechaAutorizacion  *time.Time
	Mensajes           []string
}

// Submitter envía el comprobante firmado al WS de recepción del SRI.
// Los fallos de red/timeout se reportan envueltos en domain.ErrTransport y
// son reintentables; una respuesta DEVUELTA no lo es.
type Submitter interface {
	Submit(ctx context.Context, signedXML []byte) (*ReceptionResult, error)
}

// Authorizer consulta el WS de autorización por clave de acceso.
type Authorizer interface {
	Authorize(ctx context.Context, claveAcceso string) (*AuthorizationResult, error)
}

// RIDEGenerator genera la representación impresa (PDF) de un comprobante autorizado.
type RIDEGenerator interface {
	Generate(ctx context.Context, doc *entity.Document, details []*entity.DocumentDetail, company *entity.Company) ([]byte, error)
}

// PurchasePoster contabiliza el asiento automático de una liquidación de
// compra autorizada. Lo implementa la capa de contabilidad; el orquestador SRI
// solo conoce este puerto.
type PurchasePoster interface {
	PostPurchase(ctx context.Context, doc *entity.Document) error
}
