package sri

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
)

// SimulatedClient implementa billing.Submitter y billing.Authorizer sin tocar
// la red: recibe y autoriza todo comprobante al instante. Se usa cuando
// SRI_APP_ENV=dev para desarrollar sin certificado ni conexión al SRI.
type SimulatedClient struct {
	logger zerolog.Logger
}

var (
	_ billing.Submitter  = (*SimulatedClient)(nil)
	_ billing.Authorizer = (*SimulatedClient)(nil)
)

// NewSimulatedClient construye el cliente simulado.
func NewSimulatedClient(logger zerolog.Logger) *SimulatedClient {
	return &SimulatedClient{logger: logger}
}

// Submit acepta el comprobante sin enviarlo.
func (c *SimulatedClient) Submit(_ context.Context, signedXML []byte) (*billing.ReceptionResult, error) {
	if len(signedXML) == 0 {
		return nil, fmt.Errorf("sri: comprobante vacío")
	}
	c.logger.Debug().Int("bytes", len(signedXML)).Msg("recepción simulada: RECIBIDA")
	return &billing.ReceptionResult{Estado: "RECIBIDA"}, nil
}

// Authorize autoriza con la clave de acceso como número de autorización,
// igual que hace el SRI en el esquema offline.
func (c *SimulatedClient) Authorize(_ context.Context, claveAcceso string) (*billing.AuthorizationResult, error) {
	now := time.Now()
	c.logger.Debug().Str("clave_acceso", claveAcceso).Msg("autorización simulada: AUTORIZADO")
	return &billing.AuthorizationResult{
		Estado:             "AUTORIZADO",
		NumeroAutorizacion: claveAcceso,
		FechaAutorizacion:  &now,
	}, nil
}

// SimulatedSigner implementa billing.DocumentSigner devolviendo el XML sin
// firma. Solo para desarrollo: el WS real del SRI rechaza comprobantes sin
// ds:Signature.
type SimulatedSigner struct{}

var _ billing.DocumentSigner = (*SimulatedSigner)(nil)

// Sign devuelve el XML tal cual.
func (SimulatedSigner) Sign(_ context.Context, xmlDoc []byte) ([]byte, error) {
	return xmlDoc, nil
}
