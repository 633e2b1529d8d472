package sri

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/sri/signer"
	"github.com/jhoicas/Facturacion-api/pkg/config"
	pkgsri "github.com/jhoicas/Facturacion-api/pkg/sri"
)

// CertSigner implementa billing.DocumentSigner firmando con el certificado del
// emisor cargado al arrancar. El servicio XAdES concreto se inyecta vía
// pkg/sri.Signer para poder sustituirlo en tests.
type CertSigner struct {
	svc  pkgsri.Signer
	cert tls.Certificate
}

var _ billing.DocumentSigner = (*CertSigner)(nil)

// NewCertSigner carga el certificado según la configuración (.p12 con
// contraseña, o par PEM) y construye el firmador.
func NewCertSigner(cfg config.SRIConfig) (*CertSigner, error) {
	if cfg.CertPath == "" {
		return nil, fmt.Errorf("sri: SRI_CERT_PATH vacío: no hay certificado para firmar")
	}
	var (
		cert tls.Certificate
		err  error
	)
	if cfg.CertKeyPath == "" {
		cert, err = signer.LoadFromP12(cfg.CertPath, cfg.CertPassword)
	} else {
		cert, err = signer.LoadFromPEM(cfg.CertPath, cfg.CertKeyPath)
	}
	if err != nil {
		return nil, fmt.Errorf("sri: cargar certificado del emisor: %w", err)
	}
	return &CertSigner{
		svc:  signer.NewXAdESService(),
		cert: cert,
	}, nil
}

// Sign firma el XML del comprobante con el certificado cargado.
func (s *CertSigner) Sign(ctx context.Context, xmlDoc []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.svc.Sign(xmlDoc, s.cert)
}
