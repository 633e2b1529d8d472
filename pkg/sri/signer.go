package sri

import "crypto/tls"

// Signer define el puerto de firma electrónica del comprobante XML.
// La implementación XAdES-BES vive en internal/infrastructure/sri/signer;
// para tests se puede inyectar un firmador falso.
type Signer interface {
	// Sign firma el XML del comprobante con el certificado del emisor y
	// devuelve el documento con el nodo ds:Signature incluido.
	Sign(xmlBytes []byte, cert tls.Certificate) ([]byte, error)
}
