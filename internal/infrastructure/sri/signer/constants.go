// Constantes para firma XAdES-BES (Ficha Técnica de Comprobantes
// Electrónicos del SRI, esquema offline).

package signer

// Namespaces y algoritmos XMLDSig / XAdES.
const (
	NamespaceDS        = "http://www.w3.org/2000/09/xmldsig#"
	NamespaceXAdES     = "http://uri.etsi.org/01903/v1.3.2#"
	AlgC14N            = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgRSASHA1         = "http://www.w3.org/2000/09/xmldsig#rsa-sha1"
	AlgSHA1            = "http://www.w3.org/2000/09/xmldsig#sha1"
	TipoSignedProps    = "http://uri.etsi.org/01903#SignedProperties"
	TransformEnveloped = "http://www.w3.org/2000/09/xmldsig#enveloped-signature"
)

// ComprobanteElementID es el id del elemento raíz al que apunta la Reference
// (debe coincidir con el atributo id del <factura>/<liquidacionCompra>/...).
const ComprobanteElementID = "comprobante"
