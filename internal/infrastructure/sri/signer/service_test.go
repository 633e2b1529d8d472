package signer

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"math/big"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const comprobanteXML = `<?xml version="1.0" encoding="UTF-8"?>
<factura id="comprobante" version="1.1.0">
  <infoTributaria>
    <ruc>1790016919001</ruc>
    <claveAcceso>2105202601179001691900110010010000000425692847516</claveAcceso>
  </infoTributaria>
</factura>`

// selfSignedCert genera un certificado de prueba con llave RSA.
func selfSignedCert(t *testing.T) tls.Certificate {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(98765),
		Subject: pkix.Name{
			CommonName:   "JUAN PEREZ",
			Organization: []string{"BANCO CENTRAL DEL ECUADOR"},
		},
		NotBefore:   time.Now().Add(-time.Hour),
		NotAfter:    time.Now().Add(24 * time.Hour),
		KeyUsage:    x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	require.NoError(t, err)

	leaf, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  priv,
		Leaf:        leaf,
	}
}

func TestXAdESServiceFirmaComprobante(t *testing.T) {
	svc := NewXAdESService()
	cert := selfSignedCert(t)

	signed, err := svc.Sign([]byte(comprobanteXML), cert)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(signed))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "factura", root.Tag)

	// La firma va como último hijo del elemento raíz.
	children := root.ChildElements()
	require.NotEmpty(t, children)
	sig := children[len(children)-1]
	assert.Equal(t, "Signature", sig.Tag)

	// Reference al documento y a las SignedProperties.
	refs := sig.FindElements(".//Reference")
	require.Len(t, refs, 2)
	assert.Equal(t, "#signed-props", refs[0].SelectAttrValue("URI", ""))
	assert.Equal(t, "#comprobante", refs[1].SelectAttrValue("URI", ""))

	sigValue := sig.FindElement(".//SignatureValue")
	require.NotNil(t, sigValue)
	assert.NotEmpty(t, sigValue.Text())

	// El certificado embebido es el del firmante.
	certEl := sig.FindElement(".//X509Certificate")
	require.NotNil(t, certEl)
	raw, err := base64.StdEncoding.DecodeString(certEl.Text())
	require.NoError(t, err)
	assert.Equal(t, cert.Certificate[0], raw)

	// El contenido fiscal original sigue intacto.
	assert.Equal(t, "1790016919001", doc.FindElement("//infoTributaria/ruc").Text())
}

func TestXAdESServiceSigningTimeYSerial(t *testing.T) {
	svc := NewXAdESService()
	cert := selfSignedCert(t)

	signed, err := svc.Sign([]byte(comprobanteXML), cert)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(signed))

	st := doc.FindElement("//SignedProperties//SigningTime")
	require.NotNil(t, st)
	_, err = time.Parse("2006-01-02T15:04:05-07:00", st.Text())
	assert.NoError(t, err)

	serial := doc.FindElement("//SignedProperties//X509SerialNumber")
	require.NotNil(t, serial)
	assert.Equal(t, "98765", serial.Text())
}

func TestXAdESServiceRechazos(t *testing.T) {
	svc := NewXAdESService()

	t.Run("XML vacío", func(t *testing.T) {
		_, err := svc.Sign(nil, selfSignedCert(t))
		assert.Error(t, err)
	})

	t.Run("llave no RSA", func(t *testing.T) {
		cert := selfSignedCert(t)
		cert.PrivateKey = struct{}{}
		_, err := svc.Sign([]byte(comprobanteXML), cert)
		assert.Error(t, err)
	})
}
