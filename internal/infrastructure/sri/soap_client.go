package sri

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	pkgsri "github.com/jhoicas/Facturacion-api/pkg/sri"
)

// ── Endpoints y namespaces de los WS offline del SRI ──────────────────────────

const (
	recepcionURLPruebas    = "https://celcer.sri.gob.ec/comprobantes-electronicos-ws/RecepcionComprobantesOffline"
	recepcionURLProduccion = "https://cel.sri.gob.ec/comprobantes-electronicos-ws/RecepcionComprobantesOffline"

	autorizacionURLPruebas    = "https://celcer.sri.gob.ec/comprobantes-electronicos-ws/AutorizacionComprobantesOffline"
	autorizacionURLProduccion = "https://cel.sri.gob.ec/comprobantes-electronicos-ws/AutorizacionComprobantesOffline"

	soapNS             = "http://schemas.xmlsoap.org/soap/envelope/"
	nsRecepcionSRI     = "http://ec.gob.sri.ws.recepcion"
	nsAutorizacionSRI  = "http://ec.gob.sri.ws.autorizacion"
	maxSOAPResponseLen = 1 << 20 // 1 MB
)

// SOAPSRIClient implementa billing.Submitter y billing.Authorizer contra los
// WS SOAP de recepción y autorización del SRI. Usa net/http de la stdlib.
//
// Todo fallo de red, timeout o respuesta ilegible se reporta envuelto en
// domain.ErrTransport: el orquestador lo reintenta con backoff. Una respuesta
// DEVUELTA o NO AUTORIZADO del SRI llega como resultado, nunca como error.
type SOAPSRIClient struct {
	httpClient      *http.Client
	recepcionURL    string
	autorizacionURL string
}

var (
	_ billing.Submitter  = (*SOAPSRIClient)(nil)
	_ billing.Authorizer = (*SOAPSRIClient)(nil)
)

// NewSOAPSRIClient construye el cliente para el ambiente dado ("1" = pruebas,
// "2" = producción) con un timeout de red generoso (60 s): el WS del SRI puede
// tardar varios segundos en responder.
func NewSOAPSRIClient(ambiente string) (*SOAPSRIClient, error) {
	c := &SOAPSRIClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	switch ambiente {
	case pkgsri.AmbientePruebas:
		c.recepcionURL = recepcionURLPruebas
		c.autorizacionURL = autorizacionURLPruebas
	case pkgsri.AmbienteProduccion:
		c.recepcionURL = recepcionURLProduccion
		c.autorizacionURL = autorizacionURLProduccion
	default:
		return nil, fmt.Errorf("sri: ambiente desconocido %q (usar '1' o '2')", ambiente)
	}
	return c, nil
}

// ── Estructuras SOAP de request ───────────────────────────────────────────────

type soapEnvelope struct {
	XMLName xml.Name `xml:"soapenv:Envelope"`
	XmlnsS  string   `xml:"xmlns:soapenv,attr"`
	XmlnsEC string   `xml:"xmlns:ec,attr"`
	Body    soapBody `xml:"soapenv:Body"`
}

type soapBody struct {
	Content interface{}
}

func (b soapBody) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name.Local = "soapenv:Body"
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := e.Encode(b.Content); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

// validarComprobanteBody cuerpo de la operación validarComprobante (recepción).
type validarComprobanteBody struct {
	XMLName xml.Name `xml:"ec:validarComprobante"`
	XML     string   `xml:"xml"` // comprobante firmado en Base64
}

// autorizacionComprobanteBody cuerpo de la operación autorizacionComprobante.
type autorizacionComprobanteBody struct {
	XMLName     xml.Name `xml:"ec:autorizacionComprobante"`
	ClaveAcceso string   `xml:"claveAccesoComprobante"`
}

// ── Estructuras SOAP de respuesta ─────────────────────────────────────────────

type soapResponseEnvelope struct {
	Body soapResponseBody `xml:"Body"`
}

type soapResponseBody struct {
	Recepcion    *validarComprobanteResponse      `xml:"validarComprobanteResponse"`
	Autorizacion *autorizacionComprobanteResponse `xml:"autorizacionComprobanteResponse"`
	Fault        *soapFault                       `xml:"Fault"`
}

type soapFault struct {
	FaultCode   string `xml:"faultcode"`
	FaultString string `xml:"faultstring"`
}

type validarComprobanteResponse struct {
	Respuesta respuestaRecepcion `xml:"RespuestaRecepcionComprobante"`
}

type respuestaRecepcion struct {
	Estado       string          `xml:"estado"` // RECIBIDA | DEVUELTA
	Comprobantes []comprobanteWS `xml:"comprobantes>comprobante"`
}

type comprobanteWS struct {
	ClaveAcceso string      `xml:"claveAcceso"`
	Mensajes    []mensajeWS `xml:"mensajes>mensaje"`
}

type mensajeWS struct {
	Identificador        string `xml:"identificador"`
	Mensaje              string `xml:"mensaje"`
	InformacionAdicional string `xml:"informacionAdicional"`
	Tipo                 string `xml:"tipo"`
}

func (m mensajeWS) String() string {
	s := m.Mensaje
	if m.Identificador != "" {
		s = m.Identificador + ": " + s
	}
	if m.InformacionAdicional != "" {
		s += " (" + m.InformacionAdicional + ")"
	}
	return s
}

type autorizacionComprobanteResponse struct {
	Respuesta respuestaAutorizacion `xml:"RespuestaAutorizacionComprobante"`
}

type respuestaAutorizacion struct {
	ClaveAccesoConsultada string           `xml:"claveAccesoConsultada"`
	NumeroComprobantes    string           `xml:"numeroComprobantes"`
	Autorizaciones        []autorizacionWS `xml:"autorizaciones>autorizacion"`
}

type autorizacionWS struct {
	Estado             string      `xml:"estado"` // AUTORIZADO | NO AUTORIZADO
	NumeroAutorizacion string      `xml:"numeroAutorizacion"`
	FechaAutorizacion  string      `xml:"fechaAutorizacion"`
	Ambiente           string      `xml:"ambiente"`
	Mensajes           []mensajeWS `xml:"mensajes>mensaje"`
}

// ── Submit (recepción) ────────────────────────────────────────────────────────

// Submit envía el comprobante firmado al WS de recepción (validarComprobante).
func (c *SOAPSRIClient) Submit(ctx context.Context, signedXML []byte) (*billing.ReceptionResult, error) {
	body := &validarComprobanteBody{
		XML: base64.StdEncoding.EncodeToString(signedXML),
	}
	raw, err := c.call(ctx, c.recepcionURL, nsRecepcionSRI, body)
	if err != nil {
		return nil, err
	}

	env, err := parseEnvelope(raw)
	if err != nil {
		return nil, err
	}
	if env.Body.Recepcion == nil {
		return nil, fmt.Errorf("%w: respuesta de recepción vacía o inesperada", domain.ErrTransport)
	}

	resp := env.Body.Recepcion.Respuesta
	return &billing.ReceptionResult{
		Estado:   resp.Estado,
		Mensajes: collectMensajes(resp.Comprobantes),
	}, nil
}

// ── Authorize (autorización) ──────────────────────────────────────────────────

// Authorize consulta el WS de autorización por clave de acceso. Una respuesta
// sin autorizaciones significa que el SRI aún procesa el comprobante.
func (c *SOAPSRIClient) Authorize(ctx context.Context, claveAcceso string) (*billing.AuthorizationResult, error) {
	body := &autorizacionComprobanteBody{ClaveAcceso: claveAcceso}
	raw, err := c.call(ctx, c.autorizacionURL, nsAutorizacionSRI, body)
	if err != nil {
		return nil, err
	}

	env, err := parseEnvelope(raw)
	if err != nil {
		return nil, err
	}
	if env.Body.Autorizacion == nil {
		return nil, fmt.Errorf("%w: respuesta de autorización vacía o inesperada", domain.ErrTransport)
	}

	auts := env.Body.Autorizacion.Respuesta.Autorizaciones
	if len(auts) == 0 {
		return &billing.AuthorizationResult{Estado: "EN PROCESO"}, nil
	}

	// El SRI devuelve una autorización por comprobante consultado.
	aut := auts[0]
	result := &billing.AuthorizationResult{
		Estado:             aut.Estado,
		NumeroAutorizacion: aut.NumeroAutorizacion,
	}
	if aut.FechaAutorizacion != "" {
		if t, perr := time.Parse(time.RFC3339, aut.FechaAutorizacion); perr == nil {
			result.FechaAutorizacion = &t
		}
	}
	for _, m := range aut.Mensajes {
		result.Mensajes = append(result.Mensajes, m.String())
	}
	return result, nil
}

// ── Transporte ────────────────────────────────────────────────────────────────

// call arma el envelope, hace el POST y devuelve el cuerpo crudo de la
// respuesta. Todo fallo en esta capa es de transporte (reintentable).
func (c *SOAPSRIClient) call(ctx context.Context, url, ns string, content interface{}) ([]byte, error) {
	envelope := soapEnvelope{
		XmlnsS:  soapNS,
		XmlnsEC: ns,
		Body:    soapBody{Content: content},
	}
	payload, err := xml.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("sri: serializar envelope SOAP: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("sri: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: llamada al SRI cancelada: %v", domain.ErrTransport, ctx.Err())
		}
		return nil, fmt.Errorf("%w: llamada HTTP al SRI fallida: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxSOAPResponseLen))
	if err != nil {
		return nil, fmt.Errorf("%w: leer respuesta del SRI: %v", domain.ErrTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: el SRI respondió HTTP %d", domain.ErrTransport, resp.StatusCode)
	}
	return raw, nil
}

// parseEnvelope desempaqueta la respuesta SOAP. Un Fault o un cuerpo ilegible
// se tratan como fallo de transporte: el WS del SRI responde con Fault ante
// caídas internas y conviene reintentar.
func parseEnvelope(raw []byte) (*soapResponseEnvelope, error) {
	var env soapResponseEnvelope
	if err := xml.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: respuesta SOAP ilegible: %v", domain.ErrTransport, err)
	}
	if env.Body.Fault != nil {
		return nil, fmt.Errorf("%w: SOAP Fault [%s] %s", domain.ErrTransport,
			env.Body.Fault.FaultCode, env.Body.Fault.FaultString)
	}
	return &env, nil
}

func collectMensajes(comprobantes []comprobanteWS) []string {
	var out []string
	for _, comp := range comprobantes {
		for _, m := range comp.Mensajes {
			if s := strings.TrimSpace(m.String()); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
