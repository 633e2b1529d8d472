// Package sri contiene la lógica de dominio de comprobantes electrónicos SRI
// (Ecuador): clave de acceso, cálculo de impuestos, estados y validaciones,
// según la Ficha Técnica del esquema offline v1.1.0.
package sri

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	pkgsri "github.com/jhoicas/Facturacion-api/pkg/sri"
)

// Composición de la clave de acceso (49 dígitos, anchos fijos):
//
//	fecha emisión (ddmmaaaa, 8) + codDoc (2) + RUC (13) + ambiente (1) +
//	serie estab+ptoEmi (6) + secuencial (9) + código numérico (8) +
//	tipo de emisión (1) + dígito verificador módulo 11 (1)
const (
	ClaveAccesoLen = 49

	widthRUC        = 13
	widthSerie      = 3
	widthSecuencial = 9
	widthCodigoNum  = 8
)

// ClaveAccesoParams contiene los componentes de la clave en el orden exigido por el SRI.
type ClaveAccesoParams struct {
	FechaEmision    time.Time
	TipoComprobante string // codDoc (2 dígitos, Tabla 3)
	RUC             string // 13 dígitos
	Ambiente        string // "1" pruebas, "2" producción
	Establecimiento string // 3 dígitos
	PuntoEmision    string // 3 dígitos
	Secuencial      string // 9 dígitos
	CodigoNumerico  string // 8 dígitos; vacío = se genera uno aleatorio por invocación
	TipoEmision     string // "1" emisión normal; vacío = "1"
}

// ClaveAccesoGenerator genera la clave de acceso de 49 dígitos.
type ClaveAccesoGenerator struct{}

// NewClaveAccesoGenerator crea el servicio.
func NewClaveAccesoGenerator() *ClaveAccesoGenerator {
	return &ClaveAccesoGenerator{}
}

// Generate compone los 48 dígitos y añade el dígito verificador módulo 11.
// Cada componente debe tener exactamente su ancho fijo; cualquier otro largo
// se rechaza. El código numérico se sortea con crypto/rand en cada invocación,
// por lo que dos llamadas concurrentes sobre el mismo secuencial nunca
// producen la misma clave.
func (g *ClaveAccesoGenerator) Generate(p *ClaveAccesoParams) (string, error) {
	if p == nil {
		return "", fmt.Errorf("sri: ClaveAccesoParams es obligatorio")
	}
	if p.FechaEmision.IsZero() {
		return "", fmt.Errorf("sri: fecha de emisión es obligatoria")
	}
	if !pkgsri.ValidDocumentTypes[p.TipoComprobante] {
		return "", fmt.Errorf("sri: tipo de comprobante %q desconocido", p.TipoComprobante)
	}
	if err := requireDigits("RUC", p.RUC, widthRUC); err != nil {
		return "", err
	}
	if !pkgsri.ValidAmbientes[p.Ambiente] {
		return "", fmt.Errorf("sri: ambiente %q inválido (usar \"1\" o \"2\")", p.Ambiente)
	}
	if err := requireDigits("establecimiento", p.Establecimiento, widthSerie); err != nil {
		return "", err
	}
	if err := requireDigits("punto de emisión", p.PuntoEmision, widthSerie); err != nil {
		return "", err
	}
	if err := requireDigits("secuencial", p.Secuencial, widthSecuencial); err != nil {
		return "", err
	}

	codigo := p.CodigoNumerico
	if codigo == "" {
		var err error
		codigo, err = randomCodigoNumerico()
		if err != nil {
			return "", fmt.Errorf("sri: generar código numérico: %w", err)
		}
	} else if err := requireDigits("código numérico", codigo, widthCodigoNum); err != nil {
		return "", err
	}

	tipoEmision := p.TipoEmision
	if tipoEmision == "" {
		tipoEmision = pkgsri.EmisionNormal
	}
	if len(tipoEmision) != 1 || tipoEmision[0] < '0' || tipoEmision[0] > '9' {
		return "", fmt.Errorf("sri: tipo de emisión %q inválido", tipoEmision)
	}

	base := p.FechaEmision.Format("02012006") +
		p.TipoComprobante +
		p.RUC +
		p.Ambiente +
		p.Establecimiento + p.PuntoEmision +
		p.Secuencial +
		codigo +
		tipoEmision

	dv, err := Modulo11(base)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d", base, dv), nil
}

// Modulo11 calcula el dígito verificador sobre una cadena de dígitos:
// pesos cíclicos 2,3,4,5,6,7 de derecha a izquierda; dv = 11 - (suma mod 11);
// 11 se reporta como 0 y 10 como 1.
func Modulo11(digits string) (int, error) {
	if digits == "" {
		return 0, fmt.Errorf("sri: cadena vacía para módulo 11")
	}
	sum := 0
	weight := 2
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("sri: carácter no numérico %q en posición %d", c, i)
		}
		sum += int(c-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}
	dv := 11 - sum%11
	switch dv {
	case 11:
		return 0, nil
	case 10:
		return 1, nil
	default:
		return dv, nil
	}
}

// VerifyClaveAcceso recalcula el dígito verificador sobre los primeros 48
// dígitos y lo compara con el dígito 49.
func VerifyClaveAcceso(clave string) bool {
	if len(clave) != ClaveAccesoLen {
		return false
	}
	dv, err := Modulo11(clave[:ClaveAccesoLen-1])
	if err != nil {
		return false
	}
	return byte('0'+dv) == clave[ClaveAccesoLen-1]
}

// randomCodigoNumerico sortea 8 dígitos con crypto/rand (distinto por
// invocación incluso dentro del mismo milisegundo).
func randomCodigoNumerico() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(100_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%08d", n.Int64()), nil
}

func requireDigits(name, s string, width int) error {
	if len(s) != width {
		return fmt.Errorf("sri: %s debe tener exactamente %d dígitos, se recibieron %d", name, width, len(s))
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return fmt.Errorf("sri: %s debe ser numérico", name)
		}
	}
	return nil
}
