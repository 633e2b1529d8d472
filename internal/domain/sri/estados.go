package sri

import (
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// Máquina de estados del ciclo SRI, como función de transición explícita
// (estado, evento) -> estado. Mantiene la distinción terminal/reintentable
// testeable sin tocar la red.
//
//	BORRADOR --Generar--> GENERADO --Firmar--> FIRMADO --Enviar--> ENVIADO
//	ENVIADO --ErrorTransporte--> ENVIADO      (reintento con backoff)
//	ENVIADO --Autorizar--> AUTORIZADO          (terminal)
//	ENVIADO --Devolver--> DEVUELTO             (terminal: exige comprobante nuevo)

// Evento dispara una transición del ciclo SRI.
type Evento string

const (
	EventoGenerar         Evento = "GENERAR"
	EventoFirmar          Evento = "FIRMAR"
	EventoEnviar          Evento = "ENVIAR"
	EventoErrorTransporte Evento = "ERROR_TRANSPORTE"
	EventoAutorizar       Evento = "AUTORIZAR"
	EventoDevolver        Evento = "DEVOLVER"
)

var transitions = map[string]map[Evento]string{
	entity.EstadoBorrador: {
		EventoGenerar: entity.EstadoGenerado,
	},
	entity.EstadoGenerado: {
		EventoFirmar: entity.EstadoFirmado,
	},
	entity.EstadoFirmado: {
		EventoEnviar: entity.EstadoEnviado,
	},
	entity.EstadoEnviado: {
		EventoErrorTransporte: entity.EstadoEnviado,
		EventoAutorizar:       entity.EstadoAutorizado,
		EventoDevolver:        entity.EstadoDevuelto,
	},
	// AUTORIZADO y DEVUELTO: terminales, sin salidas.
}

// Transition aplica el evento al estado actual y devuelve el estado resultante.
// Los estados terminales no admiten ningún evento.
func Transition(estado string, ev Evento) (string, error) {
	next, ok := transitions[estado][ev]
	if !ok {
		return "", fmt.Errorf("%w: %s + %s", domain.ErrInvalidTransition, estado, ev)
	}
	return next, nil
}

// EsTerminal informa si un estado es final (inmutable).
func EsTerminal(estado string) bool {
	return estado == entity.EstadoAutorizado || estado == entity.EstadoDevuelto
}
