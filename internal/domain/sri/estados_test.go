package sri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

func TestTransition_CicloFeliz(t *testing.T) {
	estado := entity.EstadoBorrador

	for _, step := range []struct {
		ev   Evento
		want string
	}{
		{EventoGenerar, entity.EstadoGenerado},
		{EventoFirmar, entity.EstadoFirmado},
		{EventoEnviar, entity.EstadoEnviado},
		{EventoAutorizar, entity.EstadoAutorizado},
	} {
		next, err := Transition(estado, step.ev)
		require.NoError(t, err)
		assert.Equal(t, step.want, next)
		estado = next
	}
}

func TestTransition_ReintentoDeTransporte(t *testing.T) {
	// Un fallo de transporte deja el comprobante en ENVIADO, listo para reintentar.
	next, err := Transition(entity.EstadoEnviado, EventoErrorTransporte)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoEnviado, next)

	// Tras el reintento sigue pudiendo autorizarse o devolverse.
	next, err = Transition(next, EventoAutorizar)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoAutorizado, next)
}

func TestTransition_Devolucion(t *testing.T) {
	next, err := Transition(entity.EstadoEnviado, EventoDevolver)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoDevuelto, next)
}

func TestTransition_TerminalesInmutables(t *testing.T) {
	eventos := []Evento{EventoGenerar, EventoFirmar, EventoEnviar, EventoErrorTransporte, EventoAutorizar, EventoDevolver}

	for _, terminal := range []string{entity.EstadoAutorizado, entity.EstadoDevuelto} {
		for _, ev := range eventos {
			_, err := Transition(terminal, ev)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s + %s", terminal, ev)
		}
	}
}

func TestTransition_SaltosInvalidos(t *testing.T) {
	tests := []struct {
		estado string
		ev     Evento
	}{
		{entity.EstadoBorrador, EventoEnviar},
		{entity.EstadoBorrador, EventoAutorizar},
		{entity.EstadoGenerado, EventoEnviar},
		{entity.EstadoFirmado, EventoAutorizar},
		{entity.EstadoFirmado, EventoGenerar},
		{"INEXISTENTE", EventoGenerar},
	}
	for _, tt := range tests {
		_, err := Transition(tt.estado, tt.ev)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s + %s", tt.estado, tt.ev)
	}
}

func TestEsTerminal(t *testing.T) {
	assert.True(t, EsTerminal(entity.EstadoAutorizado))
	assert.True(t, EsTerminal(entity.EstadoDevuelto))
	assert.False(t, EsTerminal(entity.EstadoBorrador))
	assert.False(t, EsTerminal(entity.EstadoEnviado))
}
