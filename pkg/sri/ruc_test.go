package sri_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/pkg/sri"
)

func TestValidateRUC_Sociedad(t *testing.T) {
	// 1790016919: suma ponderada 101, módulo 11 -> DV 9 en la posición 10.
	require.NoError(t, sri.ValidateRUC("1790016919001"))
}

func TestValidateRUC_PersonaNatural(t *testing.T) {
	// Cédula 1710034065 (módulo 10) + sufijo 001.
	require.NoError(t, sri.ValidateRUC("1710034065001"))
}

func TestValidateRUC_EntidadPublica(t *testing.T) {
	// 176000155: suma ponderada 72, módulo 11 -> DV 5 en la posición 9.
	require.NoError(t, sri.ValidateRUC("1760001550001"))
}

func TestValidateRUC_Invalidos(t *testing.T) {
	cases := map[string]string{
		"muy corto":                "179001691",
		"no numérico":              "17900A6919001",
		"provincia fuera de rango": "9990016919001",
		"dv sociedad incorrecto":   "1790016918001",
		"dv cédula incorrecto":     "1710034064001",
		"sufijo 000":               "1790016919000",
		"tercer dígito 8":          "1780016919001",
	}
	for name, ruc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, sri.ValidateRUC(ruc))
		})
	}
}
