package sri

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() *ClaveAccesoParams {
	return &ClaveAccesoParams{
		FechaEmision:    time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		TipoComprobante: "01",
		RUC:             "1790016919001",
		Ambiente:        "1",
		Establecimiento: "001",
		PuntoEmision:    "002",
		Secuencial:      "000000123",
	}
}

func TestGenerate_ComposicionYLargo(t *testing.T) {
	g := NewClaveAccesoGenerator()
	p := validParams()
	p.CodigoNumerico = "12345678"

	clave, err := g.Generate(p)
	require.NoError(t, err)
	require.Len(t, clave, ClaveAccesoLen)

	// Componentes en posición fija
	assert.Equal(t, "31082026", clave[0:8], "fecha ddmmaaaa")
	assert.Equal(t, "01", clave[8:10], "codDoc")
	assert.Equal(t, "1790016919001", clave[10:23], "RUC")
	assert.Equal(t, "1", clave[23:24], "ambiente")
	assert.Equal(t, "001002", clave[24:30], "serie")
	assert.Equal(t, "000000123", clave[30:39], "secuencial")
	assert.Equal(t, "12345678", clave[39:47], "código numérico")
	assert.Equal(t, "1", clave[47:48], "tipo de emisión")

	assert.True(t, VerifyClaveAcceso(clave))
}

func TestGenerate_DigitoVerificadorRecalculable(t *testing.T) {
	g := NewClaveAccesoGenerator()

	clave, err := g.Generate(validParams())
	require.NoError(t, err)

	dv, err := Modulo11(clave[:48])
	require.NoError(t, err)
	assert.Equal(t, byte('0'+dv), clave[48])
}

func TestGenerate_CodigoNumericoDistintoPorInvocacion(t *testing.T) {
	g := NewClaveAccesoGenerator()
	p := validParams()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		clave, err := g.Generate(p)
		require.NoError(t, err)
		seen[clave[39:47]] = true
	}
	// 20 sorteos de 8 dígitos: una colisión total es prácticamente imposible
	assert.Greater(t, len(seen), 1, "el código numérico debe variar entre invocaciones")
}

func TestGenerate_RechazaAnchosInvalidos(t *testing.T) {
	g := NewClaveAccesoGenerator()

	tests := []struct {
		name   string
		mutate func(p *ClaveAccesoParams)
	}{
		{"RUC corto", func(p *ClaveAccesoParams) { p.RUC = "179001691900" }},
		{"RUC no numérico", func(p *ClaveAccesoParams) { p.RUC = "17900169X9001" }},
		{"establecimiento largo", func(p *ClaveAccesoParams) { p.Establecimiento = "0001" }},
		{"punto de emisión corto", func(p *ClaveAccesoParams) { p.PuntoEmision = "02" }},
		{"secuencial sin relleno", func(p *ClaveAccesoParams) { p.Secuencial = "123" }},
		{"ambiente inválido", func(p *ClaveAccesoParams) { p.Ambiente = "3" }},
		{"tipo de comprobante desconocido", func(p *ClaveAccesoParams) { p.TipoComprobante = "99" }},
		{"código numérico corto", func(p *ClaveAccesoParams) { p.CodigoNumerico = "1234" }},
		{"fecha vacía", func(p *ClaveAccesoParams) { p.FechaEmision = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(p)
			_, err := g.Generate(p)
			assert.Error(t, err)
		})
	}
}

func TestModulo11(t *testing.T) {
	tests := []struct {
		digits string
		want   int
	}{
		{"1", 9},  // 1*2=2; 11-2=9
		{"12", 4}, // 2*2 + 1*3 = 7; 11-7=4
		{"0", 0},  // suma 0; 11-0=11 -> 0
	}
	for _, tt := range tests {
		dv, err := Modulo11(tt.digits)
		require.NoError(t, err)
		assert.Equal(t, tt.want, dv, "dígitos %q", tt.digits)
	}

	_, err := Modulo11("")
	assert.Error(t, err)
	_, err = Modulo11("12a4")
	assert.Error(t, err)
}

func TestVerifyClaveAcceso(t *testing.T) {
	g := NewClaveAccesoGenerator()
	clave, err := g.Generate(validParams())
	require.NoError(t, err)

	assert.True(t, VerifyClaveAcceso(clave))

	// Alterar un dígito interno invalida el verificador
	corrupt := []byte(clave)
	if corrupt[15] == '9' {
		corrupt[15] = '0'
	} else {
		corrupt[15]++
	}
	assert.False(t, VerifyClaveAcceso(string(corrupt)))

	assert.False(t, VerifyClaveAcceso("123"))
	assert.False(t, VerifyClaveAcceso(""))
}
