package sri

import (
	"fmt"
	"strconv"
)

// Validación del RUC ecuatoriano (13 dígitos): provincia + dígito verificador
// según el tipo de contribuyente y sufijo de establecimiento distinto de 000.
//
// Tercer dígito:
//   0-5 persona natural (cédula, módulo 10)
//   6   entidad pública (módulo 11, coeficientes 3,2,7,6,5,4,3,2, DV en posición 9)
//   9   sociedad privada/extranjera (módulo 11, coeficientes 4,3,2,7,6,5,4,3,2, DV en posición 10)

var (
	coefPublico = [8]int{3, 2, 7, 6, 5, 4, 3, 2}
	coefPrivado = [9]int{4, 3, 2, 7, 6, 5, 4, 3, 2}
)

// ValidateRUC valida un RUC de 13 dígitos: largo, provincia, dígito verificador y sufijo.
func ValidateRUC(ruc string) error {
	if len(ruc) != 13 {
		return fmt.Errorf("sri: RUC debe tener 13 dígitos, se recibieron %d", len(ruc))
	}
	for _, r := range ruc {
		if r < '0' || r > '9' {
			return fmt.Errorf("sri: RUC debe ser numérico")
		}
	}
	provincia, _ := strconv.Atoi(ruc[:2])
	if provincia < 1 || provincia > 24 {
		return fmt.Errorf("sri: código de provincia inválido %q", ruc[:2])
	}

	tercero := int(ruc[2] - '0')
	switch {
	case tercero <= 5:
		if err := validateCedulaDigits(ruc[:10]); err != nil {
			return err
		}
		if ruc[10:] == "000" {
			return fmt.Errorf("sri: sufijo de establecimiento no puede ser 000")
		}
	case tercero == 6:
		if err := validatePublico(ruc); err != nil {
			return err
		}
		if ruc[9:] == "0000" {
			return fmt.Errorf("sri: sufijo de establecimiento no puede ser 0000")
		}
	case tercero == 9:
		if err := validatePrivado(ruc); err != nil {
			return err
		}
		if ruc[10:] == "000" {
			return fmt.Errorf("sri: sufijo de establecimiento no puede ser 000")
		}
	default:
		return fmt.Errorf("sri: tercer dígito %d no corresponde a ningún tipo de contribuyente", tercero)
	}
	return nil
}

// validateCedulaDigits valida los 10 dígitos de cédula (módulo 10, coeficientes 2-1 alternados).
func validateCedulaDigits(ced string) error {
	sum := 0
	for i := 0; i < 9; i++ {
		d := int(ced[i] - '0')
		if i%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	expected := (10 - sum%10) % 10
	if got := int(ced[9] - '0'); got != expected {
		return fmt.Errorf("sri: dígito verificador de cédula inválido: esperado %d, recibido %d", expected, got)
	}
	return nil
}

func validatePublico(ruc string) error {
	sum := 0
	for i, c := range coefPublico {
		sum += int(ruc[i]-'0') * c
	}
	expected := 11 - sum%11
	if expected == 11 {
		expected = 0
	}
	if expected == 10 {
		return fmt.Errorf("sri: RUC público sin dígito verificador válido")
	}
	if got := int(ruc[8] - '0'); got != expected {
		return fmt.Errorf("sri: dígito verificador de RUC público inválido: esperado %d, recibido %d", expected, got)
	}
	return nil
}

func validatePrivado(ruc string) error {
	sum := 0
	for i, c := range coefPrivado {
		sum += int(ruc[i]-'0') * c
	}
	expected := 11 - sum%11
	if expected == 11 {
		expected = 0
	}
	if expected == 10 {
		return fmt.Errorf("sri: RUC de sociedad sin dígito verificador válido")
	}
	if got := int(ruc[9] - '0'); got != expected {
		return fmt.Errorf("sri: dígito verificador de RUC de sociedad inválido: esperado %d, recibido %d", expected, got)
	}
	return nil
}
