// seed_cuentas genera un script SQL con el plan de cuentas inicial de una
// empresa a partir de un CSV "codigo;nombre;tipo;detalle" (exportado de la
// superintendencia, usualmente en ISO-8859-1).
//
// Uso: go run ./cmd/seed_cuentas <company_id> [ruta/plan_cuentas.csv]
// Por defecto busca plan_cuentas.csv en el directorio actual.
// Escribe: migrations/seed_plan_cuentas_<company_id>.sql
//
// El nivel y el padre de cada cuenta se derivan del código: "1.1.03" cuelga
// de "1.1" y tiene nivel 3. Las cuentas de detalle son las que admiten
// movimientos en el libro diario.
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type cuenta struct {
	code     string
	name     string
	tipo     string
	isDetail bool
}

var validTypes = map[string]bool{
	"asset":     true,
	"liability": true,
	"equity":    true,
	"income":    true,
	"expense":   true,
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Uso: seed_cuentas <company_id> [plan_cuentas.csv]")
		os.Exit(1)
	}
	companyID := os.Args[1]
	csvPath := "plan_cuentas.csv"
	if len(os.Args) > 2 {
		csvPath = os.Args[2]
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// Los planes exportados suelen venir en ISO-8859-1 (tildes, ñ).
	reader := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	byCode := make(map[string]cuenta)
	for i, rec := range records {
		if len(rec) < 3 {
			continue
		}
		code := strings.TrimSpace(rec[0])
		name := strings.TrimSpace(rec[1])
		tipo := strings.ToLower(strings.TrimSpace(rec[2]))
		if code == "" || name == "" || strings.EqualFold(code, "codigo") {
			continue // cabecera o fila vacía
		}
		if !validTypes[tipo] {
			fmt.Fprintf(os.Stderr, "Fila %d: tipo %q desconocido (cuenta %s)\n", i+1, tipo, code)
			os.Exit(1)
		}
		isDetail := len(rec) > 3 && strings.EqualFold(strings.TrimSpace(rec[3]), "si")
		byCode[code] = cuenta{code: code, name: name, tipo: tipo, isDetail: isDetail}
	}
	if len(byCode) == 0 {
		fmt.Fprintln(os.Stderr, "El CSV no contiene cuentas")
		os.Exit(1)
	}

	// Orden por código: garantiza que cada padre se inserta antes que sus hijas.
	codes := make([]string, 0, len(byCode))
	for c := range byCode {
		codes = append(codes, c)
	}
	sort.Strings(codes)

	// Validar la jerarquía completa antes de escribir nada.
	for _, code := range codes {
		if parent := parentCode(code); parent != "" {
			p, ok := byCode[parent]
			if !ok {
				fmt.Fprintf(os.Stderr, "La cuenta %s no tiene padre %s en el CSV\n", code, parent)
				os.Exit(1)
			}
			if p.tipo != byCode[code].tipo {
				fmt.Fprintf(os.Stderr, "La cuenta %s (%s) no coincide en tipo con su padre %s (%s)\n",
					code, byCode[code].tipo, parent, p.tipo)
				os.Exit(1)
			}
		}
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "migrations", fmt.Sprintf("seed_plan_cuentas_%s.sql", companyID))
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	fmt.Fprintf(out, "-- Plan de cuentas inicial de la empresa %s\n", companyID)
	fmt.Fprintf(out, "-- Generado desde %s\n\n", filepath.Base(csvPath))

	for _, code := range codes {
		c := byCode[code]
		parent := "NULL"
		if p := parentCode(code); p != "" {
			parent = "'" + escapeSQL(p) + "'"
		}
		fmt.Fprintf(out, "INSERT INTO accounts (id, company_id, code, name, type, parent_code, level, is_detail, active)\n")
		fmt.Fprintf(out, "VALUES (gen_random_uuid(), '%s', '%s', '%s', '%s', %s, %d, %t, true)\n",
			escapeSQL(companyID), escapeSQL(c.code), escapeSQL(c.name), c.tipo, parent, level(code), c.isDetail)
		fmt.Fprintf(out, "ON CONFLICT (company_id, code) DO UPDATE SET name = EXCLUDED.name;\n")
	}

	fmt.Printf("Generado %s: %d cuentas\n", outPath, len(codes))
}

// parentCode devuelve el código del padre: "1.1.03" -> "1.1"; "" para raíces.
func parentCode(code string) string {
	idx := strings.LastIndex(code, ".")
	if idx < 0 {
		return ""
	}
	return code[:idx]
}

// level cuenta los segmentos del código: "1.1.03" -> 3.
func level(code string) int {
	return strings.Count(code, ".") + 1
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
