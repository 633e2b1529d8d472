package entity

import "time"

// Tipos de cuenta contable (conjunto cerrado).
const (
	CuentaActivo     = "asset"
	CuentaPasivo     = "liability"
	CuentaPatrimonio = "equity"
	CuentaIngreso    = "income"
	CuentaGasto      = "expense"
)

// ValidAccountTypes contiene los tipos de cuenta admitidos.
var ValidAccountTypes = map[string]bool{
	CuentaActivo:     true,
	CuentaPasivo:     true,
	CuentaPatrimonio: true,
	CuentaIngreso:    true,
	CuentaGasto:      true,
}

// Account representa una cuenta del plan de cuentas jerárquico.
// El vínculo padre/hijo es por código (ej: "1.1.01" cuelga de "1.1"), nunca
// por punteros: la navegación se resuelve con búsquedas en un mapa por código.
// Invariantes: Level = nivel del padre + 1 (o 1 sin padre); solo las cuentas
// con IsDetail=true reciben movimientos del libro diario.
type Account struct {
	ID         string
	CompanyID  string
	Code       string  // jerárquico, único por empresa (ej: "1.1.01")
	Name       string
	Type       string  // ver constantes Cuenta*
	ParentCode *string // nil = cuenta de primer nivel
	Level      int     // profundidad en la jerarquía, >= 1
	IsDetail   bool    // true solo para cuentas hoja imputables
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
