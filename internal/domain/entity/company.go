package entity

import "time"

// Company representa una organización/tenant del sistema (emisor de comprobantes, Ecuador).
// El RUC es inmutable después de la creación: cambiarlo invalidaría las claves
// de acceso de todos los comprobantes ya emitidos.
type Company struct {
	ID              string
	Name            string // Razón social
	TradeName       string // Nombre comercial
	RUC             string // RUC ecuatoriano de 13 dígitos
	Ambiente        string // "1" = pruebas, "2" = producción
	Establecimiento string // Código de establecimiento (3 dígitos, ej: "001")
	PuntoEmision    string // Punto de emisión (3 dígitos, ej: "001")
	Address         string // Dirección matriz (obligatoria en infoTributaria)
	Phone           string
	Email           string
	Status          string // active, suspended, inactive
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
