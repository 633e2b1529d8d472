package entity

import "time"

// Supplier representa un proveedor (liquidaciones de compra y retenciones).
type Supplier struct {
	ID                 string
	CompanyID          string
	Name               string
	IdentificationType string // Tabla 6 SRI
	Identification     string
	Email              string
	Phone              string
	Address            string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
