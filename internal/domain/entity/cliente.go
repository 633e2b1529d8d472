package entity

import "time"

// Customer representa un comprador (adquiriente) de comprobantes de venta.
type Customer struct {
	ID                 string
	CompanyID          string
	Name               string
	IdentificationType string // Tabla 6 SRI: 04=RUC, 05=cédula, 06=pasaporte, 07=consumidor final
	Identification     string
	Email              string
	Phone              string
	Address            string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
