package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida SRI de un comprobante.
// BORRADOR -> GENERADO -> FIRMADO -> ENVIADO -> AUTORIZADO | DEVUELTO.
// AUTORIZADO y DEVUELTO son terminales e inmutables; un comprobante DEVUELTO
// exige emitir uno nuevo con secuencial y clave de acceso frescos.
const (
	EstadoBorrador   = "BORRADOR"
	EstadoGenerado   = "GENERADO"
	EstadoFirmado    = "FIRMADO"
	EstadoEnviado    = "ENVIADO"
	EstadoAutorizado = "AUTORIZADO"
	EstadoDevuelto   = "DEVUELTO"
)

// Document representa la cabecera de un comprobante electrónico.
// Una vez construido (clave de acceso y secuencial asignados) es inmutable en
// sus campos fiscales; solo avanza el estado y los campos de autorización.
type Document struct {
	ID              string
	CompanyID       string
	Tipo            string // codDoc SRI: 01, 03, 04, 05, 06, 07
	Establecimiento string // 3 dígitos
	PuntoEmision    string // 3 dígitos
	Secuencial      string // 9 dígitos con ceros a la izquierda; nunca se reutiliza
	FechaEmision    time.Time
	ClaveAcceso     string // 49 dígitos, ligada 1:1 al comprobante; nunca se regenera
	Estado          string // ver constantes Estado*
	CustomerID      string // comprador (facturas, NC, ND)
	SupplierID      string // proveedor (liquidaciones de compra, retenciones)

	// Totales calculados al construir (redondeo a 2 decimales por línea y por total)
	TotalSinImpuestos decimal.Decimal
	TotalDescuento    decimal.Decimal
	TotalImpuestos    decimal.Decimal
	ImporteTotal      decimal.Decimal

	XMLFirmado         string // XML con ds:Signature (disponible desde FIRMADO)
	NumeroAutorizacion string // Devuelto por el SRI al autorizar
	FechaAutorizacion  *time.Time
	MensajesSRI        string // Mensajes de devolución/rechazo del SRI
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// EsTerminal informa si el comprobante está en un estado final.
func (d *Document) EsTerminal() bool {
	return d.Estado == EstadoAutorizado || d.Estado == EstadoDevuelto
}
