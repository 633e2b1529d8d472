package dto

import "time"

// CreateDocumentRequest petición de emisión de un comprobante.
// El secuencial, la clave de acceso y los totales NO se aceptan del cliente:
// los asigna y calcula el motor.
type CreateDocumentRequest struct {
	Tipo         string                 `json:"tipo"`          // codDoc: 01, 03, 04, 05, 06, 07
	CustomerID   string                 `json:"customer_id"`   // ventas (01, 04, 05)
	SupplierID   string                 `json:"supplier_id"`   // compras (03, 07)
	FechaEmision *time.Time             `json:"fecha_emision"` // nil = ahora
	Lines        []DocumentLineRequest  `json:"lines"`
	Submit       bool                   `json:"submit"` // true = firmar y enviar al SRI tras construir
}

// DocumentLineRequest una línea del comprobante.
type DocumentLineRequest struct {
	ProductID    string `json:"product_id"`
	Description  string `json:"description,omitempty"`   // vacío = nombre del producto
	Quantity     string `json:"quantity"`                 // decimal como string, hasta 6 decimales
	UnitPrice    string `json:"unit_price"`               // vacío = precio del producto
	Discount     string `json:"discount,omitempty"`       // vacío = 0
	TarifaCodigo string `json:"tarifa_codigo,omitempty"`  // vacío = tarifa del producto
}

// DocumentResponse representación de un comprobante hacia fuera.
type DocumentResponse struct {
	ID                 string                 `json:"id"`
	Tipo               string                 `json:"tipo"`
	Establecimiento    string                 `json:"establecimiento"`
	PuntoEmision       string                 `json:"punto_emision"`
	Secuencial         string                 `json:"secuencial"`
	ClaveAcceso        string                 `json:"clave_acceso"`
	Estado             string                 `json:"estado"`
	FechaEmision       time.Time              `json:"fecha_emision"`
	TotalSinImpuestos  string                 `json:"total_sin_impuestos"`
	TotalDescuento     string                 `json:"total_descuento"`
	TotalImpuestos     string                 `json:"total_impuestos"`
	ImporteTotal       string                 `json:"importe_total"`
	NumeroAutorizacion string                 `json:"numero_autorizacion,omitempty"`
	FechaAutorizacion  *time.Time             `json:"fecha_autorizacion,omitempty"`
	MensajesSRI        string                 `json:"mensajes_sri,omitempty"`
	Lines              []DocumentLineResponse `json:"lines,omitempty"`
}

// DocumentLineResponse una línea calculada del comprobante.
type DocumentLineResponse struct {
	ProductID    string `json:"product_id"`
	Description  string `json:"description"`
	Quantity     string `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	Discount     string `json:"discount"`
	TarifaCodigo string `json:"tarifa_codigo"`
	Subtotal     string `json:"subtotal"`
	TaxValue     string `json:"tax_value"`
}
