package repository

import "context"

// SequenceRepository es el puerto del almacén de secuenciales.
// Next incrementa y devuelve el contador de la tupla
// (empresa, tipo de comprobante, establecimiento, punto de emisión).
//
// Contrato de concurrencia: la implementación DEBE ser atómica por tupla
// (incremento transaccional de escritor único o bloqueo por tupla); dos
// llamadas concurrentes sobre la misma tupla jamás devuelven el mismo número.
// Un número entregado queda consumido aunque la construcción del comprobante
// falle después: las secuencias admiten huecos justificados, nunca duplicados.
type SequenceRepository interface {
	Next(ctx context.Context, companyID, docType, establecimiento, puntoEmision string) (int64, error)
}
