package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Contabilidad (libro diario / plan de cuentas)
	ErrImbalance        = errors.New("asiento descuadrado: débitos y créditos no coinciden")
	ErrNotDetailAccount = errors.New("la cuenta no es de detalle y no admite movimientos")
	ErrHierarchy        = errors.New("jerarquía del plan de cuentas inválida")

	// Secuenciales: inalcanzable con el bloqueo correcto; si aparece es un bug de concurrencia.
	ErrSequenceConflict = errors.New("conflicto de secuencial: número duplicado o en regresión")

	// Integración SRI
	ErrTransport         = errors.New("fallo de transporte con el SRI")
	ErrAuthorityRejected = errors.New("comprobante devuelto por el SRI")
	ErrInvalidTransition = errors.New("transición de estado inválida")
)
