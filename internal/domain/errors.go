package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los casos de uso los envuelven
// con fmt.Errorf("...: %w", err) para añadir contexto (producto, solicitado vs
// disponible) conservando la comparación con errors.Is en los handlers.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Errores del motor de inventario (libro de stock).
var (
	// ErrInsufficientStock: una salida dejaría alguna de las dos unidades en negativo.
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrNegativeBalance: variante para ajustes; se reporta distinto para que el
	// cliente pueda mostrar otro mensaje.
	ErrNegativeBalance = errors.New("el saldo quedaría negativo")
	// ErrInvalidQuantity: cantidad negativa o ambas unidades en cero.
	ErrInvalidQuantity = errors.New("cantidad inválida")
	// ErrInvalidAdjustment: ajuste sin razón o con dirección desconocida.
	ErrInvalidAdjustment = errors.New("ajuste inválido")
	// ErrEmptyBatch: documento sin líneas.
	ErrEmptyBatch = errors.New("el documento no tiene líneas")
)
