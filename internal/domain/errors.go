package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Caja / corte de caja.
	ErrInvalidPeriod        = errors.New("el inicio del periodo debe ser anterior al fin")
	ErrObservedCashRequired = errors.New("el efectivo contado es obligatorio y no puede ser negativo")
	ErrCorteOverlap         = errors.New("ya existe un corte que se traslapa con el periodo")
	ErrNotesRequired        = errors.New("la diferencia supera el umbral: las notas son obligatorias")

	// Insumos / consumo automático.
	ErrPartialConsumption = errors.New("el consumo automático se aplicó parcialmente")
)
