package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance es el saldo vivo de un sujeto (fila materializada, una por sujeto).
// Se actualiza una vez por cada Movement aceptado, en la misma transacción.
type Balance struct {
	SubjectKind     string
	SubjectID       string
	Current         decimal.Decimal
	MetersAccounted decimal.Decimal // metros ya descontados (solo insumos)
	UpdatedAt       time.Time
	UpdatedBy       string
}
