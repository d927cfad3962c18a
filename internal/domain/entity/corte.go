package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Corte es el registro de un corte de caja: saldo calculado contra efectivo contado.
// Se crea una vez y no se modifica ni elimina.
type Corte struct {
	ID              string
	CashRegisterID  string
	PeriodStart     time.Time
	PeriodEnd       time.Time // exclusivo
	OpeningBalance  decimal.Decimal
	SumInflows      decimal.Decimal
	SumOutflows     decimal.Decimal
	ComputedBalance decimal.Decimal // opening + inflows - outflows
	ObservedValue   decimal.Decimal
	Difference      decimal.Decimal // observed - computed
	Notes           string
	CreatedAt       time.Time
	CreatedBy       string
}
