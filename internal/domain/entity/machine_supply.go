package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Niveles de alerta de stock (solo para mostrar; el ledger no los usa).
const (
	AlertOK      = "ok"
	AlertMinimo  = "minimo"
	AlertCritico = "critico"
)

// MachineSupply es la regla de consumo automático de un insumo en una máquina.
// Su ID es también el SubjectID del ledger de insumos.
type MachineSupply struct {
	ID               string
	MachineID        string
	SupplyType       string // tinta_cyan, vinil_blanco, laminado...
	Name             string
	Unit             string // ml, m2, rollo
	ConsumptionRatio decimal.Decimal // unidades de insumo por metro impreso
	AutoTrack        bool
	MinimumLevel     decimal.Decimal
	CriticalLevel    decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AlertLevel clasifica el stock contra los umbrales configurados.
func (s *MachineSupply) AlertLevel(stock decimal.Decimal) string {
	switch {
	case stock.LessThanOrEqual(s.CriticalLevel):
		return AlertCritico
	case stock.LessThanOrEqual(s.MinimumLevel):
		return AlertMinimo
	default:
		return AlertOK
	}
}
