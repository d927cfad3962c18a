// Package ledger contiene la aritmética pura del ledger de caja e insumos
// (servicio de dominio sin acceso a BD).
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/imprenta-api/internal/domain/entity"
)

// QuantityScale decimales con los que se redondea el consumo de insumos.
const QuantityScale int32 = 3

// RatioScale decimales de la razón de consumo por metro.
const RatioScale int32 = 6

// ProductionHour hora fija a la que se normaliza la fecha de producción.
const ProductionHour = 12

// DefaultNotesThreshold diferencia (en moneda) a partir de la cual el corte exige notas.
var DefaultNotesThreshold = decimal.NewFromInt(50)

// Apply devuelve el saldo resultante de aplicar delta a before.
func Apply(before, delta decimal.Decimal) decimal.Decimal {
	return before.Add(delta)
}

// NewMovement arma un movimiento a partir del saldo actual, garantizando
// QuantityAfter = QuantityBefore + QuantityChanged.
func NewMovement(subjectKind, subjectID string, before, delta decimal.Decimal, cause, actor string, at time.Time) *entity.Movement {
	return &entity.Movement{
		SubjectKind:     subjectKind,
		SubjectID:       subjectID,
		Timestamp:       at,
		QuantityBefore:  before,
		QuantityAfter:   Apply(before, delta),
		QuantityChanged: delta,
		Cause:           cause,
		Actor:           actor,
	}
}

// RoundQuantity lleva montos, cantidades y metros a QuantityScale decimales,
// la misma escala de las columnas NUMERIC(18,3).
func RoundQuantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityScale)
}

// ConsumptionQuantity = |metersDelta| * ratio, redondeado a QuantityScale decimales.
func ConsumptionQuantity(metersDelta, ratio decimal.Decimal) decimal.Decimal {
	return metersDelta.Abs().Mul(ratio).Round(QuantityScale)
}

// ConsumptionSign aplica la convención de signo: producción positiva descuenta
// (consumption, -qty); producción negativa revierte (adjustment, +qty).
func ConsumptionSign(metersDelta, qty decimal.Decimal) (decimal.Decimal, string) {
	if metersDelta.IsNegative() {
		return qty, entity.CauseAdjustment
	}
	return qty.Neg(), entity.CauseConsumption
}

// AdjustMeters acumula los metros ya contabilizados; nunca baja de cero.
func AdjustMeters(accounted, metersDelta decimal.Decimal) decimal.Decimal {
	next := accounted.Add(metersDelta)
	if next.IsNegative() {
		return decimal.Zero
	}
	return next
}

// NormalizeProductionDate lleva la fecha de producción a una hora fija del mismo día,
// para que las correcciones históricas caigan en el día correcto.
func NormalizeProductionDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, ProductionHour, 0, 0, 0, t.Location())
}

// CorteSummary resultado de los pasos de cálculo del corte (sin efectivo observado).
type CorteSummary struct {
	OpeningBalance  decimal.Decimal
	SumInflows      decimal.Decimal
	SumOutflows     decimal.Decimal
	ComputedBalance decimal.Decimal
	MovementCount   int
}

// SummarizeCorte suma ingresos y gastos por su Flow (no por el signo) y calcula
// opening + ingresos - gastos. Es una función pura del estado del ledger.
func SummarizeCorte(opening decimal.Decimal, movements []*entity.Movement) CorteSummary {
	s := CorteSummary{
		OpeningBalance: opening,
		SumInflows:     decimal.Zero,
		SumOutflows:    decimal.Zero,
	}
	for _, m := range movements {
		switch m.Flow {
		case entity.FlowIngreso:
			s.SumInflows = s.SumInflows.Add(m.QuantityChanged.Abs())
		case entity.FlowGasto:
			s.SumOutflows = s.SumOutflows.Add(m.QuantityChanged.Abs())
		default:
			continue
		}
		s.MovementCount++
	}
	s.ComputedBalance = opening.Add(s.SumInflows).Sub(s.SumOutflows)
	return s
}

// Difference = observado - calculado.
func Difference(observed, computed decimal.Decimal) decimal.Decimal {
	return observed.Sub(computed)
}

// NotesRequired indica si |difference| supera el umbral.
func NotesRequired(difference, threshold decimal.Decimal) bool {
	return difference.Abs().GreaterThan(threshold)
}

// DaySummary totales de caja de un día.
type DaySummary struct {
	Date     time.Time
	Ingresos decimal.Decimal
	Gastos   decimal.Decimal
	Neto     decimal.Decimal
	Count    int
}

// DailySummary agrupa movimientos de caja por día calendario (zona del movimiento),
// ordenados del más antiguo al más reciente.
func DailySummary(movements []*entity.Movement) []DaySummary {
	byDay := make(map[time.Time]*DaySummary)
	for _, m := range movements {
		y, mo, d := m.Timestamp.Date()
		day := time.Date(y, mo, d, 0, 0, 0, 0, m.Timestamp.Location())
		s, ok := byDay[day]
		if !ok {
			s = &DaySummary{Date: day, Ingresos: decimal.Zero, Gastos: decimal.Zero}
			byDay[day] = s
		}
		switch m.Flow {
		case entity.FlowIngreso:
			s.Ingresos = s.Ingresos.Add(m.QuantityChanged.Abs())
		case entity.FlowGasto:
			s.Gastos = s.Gastos.Add(m.QuantityChanged.Abs())
		default:
			continue
		}
		s.Count++
	}
	out := make([]DaySummary, 0, len(byDay))
	for _, s := range byDay {
		s.Neto = s.Ingresos.Sub(s.Gastos)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
