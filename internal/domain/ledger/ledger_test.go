package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/imprenta-api/internal/domain/entity"
	"github.com/jhoicas/imprenta-api/internal/domain/ledger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func cashMov(flow string, amount string, at time.Time) *entity.Movement {
	delta := d(amount)
	if flow == entity.FlowGasto {
		delta = delta.Neg()
	}
	return &entity.Movement{
		SubjectKind:     entity.SubjectCaja,
		SubjectID:       "caja-principal",
		Flow:            flow,
		QuantityChanged: delta,
		Timestamp:       at,
	}
}

func TestNewMovement_CumpleInvariante(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	m := ledger.NewMovement(entity.SubjectInsumo, "s1", d("10.5"), d("-2.25"), entity.CauseConsumption, "u1", at)

	assert.True(t, m.QuantityAfter.Equal(d("8.25")))
	assert.True(t, m.QuantityAfter.Equal(m.QuantityBefore.Add(m.QuantityChanged)))
	assert.Equal(t, entity.CauseConsumption, m.Cause)
	assert.Equal(t, at, m.Timestamp)
}

func TestConsumption_ConvencionDeSigno(t *testing.T) {
	ratio := d("2")

	qty := ledger.ConsumptionQuantity(d("10"), ratio)
	signed, cause := ledger.ConsumptionSign(d("10"), qty)
	assert.True(t, signed.Equal(d("-20")), "consumir descuenta")
	assert.Equal(t, entity.CauseConsumption, cause)

	qty = ledger.ConsumptionQuantity(d("-10"), ratio)
	signed, cause = ledger.ConsumptionSign(d("-10"), qty)
	assert.True(t, signed.Equal(d("20")), "revertir devuelve stock")
	assert.Equal(t, entity.CauseAdjustment, cause)
}

func TestConsumptionQuantity_RedondeoATresDecimales(t *testing.T) {
	assert.True(t, ledger.ConsumptionQuantity(d("1.5"), d("0.33333")).Equal(d("0.5")))
	assert.True(t, ledger.ConsumptionQuantity(d("0.0001"), d("2")).IsZero(), "cantidades menores a 0.0005 redondean a cero")
	assert.True(t, ledger.ConsumptionQuantity(d("100"), decimal.Zero).IsZero())
}

func TestAdjustMeters_NoBajaDeCero(t *testing.T) {
	assert.True(t, ledger.AdjustMeters(d("5"), d("10")).Equal(d("15")))
	assert.True(t, ledger.AdjustMeters(d("5"), d("-3")).Equal(d("2")))
	assert.True(t, ledger.AdjustMeters(d("5"), d("-30")).IsZero())
}

func TestNormalizeProductionDate(t *testing.T) {
	loc := time.FixedZone("CST", -6*3600)
	in := time.Date(2024, 5, 10, 23, 47, 12, 500, loc)
	out := ledger.NormalizeProductionDate(in)

	assert.Equal(t, time.Date(2024, 5, 10, ledger.ProductionHour, 0, 0, 0, loc), out)
	assert.Equal(t, out, ledger.NormalizeProductionDate(out), "normalizar es idempotente")
}

func TestSummarizeCorte_Formula(t *testing.T) {
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	movs := []*entity.Movement{
		cashMov(entity.FlowIngreso, "300", at),
		cashMov(entity.FlowIngreso, "200", at),
		cashMov(entity.FlowGasto, "200", at),
	}

	s := ledger.SummarizeCorte(d("100"), movs)
	require.Equal(t, 3, s.MovementCount)
	assert.True(t, s.SumInflows.Equal(d("500")))
	assert.True(t, s.SumOutflows.Equal(d("200")))
	assert.True(t, s.ComputedBalance.Equal(d("400")))
	assert.True(t, ledger.Difference(d("380"), s.ComputedBalance).Equal(d("-20")))
}

func TestSummarizeCorte_ClasificaPorFlowNoPorSigno(t *testing.T) {
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	// Un ingreso capturado con signo negativo sigue contando como ingreso.
	odd := &entity.Movement{Flow: entity.FlowIngreso, QuantityChanged: d("-40"), Timestamp: at}
	noFlow := &entity.Movement{QuantityChanged: d("999"), Timestamp: at}

	s := ledger.SummarizeCorte(decimal.Zero, []*entity.Movement{odd, noFlow})
	assert.True(t, s.SumInflows.Equal(d("40")))
	assert.True(t, s.SumOutflows.IsZero())
	assert.Equal(t, 1, s.MovementCount)
}

func TestSummarizeCorte_Idempotente(t *testing.T) {
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	movs := []*entity.Movement{
		cashMov(entity.FlowIngreso, "123.45", at),
		cashMov(entity.FlowGasto, "23.40", at),
	}
	a := ledger.SummarizeCorte(d("10"), movs)
	b := ledger.SummarizeCorte(d("10"), movs)
	assert.True(t, a.ComputedBalance.Equal(b.ComputedBalance))
	assert.True(t, a.ComputedBalance.Equal(d("110.05")))
}

func TestNotesRequired(t *testing.T) {
	th := ledger.DefaultNotesThreshold
	assert.False(t, ledger.NotesRequired(d("50"), th), "el umbral es exclusivo")
	assert.False(t, ledger.NotesRequired(d("-50"), th))
	assert.True(t, ledger.NotesRequired(d("50.01"), th))
	assert.True(t, ledger.NotesRequired(d("-120"), th))
}

func TestDailySummary_AgrupaPorDia(t *testing.T) {
	day1 := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 2, 2, 18, 30, 0, 0, time.UTC)
	movs := []*entity.Movement{
		cashMov(entity.FlowIngreso, "100", day2),
		cashMov(entity.FlowIngreso, "50", day1),
		cashMov(entity.FlowGasto, "20", day1),
	}

	out := ledger.DailySummary(movs)
	require.Len(t, out, 2)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), out[0].Date)
	assert.True(t, out[0].Neto.Equal(d("30")))
	assert.Equal(t, 2, out[0].Count)
	assert.True(t, out[1].Ingresos.Equal(d("100")))
	assert.True(t, out[1].Gastos.IsZero())
}
