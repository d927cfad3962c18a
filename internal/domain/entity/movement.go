package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de sujeto del ledger.
const (
	SubjectCaja   = "caja"   // cuenta de caja (dinero)
	SubjectInsumo = "insumo" // par máquina + tipo de insumo (material)
)

// Causas de movimiento.
const (
	CauseRestock     = "restock"     // reabastecimiento
	CauseConsumption = "consumption" // consumo automático por producción
	CauseAdjustment  = "adjustment"  // ajuste o reversa de consumo
	CauseManual      = "manual"      // captura manual (ingresos/gastos de caja)
)

// Flujos de caja; la clasificación del corte se hace por este campo, no por el signo.
const (
	FlowIngreso = "ingreso"
	FlowGasto   = "gasto"
)

// Movement es un asiento del ledger (dinero o material). Solo se inserta, nunca se modifica.
// Invariante: QuantityAfter = QuantityBefore + QuantityChanged.
type Movement struct {
	ID              string
	SubjectKind     string // caja, insumo
	SubjectID       string
	Flow            string // ingreso, gasto (solo caja)
	Category        string // categoría de caja (ventas, papelería, nómina...)
	Timestamp       time.Time
	QuantityBefore  decimal.Decimal
	QuantityAfter   decimal.Decimal
	QuantityChanged decimal.Decimal // con signo
	Actor           string
	Cause           string
	Notes           string
	ReferenceID     string // producción o captura que originó el movimiento
	CreatedAt       time.Time
}
