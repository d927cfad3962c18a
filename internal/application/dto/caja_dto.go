package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterCashMovementRequest body para POST /api/caja/movimientos.
type RegisterCashMovementRequest struct {
	CashRegisterID string          `json:"caja_id"`
	Flow           string          `json:"tipo" validate:"required,oneof=ingreso gasto"`
	Amount         decimal.Decimal `json:"monto"`
	Category       string          `json:"categoria" validate:"required,max=80"`
	Notes          string          `json:"notas" validate:"max=500"`
	ReferenceID    string          `json:"referencia_id,omitempty"`
	Date           *time.Time      `json:"fecha,omitempty"` // vacío = ahora
}

// MovementResponse salida de un movimiento del ledger (caja o insumo).
type MovementResponse struct {
	ID              string          `json:"id"`
	SubjectKind     string          `json:"tipo_sujeto"`
	SubjectID       string          `json:"sujeto_id"`
	Flow            string          `json:"tipo,omitempty"`
	Category        string          `json:"categoria,omitempty"`
	Timestamp       time.Time       `json:"fecha"`
	QuantityBefore  decimal.Decimal `json:"cantidad_anterior"`
	QuantityAfter   decimal.Decimal `json:"cantidad_nueva"`
	QuantityChanged decimal.Decimal `json:"cantidad"`
	Cause           string          `json:"causa"`
	Actor           string          `json:"usuario"`
	Notes           string          `json:"notas,omitempty"`
	ReferenceID     string          `json:"referencia_id,omitempty"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// BalanceResponse saldo vivo de una caja o insumo.
type BalanceResponse struct {
	SubjectKind     string          `json:"tipo_sujeto"`
	SubjectID       string          `json:"sujeto_id"`
	Current         decimal.Decimal `json:"saldo"`
	MetersAccounted decimal.Decimal `json:"metros_contabilizados"`
	UpdatedAt       time.Time       `json:"actualizado"`
	UpdatedBy       string          `json:"actualizado_por,omitempty"`
}

// CreateCorteRequest body para POST /api/caja/cortes.
type CreateCorteRequest struct {
	CashRegisterID string           `json:"caja_id"`
	PeriodStart    time.Time        `json:"inicio" validate:"required"`
	PeriodEnd      time.Time        `json:"fin" validate:"required"`
	ObservedCash   *decimal.Decimal `json:"efectivo_contado"`
	Notes          string           `json:"notas" validate:"max=1000"`
}

// CortePreviewResponse cálculo del corte sin guardarlo.
type CortePreviewResponse struct {
	CashRegisterID  string           `json:"caja_id"`
	PeriodStart     time.Time        `json:"inicio"`
	PeriodEnd       time.Time        `json:"fin"`
	OpeningBalance  decimal.Decimal  `json:"saldo_inicial"`
	SumInflows      decimal.Decimal  `json:"ingresos"`
	SumOutflows     decimal.Decimal  `json:"gastos"`
	ComputedBalance decimal.Decimal  `json:"saldo_calculado"`
	ObservedValue   *decimal.Decimal `json:"efectivo_contado,omitempty"`
	Difference      *decimal.Decimal `json:"diferencia,omitempty"`
	NotesRequired   bool             `json:"notas_obligatorias"`
	MovementCount   int              `json:"movimientos"`
}

// CorteResponse salida de un corte guardado.
type CorteResponse struct {
	ID              string          `json:"id"`
	CashRegisterID  string          `json:"caja_id"`
	PeriodStart     time.Time       `json:"inicio"`
	PeriodEnd       time.Time       `json:"fin"`
	OpeningBalance  decimal.Decimal `json:"saldo_inicial"`
	SumInflows      decimal.Decimal `json:"ingresos"`
	SumOutflows     decimal.Decimal `json:"gastos"`
	ComputedBalance decimal.Decimal `json:"saldo_calculado"`
	ObservedValue   decimal.Decimal `json:"efectivo_contado"`
	Difference      decimal.Decimal `json:"diferencia"`
	Notes           string          `json:"notas,omitempty"`
	CreatedAt       time.Time       `json:"creado"`
	CreatedBy       string          `json:"creado_por"`
}

// CorteListResponse lista paginada de cortes.
type CorteListResponse struct {
	Items []CorteResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// DailySalesDTO totales de caja de un día (reporte de ventas).
type DailySalesDTO struct {
	Date     string          `json:"fecha"` // YYYY-MM-DD
	Ingresos decimal.Decimal `json:"ingresos"`
	Gastos   decimal.Decimal `json:"gastos"`
	Neto     decimal.Decimal `json:"neto"`
	Count    int             `json:"movimientos"`
}

// SalesReportResponse reporte de ventas por día.
type SalesReportResponse struct {
	CashRegisterID string          `json:"caja_id"`
	From           time.Time       `json:"desde"`
	To             time.Time       `json:"hasta"`
	Days           []DailySalesDTO `json:"dias"`
	TotalIngresos  decimal.Decimal `json:"total_ingresos"`
	TotalGastos    decimal.Decimal `json:"total_gastos"`
	TotalNeto      decimal.Decimal `json:"total_neto"`
}
