package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConfigureSupplyRequest body para POST /api/maquinas/:machineId/insumos.
type ConfigureSupplyRequest struct {
	SupplyType       string          `json:"tipo_insumo" validate:"required,max=80"`
	Name             string          `json:"nombre" validate:"required,min=1,max=200"`
	Unit             string          `json:"unidad" validate:"required,max=20"`
	ConsumptionRatio decimal.Decimal `json:"consumo_por_metro"`
	AutoTrack        *bool           `json:"auto_track"` // vacío = true
	MinimumLevel     decimal.Decimal `json:"nivel_minimo"`
	CriticalLevel    decimal.Decimal `json:"nivel_critico"`
}

// UpdateSupplyRequest body para PUT /api/insumos/:id (campos opcionales).
type UpdateSupplyRequest struct {
	Name             *string          `json:"nombre" validate:"omitempty,min=1,max=200"`
	Unit             *string          `json:"unidad" validate:"omitempty,max=20"`
	ConsumptionRatio *decimal.Decimal `json:"consumo_por_metro"`
	AutoTrack        *bool            `json:"auto_track"`
	MinimumLevel     *decimal.Decimal `json:"nivel_minimo"`
	CriticalLevel    *decimal.Decimal `json:"nivel_critico"`
}

// StockChangeRequest body para reabastecer o ajustar un insumo.
type StockChangeRequest struct {
	Amount decimal.Decimal `json:"cantidad"`
	Notes  string          `json:"notas" validate:"max=500"`
}

// SupplyResponse regla de consumo con su stock actual.
type SupplyResponse struct {
	ID               string          `json:"id"`
	MachineID        string          `json:"maquina_id"`
	SupplyType       string          `json:"tipo_insumo"`
	Name             string          `json:"nombre"`
	Unit             string          `json:"unidad"`
	ConsumptionRatio decimal.Decimal `json:"consumo_por_metro"`
	AutoTrack        bool            `json:"auto_track"`
	MinimumLevel     decimal.Decimal `json:"nivel_minimo"`
	CriticalLevel    decimal.Decimal `json:"nivel_critico"`
	CurrentStock     decimal.Decimal `json:"stock_actual"`
	MetersAccounted  decimal.Decimal `json:"metros_contabilizados"`
	AlertLevel       string          `json:"alerta"` // ok | minimo | critico
	UpdatedAt        time.Time       `json:"actualizado"`
}

// SupplyListResponse lista de insumos.
type SupplyListResponse struct {
	Items []SupplyResponse `json:"items"`
	Total int              `json:"total"`
}
