package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterProductionRequest body para POST /api/produccion.
type RegisterProductionRequest struct {
	MachineID      string          `json:"maquina_id" validate:"required"`
	Meters         decimal.Decimal `json:"metros"`
	ProductionDate time.Time       `json:"fecha" validate:"required"`
	Notes          string          `json:"notas" validate:"max=500"`
}

// CorrectProductionRequest body para PUT /api/produccion/:id.
type CorrectProductionRequest struct {
	Meters decimal.Decimal `json:"metros"`
	Notes  *string         `json:"notas" validate:"omitempty,max=500"`
}

// ConsumptionItem resumen de un descuento (o reversa) aplicado a un insumo.
type ConsumptionItem struct {
	SupplyID   string          `json:"insumo_id"`
	SupplyName string          `json:"insumo"`
	Amount     decimal.Decimal `json:"cantidad"` // con signo, como quedó en el ledger
	Unit       string          `json:"unidad"`
	Cause      string          `json:"causa"`
}

// ProductionResponse registro de producción.
type ProductionResponse struct {
	ID             string          `json:"id"`
	MachineID      string          `json:"maquina_id"`
	Meters         decimal.Decimal `json:"metros"`
	ProductionDate time.Time       `json:"fecha"`
	Notes          string          `json:"notas,omitempty"`
	CreatedBy      string          `json:"creado_por"`
	CreatedAt      time.Time       `json:"creado"`
	UpdatedAt      time.Time       `json:"actualizado"`
}

// ProductionResultResponse resultado de registrar o corregir producción.
// Warning no vacío indica que el stock no se ajustó (total o parcialmente).
type ProductionResultResponse struct {
	Production  ProductionResponse `json:"produccion"`
	Consumption []ConsumptionItem  `json:"consumo"`
	Warning     string             `json:"advertencia,omitempty"`
}

// ProductionListResponse lista paginada de producción.
type ProductionListResponse struct {
	Items []ProductionResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
