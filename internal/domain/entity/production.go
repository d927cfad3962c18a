package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionRecord registra los metros impresos por una máquina en un día.
type ProductionRecord struct {
	ID             string
	MachineID      string
	Meters         decimal.Decimal
	ProductionDate time.Time
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
