package repository

import (
	"context"

	"github.com/jhoicas/imprenta-api/internal/domain/entity"
)

// MachineSupplyRepository define el puerto para las reglas de consumo por máquina.
type MachineSupplyRepository interface {
	Create(ctx context.Context, supply *entity.MachineSupply) error
	Update(ctx context.Context, supply *entity.MachineSupply) error
	GetByID(ctx context.Context, id string) (*entity.MachineSupply, error)
	ListByMachine(ctx context.Context, machineID string) ([]*entity.MachineSupply, error)
	ListAll(ctx context.Context) ([]*entity.MachineSupply, error)
}
