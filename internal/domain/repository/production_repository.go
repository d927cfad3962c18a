package repository

import (
	"context"
	"time"

	"github.com/jhoicas/imprenta-api/internal/domain/entity"
)

// ProductionRepository persiste los registros de producción.
type ProductionRepository interface {
	Create(ctx context.Context, record *entity.ProductionRecord) error
	Update(ctx context.Context, record *entity.ProductionRecord) error
	GetByID(ctx context.Context, id string) (*entity.ProductionRecord, error)
	List(ctx context.Context, machineID string, from, to *time.Time, limit, offset int) ([]*entity.ProductionRecord, error)
}
