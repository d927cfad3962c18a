package repository

import (
	"context"
	"time"

	"github.com/jhoicas/imprenta-api/internal/domain/entity"
)

// CorteRepository persiste cortes de caja (append-only).
type CorteRepository interface {
	// Create devuelve domain.ErrCorteOverlap si la BD rechaza el periodo por traslape.
	Create(ctx context.Context, corte *entity.Corte) error
	GetByID(ctx context.Context, id string) (*entity.Corte, error)
	// ExistsOverlapping indica si algún corte de la caja se traslapa con [start, end).
	ExistsOverlapping(ctx context.Context, cashRegisterID string, start, end time.Time) (bool, error)
	// LatestBefore devuelve el corte más reciente cuyo fin es <= before, o nil.
	LatestBefore(ctx context.Context, cashRegisterID string, before time.Time) (*entity.Corte, error)
	List(ctx context.Context, cashRegisterID string, limit, offset int) ([]*entity.Corte, error)
}
