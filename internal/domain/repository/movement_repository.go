package repository

import (
	"context"
	"time"

	"github.com/jhoicas/imprenta-api/internal/domain/entity"
)

// MovementFilter filtra movimientos de un sujeto. From es inclusivo y To exclusivo.
type MovementFilter struct {
	SubjectKind string
	SubjectID   string
	From        *time.Time
	To          *time.Time
	Limit       int // 0 = sin límite
	Offset      int
}

// MovementRepository define el puerto de persistencia del ledger (solo inserción y lectura).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
}
