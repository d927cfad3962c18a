package caja

import (
	"context"

	"github.com/jhoicas/imprenta-api/internal/application/ledger"
	"github.com/jhoicas/imprenta-api/internal/domain/entity"
	"github.com/jhoicas/imprenta-api/internal/domain/repository"
)

// Ledger es lo que caja necesita del ledger compartido (lo implementa *ledger.Recorder).
type Ledger interface {
	Record(ctx context.Context, in ledger.RecordInput) (*entity.Movement, error)
	Balance(ctx context.Context, subjectKind, subjectID string) (*entity.Balance, error)
	Movements(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error)
}

// CortePDFGenerator genera el comprobante imprimible de un corte.
type CortePDFGenerator interface {
	GenerateCortePDF(ctx context.Context, corte *entity.Corte, movements []*entity.Movement) ([]byte, error)
}
