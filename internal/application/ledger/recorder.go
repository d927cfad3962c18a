package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/imprenta-api/internal/domain"
	"github.com/jhoicas/imprenta-api/internal/domain/entity"
	domainledger "github.com/jhoicas/imprenta-api/internal/domain/ledger"
	"github.com/jhoicas/imprenta-api/internal/domain/repository"
)

// Recorder es el escritor append-only compartido por caja e insumos.
// Cada Record bloquea el saldo del sujeto (SELECT FOR UPDATE), inserta el movimiento
// y actualiza el saldo dentro de la misma transacción.
type Recorder struct {
	txRunner    TxRunner
	movRepo     repository.MovementRepository
	balanceRepo repository.BalanceRepository
	now         func() time.Time
}

// NewRecorder construye el ledger. movRepo y balanceRepo se usan para lecturas fuera de tx.
func NewRecorder(txRunner TxRunner, movRepo repository.MovementRepository, balanceRepo repository.BalanceRepository) *Recorder {
	return &Recorder{
		txRunner:    txRunner,
		movRepo:     movRepo,
		balanceRepo: balanceRepo,
		now:         time.Now,
	}
}

// RecordInput entrada para registrar un movimiento.
type RecordInput struct {
	SubjectKind string
	SubjectID   string
	Delta       decimal.Decimal // con signo
	Cause       string
	Flow        string // solo caja
	Category    string // solo caja
	Actor       string
	ReferenceID string
	Notes       string
	Timestamp   time.Time       // cero = ahora
	MetersDelta decimal.Decimal // ajusta metros contabilizados (insumos)
}

func (in RecordInput) validate() error {
	if in.SubjectID == "" || in.Actor == "" || in.Delta.IsZero() {
		return domain.ErrInvalidInput
	}
	switch in.SubjectKind {
	case entity.SubjectCaja:
		if in.Flow != entity.FlowIngreso && in.Flow != entity.FlowGasto {
			return domain.ErrInvalidInput
		}
	case entity.SubjectInsumo:
	default:
		return domain.ErrInvalidInput
	}
	switch in.Cause {
	case entity.CauseRestock, entity.CauseConsumption, entity.CauseAdjustment, entity.CauseManual:
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// Record calcula before/after a partir del saldo bloqueado, inserta el movimiento y
// actualiza el saldo. Tras un Record exitoso el saldo guardado es igual a QuantityAfter.
func (r *Recorder) Record(ctx context.Context, in RecordInput) (*entity.Movement, error) {
	in.Delta = domainledger.RoundQuantity(in.Delta)
	in.MetersDelta = domainledger.RoundQuantity(in.MetersDelta)
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := r.now()
	at := in.Timestamp
	if at.IsZero() {
		at = now
	}

	var stored *entity.Movement
	err := r.txRunner.Run(ctx, func(movRepo repository.MovementRepository, balanceRepo repository.BalanceRepository) error {
		bal, err := balanceRepo.GetForUpdate(ctx, in.SubjectKind, in.SubjectID)
		if err != nil {
			return err
		}
		mov := domainledger.NewMovement(in.SubjectKind, in.SubjectID, bal.Current, in.Delta, in.Cause, in.Actor, at)
		mov.ID = uuid.New().String()
		mov.Flow = in.Flow
		mov.Category = in.Category
		mov.Notes = in.Notes
		mov.ReferenceID = in.ReferenceID
		mov.CreatedAt = now
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}

		bal.Current = mov.QuantityAfter
		bal.MetersAccounted = domainledger.AdjustMeters(bal.MetersAccounted, in.MetersDelta)
		bal.UpdatedAt = now
		bal.UpdatedBy = in.Actor
		if err := balanceRepo.Upsert(ctx, bal); err != nil {
			return err
		}
		stored = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// Balance devuelve el saldo vivo del sujeto (cero si no hay fila).
func (r *Recorder) Balance(ctx context.Context, subjectKind, subjectID string) (*entity.Balance, error) {
	return r.balanceRepo.Get(ctx, subjectKind, subjectID)
}

// Movements lista el ledger de un sujeto en [from, to).
func (r *Recorder) Movements(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	return r.movRepo.List(ctx, filter)
}
