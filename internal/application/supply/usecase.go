package supply

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/imprenta-api/internal/application/dto"
	"github.com/jhoicas/imprenta-api/internal/application/ledger"
	"github.com/jhoicas/imprenta-api/internal/domain"
	"github.com/jhoicas/imprenta-api/internal/domain/entity"
	domainledger "github.com/jhoicas/imprenta-api/internal/domain/ledger"
	"github.com/jhoicas/imprenta-api/internal/domain/repository"
)

// Ledger operaciones del ledger que usa el módulo de insumos (las implementa *ledger.Recorder).
type Ledger interface {
	Record(ctx context.Context, in ledger.RecordInput) (*entity.Movement, error)
	Balance(ctx context.Context, subjectKind, subjectID string) (*entity.Balance, error)
	Movements(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error)
}

// UseCase configuración de insumos por máquina y movimientos manuales de stock.
type UseCase struct {
	supplies repository.MachineSupplyRepository
	ledger   Ledger
	now      func() time.Time
}

// NewUseCase construye el caso de uso de insumos.
func NewUseCase(supplies repository.MachineSupplyRepository, l Ledger) *UseCase {
	return &UseCase{supplies: supplies, ledger: l, now: time.Now}
}

func validLevels(ratio, minimum, critical decimal.Decimal) bool {
	return !ratio.IsNegative() && !minimum.IsNegative() && !critical.IsNegative() &&
		critical.LessThanOrEqual(minimum)
}

// Configure crea la regla de consumo de un insumo en una máquina. El saldo no se
// escribe aquí: un insumo sin fila de saldo se lee en cero hasta su primer movimiento.
func (uc *UseCase) Configure(ctx context.Context, machineID string, in dto.ConfigureSupplyRequest) (*dto.SupplyResponse, error) {
	machineID = strings.TrimSpace(machineID)
	if machineID == "" || strings.TrimSpace(in.SupplyType) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	ratio := in.ConsumptionRatio.Round(domainledger.RatioScale)
	minimum := domainledger.RoundQuantity(in.MinimumLevel)
	critical := domainledger.RoundQuantity(in.CriticalLevel)
	if !validLevels(ratio, minimum, critical) {
		return nil, domain.ErrInvalidInput
	}
	autoTrack := true
	if in.AutoTrack != nil {
		autoTrack = *in.AutoTrack
	}
	now := uc.now()
	s := &entity.MachineSupply{
		ID:               uuid.New().String(),
		MachineID:        machineID,
		SupplyType:       strings.TrimSpace(in.SupplyType),
		Name:             strings.TrimSpace(in.Name),
		Unit:             strings.TrimSpace(in.Unit),
		ConsumptionRatio: ratio,
		AutoTrack:        autoTrack,
		MinimumLevel:     minimum,
		CriticalLevel:    critical,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.supplies.Create(ctx, s); err != nil {
		return nil, err
	}
	return uc.withStock(ctx, s)
}

// Update modifica los campos enviados de la regla.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateSupplyRequest) (*dto.SupplyResponse, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.Unit != nil {
		s.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.ConsumptionRatio != nil {
		s.ConsumptionRatio = in.ConsumptionRatio.Round(domainledger.RatioScale)
	}
	if in.AutoTrack != nil {
		s.AutoTrack = *in.AutoTrack
	}
	if in.MinimumLevel != nil {
		s.MinimumLevel = domainledger.RoundQuantity(*in.MinimumLevel)
	}
	if in.CriticalLevel != nil {
		s.CriticalLevel = domainledger.RoundQuantity(*in.CriticalLevel)
	}
	if !validLevels(s.ConsumptionRatio, s.MinimumLevel, s.CriticalLevel) {
		return nil, domain.ErrInvalidInput
	}
	s.UpdatedAt = uc.now()
	if err := uc.supplies.Update(ctx, s); err != nil {
		return nil, err
	}
	return uc.withStock(ctx, s)
}

// Get devuelve la regla con su stock actual.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.SupplyResponse, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.withStock(ctx, s)
}

// ListByMachine insumos configurados en la máquina con stock y nivel de alerta.
func (uc *UseCase) ListByMachine(ctx context.Context, machineID string) (*dto.SupplyListResponse, error) {
	list, err := uc.supplies.ListByMachine(ctx, machineID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplyResponse, 0, len(list))
	for _, s := range list {
		r, err := uc.withStock(ctx, s)
		if err != nil {
			return nil, err
		}
		items = append(items, *r)
	}
	return &dto.SupplyListResponse{Items: items, Total: len(items)}, nil
}

// Restock registra una entrada de insumo (cantidad positiva).
func (uc *UseCase) Restock(ctx context.Context, id string, amount decimal.Decimal, actor, notes string) (*dto.MovementResponse, error) {
	amount = domainledger.RoundQuantity(amount)
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	return uc.record(ctx, id, amount, entity.CauseRestock, actor, notes)
}

// Adjust corrige el stock tras un conteo físico; delta con signo y notas obligatorias.
func (uc *UseCase) Adjust(ctx context.Context, id string, delta decimal.Decimal, actor, notes string) (*dto.MovementResponse, error) {
	delta = domainledger.RoundQuantity(delta)
	if delta.IsZero() || strings.TrimSpace(notes) == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.record(ctx, id, delta, entity.CauseAdjustment, actor, notes)
}

func (uc *UseCase) record(ctx context.Context, id string, delta decimal.Decimal, cause, actor, notes string) (*dto.MovementResponse, error) {
	if _, err := uc.get(ctx, id); err != nil {
		return nil, err
	}
	mov, err := uc.ledger.Record(ctx, ledger.RecordInput{
		SubjectKind: entity.SubjectInsumo,
		SubjectID:   id,
		Delta:       delta,
		Cause:       cause,
		Actor:       actor,
		Notes:       strings.TrimSpace(notes),
	})
	if err != nil {
		return nil, err
	}
	out := dto.FromMovement(mov)
	return &out, nil
}

// Alerts insumos en nivel mínimo o crítico, los críticos primero.
func (uc *UseCase) Alerts(ctx context.Context) (*dto.SupplyListResponse, error) {
	all, err := uc.supplies.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplyResponse, 0)
	for _, s := range all {
		r, err := uc.withStock(ctx, s)
		if err != nil {
			return nil, err
		}
		if r.AlertLevel != entity.AlertOK {
			items = append(items, *r)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].AlertLevel == entity.AlertCritico && items[j].AlertLevel != entity.AlertCritico
	})
	return &dto.SupplyListResponse{Items: items, Total: len(items)}, nil
}

// Movements ledger del insumo en [from, to).
func (uc *UseCase) Movements(ctx context.Context, id string, from, to *time.Time, limit, offset int) (*dto.MovementListResponse, error) {
	if _, err := uc.get(ctx, id); err != nil {
		return nil, err
	}
	movs, err := uc.ledger.Movements(ctx, repository.MovementFilter{
		SubjectKind: entity.SubjectInsumo,
		SubjectID:   id,
		From:        from,
		To:          to,
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		return nil, err
	}
	return &dto.MovementListResponse{Items: dto.FromMovements(movs), Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

func (uc *UseCase) get(ctx context.Context, id string) (*entity.MachineSupply, error) {
	s, err := uc.supplies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (uc *UseCase) withStock(ctx context.Context, s *entity.MachineSupply) (*dto.SupplyResponse, error) {
	bal, err := uc.ledger.Balance(ctx, entity.SubjectInsumo, s.ID)
	if err != nil {
		return nil, err
	}
	out := toSupplyResponse(s, bal)
	return &out, nil
}

func toSupplyResponse(s *entity.MachineSupply, bal *entity.Balance) dto.SupplyResponse {
	updated := s.UpdatedAt
	if bal.UpdatedAt.After(updated) {
		updated = bal.UpdatedAt
	}
	return dto.SupplyResponse{
		ID:               s.ID,
		MachineID:        s.MachineID,
		SupplyType:       s.SupplyType,
		Name:             s.Name,
		Unit:             s.Unit,
		ConsumptionRatio: s.ConsumptionRatio,
		AutoTrack:        s.AutoTrack,
		MinimumLevel:     s.MinimumLevel,
		CriticalLevel:    s.CriticalLevel,
		CurrentStock:     bal.Current,
		MetersAccounted:  bal.MetersAccounted,
		AlertLevel:       s.AlertLevel(bal.Current),
		UpdatedAt:        updated,
	}
}
