package production

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/imprenta-api/internal/application/dto"
	"github.com/jhoicas/imprenta-api/internal/domain"
	"github.com/jhoicas/imprenta-api/internal/domain/entity"
	domainledger "github.com/jhoicas/imprenta-api/internal/domain/ledger"
	"github.com/jhoicas/imprenta-api/internal/domain/repository"
	"github.com/jhoicas/imprenta-api/pkg/logger"
)

// Consumer aplica el consumo automático de insumos (lo implementa *consumption.Engine).
type Consumer interface {
	ApplyProduction(ctx context.Context, machineID string, metersDelta decimal.Decimal, actor, productionRef string, productionDate time.Time) ([]dto.ConsumptionItem, error)
}

// WarningStockNotAdjusted se devuelve cuando la producción se guardó pero el stock
// no se ajustó por completo.
const WarningStockNotAdjusted = "producción registrada, pero el stock de insumos no se ajustó por completo; revise los movimientos"

// UseCase registro y corrección de producción diaria.
type UseCase struct {
	records  repository.ProductionRepository
	consumer Consumer
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso de producción.
func NewUseCase(records repository.ProductionRepository, consumer Consumer, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{records: records, consumer: consumer, log: log, now: time.Now}
}

// Register guarda los metros impresos y descuenta los insumos de la máquina.
// Un fallo del consumo no deshace el registro: se devuelve con advertencia.
func (uc *UseCase) Register(ctx context.Context, actor string, in dto.RegisterProductionRequest) (*dto.ProductionResultResponse, error) {
	machineID := strings.TrimSpace(in.MachineID)
	meters := domainledger.RoundQuantity(in.Meters)
	if actor == "" || machineID == "" || !meters.IsPositive() || in.ProductionDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	rec := &entity.ProductionRecord{
		ID:             uuid.New().String(),
		MachineID:      machineID,
		Meters:         meters,
		ProductionDate: domainledger.NormalizeProductionDate(in.ProductionDate),
		Notes:          strings.TrimSpace(in.Notes),
		CreatedBy:      actor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.records.Create(ctx, rec); err != nil {
		return nil, err
	}
	return uc.consume(ctx, rec, meters, actor), nil
}

// Correct cambia los metros de un registro y aplica la diferencia al stock:
// más metros descuentan, menos metros devuelven insumo.
func (uc *UseCase) Correct(ctx context.Context, id, actor string, in dto.CorrectProductionRequest) (*dto.ProductionResultResponse, error) {
	meters := domainledger.RoundQuantity(in.Meters)
	if actor == "" || meters.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	rec, err := uc.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	delta := meters.Sub(rec.Meters)
	rec.Meters = meters
	if in.Notes != nil {
		rec.Notes = strings.TrimSpace(*in.Notes)
	}
	rec.UpdatedAt = uc.now()
	if err := uc.records.Update(ctx, rec); err != nil {
		return nil, err
	}
	return uc.consume(ctx, rec, delta, actor), nil
}

func (uc *UseCase) consume(ctx context.Context, rec *entity.ProductionRecord, metersDelta decimal.Decimal, actor string) *dto.ProductionResultResponse {
	out := &dto.ProductionResultResponse{Production: toProductionResponse(rec)}
	items, err := uc.consumer.ApplyProduction(ctx, rec.MachineID, metersDelta, actor, rec.ID, rec.ProductionDate)
	if items == nil {
		items = []dto.ConsumptionItem{}
	}
	out.Consumption = items
	if err != nil {
		uc.log.Warn().Err(err).
			Str("production_id", rec.ID).
			Str("machine_id", rec.MachineID).
			Str("meters_delta", metersDelta.String()).
			Msg("producción guardada sin ajuste completo de stock")
		out.Warning = WarningStockNotAdjusted
	}
	return out
}

// List producción en [from, to), opcionalmente filtrada por máquina.
func (uc *UseCase) List(ctx context.Context, machineID string, from, to *time.Time, limit, offset int) (*dto.ProductionListResponse, error) {
	list, err := uc.records.List(ctx, machineID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductionResponse, 0, len(list))
	for _, r := range list {
		items = append(items, toProductionResponse(r))
	}
	return &dto.ProductionListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

func toProductionResponse(r *entity.ProductionRecord) dto.ProductionResponse {
	return dto.ProductionResponse{
		ID:             r.ID,
		MachineID:      r.MachineID,
		Meters:         r.Meters,
		ProductionDate: r.ProductionDate,
		Notes:          r.Notes,
		CreatedBy:      r.CreatedBy,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
