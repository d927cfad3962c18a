package consumption

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/imprenta-api/internal/application/dto"
	"github.com/jhoicas/imprenta-api/internal/application/ledger"
	"github.com/jhoicas/imprenta-api/internal/domain"
	"github.com/jhoicas/imprenta-api/internal/domain/entity"
	domainledger "github.com/jhoicas/imprenta-api/internal/domain/ledger"
	"github.com/jhoicas/imprenta-api/internal/domain/repository"
	"github.com/jhoicas/imprenta-api/pkg/logger"
)

// LedgerRecorder es lo que el motor necesita del ledger (lo implementa *ledger.Recorder).
type LedgerRecorder interface {
	Record(ctx context.Context, in ledger.RecordInput) (*entity.Movement, error)
}

// Config reglas configurables del motor.
type Config struct {
	// FallbackToAll aplica el consumo a todos los insumos de la máquina cuando
	// ninguno tiene auto_track activo.
	FallbackToAll bool
}

// Engine traduce metros impresos en descuentos de insumos por máquina.
type Engine struct {
	supplies repository.MachineSupplyRepository
	recorder LedgerRecorder
	cfg      Config
	log      *logger.Logger
}

// NewEngine construye el motor de consumo automático.
func NewEngine(supplies repository.MachineSupplyRepository, recorder LedgerRecorder, cfg Config, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{supplies: supplies, recorder: recorder, cfg: cfg, log: log}
}

// PartialError indica que el consumo se detuvo en un insumo; los anteriores quedaron aplicados.
type PartialError struct {
	SupplyID   string
	SupplyName string
	Applied    int
	Err        error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("consumo de %q falló tras %d insumo(s) aplicado(s): %v", e.SupplyName, e.Applied, e.Err)
}

// Unwrap permite errors.Is con domain.ErrPartialConsumption y con la causa original.
func (e *PartialError) Unwrap() []error {
	return []error{domain.ErrPartialConsumption, e.Err}
}

// ApplyProduction descuenta (metersDelta > 0) o devuelve (metersDelta < 0) insumos de la
// máquina según su consumo por metro. Cada insumo se escribe en su propia transacción:
// si uno falla, los anteriores quedan aplicados y se devuelve el resumen parcial junto
// con un *PartialError.
func (e *Engine) ApplyProduction(
	ctx context.Context,
	machineID string,
	metersDelta decimal.Decimal,
	actor, productionRef string,
	productionDate time.Time,
) ([]dto.ConsumptionItem, error) {
	if machineID == "" || actor == "" {
		return nil, domain.ErrInvalidInput
	}
	summary := []dto.ConsumptionItem{}
	if metersDelta.IsZero() {
		return summary, nil
	}

	configured, err := e.supplies.ListByMachine(ctx, machineID)
	if err != nil {
		return nil, err
	}
	targets := e.selectSupplies(configured)
	at := domainledger.NormalizeProductionDate(productionDate)

	for _, s := range targets {
		qty := domainledger.ConsumptionQuantity(metersDelta, s.ConsumptionRatio)
		if qty.IsZero() {
			continue
		}
		signed, cause := domainledger.ConsumptionSign(metersDelta, qty)

		_, err := e.recorder.Record(ctx, ledger.RecordInput{
			SubjectKind: entity.SubjectInsumo,
			SubjectID:   s.ID,
			Delta:       signed,
			Cause:       cause,
			Actor:       actor,
			ReferenceID: productionRef,
			Timestamp:   at,
			MetersDelta: metersDelta,
		})
		if err != nil {
			e.log.Error().Err(err).
				Str("machine_id", machineID).
				Str("supply_id", s.ID).
				Str("production_id", productionRef).
				Int("applied", len(summary)).
				Msg("consumo automático interrumpido")
			return summary, &PartialError{SupplyID: s.ID, SupplyName: s.Name, Applied: len(summary), Err: err}
		}
		e.log.Debug().
			Str("supply_id", s.ID).
			Str("amount", signed.String()).
			Str("cause", cause).
			Msg("consumo aplicado")
		summary = append(summary, dto.ConsumptionItem{
			SupplyID:   s.ID,
			SupplyName: s.Name,
			Amount:     signed,
			Unit:       s.Unit,
			Cause:      cause,
		})
	}
	return summary, nil
}

// selectSupplies devuelve los insumos con auto_track; si no hay ninguno y el
// fallback está activo, todos los configurados.
func (e *Engine) selectSupplies(configured []*entity.MachineSupply) []*entity.MachineSupply {
	tracked := make([]*entity.MachineSupply, 0, len(configured))
	for _, s := range configured {
		if s.AutoTrack {
			tracked = append(tracked, s)
		}
	}
	if len(tracked) == 0 && e.cfg.FallbackToAll {
		return configured
	}
	return tracked
}
