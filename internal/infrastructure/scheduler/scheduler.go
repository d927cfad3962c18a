package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/imprenta-api/internal/application/dto"
	"github.com/jhoicas/imprenta-api/internal/domain/entity"
	"github.com/jhoicas/imprenta-api/pkg/logger"
)

// AlertSource devuelve los insumos en nivel mínimo o crítico (lo implementa *supply.UseCase).
type AlertSource interface {
	Alerts(ctx context.Context) (*dto.SupplyListResponse, error)
}

// Scheduler ejecuta tareas periódicas.
type Scheduler struct {
	cron   *cron.Cron
	alerts AlertSource
	log    *logger.Logger
}

// New crea el scheduler. Las expresiones usan el parser estándar de 5 campos
// o descriptores como "@every 15m".
func New(alerts AlertSource, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{cron: cron.New(), alerts: alerts, log: log.Named("scheduler")}
}

// ScheduleStockAlerts programa el sondeo de alertas de stock. spec vacío = deshabilitado.
func (s *Scheduler) ScheduleStockAlerts(spec string) error {
	if spec == "" {
		s.log.Info().Msg("alertas de stock deshabilitadas")
		return nil
	}
	if _, err := s.cron.AddFunc(spec, s.checkStockAlerts); err != nil {
		return fmt.Errorf("programar alertas de stock %q: %w", spec, err)
	}
	s.log.Info().Str("spec", spec).Msg("alertas de stock programadas")
	return nil
}

// Start arranca el scheduler en segundo plano.
func (s *Scheduler) Start() {
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("iniciando scheduler")
	s.cron.Start()
}

// Stop detiene el scheduler y espera a que terminen las tareas en curso o a ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	s.log.Info().Msg("deteniendo scheduler")
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) checkStockAlerts() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	s.runStockAlerts(ctx)
}

// runStockAlerts registra un evento por insumo en alerta; devuelve cuántos hubo.
func (s *Scheduler) runStockAlerts(ctx context.Context) int {
	res, err := s.alerts.Alerts(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("no se pudieron consultar alertas de stock")
		return 0
	}
	for _, it := range res.Items {
		ev := s.log.Warn()
		if it.AlertLevel == entity.AlertCritico {
			ev = s.log.Error()
		}
		ev.Str("supply_id", it.ID).
			Str("machine_id", it.MachineID).
			Str("insumo", it.Name).
			Str("stock", it.CurrentStock.String()).
			Str("unidad", it.Unit).
			Str("nivel", it.AlertLevel).
			Msg("insumo con stock bajo")
	}
	if res.Total == 0 {
		s.log.Debug().Msg("sin alertas de stock")
	}
	return res.Total
}
