package caja

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/imprenta-api/internal/application/dto"
	"github.com/jhoicas/imprenta-api/internal/application/ledger"
	"github.com/jhoicas/imprenta-api/internal/domain"
	"github.com/jhoicas/imprenta-api/internal/domain/entity"
	domainledger "github.com/jhoicas/imprenta-api/internal/domain/ledger"
	"github.com/jhoicas/imprenta-api/internal/domain/repository"
)

// Config parámetros de caja.
type Config struct {
	DefaultCashRegisterID string
	NotesThreshold        decimal.Decimal // |diferencia| > umbral exige notas
}

// UseCase movimientos de caja, cortes y reporte de ventas.
type UseCase struct {
	ledger     Ledger
	cortes     repository.CorteRepository
	pdf        CortePDFGenerator
	cfg        Config
	now        func() time.Time
	newCorteID func() string
}

// NewUseCase construye el caso de uso de caja. pdf puede ser nil (sin comprobante).
func NewUseCase(l Ledger, cortes repository.CorteRepository, pdf CortePDFGenerator, cfg Config) *UseCase {
	if cfg.DefaultCashRegisterID == "" {
		cfg.DefaultCashRegisterID = "caja-principal"
	}
	if cfg.NotesThreshold.IsZero() {
		cfg.NotesThreshold = domainledger.DefaultNotesThreshold
	}
	return &UseCase{
		ledger:     l,
		cortes:     cortes,
		pdf:        pdf,
		cfg:        cfg,
		now:        time.Now,
		newCorteID: newID,
	}
}

func (uc *UseCase) register(id string) string {
	if id == "" {
		return uc.cfg.DefaultCashRegisterID
	}
	return id
}

// RegisterMovement registra un ingreso o gasto de caja (monto positivo).
func (uc *UseCase) RegisterMovement(ctx context.Context, actor string, in dto.RegisterCashMovementRequest) (*dto.MovementResponse, error) {
	amount := domainledger.RoundQuantity(in.Amount)
	if actor == "" || !amount.IsPositive() || in.Category == "" {
		return nil, domain.ErrInvalidInput
	}
	delta := amount
	switch in.Flow {
	case entity.FlowIngreso:
	case entity.FlowGasto:
		delta = amount.Neg()
	default:
		return nil, domain.ErrInvalidInput
	}
	var at time.Time
	if in.Date != nil {
		at = *in.Date
	}
	mov, err := uc.ledger.Record(ctx, ledger.RecordInput{
		SubjectKind: entity.SubjectCaja,
		SubjectID:   uc.register(in.CashRegisterID),
		Delta:       delta,
		Cause:       entity.CauseManual,
		Flow:        in.Flow,
		Category:    in.Category,
		Actor:       actor,
		ReferenceID: in.ReferenceID,
		Notes:       in.Notes,
		Timestamp:   at,
	})
	if err != nil {
		return nil, err
	}
	out := dto.FromMovement(mov)
	return &out, nil
}

// ListMovements lista movimientos de la caja en [from, to).
func (uc *UseCase) ListMovements(ctx context.Context, cashRegisterID string, from, to *time.Time, limit, offset int) (*dto.MovementListResponse, error) {
	movs, err := uc.ledger.Movements(ctx, repository.MovementFilter{
		SubjectKind: entity.SubjectCaja,
		SubjectID:   uc.register(cashRegisterID),
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

// CurrentBalance saldo vivo de la caja.
func (uc *UseCase) CurrentBalance(ctx context.Context, cashRegisterID string) (*dto.BalanceResponse, error) {
	bal, err := uc.ledger.Balance(ctx, entity.SubjectCaja, uc.register(cashRegisterID))
	if err != nil {
		return nil, err
	}
	out := dto.FromBalance(bal)
	return &out, nil
}

// DailyReport reporte de ventas (ingresos/gastos por día) en [from, to).
func (uc *UseCase) DailyReport(ctx context.Context, cashRegisterID string, from, to time.Time) (*dto.SalesReportResponse, error) {
	if !from.Before(to) {
		return nil, domain.ErrInvalidPeriod
	}
	reg := uc.register(cashRegisterID)
	movs, err := uc.ledger.Movements(ctx, repository.MovementFilter{
		SubjectKind: entity.SubjectCaja, SubjectID: reg, From: &from, To: &to,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.SalesReportResponse{
		CashRegisterID: reg,
		From:           from,
		To:             to,
		Days:           []dto.DailySalesDTO{},
		TotalIngresos:  decimal.Zero,
		TotalGastos:    decimal.Zero,
	}
	for _, day := range domainledger.DailySummary(movs) {
		out.Days = append(out.Days, dto.DailySalesDTO{
			Date:     day.Date.Format("2006-01-02"),
			Ingresos: day.Ingresos,
			Gastos:   day.Gastos,
			Neto:     day.Neto,
			Count:    day.Count,
		})
		out.TotalIngresos = out.TotalIngresos.Add(day.Ingresos)
		out.TotalGastos = out.TotalGastos.Add(day.Gastos)
	}
	out.TotalNeto = out.TotalIngresos.Sub(out.TotalGastos)
	return out, nil
}
