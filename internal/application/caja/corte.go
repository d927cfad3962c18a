package caja

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/imprenta-api/internal/application/dto"
	"github.com/jhoicas/imprenta-api/internal/domain"
	"github.com/jhoicas/imprenta-api/internal/domain/entity"
	domainledger "github.com/jhoicas/imprenta-api/internal/domain/ledger"
	"github.com/jhoicas/imprenta-api/internal/domain/repository"
)

func newID() string { return uuid.New().String() }

// ReconcileInput entrada del corte de caja.
type ReconcileInput struct {
	CashRegisterID string
	PeriodStart    time.Time
	PeriodEnd      time.Time // exclusivo
	ObservedCash   *decimal.Decimal
	Notes          string
	Actor          string
}

// summarize ejecuta los pasos de lectura del corte: saldo inicial del corte previo,
// suma de ingresos y gastos de [start, end) y saldo calculado.
func (uc *UseCase) summarize(ctx context.Context, reg string, start, end time.Time) (domainledger.CorteSummary, error) {
	opening := decimal.Zero
	prev, err := uc.cortes.LatestBefore(ctx, reg, start)
	if err != nil {
		return domainledger.CorteSummary{}, err
	}
	if prev != nil {
		opening = prev.ComputedBalance
	}
	movs, err := uc.ledger.Movements(ctx, repository.MovementFilter{
		SubjectKind: entity.SubjectCaja,
		SubjectID:   reg,
		From:        &start,
		To:          &end,
	})
	if err != nil {
		return domainledger.CorteSummary{}, err
	}
	return domainledger.SummarizeCorte(opening, movs), nil
}

// Preview calcula el corte sin guardarlo. Con observed calcula también la diferencia.
func (uc *UseCase) Preview(ctx context.Context, cashRegisterID string, start, end time.Time, observed *decimal.Decimal) (*dto.CortePreviewResponse, error) {
	if !start.Before(end) {
		return nil, domain.ErrInvalidPeriod
	}
	reg := uc.register(cashRegisterID)
	s, err := uc.summarize(ctx, reg, start, end)
	if err != nil {
		return nil, err
	}
	out := &dto.CortePreviewResponse{
		CashRegisterID:  reg,
		PeriodStart:     start,
		PeriodEnd:       end,
		OpeningBalance:  s.OpeningBalance,
		SumInflows:      s.SumInflows,
		SumOutflows:     s.SumOutflows,
		ComputedBalance: s.ComputedBalance,
		MovementCount:   s.MovementCount,
	}
	if observed != nil {
		v := domainledger.RoundQuantity(*observed)
		diff := domainledger.Difference(v, s.ComputedBalance)
		out.ObservedValue = &v
		out.Difference = &diff
		out.NotesRequired = domainledger.NotesRequired(diff, uc.cfg.NotesThreshold)
	}
	return out, nil
}

// Reconcile realiza el corte de caja: valida, verifica que no haya traslape con otro
// corte, calcula el saldo esperado contra el efectivo contado y lo guarda.
// El corte guardado no se modifica ni elimina.
func (uc *UseCase) Reconcile(ctx context.Context, in ReconcileInput) (*dto.CorteResponse, error) {
	if in.Actor == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.PeriodStart.Before(in.PeriodEnd) {
		return nil, domain.ErrInvalidPeriod
	}
	if in.ObservedCash == nil || in.ObservedCash.IsNegative() {
		return nil, domain.ErrObservedCashRequired
	}
	observed := domainledger.RoundQuantity(*in.ObservedCash)
	notes := strings.TrimSpace(in.Notes)
	reg := uc.register(in.CashRegisterID)

	overlap, err := uc.cortes.ExistsOverlapping(ctx, reg, in.PeriodStart, in.PeriodEnd)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, domain.ErrCorteOverlap
	}

	s, err := uc.summarize(ctx, reg, in.PeriodStart, in.PeriodEnd)
	if err != nil {
		return nil, err
	}
	diff := domainledger.Difference(observed, s.ComputedBalance)
	if domainledger.NotesRequired(diff, uc.cfg.NotesThreshold) && notes == "" {
		return nil, domain.ErrNotesRequired
	}

	corte := &entity.Corte{
		ID:              uc.newCorteID(),
		CashRegisterID:  reg,
		PeriodStart:     in.PeriodStart,
		PeriodEnd:       in.PeriodEnd,
		OpeningBalance:  s.OpeningBalance,
		SumInflows:      s.SumInflows,
		SumOutflows:     s.SumOutflows,
		ComputedBalance: s.ComputedBalance,
		ObservedValue:   observed,
		Difference:      diff,
		Notes:           notes,
		CreatedAt:       uc.now(),
		CreatedBy:       in.Actor,
	}
	if err := uc.cortes.Create(ctx, corte); err != nil {
		return nil, err
	}
	out := toCorteResponse(corte)
	return &out, nil
}

// GetCorte obtiene un corte por ID.
func (uc *UseCase) GetCorte(ctx context.Context, id string) (*dto.CorteResponse, error) {
	c, err := uc.cortes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	out := toCorteResponse(c)
	return &out, nil
}

// ListCortes lista los cortes de la caja, el más reciente primero.
func (uc *UseCase) ListCortes(ctx context.Context, cashRegisterID string, limit, offset int) (*dto.CorteListResponse, error) {
	list, err := uc.cortes.List(ctx, uc.register(cashRegisterID), limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CorteResponse, 0, len(list))
	for _, c := range list {
		items = append(items, toCorteResponse(c))
	}
	return &dto.CorteListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// ErrPDFUnavailable el servidor no tiene generador de PDF configurado.
var ErrPDFUnavailable = errors.New("generador de PDF no configurado")

// CortePDF genera el comprobante del corte con los movimientos del periodo.
func (uc *UseCase) CortePDF(ctx context.Context, id string) ([]byte, error) {
	if uc.pdf == nil {
		return nil, ErrPDFUnavailable
	}
	c, err := uc.cortes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	movs, err := uc.ledger.Movements(ctx, repository.MovementFilter{
		SubjectKind: entity.SubjectCaja,
		SubjectID:   c.CashRegisterID,
		From:        &c.PeriodStart,
		To:          &c.PeriodEnd,
	})
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateCortePDF(ctx, c, movs)
}

func toCorteResponse(c *entity.Corte) dto.CorteResponse {
	return dto.CorteResponse{
		ID:              c.ID,
		CashRegisterID:  c.CashRegisterID,
		PeriodStart:     c.PeriodStart,
		PeriodEnd:       c.PeriodEnd,
		OpeningBalance:  c.OpeningBalance,
		SumInflows:      c.SumInflows,
		SumOutflows:     c.SumOutflows,
		ComputedBalance: c.ComputedBalance,
		ObservedValue:   c.ObservedValue,
		Difference:      c.Difference,
		Notes:           c.Notes,
		CreatedAt:       c.CreatedAt,
		CreatedBy:       c.CreatedBy,
	}
}
