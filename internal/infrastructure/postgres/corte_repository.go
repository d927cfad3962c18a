package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/imprenta-api/internal/domain"
	"github.com/jhoicas/imprenta-api/internal/domain/entity"
	"github.com/jhoicas/imprenta-api/internal/domain/repository"
)

var _ repository.CorteRepository = (*CorteRepo)(nil)

// CorteRepo cortes de caja sobre PostgreSQL. La tabla tiene una restricción EXCLUDE
// que impide periodos traslapados por caja.
type CorteRepo struct {
	q Querier
}

// NewCorteRepository construye el adaptador de cortes.
func NewCorteRepository(q Querier) *CorteRepo {
	return &CorteRepo{q: q}
}

const corteColumns = `id, cash_register_id, period_start, period_end, opening_balance, sum_inflows,
	sum_outflows, computed_balance, observed_value, difference, notes, created_at, created_by`

// Create inserta el corte; ErrCorteOverlap si choca con otro periodo de la misma caja.
func (r *CorteRepo) Create(ctx context.Context, c *entity.Corte) error {
	query := `INSERT INTO cortes (` + corteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CashRegisterID, c.PeriodStart, c.PeriodEnd, c.OpeningBalance, c.SumInflows,
		c.SumOutflows, c.ComputedBalance, c.ObservedValue, c.Difference, nullIfEmpty(c.Notes),
		c.CreatedAt, c.CreatedBy,
	)
	if err != nil {
		if isExclusionViolation(err) {
			return domain.ErrCorteOverlap
		}
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create corte: %w", err)
	}
	return nil
}

func scanCorte(row pgx.Row) (*entity.Corte, error) {
	var c entity.Corte
	var notes *string
	err := row.Scan(&c.ID, &c.CashRegisterID, &c.PeriodStart, &c.PeriodEnd, &c.OpeningBalance, &c.SumInflows,
		&c.SumOutflows, &c.ComputedBalance, &c.ObservedValue, &c.Difference, &notes, &c.CreatedAt, &c.CreatedBy)
	if err != nil {
		return nil, err
	}
	c.Notes = deref(notes)
	return &c, nil
}

func (r *CorteRepo) queryOne(ctx context.Context, query string, args ...any) (*entity.Corte, error) {
	c, err := scanCorte(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// GetByID obtiene un corte; nil si no existe.
func (r *CorteRepo) GetByID(ctx context.Context, id string) (*entity.Corte, error) {
	c, err := r.queryOne(ctx, `SELECT `+corteColumns+` FROM cortes WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get corte: %w", err)
	}
	return c, nil
}

// ExistsOverlapping indica si algún corte de la caja intersecta [start, end).
func (r *CorteRepo) ExistsOverlapping(ctx context.Context, cashRegisterID string, start, end time.Time) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM cortes
		WHERE cash_register_id = $1
		  AND tstzrange(period_start, period_end, '[)') && tstzrange($2, $3, '[)'))`
	var exists bool
	if err := r.q.QueryRow(ctx, query, cashRegisterID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("check corte overlap: %w", err)
	}
	return exists, nil
}

// LatestBefore corte más reciente de la caja que terminó en o antes de before.
func (r *CorteRepo) LatestBefore(ctx context.Context, cashRegisterID string, before time.Time) (*entity.Corte, error) {
	c, err := r.queryOne(ctx, `SELECT `+corteColumns+` FROM cortes
		WHERE cash_register_id = $1 AND period_end <= $2
		ORDER BY period_end DESC LIMIT 1`, cashRegisterID, before)
	if err != nil {
		return nil, fmt.Errorf("latest corte: %w", err)
	}
	return c, nil
}

// List cortes de la caja, el más reciente primero.
func (r *CorteRepo) List(ctx context.Context, cashRegisterID string, limit, offset int) ([]*entity.Corte, error) {
	query, args := withPage(`SELECT `+corteColumns+` FROM cortes
		WHERE cash_register_id = $1 ORDER BY period_end DESC`, []any{cashRegisterID}, limit, offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cortes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Corte
	for rows.Next() {
		c, err := scanCorte(rows)
		if err != nil {
			return nil, fmt.Errorf("scan corte: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
