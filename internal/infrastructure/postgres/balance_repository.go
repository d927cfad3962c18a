package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/imprenta-api/internal/domain/entity"
	"github.com/jhoicas/imprenta-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo saldos vivos sobre PostgreSQL (usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

const balanceSelect = `SELECT subject_kind, subject_id, current, meters_accounted, updated_at, COALESCE(updated_by, '')
	FROM balances WHERE subject_kind = $1 AND subject_id = $2`

func (r *BalanceRepo) scanOne(ctx context.Context, query, kind, id string) (*entity.Balance, error) {
	var b entity.Balance
	err := r.q.QueryRow(ctx, query, kind, id).Scan(
		&b.SubjectKind, &b.SubjectID, &b.Current, &b.MetersAccounted, &b.UpdatedAt, &b.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Balance{SubjectKind: kind, SubjectID: id, Current: decimal.Zero, MetersAccounted: decimal.Zero}, nil
		}
		return nil, err
	}
	return &b, nil
}

// Get obtiene el saldo; cero si el sujeto no tiene fila.
func (r *BalanceRepo) Get(ctx context.Context, kind, id string) (*entity.Balance, error) {
	b, err := r.scanOne(ctx, balanceSelect, kind, id)
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return b, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE). La fila se
// crea en cero si no existía, para que el primer escritor también quede serializado.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, kind, id string) (*entity.Balance, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO balances (subject_kind, subject_id, current, meters_accounted, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (subject_kind, subject_id) DO NOTHING`, kind, id)
	if err != nil {
		return nil, fmt.Errorf("ensure balance row: %w", err)
	}
	b, err := r.scanOne(ctx, balanceSelect+" FOR UPDATE", kind, id)
	if err != nil {
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return b, nil
}

// Upsert inserta o actualiza el saldo del sujeto.
func (r *BalanceRepo) Upsert(ctx context.Context, b *entity.Balance) error {
	query := `
		INSERT INTO balances (subject_kind, subject_id, current, meters_accounted, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (subject_kind, subject_id)
		DO UPDATE SET current = EXCLUDED.current, meters_accounted = EXCLUDED.meters_accounted,
			updated_at = EXCLUDED.updated_at, updated_by = EXCLUDED.updated_by`
	_, err := r.q.Exec(ctx, query, b.SubjectKind, b.SubjectID, b.Current, b.MetersAccounted, b.UpdatedAt, nullIfEmpty(b.UpdatedBy))
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}
