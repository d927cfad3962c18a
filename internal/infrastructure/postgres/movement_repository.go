package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/imprenta-api/internal/domain/entity"
	"github.com/jhoicas/imprenta-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger append-only sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, subject_kind, subject_id, flow, category, ts,
	quantity_before, quantity_after, quantity_changed, actor, cause, notes, reference_id, created_at`

// Create inserta el movimiento. La tabla no admite UPDATE ni DELETE.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.SubjectKind, m.SubjectID, nullIfEmpty(m.Flow), nullIfEmpty(m.Category), m.Timestamp,
		m.QuantityBefore, m.QuantityAfter, m.QuantityChanged, m.Actor, m.Cause,
		nullIfEmpty(m.Notes), nullIfEmpty(m.ReferenceID), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// List movimientos del sujeto en [From, To), del más antiguo al más reciente.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE subject_kind = $1 AND subject_id = $2`
	args := []any{f.SubjectKind, f.SubjectID}
	if f.From != nil {
		args = append(args, *f.From)
		query += fmt.Sprintf(" AND ts >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		query += fmt.Sprintf(" AND ts < $%d", len(args))
	}
	query += " ORDER BY ts ASC, created_at ASC"
	query, args = withPage(query, args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var flow, category, notes, ref *string
		if err := rows.Scan(&m.ID, &m.SubjectKind, &m.SubjectID, &flow, &category, &m.Timestamp,
			&m.QuantityBefore, &m.QuantityAfter, &m.QuantityChanged, &m.Actor, &m.Cause,
			&notes, &ref, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Flow, m.Category, m.Notes, m.ReferenceID = deref(flow), deref(category), deref(notes), deref(ref)
		list = append(list, &m)
	}
	return list, rows.Err()
}
