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

var _ repository.ProductionRepository = (*ProductionRepo)(nil)

// ProductionRepo registros de producción sobre PostgreSQL.
type ProductionRepo struct {
	q Querier
}

// NewProductionRepository construye el adaptador.
func NewProductionRepository(q Querier) *ProductionRepo {
	return &ProductionRepo{q: q}
}

const productionColumns = `id, machine_id, meters, production_date, notes, created_by, created_at, updated_at`

// Create inserta un registro de producción.
func (r *ProductionRepo) Create(ctx context.Context, p *entity.ProductionRecord) error {
	query := `INSERT INTO productions (` + productionColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, p.ID, p.MachineID, p.Meters, p.ProductionDate,
		nullIfEmpty(p.Notes), p.CreatedBy, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create production: %w", err)
	}
	return nil
}

// Update cambia metros y notas.
func (r *ProductionRepo) Update(ctx context.Context, p *entity.ProductionRecord) error {
	tag, err := r.q.Exec(ctx, `UPDATE productions SET meters = $2, notes = $3, updated_at = $4 WHERE id = $1`,
		p.ID, p.Meters, nullIfEmpty(p.Notes), p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update production: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduction(row pgx.Row) (*entity.ProductionRecord, error) {
	var p entity.ProductionRecord
	var notes *string
	if err := row.Scan(&p.ID, &p.MachineID, &p.Meters, &p.ProductionDate, &notes,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Notes = deref(notes)
	return &p, nil
}

// GetByID obtiene un registro; nil si no existe.
func (r *ProductionRepo) GetByID(ctx context.Context, id string) (*entity.ProductionRecord, error) {
	p, err := scanProduction(r.q.QueryRow(ctx, `SELECT `+productionColumns+` FROM productions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production: %w", err)
	}
	return p, nil
}

// List producción por máquina (vacío = todas) en [from, to), más reciente primero.
func (r *ProductionRepo) List(ctx context.Context, machineID string, from, to *time.Time, limit, offset int) ([]*entity.ProductionRecord, error) {
	query := `SELECT ` + productionColumns + ` FROM productions WHERE 1 = 1`
	var args []any
	if machineID != "" {
		args = append(args, machineID)
		query += fmt.Sprintf(" AND machine_id = $%d", len(args))
	}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND production_date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND production_date < $%d", len(args))
	}
	query += " ORDER BY production_date DESC, created_at DESC"
	query, args = withPage(query, args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list productions: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductionRecord
	for rows.Next() {
		p, err := scanProduction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan production: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
