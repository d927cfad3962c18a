package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/imprenta-api/internal/domain"
	"github.com/jhoicas/imprenta-api/internal/domain/entity"
	"github.com/jhoicas/imprenta-api/internal/domain/repository"
)

var _ repository.MachineSupplyRepository = (*MachineSupplyRepo)(nil)

// MachineSupplyRepo reglas de consumo por máquina sobre PostgreSQL.
type MachineSupplyRepo struct {
	q Querier
}

// NewMachineSupplyRepository construye el adaptador.
func NewMachineSupplyRepository(q Querier) *MachineSupplyRepo {
	return &MachineSupplyRepo{q: q}
}

const supplyColumns = `id, machine_id, supply_type, name, unit, consumption_ratio, auto_track,
	minimum_level, critical_level, created_at, updated_at`

// Create inserta la regla. ErrDuplicate si la máquina ya tiene ese tipo de insumo.
func (r *MachineSupplyRepo) Create(ctx context.Context, s *entity.MachineSupply) error {
	query := `INSERT INTO machine_supplies (` + supplyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.MachineID, s.SupplyType, s.Name, s.Unit, s.ConsumptionRatio, s.AutoTrack,
		s.MinimumLevel, s.CriticalLevel, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create machine supply: %w", err)
	}
	return nil
}

// Update actualiza los campos editables de la regla.
func (r *MachineSupplyRepo) Update(ctx context.Context, s *entity.MachineSupply) error {
	query := `
		UPDATE machine_supplies
		SET name = $2, unit = $3, consumption_ratio = $4, auto_track = $5,
			minimum_level = $6, critical_level = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.Name, s.Unit, s.ConsumptionRatio, s.AutoTrack,
		s.MinimumLevel, s.CriticalLevel, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update machine supply: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSupply(row pgx.Row) (*entity.MachineSupply, error) {
	var s entity.MachineSupply
	err := row.Scan(&s.ID, &s.MachineID, &s.SupplyType, &s.Name, &s.Unit, &s.ConsumptionRatio, &s.AutoTrack,
		&s.MinimumLevel, &s.CriticalLevel, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID obtiene una regla; nil si no existe.
func (r *MachineSupplyRepo) GetByID(ctx context.Context, id string) (*entity.MachineSupply, error) {
	s, err := scanSupply(r.q.QueryRow(ctx, `SELECT `+supplyColumns+` FROM machine_supplies WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get machine supply: %w", err)
	}
	return s, nil
}

// ListByMachine reglas de la máquina ordenadas por nombre.
func (r *MachineSupplyRepo) ListByMachine(ctx context.Context, machineID string) ([]*entity.MachineSupply, error) {
	return r.list(ctx, `SELECT `+supplyColumns+` FROM machine_supplies WHERE machine_id = $1 ORDER BY name, id`, machineID)
}

// ListAll todas las reglas, por máquina y nombre.
func (r *MachineSupplyRepo) ListAll(ctx context.Context) ([]*entity.MachineSupply, error) {
	return r.list(ctx, `SELECT `+supplyColumns+` FROM machine_supplies ORDER BY machine_id, name, id`)
}

func (r *MachineSupplyRepo) list(ctx context.Context, query string, args ...any) ([]*entity.MachineSupply, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list machine supplies: %w", err)
	}
	defer rows.Close()
	var list []*entity.MachineSupply
	for rows.Next() {
		s, err := scanSupply(rows)
		if err != nil {
			return nil, fmt.Errorf("scan machine supply: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
