// Package memory implementa los repositorios en memoria. Se usa con STORAGE=memory
// para desarrollo local sin PostgreSQL y como doble de pruebas de los casos de uso.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/imprenta-api/internal/application/ledger"
	"github.com/jhoicas/imprenta-api/internal/domain"
	"github.com/jhoicas/imprenta-api/internal/domain/entity"
	"github.com/jhoicas/imprenta-api/internal/domain/repository"
)

var (
	_ ledger.TxRunner                    = (*Store)(nil)
	_ repository.MovementRepository      = (*MovementRepo)(nil)
	_ repository.BalanceRepository       = (*BalanceRepo)(nil)
	_ repository.CorteRepository         = (*CorteRepo)(nil)
	_ repository.MachineSupplyRepository = (*MachineSupplyRepo)(nil)
	_ repository.ProductionRepository    = (*ProductionRepo)(nil)
)

type balanceKey struct{ kind, id string }

// Store guarda todas las tablas en memoria. Run serializa las transacciones y
// deshace lo que escribió la función si devuelve error.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	movements   []*entity.Movement
	balances    map[balanceKey]entity.Balance
	cortes      []*entity.Corte
	supplies    map[string]entity.MachineSupply
	productions map[string]entity.ProductionRecord
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		balances:    make(map[balanceKey]entity.Balance),
		supplies:    make(map[string]entity.MachineSupply),
		productions: make(map[string]entity.ProductionRecord),
	}
}

// Movements devuelve el repositorio de movimientos.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Balances devuelve el repositorio de saldos.
func (s *Store) Balances() *BalanceRepo { return &BalanceRepo{s: s} }

// Cortes devuelve el repositorio de cortes.
func (s *Store) Cortes() *CorteRepo { return &CorteRepo{s: s} }

// Supplies devuelve el repositorio de reglas de consumo.
func (s *Store) Supplies() *MachineSupplyRepo { return &MachineSupplyRepo{s: s} }

// Productions devuelve el repositorio de producción.
func (s *Store) Productions() *ProductionRepo { return &ProductionRepo{s: s} }

// undoLog registra lo que escribió una transacción de Run: el valor previo de cada
// saldo tocado (nil si no existía) y los movimientos insertados.
type undoLog struct {
	balances  map[balanceKey]*entity.Balance
	movements map[*entity.Movement]struct{}
}

func newUndoLog() *undoLog {
	return &undoLog{
		balances:  make(map[balanceKey]*entity.Balance),
		movements: make(map[*entity.Movement]struct{}),
	}
}

// rollback deshace solo lo escrito por la transacción; los saldos y movimientos
// escritos fuera de ella se conservan. Requiere s.mu tomado.
func (u *undoLog) rollback(s *Store) {
	for k, prev := range u.balances {
		if prev == nil {
			delete(s.balances, k)
			continue
		}
		s.balances[k] = *prev
	}
	if len(u.movements) == 0 {
		return
	}
	kept := s.movements[:0]
	for _, m := range s.movements {
		if _, ok := u.movements[m]; !ok {
			kept = append(kept, m)
		}
	}
	for i := len(kept); i < len(s.movements); i++ {
		s.movements[i] = nil
	}
	s.movements = kept
}

// Run ejecuta fn de forma exclusiva; si falla, deshace los movimientos y saldos
// que fn escribió.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	balanceRepo repository.BalanceRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	undo := newUndoLog()
	if err := fn(&MovementRepo{s: s, undo: undo}, &BalanceRepo{s: s, undo: undo}); err != nil {
		s.mu.Lock()
		undo.rollback(s)
		s.mu.Unlock()
		return err
	}
	return nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// ── Movimientos ──────────────────────────────────────────────────────────────

// MovementRepo ledger en memoria.
type MovementRepo struct {
	s    *Store
	undo *undoLog
}

// Create agrega un movimiento.
func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	if r.undo != nil {
		r.undo.movements[&cp] = struct{}{}
	}
	return nil
}

// List filtra por sujeto y rango, ordenado por fecha ascendente.
func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if m.SubjectKind != f.SubjectKind || m.SubjectID != f.SubjectID {
			continue
		}
		if !inRange(m.Timestamp, f.From, f.To) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return paginate(out, f.Limit, f.Offset), nil
}

// ── Saldos ───────────────────────────────────────────────────────────────────

// BalanceRepo saldos en memoria.
type BalanceRepo struct {
	s    *Store
	undo *undoLog
}

// Get devuelve el saldo o uno en cero.
func (r *BalanceRepo) Get(_ context.Context, kind, id string) (*entity.Balance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if b, ok := r.s.balances[balanceKey{kind, id}]; ok {
		return &b, nil
	}
	return &entity.Balance{SubjectKind: kind, SubjectID: id, Current: decimal.Zero, MetersAccounted: decimal.Zero}, nil
}

// GetForUpdate en memoria equivale a Get: Store.Run ya serializa las transacciones.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, kind, id string) (*entity.Balance, error) {
	return r.Get(ctx, kind, id)
}

// Upsert guarda el saldo.
func (r *BalanceRepo) Upsert(_ context.Context, b *entity.Balance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := balanceKey{b.SubjectKind, b.SubjectID}
	if r.undo != nil {
		if _, seen := r.undo.balances[k]; !seen {
			var prev *entity.Balance
			if old, ok := r.s.balances[k]; ok {
				prev = &old
			}
			r.undo.balances[k] = prev
		}
	}
	r.s.balances[k] = *b
	return nil
}

// ── Cortes ───────────────────────────────────────────────────────────────────

// CorteRepo cortes en memoria.
type CorteRepo struct{ s *Store }

// Create inserta el corte; rechaza traslapes igual que la restricción de exclusión en PostgreSQL.
func (r *CorteRepo) Create(_ context.Context, c *entity.Corte) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, prev := range r.s.cortes {
		if prev.CashRegisterID == c.CashRegisterID && overlaps(prev, c.PeriodStart, c.PeriodEnd) {
			return domain.ErrCorteOverlap
		}
	}
	cp := *c
	r.s.cortes = append(r.s.cortes, &cp)
	return nil
}

func overlaps(c *entity.Corte, start, end time.Time) bool {
	return c.PeriodStart.Before(end) && start.Before(c.PeriodEnd)
}

// GetByID busca un corte; nil si no existe.
func (r *CorteRepo) GetByID(_ context.Context, id string) (*entity.Corte, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.cortes {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

// ExistsOverlapping indica si hay traslape con [start, end).
func (r *CorteRepo) ExistsOverlapping(_ context.Context, cashRegisterID string, start, end time.Time) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.cortes {
		if c.CashRegisterID == cashRegisterID && overlaps(c, start, end) {
			return true, nil
		}
	}
	return false, nil
}

// LatestBefore devuelve el corte con mayor PeriodEnd <= before.
func (r *CorteRepo) LatestBefore(_ context.Context, cashRegisterID string, before time.Time) (*entity.Corte, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var latest *entity.Corte
	for _, c := range r.s.cortes {
		if c.CashRegisterID != cashRegisterID || c.PeriodEnd.After(before) {
			continue
		}
		if latest == nil || c.PeriodEnd.After(latest.PeriodEnd) {
			latest = c
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

// List devuelve los cortes de la caja, el más reciente primero.
func (r *CorteRepo) List(_ context.Context, cashRegisterID string, limit, offset int) ([]*entity.Corte, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Corte
	for _, c := range r.s.cortes {
		if c.CashRegisterID == cashRegisterID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PeriodEnd.After(out[j].PeriodEnd) })
	return paginate(out, limit, offset), nil
}

// ── Reglas de consumo ────────────────────────────────────────────────────────

// MachineSupplyRepo reglas de consumo en memoria.
type MachineSupplyRepo struct{ s *Store }

// Create inserta la regla; ErrDuplicate si ya existe la combinación máquina + tipo.
func (r *MachineSupplyRepo) Create(_ context.Context, m *entity.MachineSupply) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, prev := range r.s.supplies {
		if prev.MachineID == m.MachineID && prev.SupplyType == m.SupplyType {
			return domain.ErrDuplicate
		}
	}
	r.s.supplies[m.ID] = *m
	return nil
}

// Update reemplaza la regla.
func (r *MachineSupplyRepo) Update(_ context.Context, m *entity.MachineSupply) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.supplies[m.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.supplies[m.ID] = *m
	return nil
}

// GetByID busca una regla; nil si no existe.
func (r *MachineSupplyRepo) GetByID(_ context.Context, id string) (*entity.MachineSupply, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.supplies[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// ListByMachine reglas de una máquina ordenadas por nombre.
func (r *MachineSupplyRepo) ListByMachine(ctx context.Context, machineID string) ([]*entity.MachineSupply, error) {
	all, _ := r.ListAll(ctx)
	out := all[:0]
	for _, m := range all {
		if m.MachineID == machineID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ListAll todas las reglas ordenadas por máquina y nombre.
func (r *MachineSupplyRepo) ListAll(_ context.Context) ([]*entity.MachineSupply, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.MachineSupply, 0, len(r.s.supplies))
	for _, m := range r.s.supplies {
		cp := m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MachineID != out[j].MachineID {
			return out[i].MachineID < out[j].MachineID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// ── Producción ───────────────────────────────────────────────────────────────

// ProductionRepo registros de producción en memoria.
type ProductionRepo struct{ s *Store }

// Create inserta un registro.
func (r *ProductionRepo) Create(_ context.Context, p *entity.ProductionRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.productions[p.ID] = *p
	return nil
}

// Update reemplaza un registro existente.
func (r *ProductionRepo) Update(_ context.Context, p *entity.ProductionRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.productions[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.productions[p.ID] = *p
	return nil
}

// GetByID busca un registro; nil si no existe.
func (r *ProductionRepo) GetByID(_ context.Context, id string) (*entity.ProductionRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.productions[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// List filtra por máquina (vacío = todas) y rango de fecha, más reciente primero.
func (r *ProductionRepo) List(_ context.Context, machineID string, from, to *time.Time, limit, offset int) ([]*entity.ProductionRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.ProductionRecord
	for _, p := range r.s.productions {
		if machineID != "" && p.MachineID != machineID {
			continue
		}
		if !inRange(p.ProductionDate, from, to) {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductionDate.After(out[j].ProductionDate) })
	return paginate(out, limit, offset), nil
}
