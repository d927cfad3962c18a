package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/imprenta-api/internal/application/ledger"
	"github.com/jhoicas/imprenta-api/internal/domain"
	"github.com/jhoicas/imprenta-api/internal/domain/entity"
	"github.com/jhoicas/imprenta-api/internal/domain/repository"
	"github.com/jhoicas/imprenta-api/internal/infrastructure/memory"
)

type RecorderTestSuite struct {
	suite.Suite
	store    *memory.Store
	recorder *ledger.Recorder
	ctx      context.Context
}

func (s *RecorderTestSuite) SetupTest() {
	s.store = memory.NewStore()
	s.recorder = ledger.NewRecorder(s.store, s.store.Movements(), s.store.Balances())
	s.ctx = context.Background()
}

func TestRecorderTestSuite(t *testing.T) {
	suite.Run(t, new(RecorderTestSuite))
}

func (s *RecorderTestSuite) supplyInput(delta string) ledger.RecordInput {
	return ledger.RecordInput{
		SubjectKind: entity.SubjectInsumo,
		SubjectID:   "tinta-cyan-m1",
		Delta:       decimal.RequireFromString(delta),
		Cause:       entity.CauseRestock,
		Actor:       "user-1",
	}
}

func (s *RecorderTestSuite) TestRecord_SaldoIgualAQuantityAfter() {
	first, err := s.recorder.Record(s.ctx, s.supplyInput("1000"))
	s.Require().NoError(err)
	s.True(first.QuantityBefore.IsZero())
	s.True(first.QuantityAfter.Equal(decimal.NewFromInt(1000)))

	in := s.supplyInput("-250.5")
	in.Cause = entity.CauseConsumption
	second, err := s.recorder.Record(s.ctx, in)
	s.Require().NoError(err)

	s.True(second.QuantityBefore.Equal(first.QuantityAfter))
	s.True(second.QuantityAfter.Equal(second.QuantityBefore.Add(second.QuantityChanged)))

	bal, err := s.recorder.Balance(s.ctx, entity.SubjectInsumo, "tinta-cyan-m1")
	s.Require().NoError(err)
	s.True(bal.Current.Equal(second.QuantityAfter))
	s.Equal("user-1", bal.UpdatedBy)
}

func (s *RecorderTestSuite) TestRecord_ValidaEntrada() {
	cases := map[string]func(in *ledger.RecordInput){
		"sin actor":      func(in *ledger.RecordInput) { in.Actor = "" },
		"sin sujeto":     func(in *ledger.RecordInput) { in.SubjectID = "" },
		"delta cero":     func(in *ledger.RecordInput) { in.Delta = decimal.Zero },
		"causa inválida": func(in *ledger.RecordInput) { in.Cause = "regalo" },
		"tipo inválido":  func(in *ledger.RecordInput) { in.SubjectKind = "banco" },
		"caja sin flow": func(in *ledger.RecordInput) {
			in.SubjectKind = entity.SubjectCaja
			in.Cause = entity.CauseManual
		},
	}
	for name, mutate := range cases {
		in := s.supplyInput("10")
		mutate(&in)
		_, err := s.recorder.Record(s.ctx, in)
		s.ErrorIs(err, domain.ErrInvalidInput, name)
	}

	movs, err := s.recorder.Movements(s.ctx, repository.MovementFilter{SubjectKind: entity.SubjectInsumo, SubjectID: "tinta-cyan-m1"})
	s.Require().NoError(err)
	s.Empty(movs, "una validación fallida no escribe nada")
}

func (s *RecorderTestSuite) TestRecord_MetrosContabilizadosNoBajanDeCero() {
	in := s.supplyInput("-5")
	in.Cause = entity.CauseConsumption
	in.MetersDelta = decimal.NewFromInt(10)
	_, err := s.recorder.Record(s.ctx, in)
	s.Require().NoError(err)

	in = s.supplyInput("8")
	in.Cause = entity.CauseAdjustment
	in.MetersDelta = decimal.NewFromInt(-16)
	_, err = s.recorder.Record(s.ctx, in)
	s.Require().NoError(err)

	bal, err := s.recorder.Balance(s.ctx, entity.SubjectInsumo, "tinta-cyan-m1")
	s.Require().NoError(err)
	s.True(bal.MetersAccounted.IsZero())
	s.True(bal.Current.Equal(decimal.NewFromInt(3)))
}

func (s *RecorderTestSuite) TestRecord_UsaTimestampIndicado() {
	at := time.Date(2024, 4, 2, 12, 0, 0, 0, time.UTC)
	in := s.supplyInput("3")
	in.Timestamp = at
	mov, err := s.recorder.Record(s.ctx, in)
	s.Require().NoError(err)
	s.Equal(at, mov.Timestamp)
	s.False(mov.CreatedAt.IsZero())
	s.NotEmpty(mov.ID)
}

// failingTx simula un fallo de la BD a mitad de la transacción.
type failingTx struct{ store *memory.Store }

type failingBalances struct{ repository.BalanceRepository }

func (failingBalances) Upsert(context.Context, *entity.Balance) error {
	return errors.New("conexión perdida")
}

func (f failingTx) Run(ctx context.Context, fn func(repository.MovementRepository, repository.BalanceRepository) error) error {
	return f.store.Run(ctx, func(movRepo repository.MovementRepository, balanceRepo repository.BalanceRepository) error {
		return fn(movRepo, failingBalances{balanceRepo})
	})
}

func TestRecord_FalloDeSaldoDeshaceMovimiento(t *testing.T) {
	store := memory.NewStore()
	rec := ledger.NewRecorder(failingTx{store}, store.Movements(), store.Balances())

	_, err := rec.Record(context.Background(), ledger.RecordInput{
		SubjectKind: entity.SubjectInsumo, SubjectID: "vinil-m2",
		Delta: decimal.NewFromInt(4), Cause: entity.CauseRestock, Actor: "u",
	})
	require.Error(t, err)

	movs, err := store.Movements().List(context.Background(), repository.MovementFilter{SubjectKind: entity.SubjectInsumo, SubjectID: "vinil-m2"})
	require.NoError(t, err)
	assert.Empty(t, movs, "movimiento y saldo se escriben juntos o no se escriben")
}

func TestRecord_EscritoresConcurrentesNoPierdenActualizaciones(t *testing.T) {
	store := memory.NewStore()
	rec := ledger.NewRecorder(store, store.Movements(), store.Balances())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := rec.Record(ctx, ledger.RecordInput{
				SubjectKind: entity.SubjectInsumo, SubjectID: "papel-m3",
				Delta: decimal.NewFromInt(2), Cause: entity.CauseRestock, Actor: "u",
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	bal, err := rec.Balance(ctx, entity.SubjectInsumo, "papel-m3")
	require.NoError(t, err)
	assert.True(t, bal.Current.Equal(decimal.NewFromInt(100)))

	movs, err := rec.Movements(ctx, repository.MovementFilter{SubjectKind: entity.SubjectInsumo, SubjectID: "papel-m3"})
	require.NoError(t, err)
	sum := decimal.Zero
	for _, m := range movs {
		sum = sum.Add(m.QuantityChanged)
	}
	assert.True(t, sum.Equal(bal.Current), "el saldo coincide con la suma del ledger")
}
