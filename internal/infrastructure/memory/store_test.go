package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/imprenta-api/internal/domain/entity"
	"github.com/jhoicas/imprenta-api/internal/domain/repository"
	"github.com/jhoicas/imprenta-api/internal/infrastructure/memory"
)

func balance(kind, id, current string) *entity.Balance {
	return &entity.Balance{
		SubjectKind:     kind,
		SubjectID:       id,
		Current:         decimal.RequireFromString(current),
		MetersAccounted: decimal.Zero,
	}
}

func TestRun_RollbackSoloDeshaceLoQueEscribio(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Balances().Upsert(ctx, balance(entity.SubjectCaja, "caja-principal", "100")))
	boom := errors.New("boom")

	err := store.Run(ctx, func(movs repository.MovementRepository, bals repository.BalanceRepository) error {
		require.NoError(t, movs.Create(ctx, &entity.Movement{
			ID: "mov-1", SubjectKind: entity.SubjectCaja, SubjectID: "caja-principal",
			QuantityChanged: decimal.NewFromInt(5),
		}))
		require.NoError(t, bals.Upsert(ctx, balance(entity.SubjectCaja, "caja-principal", "105")))
		require.NoError(t, bals.Upsert(ctx, balance(entity.SubjectInsumo, "tinta-m1", "-3")))

		// escrito por fuera de la transacción mientras está abierta
		require.NoError(t, store.Balances().Upsert(ctx, balance(entity.SubjectInsumo, "vinil-m1", "7")))
		return boom
	})
	require.ErrorIs(t, err, boom)

	caja, err := store.Balances().Get(ctx, entity.SubjectCaja, "caja-principal")
	require.NoError(t, err)
	assert.True(t, caja.Current.Equal(decimal.NewFromInt(100)), "saldo previo restaurado")

	tinta, err := store.Balances().Get(ctx, entity.SubjectInsumo, "tinta-m1")
	require.NoError(t, err)
	assert.True(t, tinta.Current.IsZero(), "saldo creado por la transacción se elimina")

	vinil, err := store.Balances().Get(ctx, entity.SubjectInsumo, "vinil-m1")
	require.NoError(t, err)
	assert.True(t, vinil.Current.Equal(decimal.NewFromInt(7)), "saldo ajeno a la transacción se conserva")

	list, err := store.Movements().List(ctx, repository.MovementFilter{
		SubjectKind: entity.SubjectCaja, SubjectID: "caja-principal",
	})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRun_RollbackConservaMovimientosAjenos(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Run(ctx, func(movs repository.MovementRepository, _ repository.BalanceRepository) error {
		require.NoError(t, movs.Create(ctx, &entity.Movement{
			ID: "mov-tx", SubjectKind: entity.SubjectInsumo, SubjectID: "tinta-m1",
		}))
		require.NoError(t, store.Movements().Create(ctx, &entity.Movement{
			ID: "mov-fuera", SubjectKind: entity.SubjectInsumo, SubjectID: "tinta-m1",
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := store.Movements().List(ctx, repository.MovementFilter{
		SubjectKind: entity.SubjectInsumo, SubjectID: "tinta-m1",
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "mov-fuera", list[0].ID)
}

func TestRun_CommitConservaCambios(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	err := store.Run(ctx, func(_ repository.MovementRepository, bals repository.BalanceRepository) error {
		return bals.Upsert(ctx, balance(entity.SubjectInsumo, "tinta-m1", "12.5"))
	})
	require.NoError(t, err)

	b, err := store.Balances().Get(ctx, entity.SubjectInsumo, "tinta-m1")
	require.NoError(t, err)
	assert.True(t, b.Current.Equal(decimal.RequireFromString("12.5")))
}

func TestRun_ContextoCancelado(t *testing.T) {
	store := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.Run(ctx, func(repository.MovementRepository, repository.BalanceRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
