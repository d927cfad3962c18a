package repository

import (
	"context"

	"github.com/jhoicas/imprenta-api/internal/domain/entity"
)

// BalanceRepository define el puerto para el saldo vivo de cada sujeto.
// Usado dentro de transacciones para mantener la consistencia con el ledger.
type BalanceRepository interface {
	// Get devuelve el saldo; si no existe la fila devuelve un saldo en cero.
	Get(ctx context.Context, subjectKind, subjectID string) (*entity.Balance, error)
	// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, subjectKind, subjectID string) (*entity.Balance, error)
	Upsert(ctx context.Context, balance *entity.Balance) error
}
