package dto

import "github.com/jhoicas/imprenta-api/internal/domain/entity"

// FromMovement convierte un movimiento del ledger (caja o insumo) a su DTO.
func FromMovement(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:              m.ID,
		SubjectKind:     m.SubjectKind,
		SubjectID:       m.SubjectID,
		Flow:            m.Flow,
		Category:        m.Category,
		Timestamp:       m.Timestamp,
		QuantityBefore:  m.QuantityBefore,
		QuantityAfter:   m.QuantityAfter,
		QuantityChanged: m.QuantityChanged,
		Cause:           m.Cause,
		Actor:           m.Actor,
		Notes:           m.Notes,
		ReferenceID:     m.ReferenceID,
	}
}

// FromMovements convierte una lista de movimientos.
func FromMovements(list []*entity.Movement) []MovementResponse {
	items := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, FromMovement(m))
	}
	return items
}

// FromBalance convierte un saldo a su DTO.
func FromBalance(b *entity.Balance) BalanceResponse {
	return BalanceResponse{
		SubjectKind:     b.SubjectKind,
		SubjectID:       b.SubjectID,
		Current:         b.Current,
		MetersAccounted: b.MetersAccounted,
		UpdatedAt:       b.UpdatedAt,
		UpdatedBy:       b.UpdatedBy,
	}
}
