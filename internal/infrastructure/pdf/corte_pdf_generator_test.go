package pdf

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/imprenta-api/internal/domain/entity"
)

func TestGenerateCortePDF(t *testing.T) {
	g := NewCortePDFGenerator("Imprenta El Sol", time.UTC)
	start := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
	c := &entity.Corte{
		ID:              "0f8e2c1a-9b7d-4e21-a5c3-1d2e3f4a5b6c",
		CashRegisterID:  "caja-principal",
		PeriodStart:     start,
		PeriodEnd:       start.Add(12 * time.Hour),
		OpeningBalance:  decimal.NewFromInt(100),
		SumInflows:      decimal.NewFromInt(500),
		SumOutflows:     decimal.NewFromInt(200),
		ComputedBalance: decimal.NewFromInt(400),
		ObservedValue:   decimal.NewFromInt(380),
		Difference:      decimal.NewFromInt(-20),
		CreatedBy:       "cajero-1",
	}
	movs := []*entity.Movement{{
		SubjectKind: entity.SubjectCaja, Flow: entity.FlowIngreso, Category: "ventas",
		Timestamp: start.Add(time.Hour), QuantityChanged: decimal.NewFromInt(500), Actor: "cajero-1",
	}}

	doc, err := g.GenerateCortePDF(context.Background(), c, movs)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))

	empty, err := g.GenerateCortePDF(context.Background(), c, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, empty)
}

func TestMoney(t *testing.T) {
	g := NewCortePDFGenerator("x", time.UTC)

	big := g.money(decimal.RequireFromString("1234567.5"))
	assert.True(t, strings.HasPrefix(big, "$1"), big)
	assert.True(t, strings.HasSuffix(big, ",50"), big)

	neg := g.money(decimal.NewFromInt(-20))
	assert.True(t, strings.HasPrefix(neg, "-$20"), neg)
}
