package supply_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/imprenta-api/internal/application/dto"
	"github.com/jhoicas/imprenta-api/internal/application/ledger"
	"github.com/jhoicas/imprenta-api/internal/application/supply"
	"github.com/jhoicas/imprenta-api/internal/domain"
	"github.com/jhoicas/imprenta-api/internal/domain/entity"
	"github.com/jhoicas/imprenta-api/internal/infrastructure/memory"
)

type SupplyTestSuite struct {
	suite.Suite
	ctx context.Context
	uc  *supply.UseCase
}

func (s *SupplyTestSuite) SetupTest() {
	s.ctx = context.Background()
	store := memory.NewStore()
	rec := ledger.NewRecorder(store, store.Movements(), store.Balances())
	s.uc = supply.NewUseCase(store.Supplies(), rec)
}

func TestSupplyTestSuite(t *testing.T) {
	suite.Run(t, new(SupplyTestSuite))
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func (s *SupplyTestSuite) configure(machine, kind, name, minimum, critical string) *dto.SupplyResponse {
	out, err := s.uc.Configure(s.ctx, machine, dto.ConfigureSupplyRequest{
		SupplyType:       kind,
		Name:             name,
		Unit:             "ml",
		ConsumptionRatio: dec("1.5"),
		MinimumLevel:     dec(minimum),
		CriticalLevel:    dec(critical),
	})
	s.Require().NoError(err)
	return out
}

func (s *SupplyTestSuite) TestConfigure_SaldoInicialEnCeroYAutoTrack() {
	out := s.configure("m1", "tinta_cyan", "Tinta cyan", "100", "20")

	s.NotEmpty(out.ID)
	s.True(out.AutoTrack, "auto_track por defecto")
	s.True(out.CurrentStock.IsZero())
	s.Equal(entity.AlertCritico, out.AlertLevel)

	list, err := s.uc.ListByMachine(s.ctx, "m1")
	s.Require().NoError(err)
	s.Equal(1, list.Total)
}

func (s *SupplyTestSuite) TestConfigure_SinSaldoHastaElPrimerMovimiento() {
	sup := s.configure("m2", "vinil", "Vinil", "10", "5")

	movs, err := s.uc.Movements(s.ctx, sup.ID, nil, nil, 0, 0)
	s.Require().NoError(err)
	s.Empty(movs.Items)
	s.True(sup.CurrentStock.IsZero())

	mov, err := s.uc.Restock(s.ctx, sup.ID, dec("3"), "admin-1", "")
	s.Require().NoError(err)
	s.True(mov.QuantityBefore.IsZero())
	s.True(mov.QuantityAfter.Equal(dec("3")))
}

func (s *SupplyTestSuite) TestCantidadesATresDecimales() {
	out, err := s.uc.Configure(s.ctx, "m3", dto.ConfigureSupplyRequest{
		SupplyType:       "tinta_negra",
		Name:             "Tinta negra",
		ConsumptionRatio: dec("0.1234567"),
		MinimumLevel:     dec("10.0005"),
		CriticalLevel:    dec("2.0004"),
	})
	s.Require().NoError(err)
	s.True(out.ConsumptionRatio.Equal(dec("0.123457")))
	s.True(out.MinimumLevel.Equal(dec("10.001")))
	s.True(out.CriticalLevel.Equal(dec("2")))

	mov, err := s.uc.Restock(s.ctx, out.ID, dec("10.0005"), "admin-1", "")
	s.Require().NoError(err)
	s.True(mov.QuantityChanged.Equal(dec("10.001")), mov.QuantityChanged.String())
	s.True(mov.QuantityAfter.Equal(dec("10.001")))

	mov, err = s.uc.Adjust(s.ctx, out.ID, dec("-0.0006"), "admin-1", "merma")
	s.Require().NoError(err)
	s.True(mov.QuantityChanged.Equal(dec("-0.001")))

	got, err := s.uc.Get(s.ctx, out.ID)
	s.Require().NoError(err)
	s.True(got.CurrentStock.Equal(mov.QuantityAfter))
	s.True(got.CurrentStock.Equal(dec("10")))

	_, err = s.uc.Restock(s.ctx, out.ID, dec("0.0004"), "admin-1", "")
	s.ErrorIs(err, domain.ErrInvalidInput, "redondea a cero")
}

func (s *SupplyTestSuite) TestConfigure_ValidaUmbrales() {
	cases := map[string]dto.ConfigureSupplyRequest{
		"consumo negativo": {SupplyType: "t", Name: "n", ConsumptionRatio: dec("-1")},
		"crítico > mínimo": {SupplyType: "t", Name: "n", MinimumLevel: dec("5"), CriticalLevel: dec("10")},
		"mínimo negativo":  {SupplyType: "t", Name: "n", MinimumLevel: dec("-1"), CriticalLevel: dec("-2")},
		"sin nombre":       {SupplyType: "t"},
	}
	for name, in := range cases {
		_, err := s.uc.Configure(s.ctx, "m1", in)
		s.ErrorIs(err, domain.ErrInvalidInput, name)
	}
}

func (s *SupplyTestSuite) TestConfigure_DuplicadoPorMaquinaYTipo() {
	s.configure("m1", "vinil", "Vinil", "0", "0")
	_, err := s.uc.Configure(s.ctx, "m1", dto.ConfigureSupplyRequest{SupplyType: "vinil", Name: "Otro"})
	s.ErrorIs(err, domain.ErrDuplicate)
}

func (s *SupplyTestSuite) TestRestockYAdjust() {
	sup := s.configure("m1", "tinta_cyan", "Tinta cyan", "100", "20")

	mov, err := s.uc.Restock(s.ctx, sup.ID, dec("500"), "admin-1", "")
	s.Require().NoError(err)
	s.Equal(entity.CauseRestock, mov.Cause)
	s.True(mov.QuantityAfter.Equal(dec("500")))

	_, err = s.uc.Restock(s.ctx, sup.ID, dec("-1"), "admin-1", "")
	s.ErrorIs(err, domain.ErrInvalidInput)

	_, err = s.uc.Adjust(s.ctx, sup.ID, dec("-420"), "admin-1", "")
	s.ErrorIs(err, domain.ErrInvalidInput, "el ajuste exige notas")

	mov, err = s.uc.Adjust(s.ctx, sup.ID, dec("-420"), "admin-1", "conteo físico")
	s.Require().NoError(err)
	s.Equal(entity.CauseAdjustment, mov.Cause)
	s.True(mov.QuantityAfter.Equal(dec("80")))

	got, err := s.uc.Get(s.ctx, sup.ID)
	s.Require().NoError(err)
	s.Equal(entity.AlertMinimo, got.AlertLevel)

	movs, err := s.uc.Movements(s.ctx, sup.ID, nil, nil, 0, 0)
	s.Require().NoError(err)
	s.Len(movs.Items, 2)

	_, err = s.uc.Restock(s.ctx, "no-existe", dec("1"), "admin-1", "")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *SupplyTestSuite) TestUpdate_CamposParciales() {
	sup := s.configure("m1", "laminado", "Laminado", "10", "5")
	off := false
	ratio := dec("0.25")

	out, err := s.uc.Update(s.ctx, sup.ID, dto.UpdateSupplyRequest{AutoTrack: &off, ConsumptionRatio: &ratio})
	s.Require().NoError(err)
	s.False(out.AutoTrack)
	s.True(out.ConsumptionRatio.Equal(ratio))
	s.Equal("Laminado", out.Name)

	critical := dec("50")
	_, err = s.uc.Update(s.ctx, sup.ID, dto.UpdateSupplyRequest{CriticalLevel: &critical})
	s.ErrorIs(err, domain.ErrInvalidInput)

	_, err = s.uc.Update(s.ctx, "no-existe", dto.UpdateSupplyRequest{AutoTrack: &off})
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *SupplyTestSuite) TestAlerts_CriticosPrimero() {
	ok := s.configure("m1", "a", "A sobrado", "10", "5")
	minimo := s.configure("m1", "b", "B bajo", "10", "5")
	s.configure("m2", "c", "C agotado", "10", "5")

	_, err := s.uc.Restock(s.ctx, ok.ID, dec("100"), "admin-1", "")
	s.Require().NoError(err)
	_, err = s.uc.Restock(s.ctx, minimo.ID, dec("8"), "admin-1", "")
	s.Require().NoError(err)

	alerts, err := s.uc.Alerts(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(2, alerts.Total)
	s.Equal("C agotado", alerts.Items[0].Name)
	s.Equal(entity.AlertCritico, alerts.Items[0].AlertLevel)
	s.Equal("B bajo", alerts.Items[1].Name)
	s.Equal(entity.AlertMinimo, alerts.Items[1].AlertLevel)
}
