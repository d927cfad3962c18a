package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/imprenta-api/internal/application/dto"
	"github.com/jhoicas/imprenta-api/internal/domain/entity"
)

type MockAlertSource struct {
	mock.Mock
}

func (m *MockAlertSource) Alerts(ctx context.Context) (*dto.SupplyListResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SupplyListResponse), args.Error(1)
}

func TestScheduleStockAlerts(t *testing.T) {
	s := New(new(MockAlertSource), nil)

	assert.NoError(t, s.ScheduleStockAlerts(""))
	assert.Empty(t, s.cron.Entries())

	assert.NoError(t, s.ScheduleStockAlerts("@every 15m"))
	assert.Len(t, s.cron.Entries(), 1)

	assert.Error(t, s.ScheduleStockAlerts("cada rato"))
}

func TestRunStockAlerts(t *testing.T) {
	src := new(MockAlertSource)
	src.On("Alerts", mock.Anything).Return(&dto.SupplyListResponse{
		Items: []dto.SupplyResponse{
			{ID: "1", Name: "Tinta cyan", AlertLevel: entity.AlertCritico},
			{ID: "2", Name: "Vinil", AlertLevel: entity.AlertMinimo},
		},
		Total: 2,
	}, nil).Once()
	src.On("Alerts", mock.Anything).Return(nil, errors.New("db caída")).Once()

	s := New(src, nil)
	assert.Equal(t, 2, s.runStockAlerts(context.Background()))
	assert.Equal(t, 0, s.runStockAlerts(context.Background()))
	src.AssertExpectations(t)
}

func TestStartStop(t *testing.T) {
	s := New(new(MockAlertSource), nil)
	s.Start()
	s.Stop(context.Background())
}
