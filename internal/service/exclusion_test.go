package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/internal/repository/memory"
)

type holidayRepoMock struct {
	mock.Mock
}

func (m *holidayRepoMock) Create(ctx context.Context, h domain.Holiday) (int64, error) {
	args := m.Called(ctx, h)
	return args.Get(0).(int64), args.Error(1)
}

func (m *holidayRepoMock) GetByID(ctx context.Context, id int64) (*domain.Holiday, error) {
	args := m.Called(ctx, id)
	h, _ := args.Get(0).(*domain.Holiday)
	return h, args.Error(1)
}

func (m *holidayRepoMock) GetActiveByDate(ctx context.Context, date domain.Date) (*domain.Holiday, error) {
	args := m.Called(ctx, date)
	h, _ := args.Get(0).(*domain.Holiday)
	return h, args.Error(1)
}

func (m *holidayRepoMock) Update(ctx context.Context, h domain.Holiday) error {
	return m.Called(ctx, h).Error(0)
}

func (m *holidayRepoMock) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *holidayRepoMock) Find(ctx context.Context, filter domain.HolidayFilter) ([]domain.Holiday, int, error) {
	args := m.Called(ctx, filter)
	holidays, _ := args.Get(0).([]domain.Holiday)
	return holidays, args.Int(1), args.Error(2)
}

func TestIsExcluded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.services.Holiday.Create(ctx, domain.CreateHolidayDTO{Date: "2025-12-25", Name: "Рождество"})
	require.NoError(t, err)
	_, err = f.services.NonWorkingPeriod.Create(ctx, 1, domain.CreateNonWorkingPeriodDTO{
		ProfessionalID: professionalID,
		Date:           "2025-12-23",
		StartTime:      "12:00",
		EndTime:        "14:00",
	})
	require.NoError(t, err)

	at := func(s string) *domain.TimeOfDay {
		tod := mustTime(t, s)
		return &tod
	}

	tests := []struct {
		name string
		date string
		at   *domain.TimeOfDay
		want bool
	}{
		{name: "праздник без времени", date: "2025-12-25", want: true},
		{name: "праздник со временем", date: "2025-12-25", at: at("10:00"), want: true},
		{name: "внутри частичного периода", date: "2025-12-23", at: at("12:00"), want: true},
		{name: "конец периода не входит", date: "2025-12-23", at: at("14:00"), want: false},
		{name: "до периода", date: "2025-12-23", at: at("11:59"), want: false},
		{name: "частичный период без времени", date: "2025-12-23", want: false},
		{name: "обычный день", date: "2025-12-24", at: at("12:30"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.services.Exclusion.IsExcluded(ctx, professionalID, mustDate(t, tt.date), tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	other, err := f.services.Exclusion.IsNonWorkingTime(ctx, professionalID+1, mustDate(t, "2025-12-23"), at("12:30"))
	require.NoError(t, err)
	assert.False(t, other)
}

func TestExclusionPropagatesStorageFailure(t *testing.T) {
	storageErr := errors.New("connection reset")
	holidays := new(holidayRepoMock)
	holidays.On("GetActiveByDate", mock.Anything, mock.Anything).Return(nil, storageErr)

	exclusion := NewExclusionService(holidays, memory.NewNonWorkingPeriodRepository(), zap.NewNop())

	_, err := exclusion.IsExcluded(context.Background(), professionalID, domain.NewDate(2025, 12, 25), nil)
	assert.ErrorIs(t, err, storageErr)
	holidays.AssertExpectations(t)
}
