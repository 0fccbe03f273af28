package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agenda/config"
	"agenda/internal/domain"
	"agenda/internal/repository"
	"agenda/internal/repository/memory"
	"agenda/pkg/clock"
)

const (
	professionalID int64 = 7
	patientID      int64 = 42
	reasonID       int64 = 1
)

type fixture struct {
	repos    *repository.Repositories
	clock    *clock.Fixed
	services *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithConfig(t, config.SchedulingConfig{})
}

func newFixtureWithConfig(t *testing.T, scheduling config.SchedulingConfig) *fixture {
	t.Helper()
	return newFixtureWithRepos(t, memory.NewRepositories(), scheduling)
}

func newFixtureWithRepos(t *testing.T, repos *repository.Repositories, scheduling config.SchedulingConfig) *fixture {
	t.Helper()

	clk := clock.NewFixed(time.Date(2025, time.December, 1, 9, 0, 0, 0, time.UTC))
	cfg := &config.Config{
		JWT:        config.JWTConfig{SigningKey: "test-signing-key"},
		S3:         config.S3Config{ExportURLTTL: time.Hour},
		Scheduling: scheduling,
	}

	services, err := NewServices(Deps{
		Repos:  repos,
		Logger: zap.NewNop(),
		Config: cfg,
		Clock:  clk,
	})
	require.NoError(t, err)

	return &fixture{repos: repos, clock: clk, services: services}
}

func mustDate(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func mustTime(t *testing.T, s string) domain.TimeOfDay {
	t.Helper()
	tod, err := domain.ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func (f *fixture) addRule(t *testing.T, day time.Weekday, start, end string, duration int) {
	t.Helper()
	d := int(day)
	_, err := f.services.ScheduleRule.Create(context.Background(), domain.CreateScheduleRuleDTO{
		ProfessionalID:      professionalID,
		DayOfWeek:           &d,
		StartTime:           start,
		EndTime:             end,
		SlotDurationMinutes: duration,
	})
	require.NoError(t, err)
}

func (f *fixture) newAppointment(t *testing.T, date, start, end string) domain.NewAppointment {
	t.Helper()
	return domain.NewAppointment{
		ProfessionalID: professionalID,
		PatientID:      patientID,
		Date:           mustDate(t, date),
		StartTime:      mustTime(t, start),
		EndTime:        mustTime(t, end),
		ReasonID:       reasonID,
		UserID:         patientID,
	}
}
