package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

type recordingStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newRecordingStorage() *recordingStorage {
	return &recordingStorage{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (s *recordingStorage) UploadFile(_ context.Context, objectName string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectName] = append([]byte(nil), data...)
	s.types[objectName] = contentType
	return nil
}

func (s *recordingStorage) GetPresignedURL(_ context.Context, objectName string, _ time.Duration) (string, error) {
	return "https://files.local/" + objectName, nil
}

func TestExportSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addRule(t, time.Monday, "09:00", "10:00", 30)

	from, to := mustDate(t, "2025-12-22"), mustDate(t, "2025-12-29")
	_, err := f.services.Slot.GenerateSlots(ctx, professionalID, from, to)
	require.NoError(t, err)

	appointment, err := f.services.Appointment.CreateAppointment(ctx, f.newAppointment(t, "2025-12-22", "09:00", "09:30"))
	require.NoError(t, err)
	slots, err := f.services.Slot.ListAvailable(ctx, professionalID, from)
	require.NoError(t, err)
	require.NoError(t, f.services.Slot.Book(ctx, slots[0].ID, appointment.ID))

	files := newRecordingStorage()
	export := NewExportService(f.services.Slot, files, time.Hour, f.clock, zap.NewNop())

	result, err := export.ExportSlots(ctx, domain.ExportSlotsDTO{ProfessionalID: professionalID, DateFrom: "2025-12-22", DateTo: "2025-12-29"})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Rows)
	assert.True(t, strings.HasPrefix(result.ObjectKey, "exports/7/"))
	assert.Equal(t, "https://files.local/"+result.ObjectKey, result.URL)
	assert.Equal(t, f.clock.Now().Add(time.Hour), result.ExpiresAt)
	assert.Equal(t, "text/csv", files.types[result.ObjectKey])

	records, err := csv.NewReader(bytes.NewReader(files.objects[result.ObjectKey])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, exportHeader, records[0])
	assert.Equal(t, []string{"2025-12-22", "09:00", "09:30", "30", "false", "1"}, records[1])
	assert.Equal(t, []string{"2025-12-29", "09:30", "10:00", "30", "true", ""}, records[4])
}

func TestExportSlotsErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.services.Export.ExportSlots(ctx, domain.ExportSlotsDTO{ProfessionalID: professionalID, DateFrom: "2025-12-22", DateTo: "2025-12-29"})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	export := NewExportService(f.services.Slot, newRecordingStorage(), time.Hour, f.clock, zap.NewNop())
	_, err = export.ExportSlots(ctx, domain.ExportSlotsDTO{ProfessionalID: professionalID, DateFrom: "2025-12-29", DateTo: "2025-12-22"})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = export.ExportSlots(ctx, domain.ExportSlotsDTO{ProfessionalID: professionalID, DateFrom: "22.12.2025", DateTo: "2025-12-29"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
