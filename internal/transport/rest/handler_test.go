package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agenda/config"
	"agenda/internal/domain"
	"agenda/internal/repository/memory"
	"agenda/internal/service"
	"agenda/pkg/clock"
)

const (
	testProfessionalID int64 = 7
	testPatientID      int64 = 42
)

type testServer struct {
	router   *gin.Engine
	services *service.Services
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWT: config.JWTConfig{SigningKey: "test-signing-key"},
		S3:  config.S3Config{ExportURLTTL: time.Hour},
	}
	services, err := service.NewServices(service.Deps{
		Repos:  memory.NewRepositories(),
		Logger: zap.NewNop(),
		Config: cfg,
		Clock:  clock.NewFixed(time.Date(2025, time.December, 1, 9, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)

	router := gin.New()
	NewHandler(services, zap.NewNop(), cfg, nil).InitRoutes(router)
	return &testServer{router: router, services: services}
}

func (s *testServer) token(t *testing.T, userID int64, role domain.UserRole) string {
	t.Helper()
	token, err := s.services.Auth.GenerateToken(userID, role, time.Hour)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	var body struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NoError(t, json.Unmarshal(body.Data, into))
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/catalog/reasons", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/catalog/reasons", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/catalog/reasons", s.token(t, testPatientID, domain.UserRolePatient), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestManagerOnlyRoutes(t *testing.T) {
	s := newTestServer(t)
	rule := domain.CreateScheduleRuleDTO{
		ProfessionalID:      testProfessionalID,
		DayOfWeek:           ptr(int(time.Monday)),
		StartTime:           "09:00",
		EndTime:             "10:00",
		SlotDurationMinutes: 30,
	}

	w := s.do(t, http.MethodPost, "/api/v1/schedule-rules", s.token(t, testPatientID, domain.UserRolePatient), rule)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/schedule-rules", s.token(t, 1, domain.UserRoleScheduleManager), rule)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestGenerateAndBookOverHTTP(t *testing.T) {
	s := newTestServer(t)
	manager := s.token(t, 1, domain.UserRoleAdmin)
	patient := s.token(t, testPatientID, domain.UserRolePatient)

	w := s.do(t, http.MethodPost, "/api/v1/slots/generate", manager, domain.GenerateSlotsDTO{ProfessionalID: testProfessionalID, DateFrom: "2025-12-22", DateTo: "2025-12-22"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "без расписания генерация невозможна")

	w = s.do(t, http.MethodPost, "/api/v1/schedule-rules", manager, domain.CreateScheduleRuleDTO{
		ProfessionalID:      testProfessionalID,
		DayOfWeek:           ptr(int(time.Monday)),
		StartTime:           "09:00",
		EndTime:             "10:00",
		SlotDurationMinutes: 30,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/slots/generate", manager, domain.GenerateSlotsDTO{ProfessionalID: testProfessionalID, DateFrom: "2025-12-22", DateTo: "2025-12-22"})
	require.Equal(t, http.StatusOK, w.Code)
	var generated map[string]int
	decodeData(t, w, &generated)
	assert.Equal(t, 2, generated["created"])

	w = s.do(t, http.MethodGet, "/api/v1/slots/available?professional_id=7&date=2025-12-22", patient, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var slots []domain.Slot
	decodeData(t, w, &slots)
	require.Len(t, slots, 2)

	request := domain.CreateAppointmentDTO{ProfessionalID: testProfessionalID, PatientID: testPatientID, SlotID: &slots[0].ID, ReasonID: 1}
	w = s.do(t, http.MethodPost, "/api/v1/appointments", patient, request)
	require.Equal(t, http.StatusCreated, w.Code)
	var appointment domain.Appointment
	decodeData(t, w, &appointment)
	assert.Equal(t, "09:00", appointment.StartTime.String())

	w = s.do(t, http.MethodPost, "/api/v1/appointments", patient, request)
	assert.Equal(t, http.StatusConflict, w.Code)

	other := request
	other.PatientID = testPatientID + 1
	w = s.do(t, http.MethodPost, "/api/v1/appointments", patient, other)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/slots/1", manager, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	stranger := s.token(t, testPatientID+1, domain.UserRolePatient)
	w = s.do(t, http.MethodGet, "/api/v1/appointments/1", stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/appointments/1/cancel", patient, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/slots/1", patient, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var slot domain.Slot
	decodeData(t, w, &slot)
	assert.True(t, slot.IsAvailable)
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)
	manager := s.token(t, 1, domain.UserRoleAdmin)

	w := s.do(t, http.MethodGet, "/api/v1/slots/999", manager, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/slots/abc", manager, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/slots", manager, domain.CreateSlotDTO{ProfessionalID: testProfessionalID, Date: "2025-12-22", StartTime: "10:00", EndTime: "09:00", DurationMinutes: 30})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/slots/export", manager, domain.ExportSlotsDTO{ProfessionalID: testProfessionalID, DateFrom: "2025-12-22", DateTo: "2025-12-29"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/holidays", manager, domain.CreateHolidayDTO{Date: "2025-12-25", Name: "Рождество"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/holidays", manager, domain.CreateHolidayDTO{Date: "2025-12-25", Name: "Дубль"})
	assert.Equal(t, http.StatusConflict, w.Code)

	var body errorResponseBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, http.StatusConflict, body.Code)
	assert.Equal(t, domain.ErrDuplicateHoliday.Error(), body.Message)
}

func TestExclusionAndEligibilityChecks(t *testing.T) {
	s := newTestServer(t)
	manager := s.token(t, 1, domain.UserRoleScheduleManager)

	w := s.do(t, http.MethodPost, "/api/v1/non-working-periods", manager, domain.CreateNonWorkingPeriodDTO{
		ProfessionalID: testProfessionalID,
		Date:           "2025-12-23",
		StartTime:      "12:00",
		EndTime:        "14:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var check map[string]interface{}
	w = s.do(t, http.MethodGet, "/api/v1/non-working-periods/check?professional_id=7&date=2025-12-23&time=12:30", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &check)
	assert.Equal(t, true, check["is_non_working"])

	w = s.do(t, http.MethodGet, "/api/v1/non-working-periods/excluded?professional_id=7&date=2025-12-23", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &check)
	assert.Equal(t, false, check["is_excluded"])

	w = s.do(t, http.MethodPost, "/api/v1/slot-configs", manager, domain.CreateSlotConfigDTO{ProfessionalID: testProfessionalID})
	require.Equal(t, http.StatusCreated, w.Code)

	var eligibility domain.Eligibility
	w = s.do(t, http.MethodGet, "/api/v1/appointments/eligibility?professional_id=7&date=2025-12-01&time=15:00", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &eligibility)
	assert.False(t, eligibility.CanBook)

	w = s.do(t, http.MethodGet, "/api/v1/appointments/eligibility?professional_id=7&date=2025-12-10&time=15:00", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &eligibility)
	assert.True(t, eligibility.CanBook)

	w = s.do(t, http.MethodGet, "/api/v1/appointments/eligibility?professional_id=7&date=2025-12-10", manager, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.NewNotFoundError("слот", 1), http.StatusNotFound},
		{domain.ErrValidation, http.StatusBadRequest},
		{domain.ErrSlotMismatch, http.StatusBadRequest},
		{&domain.OverlapError{}, http.StatusConflict},
		{domain.ErrSlotInUse, http.StatusConflict},
		{domain.ErrAppointmentCancelled, http.StatusConflict},
		{domain.ErrNoScheduleConfigured, http.StatusUnprocessableEntity},
		{domain.ErrNonWorkingTime, http.StatusUnprocessableEntity},
		{domain.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusOf(tt.err), tt.err.Error())
	}
}

func ptr[T any](v T) *T {
	return &v
}
