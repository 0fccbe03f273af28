package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/internal/storage"
	"agenda/pkg/clock"
)

const exportPageSize = 500

var exportHeader = []string{"date", "start_time", "end_time", "duration_minutes", "available", "appointment_id"}

type ExportServiceImpl struct {
	slots       SlotService
	fileStorage storage.FileStorage
	urlTTL      time.Duration
	clock       clock.Clock
	logger      *zap.Logger
}

func NewExportService(slots SlotService, fileStorage storage.FileStorage, urlTTL time.Duration, clk clock.Clock, logger *zap.Logger) *ExportServiceImpl {
	return &ExportServiceImpl{
		slots:       slots,
		fileStorage: fileStorage,
		urlTTL:      urlTTL,
		clock:       clk,
		logger:      logger,
	}
}

// ExportSlots uploads the agenda of a professional over a date range as CSV and returns a temporary link.
func (s *ExportServiceImpl) ExportSlots(ctx context.Context, dto domain.ExportSlotsDTO) (*domain.SlotExport, error) {
	if s.fileStorage == nil {
		return nil, domain.ErrStorageUnavailable
	}

	from, err := domain.ParseDate(dto.DateFrom)
	if err != nil {
		return nil, err
	}
	to, err := domain.ParseDate(dto.DateTo)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, domain.ErrInvalidRange
	}

	data, rows, err := s.render(ctx, dto.ProfessionalID, from, to)
	if err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("exports/%d/%s.csv", dto.ProfessionalID, uuid.New().String())
	if err := s.fileStorage.UploadFile(ctx, objectKey, data, "text/csv"); err != nil {
		s.logger.Error("ошибка загрузки выгрузки расписания", zap.String("objectKey", objectKey), zap.Error(err))
		return nil, fmt.Errorf("ошибка загрузки выгрузки расписания: %w", err)
	}

	url, err := s.fileStorage.GetPresignedURL(ctx, objectKey, s.urlTTL)
	if err != nil {
		s.logger.Error("ошибка получения ссылки на выгрузку", zap.String("objectKey", objectKey), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения ссылки на выгрузку: %w", err)
	}

	s.logger.Info("расписание выгружено",
		zap.Int64("professionalID", dto.ProfessionalID),
		zap.String("objectKey", objectKey),
		zap.Int("rows", rows),
	)

	return &domain.SlotExport{
		ObjectKey: objectKey,
		URL:       url,
		Rows:      rows,
		ExpiresAt: s.clock.Now().Add(s.urlTTL),
	}, nil
}

func (s *ExportServiceImpl) render(ctx context.Context, professionalID int64, from, to domain.Date) ([]byte, int, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, 0, fmt.Errorf("ошибка формирования CSV: %w", err)
	}

	rows := 0
	for offset := 0; ; offset += exportPageSize {
		slots, total, err := s.slots.Find(ctx, domain.SlotFilter{
			ProfessionalID: &professionalID,
			DateFrom:       &from,
			DateTo:         &to,
			Limit:          exportPageSize,
			Offset:         offset,
		})
		if err != nil {
			return nil, 0, err
		}

		for _, slot := range slots {
			appointmentID := ""
			if slot.LinkedAppointmentID != nil {
				appointmentID = strconv.FormatInt(*slot.LinkedAppointmentID, 10)
			}
			record := []string{
				slot.Date.String(),
				slot.StartTime.String(),
				slot.EndTime.String(),
				strconv.Itoa(slot.DurationMinutes),
				strconv.FormatBool(slot.IsAvailable),
				appointmentID,
			}
			if err := w.Write(record); err != nil {
				return nil, 0, fmt.Errorf("ошибка формирования CSV: %w", err)
			}
			rows++
		}

		if len(slots) == 0 || offset+len(slots) >= total {
			break
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, 0, fmt.Errorf("ошибка формирования CSV: %w", err)
	}
	return buf.Bytes(), rows, nil
}
