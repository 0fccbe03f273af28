package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/internal/repository"
)

type CatalogServiceImpl struct {
	repo   repository.CatalogRepository
	logger *zap.Logger
}

func NewCatalogService(repo repository.CatalogRepository, logger *zap.Logger) *CatalogServiceImpl {
	return &CatalogServiceImpl{repo: repo, logger: logger}
}

func (s *CatalogServiceImpl) ListReasons(ctx context.Context) ([]domain.AppointmentReason, error) {
	reasons, err := s.repo.ListReasons(ctx)
	if err != nil {
		s.logger.Error("ошибка получения причин обращения", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения причин обращения: %w", err)
	}
	return reasons, nil
}

func (s *CatalogServiceImpl) ListStatuses(ctx context.Context) ([]domain.AppointmentStatus, error) {
	statuses, err := s.repo.ListStatuses(ctx)
	if err != nil {
		s.logger.Error("ошибка получения статусов записи", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения статусов записи: %w", err)
	}
	return statuses, nil
}
