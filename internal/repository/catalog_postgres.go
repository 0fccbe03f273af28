package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agenda/internal/domain"
)

type CatalogRepo struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) CatalogRepository {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) GetReason(ctx context.Context, id int64) (*domain.AppointmentReason, error) {
	query := `SELECT id, name, description, active FROM appointment_reasons WHERE id = $1`

	var reason domain.AppointmentReason
	err := r.db.QueryRow(ctx, query, id).Scan(&reason.ID, &reason.Name, &reason.Description, &reason.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения причины обращения: %w", err)
	}

	return &reason, nil
}

func (r *CatalogRepo) ListReasons(ctx context.Context) ([]domain.AppointmentReason, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, active FROM appointment_reasons ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения причин обращения: %w", err)
	}
	defer rows.Close()

	var reasons []domain.AppointmentReason
	for rows.Next() {
		var reason domain.AppointmentReason
		if err := rows.Scan(&reason.ID, &reason.Name, &reason.Description, &reason.Active); err != nil {
			return nil, fmt.Errorf("ошибка сканирования причины обращения: %w", err)
		}
		reasons = append(reasons, reason)
	}

	return reasons, rows.Err()
}

func (r *CatalogRepo) GetStatus(ctx context.Context, id int64) (*domain.AppointmentStatus, error) {
	query := `SELECT id, name, description FROM appointment_statuses WHERE id = $1`

	var status domain.AppointmentStatus
	err := r.db.QueryRow(ctx, query, id).Scan(&status.ID, &status.Name, &status.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения статуса записи: %w", err)
	}

	return &status, nil
}

func (r *CatalogRepo) ListStatuses(ctx context.Context) ([]domain.AppointmentStatus, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description FROM appointment_statuses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения статусов записи: %w", err)
	}
	defer rows.Close()

	var statuses []domain.AppointmentStatus
	for rows.Next() {
		var status domain.AppointmentStatus
		if err := rows.Scan(&status.ID, &status.Name, &status.Description); err != nil {
			return nil, fmt.Errorf("ошибка сканирования статуса записи: %w", err)
		}
		statuses = append(statuses, status)
	}

	return statuses, rows.Err()
}
