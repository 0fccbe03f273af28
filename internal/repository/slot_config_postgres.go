package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agenda/internal/domain"
)

type SlotConfigRepo struct {
	db *pgxpool.Pool
}

func NewSlotConfigRepository(db *pgxpool.Pool) SlotConfigRepository {
	return &SlotConfigRepo{db: db}
}

const slotConfigColumns = `id, professional_id, advance_booking_days, min_advance_hours, allow_same_day_booking,
	auto_generate_slots, max_appointments_per_day, buffer_time_minutes, created_at, updated_at`

func scanSlotConfig(row pgx.Row) (domain.SlotGenerationConfig, error) {
	var cfg domain.SlotGenerationConfig
	err := row.Scan(
		&cfg.ID,
		&cfg.ProfessionalID,
		&cfg.AdvanceBookingDays,
		&cfg.MinAdvanceHours,
		&cfg.AllowSameDayBooking,
		&cfg.AutoGenerateSlots,
		&cfg.MaxAppointmentsPerDay,
		&cfg.BufferTimeMinutes,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)
	return cfg, err
}

func (r *SlotConfigRepo) Create(ctx context.Context, cfg domain.SlotGenerationConfig) (int64, error) {
	query := `
		INSERT INTO slot_generation_configs (
			professional_id, advance_booking_days, min_advance_hours, allow_same_day_booking,
			auto_generate_slots, max_appointments_per_day, buffer_time_minutes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		cfg.ProfessionalID,
		cfg.AdvanceBookingDays,
		cfg.MinAdvanceHours,
		cfg.AllowSameDayBooking,
		cfg.AutoGenerateSlots,
		cfg.MaxAppointmentsPerDay,
		cfg.BufferTimeMinutes,
		cfg.CreatedAt,
		cfg.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicateConfig
		}
		return 0, fmt.Errorf("ошибка создания конфигурации слотов: %w", err)
	}

	return id, nil
}

func (r *SlotConfigRepo) GetByID(ctx context.Context, id int64) (*domain.SlotGenerationConfig, error) {
	return r.getOne(ctx, `SELECT `+slotConfigColumns+` FROM slot_generation_configs WHERE id = $1`, id)
}

func (r *SlotConfigRepo) GetByProfessionalID(ctx context.Context, professionalID int64) (*domain.SlotGenerationConfig, error) {
	return r.getOne(ctx, `SELECT `+slotConfigColumns+` FROM slot_generation_configs WHERE professional_id = $1`, professionalID)
}

func (r *SlotConfigRepo) getOne(ctx context.Context, query string, arg int64) (*domain.SlotGenerationConfig, error) {
	cfg, err := scanSlotConfig(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения конфигурации слотов: %w", err)
	}

	return &cfg, nil
}

func (r *SlotConfigRepo) Update(ctx context.Context, cfg domain.SlotGenerationConfig) error {
	query := `
		UPDATE slot_generation_configs
		SET advance_booking_days = $1, min_advance_hours = $2, allow_same_day_booking = $3,
		    auto_generate_slots = $4, max_appointments_per_day = $5, buffer_time_minutes = $6, updated_at = $7
		WHERE id = $8
	`

	_, err := r.db.Exec(ctx, query,
		cfg.AdvanceBookingDays,
		cfg.MinAdvanceHours,
		cfg.AllowSameDayBooking,
		cfg.AutoGenerateSlots,
		cfg.MaxAppointmentsPerDay,
		cfg.BufferTimeMinutes,
		cfg.UpdatedAt,
		cfg.ID,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления конфигурации слотов: %w", err)
	}

	return nil
}

func (r *SlotConfigRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM slot_generation_configs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("ошибка удаления конфигурации слотов: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *SlotConfigRepo) List(ctx context.Context, autoGenerateOnly bool) ([]domain.SlotGenerationConfig, error) {
	query := `SELECT ` + slotConfigColumns + ` FROM slot_generation_configs`
	if autoGenerateOnly {
		query += ` WHERE auto_generate_slots = true`
	}
	query += ` ORDER BY professional_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения конфигураций слотов: %w", err)
	}
	defer rows.Close()

	var configs []domain.SlotGenerationConfig
	for rows.Next() {
		cfg, err := scanSlotConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования конфигурации слотов: %w", err)
		}
		configs = append(configs, cfg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обработки конфигураций слотов: %w", err)
	}

	return configs, nil
}
