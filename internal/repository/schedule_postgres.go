package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"agenda/internal/domain"
)

type ScheduleRuleRepo struct {
	db *pgxpool.Pool
}

func NewScheduleRuleRepository(db *pgxpool.Pool) ScheduleRuleRepository {
	return &ScheduleRuleRepo{db: db}
}

const scheduleRuleColumns = `id, professional_id, day_of_week, start_time, end_time, slot_duration_minutes, active, created_at, updated_at`

func scanScheduleRule(row pgx.Row) (domain.WeeklyScheduleRule, error) {
	var rule domain.WeeklyScheduleRule
	var dayOfWeek int
	var start, end pgtype.Time

	err := row.Scan(
		&rule.ID,
		&rule.ProfessionalID,
		&dayOfWeek,
		&start,
		&end,
		&rule.SlotDurationMinutes,
		&rule.Active,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return rule, err
	}

	rule.DayOfWeek = time.Weekday(dayOfWeek)
	rule.StartTime = timeOfDay(start)
	rule.EndTime = timeOfDay(end)
	return rule, nil
}

func (r *ScheduleRuleRepo) Create(ctx context.Context, rule domain.WeeklyScheduleRule) (int64, error) {
	query := `
		INSERT INTO schedule_rules (
			professional_id, day_of_week, start_time, end_time, slot_duration_minutes, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(
		ctx,
		query,
		rule.ProfessionalID,
		int(rule.DayOfWeek),
		pgTime(rule.StartTime),
		pgTime(rule.EndTime),
		rule.SlotDurationMinutes,
		rule.Active,
		rule.CreatedAt,
		rule.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания правила расписания: %w", err)
	}

	return id, nil
}

func (r *ScheduleRuleRepo) GetByID(ctx context.Context, id int64) (*domain.WeeklyScheduleRule, error) {
	query := `SELECT ` + scheduleRuleColumns + ` FROM schedule_rules WHERE id = $1`

	rule, err := scanScheduleRule(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения правила расписания: %w", err)
	}

	return &rule, nil
}

func (r *ScheduleRuleRepo) Update(ctx context.Context, rule domain.WeeklyScheduleRule) error {
	query := `
		UPDATE schedule_rules
		SET day_of_week = $1, start_time = $2, end_time = $3, slot_duration_minutes = $4, active = $5, updated_at = $6
		WHERE id = $7
	`

	_, err := r.db.Exec(
		ctx,
		query,
		int(rule.DayOfWeek),
		pgTime(rule.StartTime),
		pgTime(rule.EndTime),
		rule.SlotDurationMinutes,
		rule.Active,
		rule.UpdatedAt,
		rule.ID,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления правила расписания: %w", err)
	}

	return nil
}

func (r *ScheduleRuleRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM schedule_rules WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("ошибка удаления правила расписания: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *ScheduleRuleRepo) List(ctx context.Context, filter domain.ScheduleRuleFilter) ([]domain.WeeklyScheduleRule, error) {
	query := `SELECT ` + scheduleRuleColumns + ` FROM schedule_rules WHERE professional_id = $1`
	if filter.ActiveOnly {
		query += ` AND active = true`
	}
	query += ` ORDER BY day_of_week, start_time`

	rows, err := r.db.Query(ctx, query, filter.ProfessionalID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения правил расписания: %w", err)
	}
	defer rows.Close()

	var rules []domain.WeeklyScheduleRule
	for rows.Next() {
		rule, err := scanScheduleRule(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования правила расписания: %w", err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обработки правил расписания: %w", err)
	}

	return rules, nil
}
