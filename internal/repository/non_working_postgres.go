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

type NonWorkingPeriodRepo struct {
	db *pgxpool.Pool
}

func NewNonWorkingPeriodRepository(db *pgxpool.Pool) NonWorkingPeriodRepository {
	return &NonWorkingPeriodRepo{db: db}
}

const nonWorkingColumns = `id, professional_id, date, reason, all_day, start_time, end_time, created_at, created_by`

func scanNonWorkingPeriod(row pgx.Row) (domain.NonWorkingPeriod, error) {
	var p domain.NonWorkingPeriod
	var date time.Time
	var start, end pgtype.Time

	err := row.Scan(
		&p.ID,
		&p.ProfessionalID,
		&date,
		&p.Reason,
		&p.AllDay,
		&start,
		&end,
		&p.CreatedAt,
		&p.CreatedBy,
	)
	if err != nil {
		return p, err
	}

	p.Date = domain.DateOf(date)
	p.StartTime = timeOfDayPtr(start)
	p.EndTime = timeOfDayPtr(end)
	return p, nil
}

func (r *NonWorkingPeriodRepo) Create(ctx context.Context, p domain.NonWorkingPeriod) (int64, error) {
	query := `
		INSERT INTO non_working_periods (
			professional_id, date, reason, all_day, start_time, end_time, created_at, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		p.ProfessionalID,
		p.Date.Time(),
		p.Reason,
		p.AllDay,
		pgTimePtr(p.StartTime),
		pgTimePtr(p.EndTime),
		p.CreatedAt,
		p.CreatedBy,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicateNonWorkingPeriod
		}
		return 0, fmt.Errorf("ошибка создания нерабочего периода: %w", err)
	}

	return id, nil
}

func (r *NonWorkingPeriodRepo) GetByID(ctx context.Context, id int64) (*domain.NonWorkingPeriod, error) {
	query := `SELECT ` + nonWorkingColumns + ` FROM non_working_periods WHERE id = $1`

	p, err := scanNonWorkingPeriod(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения нерабочего периода: %w", err)
	}

	return &p, nil
}

func (r *NonWorkingPeriodRepo) GetByProfessionalAndDate(ctx context.Context, professionalID int64, date domain.Date) (*domain.NonWorkingPeriod, error) {
	query := `SELECT ` + nonWorkingColumns + ` FROM non_working_periods WHERE professional_id = $1 AND date = $2`

	p, err := scanNonWorkingPeriod(r.db.QueryRow(ctx, query, professionalID, date.Time()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка проверки нерабочего периода: %w", err)
	}

	return &p, nil
}

func (r *NonWorkingPeriodRepo) Update(ctx context.Context, p domain.NonWorkingPeriod) error {
	query := `
		UPDATE non_working_periods
		SET date = $1, reason = $2, all_day = $3, start_time = $4, end_time = $5
		WHERE id = $6
	`

	_, err := r.db.Exec(ctx, query,
		p.Date.Time(),
		p.Reason,
		p.AllDay,
		pgTimePtr(p.StartTime),
		pgTimePtr(p.EndTime),
		p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateNonWorkingPeriod
		}
		return fmt.Errorf("ошибка обновления нерабочего периода: %w", err)
	}

	return nil
}

func (r *NonWorkingPeriodRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM non_working_periods WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("ошибка удаления нерабочего периода: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *NonWorkingPeriodRepo) ListByProfessional(ctx context.Context, professionalID int64, from, to *domain.Date) ([]domain.NonWorkingPeriod, error) {
	query := `SELECT ` + nonWorkingColumns + ` FROM non_working_periods WHERE professional_id = $1`
	args := []interface{}{professionalID}
	argPos := 2

	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", argPos)
		args = append(args, from.Time())
		argPos++
	}

	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", argPos)
		args = append(args, to.Time())
	}

	query += " ORDER BY date"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения нерабочих периодов: %w", err)
	}
	defer rows.Close()

	var periods []domain.NonWorkingPeriod
	for rows.Next() {
		p, err := scanNonWorkingPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования нерабочего периода: %w", err)
		}
		periods = append(periods, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обработки нерабочих периодов: %w", err)
	}

	return periods, nil
}
