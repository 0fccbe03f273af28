package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agenda/internal/domain"
)

type HolidayRepo struct {
	db *pgxpool.Pool
}

func NewHolidayRepository(db *pgxpool.Pool) HolidayRepository {
	return &HolidayRepo{db: db}
}

const holidayColumns = `id, date, name, is_recurring, active, created_at`

func scanHoliday(row pgx.Row) (domain.Holiday, error) {
	var h domain.Holiday
	var date time.Time

	if err := row.Scan(&h.ID, &date, &h.Name, &h.IsRecurring, &h.Active, &h.CreatedAt); err != nil {
		return h, err
	}

	h.Date = domain.DateOf(date)
	return h, nil
}

func (r *HolidayRepo) Create(ctx context.Context, h domain.Holiday) (int64, error) {
	query := `
		INSERT INTO holidays (date, name, is_recurring, active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query, h.Date.Time(), h.Name, h.IsRecurring, h.Active, h.CreatedAt).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicateHoliday
		}
		return 0, fmt.Errorf("ошибка создания праздника: %w", err)
	}

	return id, nil
}

func (r *HolidayRepo) GetByID(ctx context.Context, id int64) (*domain.Holiday, error) {
	query := `SELECT ` + holidayColumns + ` FROM holidays WHERE id = $1`

	h, err := scanHoliday(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения праздника: %w", err)
	}

	return &h, nil
}

func (r *HolidayRepo) GetActiveByDate(ctx context.Context, date domain.Date) (*domain.Holiday, error) {
	query := `SELECT ` + holidayColumns + ` FROM holidays WHERE date = $1 AND active = true LIMIT 1`

	h, err := scanHoliday(r.db.QueryRow(ctx, query, date.Time()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка проверки праздника: %w", err)
	}

	return &h, nil
}

func (r *HolidayRepo) Update(ctx context.Context, h domain.Holiday) error {
	query := `UPDATE holidays SET date = $1, name = $2, is_recurring = $3, active = $4 WHERE id = $5`

	_, err := r.db.Exec(ctx, query, h.Date.Time(), h.Name, h.IsRecurring, h.Active, h.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateHoliday
		}
		return fmt.Errorf("ошибка обновления праздника: %w", err)
	}

	return nil
}

func (r *HolidayRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("ошибка удаления праздника: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *HolidayRepo) Find(ctx context.Context, filter domain.HolidayFilter) ([]domain.Holiday, int, error) {
	ds := psql.From("holidays")

	if filter.Year != nil {
		from := domain.NewDate(*filter.Year, time.January, 1)
		ds = ds.Where(
			goqu.C("date").Gte(from.Time()),
			goqu.C("date").Lt(from.WithYear(*filter.Year+1).Time()),
		)
	}
	if filter.Active != nil {
		ds = ds.Where(goqu.C("active").Eq(*filter.Active))
	}
	if filter.IsRecurring != nil {
		ds = ds.Where(goqu.C("is_recurring").Eq(*filter.IsRecurring))
	}

	total, err := countRows(ctx, r.db, ds)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения количества праздников: %w", err)
	}

	query, args, err := paginate(
		ds.Select("id", "date", "name", "is_recurring", "active", "created_at").Order(goqu.C("date").Asc()),
		filter.Limit,
		filter.Offset,
	).Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка построения запроса праздников: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка праздников: %w", err)
	}
	defer rows.Close()

	var holidays []domain.Holiday
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования праздника: %w", err)
		}
		holidays = append(holidays, h)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка обработки списка праздников: %w", err)
	}

	return holidays, total, nil
}
