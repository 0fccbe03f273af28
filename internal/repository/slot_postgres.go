package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"agenda/internal/domain"
)

type SlotRepo struct {
	db *pgxpool.Pool
}

func NewSlotRepository(db *pgxpool.Pool) SlotRepository {
	return &SlotRepo{db: db}
}

const slotColumns = `id, professional_id, date, start_time, end_time, duration_minutes, is_available, linked_appointment_id, generated_at, booked_at`

var slotSelect = []interface{}{
	"id", "professional_id", "date", "start_time", "end_time", "duration_minutes",
	"is_available", "linked_appointment_id", "generated_at", "booked_at",
}

func scanSlot(row pgx.Row) (domain.Slot, error) {
	var slot domain.Slot
	var date time.Time
	var start, end pgtype.Time

	err := row.Scan(
		&slot.ID,
		&slot.ProfessionalID,
		&date,
		&start,
		&end,
		&slot.DurationMinutes,
		&slot.IsAvailable,
		&slot.LinkedAppointmentID,
		&slot.GeneratedAt,
		&slot.BookedAt,
	)
	if err != nil {
		return slot, err
	}

	slot.Date = domain.DateOf(date)
	slot.StartTime = timeOfDay(start)
	slot.EndTime = timeOfDay(end)
	return slot, nil
}

func (r *SlotRepo) CreateIfAbsent(ctx context.Context, slot domain.Slot) (int64, bool, error) {
	query := `
		INSERT INTO slots (
			professional_id, date, start_time, end_time, duration_minutes, is_available, generated_at
		) VALUES ($1, $2, $3, $4, $5, true, $6)
		ON CONFLICT (professional_id, date, start_time) DO NOTHING
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(
		ctx,
		query,
		slot.ProfessionalID,
		slot.Date.Time(),
		pgTime(slot.StartTime),
		pgTime(slot.EndTime),
		slot.DurationMinutes,
		slot.GeneratedAt,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("ошибка создания слота: %w", err)
	}

	return id, true, nil
}

func (r *SlotRepo) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE id = $1`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения слота: %w", err)
	}

	return &slot, nil
}

func (r *SlotRepo) GetByAppointmentID(ctx context.Context, appointmentID int64) (*domain.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE linked_appointment_id = $1`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, appointmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения слота записи: %w", err)
	}

	return &slot, nil
}

func (r *SlotRepo) Book(ctx context.Context, id, appointmentID int64, bookedAt time.Time) (bool, error) {
	query := `
		UPDATE slots
		SET is_available = false, linked_appointment_id = $2, booked_at = $3
		WHERE id = $1 AND is_available = true
	`

	tag, err := r.db.Exec(ctx, query, id, appointmentID, bookedAt)
	if err != nil {
		return false, fmt.Errorf("ошибка бронирования слота: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *SlotRepo) Release(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE slots
		SET is_available = true, linked_appointment_id = NULL, booked_at = NULL
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("ошибка освобождения слота: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *SlotRepo) DeleteAvailable(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM slots WHERE id = $1 AND is_available = true`, id)
	if err != nil {
		return false, fmt.Errorf("ошибка удаления слота: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *SlotRepo) DeleteAvailableBefore(ctx context.Context, before domain.Date) (int, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM slots WHERE date < $1 AND is_available = true`, before.Time())
	if err != nil {
		return 0, fmt.Errorf("ошибка удаления устаревших слотов: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

func (r *SlotRepo) Find(ctx context.Context, filter domain.SlotFilter) ([]domain.Slot, int, error) {
	ds := psql.From("slots")

	if filter.ProfessionalID != nil {
		ds = ds.Where(goqu.C("professional_id").Eq(*filter.ProfessionalID))
	}
	if filter.DateFrom != nil {
		ds = ds.Where(goqu.C("date").Gte(filter.DateFrom.Time()))
	}
	if filter.DateTo != nil {
		ds = ds.Where(goqu.C("date").Lte(filter.DateTo.Time()))
	}
	if filter.TimeFrom != nil {
		ds = ds.Where(goqu.C("start_time").Gte(filter.TimeFrom.String()))
	}
	if filter.TimeTo != nil {
		ds = ds.Where(goqu.C("end_time").Lte(filter.TimeTo.String()))
	}
	if filter.IsAvailable != nil {
		ds = ds.Where(goqu.C("is_available").Eq(*filter.IsAvailable))
	}

	total, err := countRows(ctx, r.db, ds)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения количества слотов: %w", err)
	}

	query, args, err := paginate(
		ds.Select(slotSelect...).Order(goqu.C("date").Asc(), goqu.C("start_time").Asc()),
		filter.Limit,
		filter.Offset,
	).Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка построения запроса слотов: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка слотов: %w", err)
	}
	defer rows.Close()

	var slots []domain.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования строки слота: %w", err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка обработки списка слотов: %w", err)
	}

	return slots, total, nil
}
