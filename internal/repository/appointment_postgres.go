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

type AppointmentRepo struct {
	db *pgxpool.Pool
}

func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepo {
	return &AppointmentRepo{
		db: db,
	}
}

const appointmentColumns = `id, professional_id, patient_id, date, start_time, end_time, reason_id, status_id, user_id, notes, is_booked, is_expired, created_at, updated_at`

var appointmentSelect = []interface{}{
	"id", "professional_id", "patient_id", "date", "start_time", "end_time", "reason_id",
	"status_id", "user_id", "notes", "is_booked", "is_expired", "created_at", "updated_at",
}

func scanAppointment(row pgx.Row) (domain.Appointment, error) {
	var a domain.Appointment
	var date time.Time
	var start, end pgtype.Time

	err := row.Scan(
		&a.ID,
		&a.ProfessionalID,
		&a.PatientID,
		&date,
		&start,
		&end,
		&a.ReasonID,
		&a.StatusID,
		&a.UserID,
		&a.Notes,
		&a.IsBooked,
		&a.IsExpired,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return a, err
	}

	a.Date = domain.DateOf(date)
	a.StartTime = timeOfDay(start)
	a.EndTime = timeOfDay(end)
	return a, nil
}

func (r *AppointmentRepo) Create(ctx context.Context, a domain.Appointment) (int64, error) {
	query := `
		INSERT INTO appointments (
			professional_id, patient_id, date, start_time, end_time, reason_id, status_id, user_id,
			notes, is_booked, is_expired, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		a.ProfessionalID,
		a.PatientID,
		a.Date.Time(),
		pgTime(a.StartTime),
		pgTime(a.EndTime),
		a.ReasonID,
		a.StatusID,
		a.UserID,
		a.Notes,
		a.IsBooked,
		a.IsExpired,
		a.CreatedAt,
		a.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания записи на прием: %w", err)
	}

	return id, nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	a, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения записи на прием: %w", err)
	}

	return &a, nil
}

func (r *AppointmentRepo) Update(ctx context.Context, a domain.Appointment) error {
	query := `
		UPDATE appointments
		SET date = $1, start_time = $2, end_time = $3, reason_id = $4, notes = $5, updated_at = $6
		WHERE id = $7
	`

	_, err := r.db.Exec(ctx, query,
		a.Date.Time(),
		pgTime(a.StartTime),
		pgTime(a.EndTime),
		a.ReasonID,
		a.Notes,
		a.UpdatedAt,
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления записи на прием: %w", err)
	}

	return nil
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id, statusID int64, at time.Time) (bool, error) {
	query := `UPDATE appointments SET status_id = $2, updated_at = $3 WHERE id = $1 AND is_booked`

	tag, err := r.db.Exec(ctx, query, id, statusID, at)
	if err != nil {
		return false, fmt.Errorf("ошибка обновления статуса записи на прием: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *AppointmentRepo) Cancel(ctx context.Context, id int64, at time.Time) (bool, error) {
	query := `UPDATE appointments SET is_booked = FALSE, status_id = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, domain.StatusCancelled, at)
	if err != nil {
		return false, fmt.Errorf("ошибка отмены записи на прием: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *AppointmentRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("ошибка удаления записи на прием: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *AppointmentRepo) ListBooked(ctx context.Context, professionalID int64, date domain.Date) ([]domain.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE professional_id = $1 AND date = $2 AND is_booked = true
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, professionalID, date.Time())
	if err != nil {
		return nil, fmt.Errorf("ошибка получения записей на дату: %w", err)
	}
	defer rows.Close()

	var appointments []domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи на прием: %w", err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обработки записей на дату: %w", err)
	}

	return appointments, nil
}

func (r *AppointmentRepo) CountBooked(ctx context.Context, professionalID int64, date domain.Date) (int, error) {
	query := `SELECT COUNT(*) FROM appointments WHERE professional_id = $1 AND date = $2 AND is_booked = true`

	var count int
	if err := r.db.QueryRow(ctx, query, professionalID, date.Time()).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчета записей на дату: %w", err)
	}

	return count, nil
}

func (r *AppointmentRepo) MarkExpiredBefore(ctx context.Context, before domain.Date, at time.Time) (int, error) {
	query := `UPDATE appointments SET is_expired = true, updated_at = $2 WHERE date < $1 AND is_expired = false`

	tag, err := r.db.Exec(ctx, query, before.Time(), at)
	if err != nil {
		return 0, fmt.Errorf("ошибка пометки просроченных записей: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

func (r *AppointmentRepo) Find(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	ds := psql.From("appointments")

	if filter.ProfessionalID != nil {
		ds = ds.Where(goqu.C("professional_id").Eq(*filter.ProfessionalID))
	}
	if filter.PatientID != nil {
		ds = ds.Where(goqu.C("patient_id").Eq(*filter.PatientID))
	}
	if filter.StatusID != nil {
		ds = ds.Where(goqu.C("status_id").Eq(*filter.StatusID))
	}
	if filter.IsBooked != nil {
		ds = ds.Where(goqu.C("is_booked").Eq(*filter.IsBooked))
	}
	if filter.DateFrom != nil {
		ds = ds.Where(goqu.C("date").Gte(filter.DateFrom.Time()))
	}
	if filter.DateTo != nil {
		ds = ds.Where(goqu.C("date").Lte(filter.DateTo.Time()))
	}

	total, err := countRows(ctx, r.db, ds)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения количества записей: %w", err)
	}

	query, args, err := paginate(
		ds.Select(appointmentSelect...).Order(goqu.C("date").Desc(), goqu.C("start_time").Asc()),
		filter.Limit,
		filter.Offset,
	).Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка построения запроса записей: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка записей: %w", err)
	}
	defer rows.Close()

	var appointments []domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования записи на прием: %w", err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка обработки списка записей: %w", err)
	}

	return appointments, total, nil
}
