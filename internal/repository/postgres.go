package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"agenda/internal/domain"
)

const uniqueViolationCode = "23505"

var psql = goqu.Dialect("postgres")

var microsPerMinute = int64(time.Minute / time.Microsecond)

func pgTime(t domain.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: int64(t) * microsPerMinute, Valid: true}
}

func pgTimePtr(t *domain.TimeOfDay) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	return pgTime(*t)
}

func timeOfDay(t pgtype.Time) domain.TimeOfDay {
	return domain.TimeOfDay(t.Microseconds / microsPerMinute)
}

func timeOfDayPtr(t pgtype.Time) *domain.TimeOfDay {
	if !t.Valid {
		return nil
	}
	tod := timeOfDay(t)
	return &tod
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func paginate(ds *goqu.SelectDataset, limit, offset int) *goqu.SelectDataset {
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}
	return ds
}

func countRows(ctx context.Context, db *pgxpool.Pool, ds *goqu.SelectDataset) (int, error) {
	query, args, err := ds.Select(goqu.COUNT("*")).Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("ошибка построения запроса количества: %w", err)
	}

	var total int
	if err := db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// AdvisoryLocker holds a session-level advisory lock on a dedicated connection while fn runs.
type AdvisoryLocker struct {
	db *pgxpool.Pool
}

func NewAdvisoryLocker(db *pgxpool.Pool) Locker {
	return &AdvisoryLocker{db: db}
}

func (l *AdvisoryLocker) WithProfessionalLock(ctx context.Context, professionalID int64, fn func(ctx context.Context) error) error {
	conn, err := l.db.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("ошибка получения соединения для блокировки: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", professionalID); err != nil {
		conn.Release()
		return fmt.Errorf("ошибка установки блокировки специалиста: %w", err)
	}

	defer func() {
		if _, err := conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", professionalID); err != nil {
			// the lock dies with the session
			conn.Conn().Close(context.Background())
		}
		conn.Release()
	}()

	return fn(ctx)
}
