package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepo implements Repo using PostgreSQL.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresRepo creates a new PostgresRepo.
func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{pool: pool}
}

func (r *PostgresRepo) Insert(ctx context.Context, topic, payload string, ts time.Time) (int64, error) {
	var q string
	var args []any
	if ts.IsZero() {
		q = `INSERT INTO sensor_logs (topic, payload) VALUES ($1, $2) RETURNING id`
		args = []any{topic, payload}
	} else {
		q = `INSERT INTO sensor_logs (topic, payload, ts) VALUES ($1, $2, $3) RETURNING id`
		args = []any{topic, payload, ts.UTC()}
	}

	var id int64
	if err := r.pool.QueryRow(ctx, q, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: insert: %v", ErrUnavailable, err)
	}
	return id, nil
}

func (r *PostgresRepo) ListRecent(ctx context.Context, topic string, limit int) ([]SensorRecord, error) {
	var q string
	var args []any
	if topic != "" {
		q = `SELECT id, topic, payload, ts FROM sensor_logs
WHERE topic = $1
ORDER BY ts DESC, id DESC
LIMIT $2`
		args = []any{topic, limit}
	} else {
		q = `SELECT id, topic, payload, ts FROM sensor_logs
ORDER BY ts DESC, id DESC
LIMIT $1`
		args = []any{limit}
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	records := []SensorRecord{}
	for rows.Next() {
		var rec SensorRecord
		if err := rows.Scan(&rec.ID, &rec.Topic, &rec.Payload, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return records, nil
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, payload string) error {
	const q = `UPDATE sensor_logs SET payload = $1 WHERE id = $2`
	tag, err := r.pool.Exec(ctx, q, payload, id)
	if err != nil {
		return fmt.Errorf("%w: update: %v", ErrUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM sensor_logs WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("%w: delete: %v", ErrUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PostgresRepo)(nil)
