package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/sony/gobreaker"

	"github.com/i474232898/dronitor/internal/readings"
)

// PostgresStore persists readings in PostgreSQL. All calls go through a
// circuit breaker so a struggling database fails fast instead of piling up
// blocked requests; a tripped breaker still surfaces as a storage error.
type PostgresStore struct {
	db      *sql.DB
	circuit *gobreaker.CircuitBreaker
}

// NormalizeDSN rewrites postgresql:// URLs to the postgres:// scheme that
// lib/pq registers. Both prefixes are accepted in DATABASE_URL.
func NormalizeDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgresql://") {
		return "postgres://" + strings.TrimPrefix(dsn, "postgresql://")
	}
	return dsn
}

// NewPostgresStore opens the connection pool, waits for the database to come
// up, and runs the idempotent schema migration.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", NormalizeDSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "postgres",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	ps := &PostgresStore{db: db, circuit: cb}
	if err := ps.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS drone_readings (
			id          TEXT PRIMARY KEY,
			longitude   DOUBLE PRECISION,
			latitude    DOUBLE PRECISION,
			aqi         DOUBLE PRECISION,
			"timestamp" TIMESTAMPTZ,
			raw_data    TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_drone_readings_timestamp ON drone_readings("timestamp");
	`)
	return err
}

// CreateMany bulk-inserts a batch inside a single transaction: either every
// reading commits or none do.
func (ps *PostgresStore) CreateMany(ctx context.Context, rs []readings.Reading) error {
	if len(rs) == 0 {
		return nil
	}

	_, err := ps.circuit.Execute(func() (interface{}, error) {
		tx, err := ps.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}

		const batchSize = 100
		for i := 0; i < len(rs); i += batchSize {
			end := i + batchSize
			if end > len(rs) {
				end = len(rs)
			}
			if err := insertBatch(ctx, tx, rs[i:end]); err != nil {
				_ = tx.Rollback()
				return nil, err
			}
		}

		return nil, tx.Commit()
	})
	if err != nil {
		return fmt.Errorf("postgres: create readings: %w", err)
	}
	return nil
}

func insertBatch(ctx context.Context, tx *sql.Tx, batch []readings.Reading) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*6)

	for idx, r := range batch {
		base := idx * 6
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6))
		valueArgs = append(valueArgs,
			r.ID, r.Longitude, r.Latitude, r.AQI, r.Timestamp, r.RawData)
	}

	query := fmt.Sprintf(`
		INSERT INTO drone_readings (id, longitude, latitude, aqi, "timestamp", raw_data)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := tx.ExecContext(ctx, query, valueArgs...)
	return err
}

// Query returns readings inside the window ordered newest first; a nil
// window returns everything.
func (ps *PostgresStore) Query(ctx context.Context, window *readings.DateWindow) ([]readings.Reading, error) {
	query := `SELECT id, longitude, latitude, aqi, "timestamp", raw_data FROM drone_readings`
	var args []interface{}

	if window != nil {
		op := "<"
		if window.EndInclusive {
			op = "<="
		}
		query += fmt.Sprintf(` WHERE "timestamp" >= $1 AND "timestamp" %s $2`, op)
		args = append(args, window.Start, window.End)
	}
	query += ` ORDER BY "timestamp" DESC`

	result, err := ps.circuit.Execute(func() (interface{}, error) {
		rows, err := ps.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		out := make([]readings.Reading, 0)
		for rows.Next() {
			var r readings.Reading
			var raw sql.NullString
			if err := rows.Scan(&r.ID, &r.Longitude, &r.Latitude, &r.AQI, &r.Timestamp, &raw); err != nil {
				return nil, err
			}
			r.RawData = raw.String
			r.Timestamp = r.Timestamp.UTC()
			out = append(out, r)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: query readings: %w", err)
	}

	return result.([]readings.Reading), nil
}

// Close closes the underlying connection pool.
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
