package core

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// Archive keeps hourly rollups in SQLite so long-range queries survive
// FIFO eviction of the raw per-second records. Rows are upserted
// idempotently: re-rolling the same hour from the raw store replaces the
// previous row.
type Archive struct {
	db *sql.DB
}

func NewArchive(dbPath string) (*Archive, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA busy_timeout=5000;")
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	a := &Archive{db: db}
	if err := a.initSchema(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Archive) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS rollups (
		bucket_ts INTEGER PRIMARY KEY,
		down      INTEGER NOT NULL,
		up        INTEGER NOT NULL
	);
	`
	_, err := a.db.Exec(query)
	return err
}

// UpsertBuckets writes hourly buckets in one transaction.
func (a *Archive) UpsertBuckets(buckets []Bucket) error {
	if len(buckets) == 0 {
		return nil
	}
	tx, err := a.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO rollups (bucket_ts, down, up) VALUES (?, ?, ?)
		ON CONFLICT(bucket_ts) DO UPDATE SET
			down = excluded.down,
			up   = excluded.up`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, b := range buckets {
		if _, err := stmt.Exec(b.Timestamp, b.Down, b.Up); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Range returns rollups with start <= bucket_ts <= end, ascending.
func (a *Archive) Range(start, end time.Time) ([]Bucket, error) {
	rows, err := a.db.Query(
		"SELECT bucket_ts, down, up FROM rollups WHERE bucket_ts >= ? AND bucket_ts <= ? ORDER BY bucket_ts ASC",
		start.Unix(), end.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Bucket
	for rows.Next() {
		var b Bucket
		if err := rows.Scan(&b.Timestamp, &b.Down, &b.Up); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// MaxBucket returns the newest archived bucket timestamp, 0 when empty.
func (a *Archive) MaxBucket() (int64, error) {
	var ts sql.NullInt64
	if err := a.db.QueryRow("SELECT MAX(bucket_ts) FROM rollups").Scan(&ts); err != nil {
		return 0, err
	}
	if ts.Valid {
		return ts.Int64, nil
	}
	return 0, nil
}

func (a *Archive) Count() (int64, error) {
	var n int64
	err := a.db.QueryRow("SELECT COUNT(*) FROM rollups").Scan(&n)
	return n, err
}

func (a *Archive) Close() error {
	return a.db.Close()
}
