package repo

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"Gaspipe/internal/calc/gas"

	"github.com/ansel1/merry"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Repository is the host model of pipe segments.
type Repository interface {
	GasSegments(ctx context.Context, ids []int64) ([]gas.Segment, error)
	WithTx(ctx context.Context, fn func(Writer) error) error
}

// Writer changes segments inside a transaction.
type Writer interface {
	SetDiameter(ctx context.Context, id int64, diameterFt float64) error
}

type SegmentStore struct {
	db     *sql.DB
	driver string
}

func NewPostgresSegmentDB(db *sql.DB) *SegmentStore {
	return &SegmentStore{db: db, driver: "postgres"}
}

func NewSQLiteSegmentDB(db *sql.DB) *SegmentStore {
	return &SegmentStore{db: db, driver: "sqlite"}
}

// Open connects to the segment database. Postgres connections default to
// sslmode=require unless the DSN says otherwise.
func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "postgres":
		if !strings.Contains(dsn, "sslmode=") {
			if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
				dsn += "?sslmode=require"
			} else {
				dsn += " sslmode=require"
			}
		}
	case "sqlite":
	default:
		return nil, merry.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, merry.Prepend(err, "open database")
	}
	if driver == "sqlite" {
		// one connection keeps :memory: databases alive and serializes writers
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, merry.Prepend(err, "database is not responding")
	}
	return db, nil
}

// NewSegmentStore picks the store flavour for driver.
func NewSegmentStore(driver string, db *sql.DB) *SegmentStore {
	if driver == "sqlite" {
		return NewSQLiteSegmentDB(db)
	}
	return NewPostgresSegmentDB(db)
}

var ordinal = regexp.MustCompile(`\$\d+`)

// rebind rewrites $N placeholders for drivers that expect ?.
func rebind(driver, query string) string {
	if driver == "sqlite" {
		return ordinal.ReplaceAllString(query, "?")
	}
	return query
}

func (s *SegmentStore) rebind(query string) string {
	return rebind(s.driver, query)
}

func idColumn(driver string) string {
	if driver == "sqlite" {
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return "BIGSERIAL PRIMARY KEY"
}

func (s *SegmentStore) Migrate(ctx context.Context) error {
	id := idColumn(s.driver)
	query := `CREATE TABLE IF NOT EXISTS pipe_segments (
		id ` + id + `,
		system_type TEXT NOT NULL DEFAULT '',
		flow_mbh DOUBLE PRECISION NOT NULL DEFAULT 0,
		diameter_ft DOUBLE PRECISION NOT NULL DEFAULT 0,
		updated_at TIMESTAMP
	)`
	_, err := s.db.ExecContext(ctx, query)
	return merry.Wrap(err)
}

func (s *SegmentStore) InsertSegment(ctx context.Context, seg gas.Segment) (int64, error) {
	var id int64
	query := s.rebind("INSERT INTO pipe_segments (system_type, flow_mbh, diameter_ft) VALUES ($1, $2, $3) RETURNING id")
	err := s.db.QueryRowContext(ctx, query, seg.SystemType, seg.FlowMBH, seg.DiameterFt).Scan(&id)
	return id, merry.Wrap(err)
}

func (s *SegmentStore) Segment(ctx context.Context, id int64) (gas.Segment, error) {
	seg := gas.Segment{ID: id}
	query := s.rebind("SELECT system_type, flow_mbh, diameter_ft FROM pipe_segments WHERE id=$1")
	err := s.db.QueryRowContext(ctx, query, id).Scan(&seg.SystemType, &seg.FlowMBH, &seg.DiameterFt)
	if errors.Is(err, sql.ErrNoRows) {
		return gas.Segment{}, merry.Errorf("segment %d not found", id).WithHTTPCode(http.StatusNotFound)
	}
	return seg, merry.Wrap(err)
}

// GasSegments returns segments whose system type mentions gas. A non-empty
// ids list restricts the result to those segments.
func (s *SegmentStore) GasSegments(ctx context.Context, ids []int64) ([]gas.Segment, error) {
	query := "SELECT id, system_type, flow_mbh, diameter_ft FROM pipe_segments WHERE LOWER(system_type) LIKE '%gas%' ORDER BY id"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, merry.Prepend(err, "query gas segments")
	}
	defer rows.Close()

	selected := make(map[int64]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}

	var out []gas.Segment
	for rows.Next() {
		var seg gas.Segment
		if err := rows.Scan(&seg.ID, &seg.SystemType, &seg.FlowMBH, &seg.DiameterFt); err != nil {
			return nil, merry.Wrap(err)
		}
		if len(ids) > 0 && !selected[seg.ID] {
			continue
		}
		out = append(out, seg)
	}
	return out, merry.Wrap(rows.Err())
}

// WithTx runs fn in one transaction, committing only if fn succeeds.
func (s *SegmentStore) WithTx(ctx context.Context, fn func(Writer) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return merry.Prepend(err, "begin transaction")
	}
	if err := fn(&txWriter{tx: tx, store: s}); err != nil {
		tx.Rollback()
		return err
	}
	return merry.Wrap(tx.Commit())
}

type txWriter struct {
	tx    *sql.Tx
	store *SegmentStore
}

func (w *txWriter) SetDiameter(ctx context.Context, id int64, diameterFt float64) error {
	query := w.store.rebind("UPDATE pipe_segments SET diameter_ft=$1, updated_at=$2 WHERE id=$3")
	res, err := w.tx.ExecContext(ctx, query, diameterFt, time.Now().UTC(), id)
	if err != nil {
		return merry.Prependf(err, "update segment %d", id)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return merry.Errorf("segment %d not found", id).WithHTTPCode(http.StatusNotFound)
	}
	return nil
}
