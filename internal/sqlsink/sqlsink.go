// Package sqlsink stores call records in a SQL table through database/sql.
// PostgreSQL, MySQL and SQLite are supported; the caller opens the *sql.DB
// with whatever driver it registers.
package sqlsink

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/coregx/calltrace/internal/core"
	"github.com/coregx/calltrace/internal/dialects"
	"github.com/coregx/calltrace/internal/logger"
	"github.com/coregx/calltrace/internal/util"
)

// DefaultTable is the table records are written to unless WithTable is used.
const DefaultTable = "call_records"

var columns = []dialects.Column{
	{Name: "id", Type: dialects.Key},
	{Name: "seq", Type: dialects.BigInt},
	{Name: "recorded_at", Type: dialects.BigInt},
	{Name: "kind", Type: dialects.ShortText},
	{Name: "func_name", Type: dialects.ShortText},
	{Name: "args", Type: dialects.Text, Nullable: true},
	{Name: "result", Type: dialects.Text, Nullable: true},
	{Name: "error_type", Type: dialects.ShortText, Nullable: true},
	{Name: "error_message", Type: dialects.Text, Nullable: true},
	{Name: "elapsed_us", Type: dialects.BigInt, Nullable: true},
}

// StoredRecord is a record read back from the table.
type StoredRecord struct {
	ID         string
	RecordedAt time.Time
	Record     core.Record
}

// Sink writes one row per record.
// It is safe for concurrent use.
type Sink struct {
	db        *sql.DB
	dialect   dialects.Dialect
	table     string
	logger    logger.Logger
	now       func() time.Time
	seq       atomic.Int64
	insertSQL string
}

// Option is a functional option for configuring Sink.
type Option func(*Sink)

// WithTable sets the table name. Non-word characters are removed.
func WithTable(name string) Option {
	return func(s *Sink) {
		if clean := util.SanitizeIdentifier(name); clean != "" {
			s.table = clean
		}
	}
}

// WithLogger sets the logger insert failures are reported to.
func WithLogger(l logger.Logger) Option {
	return func(s *Sink) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the time source for recorded_at.
func WithClock(now func() time.Time) Option {
	return func(s *Sink) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Sink for db opened with driverName.
//
// Returns error if the driver has no registered dialect.
func New(db *sql.DB, driverName string, opts ...Option) (*Sink, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlsink: nil database")
	}
	dialect, ok := dialects.LookupDialect(driverName)
	if !ok {
		return nil, fmt.Errorf("sqlsink: unsupported driver %q", driverName)
	}

	s := &Sink{
		db:      db,
		dialect: dialect,
		table:   DefaultTable,
		logger:  &logger.NoopLogger{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	s.insertSQL = dialects.InsertSQL(dialect, s.table, names)

	return s, nil
}

// Table returns the table name records are written to.
func (s *Sink) Table() string {
	return s.table
}

// EnsureSchema creates the records table if it does not exist.
func (s *Sink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, dialects.CreateTableSQL(s.dialect, s.table, columns)); err != nil {
		return fmt.Errorf("sqlsink: create table %s: %w", s.table, err)
	}
	return nil
}

// Emit inserts rec. Failures are logged, never returned to the traced call.
func (s *Sink) Emit(ctx context.Context, rec core.Record) {
	if err := s.Insert(ctx, rec); err != nil {
		s.logger.Error("calltrace record not stored",
			"table", s.table, "func", rec.Name, "kind", string(rec.Kind), "error", err)
	}
}

// Insert stores rec and reports failures to the caller.
func (s *Sink) Insert(ctx context.Context, rec core.Record) error {
	var elapsed sql.NullInt64
	if rec.Timed && rec.Kind != core.KindEntry {
		elapsed = sql.NullInt64{Int64: rec.Micros(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, s.insertSQL,
		uuid.NewString(),
		s.seq.Add(1),
		s.now().UnixMicro(),
		string(rec.Kind),
		rec.Name,
		nullString(rec.Args, rec.Kind.HasArgs()),
		nullString(rec.Result, rec.Kind == core.KindExit || rec.Kind == core.KindCall),
		nullString(rec.ErrType, rec.Kind.IsError()),
		nullString(rec.ErrMsg, rec.Kind.IsError()),
		elapsed,
	)
	return err
}

// Records returns stored records in insertion order. When name is not empty
// only records of that callable are returned.
func (s *Sink) Records(ctx context.Context, name string) ([]StoredRecord, error) {
	q := s.dialect.QuoteIdentifier
	cols := make([]string, 0, len(columns))
	for _, col := range columns {
		if col.Name == "seq" {
			continue
		}
		cols = append(cols, q(col.Name))
	}

	query := "SELECT " + strings.Join(cols, ", ") + " FROM " + q(s.table)
	var args []any
	if name != "" {
		query += " WHERE " + q("func_name") + " = " + s.dialect.Placeholder(1)
		args = append(args, name)
	}
	query += " ORDER BY " + q("recorded_at") + ", " + q("seq")

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlsink: query %s: %w", s.table, err)
	}
	defer rows.Close()

	var out []StoredRecord
	for rows.Next() {
		var (
			sr                            StoredRecord
			kind                          string
			recordedAt                    int64
			argList, result, errType, msg sql.NullString
			elapsed                       sql.NullInt64
		)
		if err := rows.Scan(&sr.ID, &recordedAt, &kind, &sr.Record.Name,
			&argList, &result, &errType, &msg, &elapsed); err != nil {
			return nil, fmt.Errorf("sqlsink: scan %s: %w", s.table, err)
		}
		sr.RecordedAt = time.UnixMicro(recordedAt)
		sr.Record.Kind = core.Kind(kind)
		sr.Record.Args = argList.String
		sr.Record.Result = result.String
		sr.Record.ErrType = errType.String
		sr.Record.ErrMsg = msg.String
		if elapsed.Valid {
			sr.Record.Timed = true
			sr.Record.Elapsed = time.Duration(elapsed.Int64) * time.Microsecond
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

func nullString(s string, valid bool) sql.NullString {
	return sql.NullString{String: s, Valid: valid}
}
