// Package sqlrepo implements the repository contracts on database/sql. The
// same queries run on SQLite and PostgreSQL: they are written with '?'
// placeholders and rebound for the configured dialect.
package sqlrepo

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Kerhoff/shoplist/internal/metrics"
)

// Dialect is the SQL flavour of the underlying database.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect validates a driver name.
func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(s))); d {
	case DialectSQLite, DialectPostgres:
		return d, nil
	default:
		return "", fmt.Errorf("unsupported database dialect %q", s)
	}
}

func (d Dialect) bindType() int {
	if d == DialectPostgres {
		return sqlx.DOLLAR
	}
	return sqlx.QUESTION
}

// rebind rewrites '?' placeholders for the dialect ('$n' on PostgreSQL).
func (d Dialect) rebind(query string) string {
	return sqlx.Rebind(d.bindType(), query)
}

// Option configures a repository.
type Option func(*options)

type options struct {
	now     func() time.Time
	newID   func() string
	metrics *metrics.Metrics
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator overrides the generator of row identifiers.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// WithMetrics records query durations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func buildOptions(opts []Option) options {
	o := options{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// base carries what every repository needs.
type base struct {
	db      *sql.DB
	dialect Dialect
	opts    options
}

func (b *base) q(query string) string {
	return b.dialect.rebind(query)
}

func (b *base) nowMillis() int64 {
	return toMillis(b.opts.now())
}

func (b *base) observe(method string, start time.Time, err *error) {
	b.opts.metrics.ObserveQuery(method, *err, time.Since(start))
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullMillis(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromMillis(v.Int64)
	return &t
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
