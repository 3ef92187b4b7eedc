package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lib/pq"
)

var (
	// ErrInvalidConnectionString is returned for unparseable postgres DSNs.
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	// ErrEmbeddedCredentials is returned when a DSN carries a password.
	ErrEmbeddedCredentials = errors.New("connection string must not contain a password")
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS shiftbase_kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps keys in a PostgreSQL table.
type PostgresStore struct {
	db *sql.DB
}

// HasEmbeddedCredentials reports whether a URL or key=value DSN includes a password.
func HasEmbeddedCredentials(dsn string) bool {
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" {
		if _, ok := u.User.Password(); ok {
			return true
		}
		return u.Query().Get("password") != ""
	}
	for _, part := range strings.Fields(dsn) {
		k, _, ok := strings.Cut(part, "=")
		if ok && strings.EqualFold(k, "password") {
			return true
		}
	}
	return false
}

// WithPassword returns dsn with password injected. Both URL and key=value
// forms are supported.
func WithPassword(dsn, password string) (string, error) {
	if password == "" {
		return dsn, nil
	}
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" {
		user := ""
		if u.User != nil {
			user = u.User.Username()
		}
		u.User = url.UserPassword(user, password)
		return u.String(), nil
	}
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(password)
	return strings.TrimSpace(dsn) + " password='" + escaped + "'", nil
}

// OpenPostgres connects to dsn, which must not embed a password. A non-empty
// password is injected before connecting.
func OpenPostgres(ctx context.Context, dsn, password string) (*PostgresStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if HasEmbeddedCredentials(dsn) {
		return nil, ErrEmbeddedCredentials
	}
	connStr, err := WithPassword(dsn, password)
	if err != nil {
		return nil, err
	}

	connector, err := pq.NewConnector(connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}
	db := sql.OpenDB(connector)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM shiftbase_kv WHERE key = $1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading key %s: %w", key, err)
	}
	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shiftbase_kv (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM shiftbase_kv WHERE key = ANY($1)", pq.Array(keys)); err != nil {
		return fmt.Errorf("deleting keys: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
