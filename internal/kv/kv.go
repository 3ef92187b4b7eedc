// Package kv is the key-value storage abstraction that whole-object
// persistence sits on. Values are opaque strings (JSON documents in practice)
// stored under fixed keys; every Set replaces the previous value.
package kv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedDSN is returned by Open for unknown DSN schemes.
var ErrUnsupportedDSN = errors.New("kv: unsupported storage DSN")

// Store is a string-to-string map with whole-value overwrite semantics.
type Store interface {
	// Get returns the value for key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set overwrites the value for key.
	Set(ctx context.Context, key, value string) error
	// Delete removes keys. Absent keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Pather is implemented by stores that live at a local filesystem path.
type Pather interface {
	Path() string
}

// Options tune Open.
type Options struct {
	// PostgresPassword supplies the password for postgres DSNs. DSNs that
	// embed a password are rejected, so this is the only way to pass one.
	PostgresPassword func() (string, error)
}

// Open selects a backend from the DSN:
//
//	memory://                  in-process map
//	file:///dir or /dir        one JSON file per key
//	sqlite:///file.db or x.db  SQLite database
//	postgres://user@host/db    PostgreSQL
//	host=h dbname=db user=u    PostgreSQL, key=value form
func Open(ctx context.Context, dsn string, opts Options) (Store, error) {
	if isKeyValueDSN(dsn) {
		return openPostgres(ctx, dsn, opts)
	}
	scheme, rest, hasScheme := strings.Cut(dsn, "://")
	if !hasScheme {
		switch strings.ToLower(filepath.Ext(dsn)) {
		case ".db", ".sqlite", ".sqlite3":
			return OpenSQLite(ctx, dsn)
		}
		return NewFileStore(dsn)
	}

	switch scheme {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(rest)
	case "sqlite", "sqlite3":
		return OpenSQLite(ctx, rest)
	case "postgres", "postgresql":
		return openPostgres(ctx, dsn, opts)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDSN, scheme)
}

func openPostgres(ctx context.Context, dsn string, opts Options) (Store, error) {
	var password string
	if opts.PostgresPassword != nil {
		pw, err := opts.PostgresPassword()
		if err != nil {
			return nil, fmt.Errorf("resolving postgres password: %w", err)
		}
		password = pw
	}
	return OpenPostgres(ctx, dsn, password)
}

// isKeyValueDSN reports whether dsn is a libpq "key=value ..." connection
// string naming a host or database.
func isKeyValueDSN(dsn string) bool {
	fields := strings.Fields(dsn)
	if len(fields) == 0 || strings.Contains(dsn, "://") {
		return false
	}
	named := false
	for _, f := range fields {
		k, _, ok := strings.Cut(f, "=")
		if !ok || k == "" {
			return false
		}
		switch strings.ToLower(k) {
		case "host", "hostaddr", "dbname":
			named = true
		}
	}
	return named
}
