// Package store persists rate-limit windows and the shared domain cache in
// libSQL, either as an embedded file or a remote Turso database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/namelens/namesmith/internal/config"
)

const driverLibsql = "libsql"

// Store wraps the libSQL connection pool.
type Store struct {
	DB     *sql.DB
	driver string
}

// Open connects to the configured database and verifies it answers.
// Embedded databases are switched to WAL with a single writer.
func Open(ctx context.Context, cfg config.StoreConfig) (*Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if driver := strings.TrimSpace(cfg.Driver); driver != "" && driver != driverLibsql {
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}

	dsn, local, err := resolveDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverLibsql, dsn)
	if err != nil {
		return nil, fmt.Errorf("open libsql store: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping libsql store: %w", err)
	}
	if local {
		if err := tuneEmbedded(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &Store{DB: db, driver: driverLibsql}, nil
}

func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// Driver names the SQL driver in use.
func (s *Store) Driver() string {
	if s == nil {
		return ""
	}
	return s.driver
}

// tuneEmbedded serializes writers; parallel extension lookups otherwise
// hit SQLITE_BUSY.
func tuneEmbedded(ctx context.Context, db *sql.DB) error {
	db.SetMaxOpenConns(1)

	pragmas := []struct {
		stmt string
		dst  any
	}{
		{"PRAGMA journal_mode=WAL", new(string)},
		{"PRAGMA busy_timeout=5000", new(int)},
	}
	for _, p := range pragmas {
		if err := db.QueryRowContext(ctx, p.stmt).Scan(p.dst); err != nil {
			return fmt.Errorf("%s: %w", p.stmt, err)
		}
	}
	return nil
}

// resolveDSN turns the store config into a libSQL DSN and reports whether
// it names an embedded database. A URL wins over a path; a bare path is
// made absolute-safe and its directory created.
func resolveDSN(cfg config.StoreConfig) (dsn string, local bool, err error) {
	if remote := strings.TrimSpace(cfg.URL); remote != "" {
		dsn, err = withAuthToken(remote, cfg.AuthToken)
		return dsn, false, err
	}

	path := strings.TrimSpace(cfg.Path)
	switch {
	case path == "":
		return "", false, errors.New("store path or url is required")
	case path == ":memory:":
		return path, true, nil
	case strings.HasPrefix(path, "libsql:"):
		return path, false, nil
	case strings.HasPrefix(path, "file:"):
		parsed, perr := url.Parse(path)
		if perr != nil {
			return "", false, fmt.Errorf("invalid store path: %w", perr)
		}
		file := parsed.Path
		if file == "" {
			file = parsed.Opaque
		}
		if err := ensureDir(strings.TrimPrefix(file, "//")); err != nil {
			return "", false, err
		}
		return path, true, nil
	default:
		if err := ensureDir(path); err != nil {
			return "", false, err
		}
		return "file:" + filepath.Clean(path), true, nil
	}
}

func withAuthToken(dsn, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return dsn, nil
	}
	parsed, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid store url: %w", err)
	}
	query := parsed.Query()
	if query.Get("authToken") == "" {
		query.Set("authToken", token)
		parsed.RawQuery = query.Encode()
	}
	return parsed.String(), nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(filepath.Clean(path))
	if path == "" || dir == "." || dir == string(filepath.Separator) {
		return nil
	}
	// #nosec G301 -- data directories are shared with other local tools
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	return nil
}
