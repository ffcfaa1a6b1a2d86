package store

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Options controls connection-pool behaviour.
type Options struct {
	MaxConns               int32
	MinConns               int32
	MaxConnIdleTime        time.Duration
	MaxConnLifetime        time.Duration
	ConnTimeout            time.Duration
	StatementCacheCapacity int
	Logger                 *slog.Logger
}

// Store hides direct access to the underlying connection pool so higher layers
// can focus on business logic.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
	opts   Options
}

// New connects to dbURL with the tuned pool settings and pings the server
// before returning.
func New(ctx context.Context, dbURL string, opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := poolConfig(dbURL, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("store: opening pool",
		"max_conns", cfg.MaxConns,
		"min_conns", cfg.MinConns,
		"max_idle", cfg.MaxConnIdleTime,
		"max_lifetime", cfg.MaxConnLifetime,
		"stmt_cache", cfg.ConnConfig.StatementCacheCapacity,
	)

	connCtx, cancel := withOptionalTimeout(ctx, opts.ConnTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(connCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("store: pool ready", "host", cfg.ConnConfig.Host, "database", cfg.ConnConfig.Database)
	return &Store{pool: pool, logger: logger, opts: opts}, nil
}

// poolConfig parses dbURL and applies every non-zero option on top of the
// pgx defaults.
func poolConfig(dbURL string, opts Options) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		cfg.MinConns = opts.MinConns
	}
	if opts.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = opts.MaxConnIdleTime
	}
	if opts.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.StatementCacheCapacity >= 0 {
		cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
		cfg.ConnConfig.StatementCacheCapacity = opts.StatementCacheCapacity
	}
	return cfg, nil
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// Close releases database resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.logger.Info("store: closing connection pool")
	s.pool.Close()
}

// HealthCheck verifies the database is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("store not initialized")
	}
	checkCtx, cancel := withOptionalTimeout(ctx, s.opts.ConnTimeout)
	defer cancel()
	return s.pool.Ping(checkCtx)
}

// Migrate applies every *.up.sql file found in dir of fsys, in lexical order.
// Statements are expected to be idempotent (CREATE ... IF NOT EXISTS).
func (s *Store) Migrate(ctx context.Context, fsys fs.FS, dir string) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("store not initialized")
	}
	applied, err := ApplyMigrations(ctx, s.pool, fsys, dir)
	if err != nil {
		return err
	}
	s.logger.Info("store: migrations applied", "count", applied)
	return nil
}

// ApplyMigrations runs the *.up.sql files of dir against pool and returns how
// many files were executed.
func ApplyMigrations(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, dir string) (int, error) {
	files, err := upMigrations(fsys, dir)
	if err != nil {
		return 0, err
	}

	for _, file := range files {
		payload, err := fs.ReadFile(fsys, file)
		if err != nil {
			return 0, fmt.Errorf("read migration %s: %w", file, err)
		}
		if _, err := pool.Exec(ctx, string(payload)); err != nil {
			return 0, fmt.Errorf("apply migration %s: %w", file, err)
		}
	}
	return len(files), nil
}

// upMigrations lists the *.up.sql files of dir in lexical order.
func upMigrations(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		files = append(files, path.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Pool exposes the underlying pgx pool for repositories.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Stats exposes pgxpool statistics for observability.
func (s *Store) Stats() *pgxpool.Stat {
	if s == nil || s.pool == nil {
		return nil
	}
	return s.pool.Stat()
}
