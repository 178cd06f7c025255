package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"opportunity-matcher/internal/config"
	"opportunity-matcher/internal/database"
)

var errClosed = errors.New("postgres: pool not open")

// conn is what the pool and a transaction have in common. pgx.Rows and
// pgx.Row already satisfy database.Rows and database.Row.
type conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool is the Postgres backend of the document store.
type Pool struct {
	pool  *pgxpool.Pool
	sqlDB *sql.DB
}

// ConnString renders cfg as a postgres:// URL so credentials containing
// spaces or reserved characters survive parsing.
func ConnString(cfg config.DatabaseConfig) string {
	q := url.Values{}
	if mode := strings.TrimSpace(cfg.DBSSLMode); mode != "" {
		q.Set("sslmode", mode)
	}
	if name := strings.TrimSpace(cfg.AppName); name != "" {
		q.Set("application_name", name)
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(strings.TrimSpace(cfg.DBUser), cfg.DBPassword),
		Host:     net.JoinHostPort(strings.TrimSpace(cfg.DBHost), strings.TrimSpace(cfg.DBPort)),
		Path:     "/" + strings.TrimSpace(cfg.DBName),
		RawQuery: q.Encode(),
	}
	return u.String()
}

// PoolConfig parses cfg and applies the pool sizing. Zero values keep the
// pgxpool defaults.
func PoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	pcfg, err := pgxpool.ParseConfig(ConnString(cfg))
	if err != nil {
		return nil, err
	}

	pcfg.ConnConfig.ConnectTimeout = orDefault(cfg.ConnectTimeout, pcfg.ConnConfig.ConnectTimeout)
	pcfg.MaxConns = orDefault(cfg.PoolMaxConns, pcfg.MaxConns)
	pcfg.MinConns = orDefault(cfg.PoolMinConns, pcfg.MinConns)
	pcfg.MaxConnLifetime = orDefault(cfg.PoolMaxConnLifetime, pcfg.MaxConnLifetime)
	pcfg.MaxConnIdleTime = orDefault(cfg.PoolMaxConnIdleTime, pcfg.MaxConnIdleTime)
	pcfg.HealthCheckPeriod = orDefault(cfg.PoolHealthCheckPeriod, pcfg.HealthCheckPeriod)
	return pcfg, nil
}

func orDefault[T int32 | time.Duration](v, def T) T {
	if v > 0 {
		return v
	}
	return def
}

// Connect opens the pool and checks it with a ping bounded by ctx.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (database.DB, error) {
	pcfg, err := PoolConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres config: %w", err)
	}

	p, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("ping postgres %s: %w", pcfg.ConnConfig.Host, err)
	}
	return &Pool{pool: p, sqlDB: stdlib.OpenDBFromPool(p)}, nil
}

func (p *Pool) Dialect() database.Dialect {
	return database.DialectPostgres
}

func (p *Pool) open() bool {
	return p != nil && p.pool != nil
}

func (p *Pool) Ping(ctx context.Context) error {
	if !p.open() {
		return errClosed
	}
	return p.pool.Ping(ctx)
}

func (p *Pool) Close() error {
	if !p.open() {
		return nil
	}
	err := p.sqlDB.Close()
	p.pool.Close()
	return err
}

func (p *Pool) SQLDB() *sql.DB {
	if p == nil {
		return nil
	}
	return p.sqlDB
}

func (p *Pool) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if !p.open() {
		return 0, errClosed
	}
	return execOn(ctx, p.pool, query, args)
}

func (p *Pool) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	if !p.open() {
		return nil, errClosed
	}
	return queryOn(ctx, p.pool, query, args)
}

func (p *Pool) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	if !p.open() {
		return closedRow{}
	}
	return p.pool.QueryRow(ctx, query, args...)
}

func (p *Pool) Begin(ctx context.Context) (database.Tx, error) {
	if !p.open() {
		return nil, errClosed
	}
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return txConn{tx}, nil
}

type txConn struct {
	pgx.Tx
}

func (t txConn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return execOn(ctx, t.Tx, query, args)
}

func (t txConn) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return queryOn(ctx, t.Tx, query, args)
}

func (t txConn) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return t.Tx.QueryRow(ctx, query, args...)
}

func execOn(ctx context.Context, c conn, query string, args []any) (int64, error) {
	tag, err := c.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func queryOn(ctx context.Context, c conn, query string, args []any) (database.Rows, error) {
	rows, err := c.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type closedRow struct{}

func (closedRow) Scan(...any) error {
	return errClosed
}
