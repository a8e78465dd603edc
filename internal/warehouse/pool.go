package warehouse

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sandevgo/tunebot/internal/config"
	"github.com/sandevgo/tunebot/internal/core"
)

// Pool wraps a small fixed pgx pool over the analytics warehouse.
// Connections are probed before reuse; dead ones are discarded by the pool.
type Pool struct {
	pool *pgxpool.Pool
}

var _ core.Warehouse = (*Pool)(nil)

func New(ctx context.Context, cfg *config.WarehouseConfig) (*Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse warehouse url: %w", err)
	}
	pc.MaxConns = cfg.MaxConns
	pc.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		return conn.Ping(ctx) == nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect to warehouse: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping warehouse: %w", err)
	}
	return &Pool{pool: pool}, nil
}

// Query executes a generated SQL statement and returns named-column rows in
// select order. Execution failures come back as a DataAccessError carrying
// the failing query text.
func (p *Pool) Query(ctx context.Context, sql string) (core.QueryResult, error) {
	rows, err := p.pool.Query(ctx, sql)
	if err != nil {
		return core.QueryResult{}, &core.DataAccessError{Query: sql, Err: err}
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	result := core.QueryResult{Columns: columns, GeneratedQuery: sql}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return core.QueryResult{}, &core.DataAccessError{Query: sql, Err: err}
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return core.QueryResult{}, &core.DataAccessError{Query: sql, Err: err}
	}

	return result, nil
}

func (p *Pool) Close() error {
	p.pool.Close()
	return nil
}
