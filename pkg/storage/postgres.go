package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matst80/laser-finder/pkg/common/jsoncompat"
	"github.com/matst80/laser-finder/pkg/types"
)

// PostgresSource reads machines straight from the machines table. Each row
// is converted to JSON by Postgres so the column names, spaces included,
// become the RawMachine keys.
type PostgresSource struct {
	pool  *pgxpool.Pool
	Table string
}

func NewPostgresSource(ctx context.Context, dsn string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresSource{pool: pool, Table: "machines"}, nil
}

func (s *PostgresSource) query(limit int) (string, []any, error) {
	q := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Select("row_to_json(m)").
		From(s.Table + " m").
		OrderBy("m.id")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return q.ToSql()
}

func (s *PostgresSource) Fetch(ctx context.Context, limit int) ([]types.RawMachine, error) {
	query, args, err := s.query(limit)
	if err != nil {
		return nil, fmt.Errorf("build machines query: %w", err)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query machines: %w", err)
	}
	defer rows.Close()

	ret := make([]types.RawMachine, 0, max(limit, 0))
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan machine: %w", err)
		}
		raw := types.RawMachine{}
		if err := jsoncompat.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode machine: %w", err)
		}
		ret = append(ret, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return ret, nil
}

func (s *PostgresSource) Close() {
	s.pool.Close()
}
