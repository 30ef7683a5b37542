package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Postgres executes requests directly against a PostgreSQL database.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to dsn and checks the connection.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.MaxConns == 0 {
		cfg.MaxConns = 10
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// Execute runs req as SQL. Multi-row inserts share one transaction.
func (p *Postgres) Execute(ctx context.Context, req Request) ([]Row, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	switch req.Op {
	case OpSelect:
		sql, args := buildSQL(req, nil)
		rows, err := p.pool.Query(ctx, sql, args...)
		if err != nil {
			return nil, fmt.Errorf("postgres select %s: %w", req.Table, err)
		}
		maps, err := pgx.CollectRows(rows, pgx.RowToMap)
		if err != nil {
			return nil, fmt.Errorf("postgres scan %s: %w", req.Table, err)
		}
		out := make([]Row, len(maps))
		for i, m := range maps {
			out[i] = normalizeRow(m)
		}
		return out, nil

	case OpInsert:
		tx, err := p.pool.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("postgres begin: %w", err)
		}
		defer tx.Rollback(ctx)
		for _, row := range req.Rows {
			sql, args := buildSQL(req, row)
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				return nil, fmt.Errorf("postgres insert %s: %w", req.Table, err)
			}
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("postgres commit: %w", err)
		}
		return nil, nil
	}

	sql, args := buildSQL(req, nil)
	if _, err := p.pool.Exec(ctx, sql, args...); err != nil {
		return nil, fmt.Errorf("postgres %s %s: %w", req.Op, req.Table, err)
	}
	return nil, nil
}

// buildSQL renders req as a parameterized statement. For inserts, row is the
// row being written; other operations ignore it.
func buildSQL(req Request, row Row) (string, []any) {
	var (
		b    strings.Builder
		args []any
	)
	table := pgx.Identifier{req.Table}.Sanitize()

	switch req.Op {
	case OpSelect:
		fmt.Fprintf(&b, "SELECT * FROM %s", table)
	case OpInsert:
		cols := sortedKeys(row)
		names := make([]string, len(cols))
		holders := make([]string, len(cols))
		for i, c := range cols {
			names[i] = pgx.Identifier{c}.Sanitize()
			args = append(args, row[c])
			holders[i] = fmt.Sprintf("$%d", len(args))
		}
		if len(cols) == 0 {
			fmt.Fprintf(&b, "INSERT INTO %s DEFAULT VALUES", table)
		} else {
			fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(names, ", "), strings.Join(holders, ", "))
		}
		return b.String(), args
	case OpUpdate:
		cols := sortedKeys(req.Patch)
		sets := make([]string, len(cols))
		for i, c := range cols {
			args = append(args, req.Patch[c])
			sets[i] = fmt.Sprintf("%s = $%d", pgx.Identifier{c}.Sanitize(), len(args))
		}
		fmt.Fprintf(&b, "UPDATE %s SET %s", table, strings.Join(sets, ", "))
	case OpDelete:
		fmt.Fprintf(&b, "DELETE FROM %s", table)
	}

	for i, f := range req.Filters {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		args = append(args, f.Value)
		fmt.Fprintf(&b, "%s = $%d", pgx.Identifier{f.Column}.Sanitize(), len(args))
	}

	if req.Op == OpSelect && req.Sort != nil {
		dir := "DESC"
		if req.Sort.Ascending {
			dir = "ASC"
		}
		fmt.Fprintf(&b, " ORDER BY %s %s", pgx.Identifier{req.Sort.Column}.Sanitize(), dir)
	}
	return b.String(), args
}

// normalizeRow converts driver-specific values into the plain shapes the
// other executors produce.
func normalizeRow(m map[string]any) Row {
	row := make(Row, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case pgtype.Numeric:
			if dv, err := val.Value(); err == nil && dv != nil {
				if d, err := decimal.NewFromString(fmt.Sprint(dv)); err == nil {
					row[k] = d
					continue
				}
			}
			row[k] = nil
		case [16]byte:
			row[k] = fmt.Sprintf("%x-%x-%x-%x-%x", val[0:4], val[4:6], val[6:8], val[8:10], val[10:16])
		case time.Time:
			row[k] = val.Format(time.DateOnly)
		default:
			row[k] = v
		}
	}
	return row
}

func sortedKeys(r Row) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
