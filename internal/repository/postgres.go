package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recap/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueViolation = "23505"
	// insertChunkRows keeps multi-row inserts under the bind parameter limit.
	insertChunkRows = 1000
)

// PgxPool is the subset of pgxpool.Pool the store uses, so tests can swap in
// pgxmock.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

var _ PgxPool = (*pgxpool.Pool)(nil)

// Postgres is the hosted relational store.
type Postgres struct {
	pool PgxPool
}

func NewPostgres(pool PgxPool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	if closer, ok := p.pool.(interface{ Close() }); ok {
		closer.Close()
	}
	return nil
}

const (
	productNamesQuery  = `SELECT name FROM products ORDER BY name`
	customerNamesQuery = `SELECT name FROM customers UNION SELECT customer_name FROM transactions ORDER BY 1`
	storeNamesQuery    = `SELECT name FROM stores UNION SELECT store_name FROM transactions ORDER BY 1`
)

func (p *Postgres) ProductNames(ctx context.Context) ([]string, error) {
	return p.names(ctx, "product", productNamesQuery)
}

func (p *Postgres) CustomerNames(ctx context.Context) ([]string, error) {
	return p.names(ctx, "customer", customerNamesQuery)
}

func (p *Postgres) StoreNames(ctx context.Context) ([]string, error) {
	return p.names(ctx, "store", storeNamesQuery)
}

func (p *Postgres) names(ctx context.Context, kind, query string) ([]string, error) {
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s names: %w", kind, err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan %s name: %w", kind, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s names: %w", kind, err)
	}
	return names, nil
}

// writeError tags unique violations as domain.ErrDuplicateName.
func writeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicateName)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// valuesClause renders "($1, $2), ($3, $4)" style placeholders.
func valuesClause(rows, cols int) string {
	var b strings.Builder
	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := 0; c < cols; c++ {
			if c > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", n)
			n++
		}
		b.WriteByte(')')
	}
	return b.String()
}

func chunks(total, size int) [][2]int {
	out := make([][2]int, 0, total/size+1)
	for start := 0; start < total; start += size {
		out = append(out, [2]int{start, min(start+size, total)})
	}
	return out
}
