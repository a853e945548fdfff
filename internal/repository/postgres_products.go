package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recap/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	insertProductQuery = `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING ` + productColumns

	findProductsByNamesQuery = `SELECT ` + productColumns + ` FROM products WHERE name = ANY($1)`

	listProductsQuery = `SELECT ` + productColumns + ` FROM products ORDER BY name`

	lockProductQuery = `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`

	updateProductQuery = `UPDATE products SET name = $2, type = $3, quantity = $4, price = $5, updated_at = $6 WHERE id = $1 RETURNING ` + productColumns

	deleteProductQuery = `DELETE FROM products WHERE id = $1`

	deleteProductsQuery = `DELETE FROM products WHERE id = ANY($1::text[]::uuid[])`
)

func insertProductsQuery(rows int) string {
	return `INSERT INTO products (` + productColumns + `) VALUES ` +
		valuesClause(rows, productColumnCount) + ` RETURNING ` + productColumns
}

func (p *Postgres) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	created, err := scanProductRow(p.pool.QueryRow(ctx, insertProductQuery, productToRecord(product).args()...))
	if err != nil {
		return domain.Product{}, writeError("create product", err)
	}
	return created, nil
}

// CreateProducts inserts every product inside one database transaction. A
// name taken by a concurrent writer fails the whole batch with
// domain.ErrDuplicateName.
func (p *Postgres) CreateProducts(ctx context.Context, products []domain.Product) ([]domain.Product, error) {
	if len(products) == 0 {
		return []domain.Product{}, nil
	}

	dbTx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create products tx: %w", err)
	}
	defer dbTx.Rollback(ctx)

	created := make([]domain.Product, 0, len(products))
	for _, span := range chunks(len(products), insertChunkRows) {
		batch := products[span[0]:span[1]]
		args := make([]any, 0, len(batch)*productColumnCount)
		for _, product := range batch {
			args = append(args, productToRecord(product).args()...)
		}

		rows, err := dbTx.Query(ctx, insertProductsQuery(len(batch)), args...)
		if err != nil {
			return nil, writeError("create products", err)
		}
		inserted, err := collectProducts(rows)
		if err != nil {
			return nil, writeError("create products", err)
		}
		created = append(created, inserted...)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, writeError("commit create products tx", err)
	}
	return created, nil
}

func (p *Postgres) FindProductsByNames(ctx context.Context, names []string) ([]domain.Product, error) {
	if len(names) == 0 {
		return []domain.Product{}, nil
	}
	rows, err := p.pool.Query(ctx, findProductsByNamesQuery, names)
	if err != nil {
		return nil, fmt.Errorf("find products by names: %w", err)
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, fmt.Errorf("find products by names: %w", err)
	}
	return products, nil
}

func (p *Postgres) UpdateProduct(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (domain.Product, error) {
	dbTx, err := p.pool.Begin(ctx)
	if err != nil {
		return domain.Product{}, fmt.Errorf("begin update product tx: %w", err)
	}
	defer dbTx.Rollback(ctx)

	current, err := scanProductRow(dbTx.QueryRow(ctx, lockProductQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, domain.ErrNotFound
		}
		return domain.Product{}, fmt.Errorf("load product for update: %w", err)
	}

	current.Apply(patch, time.Now().UTC())
	updated, err := scanProductRow(dbTx.QueryRow(ctx, updateProductQuery,
		current.ID, current.Name, current.Type, current.Quantity, current.Price, current.UpdatedAt,
	))
	if err != nil {
		return domain.Product{}, writeError("update product", err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return domain.Product{}, fmt.Errorf("commit update product tx: %w", err)
	}
	return updated, nil
}

func (p *Postgres) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	cmd, err := p.pool.Exec(ctx, deleteProductQuery, id)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteProducts(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}
	cmd, err := p.pool.Exec(ctx, deleteProductsQuery, raw)
	if err != nil {
		return 0, fmt.Errorf("delete products: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

func (p *Postgres) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := p.pool.Query(ctx, listProductsQuery)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()
	products := make([]domain.Product, 0)
	for rows.Next() {
		product, err := scanProductRow(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func scanProductRow(row pgx.Row) (domain.Product, error) {
	var rec productRecord
	if err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Type,
		&rec.Quantity,
		&rec.Price,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return domain.Product{}, err
	}
	return rec.toDomain(), nil
}
