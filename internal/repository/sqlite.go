package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"recap/internal/domain"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	sqliteDateLayout  = "2006-01-02"
	sqliteStampLayout = time.RFC3339Nano
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  date TEXT NOT NULL,
  item_purchased TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  store_name TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  purchase_price INTEGER NOT NULL,
  selling_price INTEGER NOT NULL,
  revenue INTEGER NOT NULL,
  notes TEXT,
  month INTEGER NOT NULL,
  year INTEGER NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_period ON transactions(year, month);

CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  type TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0,
  price INTEGER NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS customers (name TEXT PRIMARY KEY);
CREATE TABLE IF NOT EXISTS stores (name TEXT PRIMARY KEY);
`

// SQLite is the local file store.
type SQLite struct {
	conn *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer at a time; SQLite serialises writes anyway.
	conn.SetMaxOpenConns(1)

	for _, pragma := range []string{`PRAGMA journal_mode = WAL;`, `PRAGMA busy_timeout = 5000;`} {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}
	if _, err := conn.Exec(sqliteSchema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

func (s *SQLite) Close() error {
	return s.conn.Close()
}

// AddReferenceNames registers customer and store names for upload matching.
func (s *SQLite) AddReferenceNames(ctx context.Context, customers, stores []string) error {
	for table, names := range map[string][]string{"customers": customers, "stores": stores} {
		for _, name := range names {
			if _, err := s.conn.ExecContext(ctx, `INSERT OR IGNORE INTO `+table+` (name) VALUES (?)`, name); err != nil {
				return fmt.Errorf("add %s name: %w", table, err)
			}
		}
	}
	return nil
}

const sqliteTransactionInsert = `INSERT INTO transactions (` + transactionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (s *SQLite) CreateTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	if _, err := s.conn.ExecContext(ctx, sqliteTransactionInsert, sqliteTransactionArgs(transactionToRecord(tx))...); err != nil {
		return domain.Transaction{}, sqliteWriteError("create transaction", err)
	}
	return tx, nil
}

func (s *SQLite) CreateTransactions(ctx context.Context, txs []domain.Transaction) ([]domain.Transaction, error) {
	err := s.inTx(ctx, func(dbTx *sql.Tx) error {
		stmt, err := dbTx.PrepareContext(ctx, sqliteTransactionInsert)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, tx := range txs {
			if _, err := stmt.ExecContext(ctx, sqliteTransactionArgs(transactionToRecord(tx))...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, sqliteWriteError("create transactions", err)
	}
	return append([]domain.Transaction{}, txs...), nil
}

func (s *SQLite) UpdateTransaction(ctx context.Context, id uuid.UUID, patch domain.TransactionPatch) (domain.Transaction, error) {
	var updated domain.Transaction
	err := s.inTx(ctx, func(dbTx *sql.Tx) error {
		current, err := scanSQLiteTransaction(dbTx.QueryRowContext(ctx,
			`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id.String()))
		if err != nil {
			return err
		}
		current.Apply(patch, time.Now().UTC())
		rec := transactionToRecord(current)
		if _, err := dbTx.ExecContext(ctx, `
			UPDATE transactions
			SET date = ?, item_purchased = ?, customer_name = ?, store_name = ?, payment_method = ?,
				purchase_price = ?, selling_price = ?, revenue = ?, notes = ?, month = ?, year = ?, updated_at = ?
			WHERE id = ?`,
			rec.Date.Format(sqliteDateLayout), rec.ItemPurchased, rec.CustomerName, rec.StoreName, rec.PaymentMethod,
			rec.PurchasePrice, rec.SellingPrice, rec.Revenue, rec.Notes, rec.Month, rec.Year,
			rec.UpdatedAt.Format(sqliteStampLayout), rec.ID.String(),
		); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Transaction{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Transaction{}, sqliteWriteError("update transaction", err)
	}
	return updated, nil
}

func (s *SQLite) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return s.deleteByID(ctx, "transactions", id)
}

func (s *SQLite) ListTransactionsByPeriod(ctx context.Context, month, year int) ([]domain.Transaction, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE month = ? AND year = ? ORDER BY date DESC, created_at DESC`,
		month, year)
	if err != nil {
		return nil, fmt.Errorf("list transactions %d/%d: %w", month, year, err)
	}
	return collectSQLiteTransactions(rows)
}

func (s *SQLite) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return collectSQLiteTransactions(rows)
}

const sqliteProductInsert = `INSERT INTO products (` + productColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

func (s *SQLite) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if _, err := s.conn.ExecContext(ctx, sqliteProductInsert, sqliteProductArgs(productToRecord(product))...); err != nil {
		return domain.Product{}, sqliteWriteError("create product", err)
	}
	return product, nil
}

func (s *SQLite) CreateProducts(ctx context.Context, products []domain.Product) ([]domain.Product, error) {
	err := s.inTx(ctx, func(dbTx *sql.Tx) error {
		stmt, err := dbTx.PrepareContext(ctx, sqliteProductInsert)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, product := range products {
			if _, err := stmt.ExecContext(ctx, sqliteProductArgs(productToRecord(product))...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, sqliteWriteError("create products", err)
	}
	return append([]domain.Product{}, products...), nil
}

func (s *SQLite) FindProductsByNames(ctx context.Context, names []string) ([]domain.Product, error) {
	if len(names) == 0 {
		return []domain.Product{}, nil
	}
	args := make([]any, 0, len(names))
	for _, name := range names {
		args = append(args, name)
	}
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE name IN (`+placeholders(len(names))+`) ORDER BY name`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("find products by names: %w", err)
	}
	return collectSQLiteProducts(rows)
}

func (s *SQLite) UpdateProduct(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (domain.Product, error) {
	var updated domain.Product
	err := s.inTx(ctx, func(dbTx *sql.Tx) error {
		current, err := scanSQLiteProduct(dbTx.QueryRowContext(ctx,
			`SELECT `+productColumns+` FROM products WHERE id = ?`, id.String()))
		if err != nil {
			return err
		}
		current.Apply(patch, time.Now().UTC())
		if _, err := dbTx.ExecContext(ctx,
			`UPDATE products SET name = ?, type = ?, quantity = ?, price = ?, updated_at = ? WHERE id = ?`,
			current.Name, current.Type, current.Quantity, current.Price,
			current.UpdatedAt.Format(sqliteStampLayout), current.ID.String(),
		); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, sqliteWriteError("update product", err)
	}
	return updated, nil
}

func (s *SQLite) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.deleteByID(ctx, "products", id)
}

func (s *SQLite) DeleteProducts(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id.String())
	}
	res, err := s.conn.ExecContext(ctx, `DELETE FROM products WHERE id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("delete products: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete products: %w", err)
	}
	return int(affected), nil
}

func (s *SQLite) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectSQLiteProducts(rows)
}

func (s *SQLite) ProductNames(ctx context.Context) ([]string, error) {
	return s.names(ctx, "product", productNamesQuery)
}

func (s *SQLite) CustomerNames(ctx context.Context) ([]string, error) {
	return s.names(ctx, "customer", customerNamesQuery)
}

func (s *SQLite) StoreNames(ctx context.Context) ([]string, error) {
	return s.names(ctx, "store", storeNamesQuery)
}

func (s *SQLite) names(ctx context.Context, kind, query string) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, query)
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

func (s *SQLite) deleteByID(ctx context.Context, table string, id uuid.UUID) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", table, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", table, id, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *SQLite) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	dbTx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(dbTx); err != nil {
		_ = dbTx.Rollback()
		return err
	}
	return dbTx.Commit()
}

func sqliteWriteError(op string, err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE")) {
			return fmt.Errorf("%s: %w", op, domain.ErrDuplicateName)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func sqliteTransactionArgs(r transactionRecord) []any {
	return []any{
		r.ID.String(), r.Date.Format(sqliteDateLayout), r.ItemPurchased, r.CustomerName, r.StoreName,
		r.PaymentMethod, r.PurchasePrice, r.SellingPrice, r.Revenue, r.Notes, r.Month, r.Year,
		r.CreatedAt.UTC().Format(sqliteStampLayout), r.UpdatedAt.UTC().Format(sqliteStampLayout),
	}
}

func sqliteProductArgs(r productRecord) []any {
	return []any{
		r.ID.String(), r.Name, r.Type, r.Quantity, r.Price,
		r.CreatedAt.UTC().Format(sqliteStampLayout), r.UpdatedAt.UTC().Format(sqliteStampLayout),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteTransaction(row rowScanner) (domain.Transaction, error) {
	var (
		rec                  transactionRecord
		id, date             string
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&id, &date, &rec.ItemPurchased, &rec.CustomerName, &rec.StoreName, &rec.PaymentMethod,
		&rec.PurchasePrice, &rec.SellingPrice, &rec.Revenue, &rec.Notes, &rec.Month, &rec.Year,
		&createdAt, &updatedAt,
	); err != nil {
		return domain.Transaction{}, err
	}
	var err error
	if rec.ID, err = uuid.Parse(id); err != nil {
		return domain.Transaction{}, fmt.Errorf("parse transaction id: %w", err)
	}
	if rec.Date, err = time.Parse(sqliteDateLayout, date); err != nil {
		return domain.Transaction{}, fmt.Errorf("parse transaction date: %w", err)
	}
	if rec.CreatedAt, err = time.Parse(sqliteStampLayout, createdAt); err != nil {
		return domain.Transaction{}, fmt.Errorf("parse created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(sqliteStampLayout, updatedAt); err != nil {
		return domain.Transaction{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return rec.toDomain(), nil
}

func scanSQLiteProduct(row rowScanner) (domain.Product, error) {
	var (
		rec                  productRecord
		id                   string
		createdAt, updatedAt string
	)
	if err := row.Scan(&id, &rec.Name, &rec.Type, &rec.Quantity, &rec.Price, &createdAt, &updatedAt); err != nil {
		return domain.Product{}, err
	}
	var err error
	if rec.ID, err = uuid.Parse(id); err != nil {
		return domain.Product{}, fmt.Errorf("parse product id: %w", err)
	}
	if rec.CreatedAt, err = time.Parse(sqliteStampLayout, createdAt); err != nil {
		return domain.Product{}, fmt.Errorf("parse created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(sqliteStampLayout, updatedAt); err != nil {
		return domain.Product{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return rec.toDomain(), nil
}

func collectSQLiteTransactions(rows *sql.Rows) ([]domain.Transaction, error) {
	defer rows.Close()
	txs := make([]domain.Transaction, 0)
	for rows.Next() {
		tx, err := scanSQLiteTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func collectSQLiteProducts(rows *sql.Rows) ([]domain.Product, error) {
	defer rows.Close()
	products := make([]domain.Product, 0)
	for rows.Next() {
		product, err := scanSQLiteProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
