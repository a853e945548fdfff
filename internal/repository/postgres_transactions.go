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
	insertTransactionQuery = `INSERT INTO transactions (` + transactionColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING ` + transactionColumns

	listTransactionsByPeriodQuery = `SELECT ` + transactionColumns + ` FROM transactions WHERE month = $1 AND year = $2 ORDER BY date DESC, created_at DESC`

	listTransactionsQuery = `SELECT ` + transactionColumns + ` FROM transactions ORDER BY date DESC, created_at DESC`

	lockTransactionQuery = `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`

	updateTransactionQuery = `UPDATE transactions SET date = $2, item_purchased = $3, customer_name = $4, store_name = $5, payment_method = $6, purchase_price = $7, selling_price = $8, revenue = $9, notes = $10, month = $11, year = $12, updated_at = $13 WHERE id = $1 RETURNING ` + transactionColumns

	deleteTransactionQuery = `DELETE FROM transactions WHERE id = $1`
)

func insertTransactionsQuery(rows int) string {
	return `INSERT INTO transactions (` + transactionColumns + `) VALUES ` +
		valuesClause(rows, transactionColumnCount) + ` RETURNING ` + transactionColumns
}

func (p *Postgres) CreateTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	rec := transactionToRecord(tx)
	created, err := scanTransactionRow(p.pool.QueryRow(ctx, insertTransactionQuery, rec.args()...))
	if err != nil {
		return domain.Transaction{}, writeError("create transaction", err)
	}
	return created, nil
}

func (p *Postgres) CreateTransactions(ctx context.Context, txs []domain.Transaction) ([]domain.Transaction, error) {
	if len(txs) == 0 {
		return []domain.Transaction{}, nil
	}

	dbTx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create transactions tx: %w", err)
	}
	defer dbTx.Rollback(ctx)

	created := make([]domain.Transaction, 0, len(txs))
	for _, span := range chunks(len(txs), insertChunkRows) {
		batch := txs[span[0]:span[1]]
		args := make([]any, 0, len(batch)*transactionColumnCount)
		for _, tx := range batch {
			args = append(args, transactionToRecord(tx).args()...)
		}

		rows, err := dbTx.Query(ctx, insertTransactionsQuery(len(batch)), args...)
		if err != nil {
			return nil, writeError("create transactions", err)
		}
		inserted, err := collectTransactions(rows)
		if err != nil {
			return nil, writeError("create transactions", err)
		}
		created = append(created, inserted...)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create transactions tx: %w", err)
	}
	return created, nil
}

func (p *Postgres) UpdateTransaction(ctx context.Context, id uuid.UUID, patch domain.TransactionPatch) (domain.Transaction, error) {
	dbTx, err := p.pool.Begin(ctx)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("begin update transaction tx: %w", err)
	}
	defer dbTx.Rollback(ctx)

	current, err := scanTransactionRow(dbTx.QueryRow(ctx, lockTransactionQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Transaction{}, domain.ErrNotFound
		}
		return domain.Transaction{}, fmt.Errorf("load transaction for update: %w", err)
	}

	current.Apply(patch, time.Now().UTC())
	rec := transactionToRecord(current)
	updated, err := scanTransactionRow(dbTx.QueryRow(ctx, updateTransactionQuery,
		rec.ID, rec.Date, rec.ItemPurchased, rec.CustomerName, rec.StoreName, rec.PaymentMethod,
		rec.PurchasePrice, rec.SellingPrice, rec.Revenue, rec.Notes, rec.Month, rec.Year, rec.UpdatedAt,
	))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return domain.Transaction{}, fmt.Errorf("commit update transaction tx: %w", err)
	}
	return updated, nil
}

func (p *Postgres) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	cmd, err := p.pool.Exec(ctx, deleteTransactionQuery, id)
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (p *Postgres) ListTransactionsByPeriod(ctx context.Context, month, year int) ([]domain.Transaction, error) {
	rows, err := p.pool.Query(ctx, listTransactionsByPeriodQuery, month, year)
	if err != nil {
		return nil, fmt.Errorf("list transactions %d/%d: %w", month, year, err)
	}
	txs, err := collectTransactions(rows)
	if err != nil {
		return nil, fmt.Errorf("list transactions %d/%d: %w", month, year, err)
	}
	return txs, nil
}

func (p *Postgres) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := p.pool.Query(ctx, listTransactionsQuery)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	txs, err := collectTransactions(rows)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()
	txs := make([]domain.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransactionRow(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func scanTransactionRow(row pgx.Row) (domain.Transaction, error) {
	var rec transactionRecord
	if err := row.Scan(
		&rec.ID,
		&rec.Date,
		&rec.ItemPurchased,
		&rec.CustomerName,
		&rec.StoreName,
		&rec.PaymentMethod,
		&rec.PurchasePrice,
		&rec.SellingPrice,
		&rec.Revenue,
		&rec.Notes,
		&rec.Month,
		&rec.Year,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return domain.Transaction{}, err
	}
	return rec.toDomain(), nil
}
