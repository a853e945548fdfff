package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"recap/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Postgres, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgres(mock), mock
}

func productRows(products ...domain.Product) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "name", "type", "quantity", "price", "created_at", "updated_at"})
	for _, p := range products {
		rows.AddRow(p.ID, p.Name, p.Type, p.Quantity, p.Price, p.CreatedAt, p.UpdatedAt)
	}
	return rows
}

func TestPostgres_FindProductsByNames(t *testing.T) {
	store, mock := newMockStore(t)
	mug := newProduct("Coffee Mug", 194850)

	mock.ExpectQuery(regexp.QuoteMeta(findProductsByNamesQuery)).
		WithArgs([]string{"Coffee Mug", "Pen"}).
		WillReturnRows(productRows(mug))

	found, err := store.FindProductsByNames(context.Background(), []string{"Coffee Mug", "Pen"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, mug.ID, found[0].ID)
	assert.Equal(t, int64(194850), found[0].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_FindProductsByNamesEmptySkipsQuery(t *testing.T) {
	store, mock := newMockStore(t)

	found, err := store.FindProductsByNames(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CreateProductsInOneTransaction(t *testing.T) {
	store, mock := newMockStore(t)
	batch := []domain.Product{newProduct("Pen", 5000), newProduct("Stapler", 25000)}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(insertProductsQuery(2))).
		WillReturnRows(productRows(batch...))
	mock.ExpectCommit()

	created, err := store.CreateProducts(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "Stapler", created[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CreateProductsUniqueViolation(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(insertProductsQuery(1))).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_products_name"})
	mock.ExpectRollback()

	_, err := store.CreateProducts(context.Background(), []domain.Product{newProduct("Pen", 5000)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateName), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CreateProductOtherErrorIsNotDuplicate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(insertProductQuery)).
		WillReturnError(errors.New("connection reset"))

	_, err := store.CreateProduct(context.Background(), newProduct("Pen", 5000))
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrDuplicateName))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_DeleteProductNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(deleteProductQuery)).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := store.DeleteProduct(context.Background(), id)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_DeleteProductsReturnsCount(t *testing.T) {
	store, mock := newMockStore(t)
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	mock.ExpectExec(regexp.QuoteMeta(deleteProductsQuery)).
		WithArgs([]string{ids[0].String(), ids[1].String()}).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	deleted, err := store.DeleteProducts(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListTransactionsByPeriod(t *testing.T) {
	store, mock := newMockStore(t)
	date := time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC)
	id := uuid.New()

	rows := pgxmock.NewRows([]string{
		"id", "date", "item_purchased", "customer_name", "store_name", "payment_method",
		"purchase_price", "selling_price", "revenue", "notes", "month", "year", "created_at", "updated_at",
	}).AddRow(id, date, "Wireless Headphones", "John Smith", "Tech Store Downtown", "Credit Card",
		int64(1125000), int64(1499850), int64(374850), nil, 12, 2024, date, date)

	mock.ExpectQuery(regexp.QuoteMeta(listTransactionsByPeriodQuery)).
		WithArgs(12, 2024).
		WillReturnRows(rows)

	txs, err := store.ListTransactionsByPeriod(context.Background(), 12, 2024)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, id, txs[0].ID)
	assert.Equal(t, int64(374850), txs[0].Revenue)
	assert.Nil(t, txs[0].Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CustomerNames(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(customerNamesQuery)).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Budi").AddRow("John Smith"))

	names, err := store.CustomerNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Budi", "John Smith"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValuesClause(t *testing.T) {
	assert.Equal(t, "($1, $2), ($3, $4)", valuesClause(2, 2))
	assert.Equal(t, [][2]int{{0, 1000}, {1000, 1500}}, chunks(1500, 1000))
}
