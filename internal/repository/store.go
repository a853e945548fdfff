package repository

import (
	"context"

	"recap/internal/domain"

	"github.com/google/uuid"
)

// TransactionStore persists sales transactions. Implementations store
// Revenue, Month and Year exactly as computed by the domain types.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)
	// CreateTransactions writes all rows in one batch or none of them.
	CreateTransactions(ctx context.Context, txs []domain.Transaction) ([]domain.Transaction, error)
	UpdateTransaction(ctx context.Context, id uuid.UUID, patch domain.TransactionPatch) (domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	// ListTransactionsByPeriod returns one month, newest date first.
	ListTransactionsByPeriod(ctx context.Context, month, year int) ([]domain.Transaction, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
}

// ProductStore persists the catalog. Product names are unique; writes that
// would break that fail with domain.ErrDuplicateName.
type ProductStore interface {
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	CreateProducts(ctx context.Context, products []domain.Product) ([]domain.Product, error)
	// FindProductsByNames matches names exactly, case-sensitively.
	FindProductsByNames(ctx context.Context, names []string) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	DeleteProducts(ctx context.Context, ids []uuid.UUID) (int, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// ReferenceStore serves the name lists uploads are corrected against.
type ReferenceStore interface {
	ProductNames(ctx context.Context) ([]string, error)
	CustomerNames(ctx context.Context) ([]string, error)
	StoreNames(ctx context.Context) ([]string, error)
}

type Store interface {
	TransactionStore
	ProductStore
	ReferenceStore
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*Postgres)(nil)
	_ Store = (*SQLite)(nil)
	_ Store = (*Memory)(nil)
)
