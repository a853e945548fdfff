package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"recap/internal/config"
	"recap/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type referenceSeeder interface {
	AddReferenceNames(ctx context.Context, customers, stores []string) error
}

func storesUnderTest(t *testing.T) map[string]Store {
	sqliteStore, err := OpenSQLite(filepath.Join(t.TempDir(), "recap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqliteStore,
	}
}

func newTx(day int, month time.Month, item, customer string, purchase, selling int64) domain.Transaction {
	date := time.Date(2024, month, day, 0, 0, 0, 0, time.UTC)
	return domain.NewTransaction(domain.TransactionInput{
		Date:          date,
		ItemPurchased: item,
		CustomerName:  customer,
		StoreName:     "Tech Store Downtown",
		PaymentMethod: "Cash",
		PurchasePrice: purchase,
		SellingPrice:  selling,
	}, date)
}

func newProduct(name string, price int64) domain.Product {
	return domain.NewProduct(domain.ProductInput{Name: name, Type: "General", Price: price}, time.Now().UTC())
}

func TestStore_Products(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			created, err := store.CreateProducts(ctx, []domain.Product{newProduct("Coffee Mug", 194850), newProduct("Notebook", 49950)})
			require.NoError(t, err)
			require.Len(t, created, 2)

			found, err := store.FindProductsByNames(ctx, []string{"Coffee Mug", "coffee mug", "Missing"})
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, "Coffee Mug", found[0].Name)

			_, err = store.CreateProduct(ctx, newProduct("Coffee Mug", 1))
			assert.True(t, errors.Is(err, domain.ErrDuplicateName), "got %v", err)

			_, err = store.CreateProducts(ctx, []domain.Product{newProduct("Pen", 5000), newProduct("Notebook", 1)})
			assert.True(t, errors.Is(err, domain.ErrDuplicateName), "got %v", err)
			pens, err := store.FindProductsByNames(ctx, []string{"Pen"})
			require.NoError(t, err)
			assert.Empty(t, pens, "batch must not be partially written")

			newPrice := int64(200000)
			updated, err := store.UpdateProduct(ctx, created[0].ID, domain.ProductPatch{Price: &newPrice})
			require.NoError(t, err)
			assert.Equal(t, newPrice, updated.Price)

			taken := "Notebook"
			_, err = store.UpdateProduct(ctx, created[0].ID, domain.ProductPatch{Name: &taken})
			assert.True(t, errors.Is(err, domain.ErrDuplicateName), "got %v", err)

			_, err = store.UpdateProduct(ctx, uuid.New(), domain.ProductPatch{Price: &newPrice})
			assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)

			names, err := store.ProductNames(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"Coffee Mug", "Notebook"}, names)

			deleted, err := store.DeleteProducts(ctx, []uuid.UUID{created[0].ID, created[1].ID, uuid.New()})
			require.NoError(t, err)
			assert.Equal(t, 2, deleted)

			assert.True(t, errors.Is(store.DeleteProduct(ctx, created[0].ID), domain.ErrNotFound))

			all, err := store.ListProducts(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestStore_Transactions(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			notes := "gift wrap"

			first := newTx(15, time.December, "Wireless Headphones", "John Smith", 1125000, 1499850)
			first.Notes = &notes
			_, err := store.CreateTransaction(ctx, first)
			require.NoError(t, err)

			_, err = store.CreateTransactions(ctx, []domain.Transaction{
				newTx(16, time.December, "Coffee Mug", "Sarah Johnson", 127500, 194850),
				newTx(2, time.November, "Notebook", "Ana", 30000, 49950),
			})
			require.NoError(t, err)

			december, err := store.ListTransactionsByPeriod(ctx, 12, 2024)
			require.NoError(t, err)
			require.Len(t, december, 2)
			assert.Equal(t, "Coffee Mug", december[0].ItemPurchased, "newest date first")
			assert.Equal(t, "Wireless Headphones", december[1].ItemPurchased)
			require.NotNil(t, december[1].Notes)
			assert.Equal(t, "gift wrap", *december[1].Notes)
			assert.Nil(t, december[0].Notes)
			assert.Equal(t, int64(374850), december[1].Revenue)

			moved := time.Date(2024, time.November, 20, 0, 0, 0, 0, time.UTC)
			selling := int64(1000000)
			updated, err := store.UpdateTransaction(ctx, first.ID, domain.TransactionPatch{Date: &moved, SellingPrice: &selling})
			require.NoError(t, err)
			assert.Equal(t, 11, updated.Month)
			assert.Equal(t, int64(-125000), updated.Revenue)

			november, err := store.ListTransactionsByPeriod(ctx, 11, 2024)
			require.NoError(t, err)
			require.Len(t, november, 2)
			assert.Equal(t, first.ID, november[0].ID)
			assert.Equal(t, int64(-125000), november[0].Revenue)

			_, err = store.UpdateTransaction(ctx, uuid.New(), domain.TransactionPatch{Date: &moved})
			assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)

			require.NoError(t, store.DeleteTransaction(ctx, first.ID))
			assert.True(t, errors.Is(store.DeleteTransaction(ctx, first.ID), domain.ErrNotFound))

			all, err := store.ListTransactions(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 2)
		})
	}
}

func TestStore_ReferenceNames(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seeder, ok := store.(referenceSeeder)
			require.True(t, ok)
			require.NoError(t, seeder.AddReferenceNames(ctx, []string{"Budi"}, []string{"Home Goods Plus"}))

			_, err := store.CreateTransaction(ctx, newTx(1, time.March, "Mug", "John Smith", 1, 2))
			require.NoError(t, err)

			customers, err := store.CustomerNames(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"Budi", "John Smith"}, customers)

			stores, err := store.StoreNames(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"Home Goods Plus", "Tech Store Downtown"}, stores)
		})
	}
}

func TestSeedDemo(t *testing.T) {
	store := NewMemory()
	require.NoError(t, SeedDemo(context.Background(), store))

	products, err := store.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 3)

	december, err := store.ListTransactionsByPeriod(context.Background(), 12, 2024)
	require.NoError(t, err)
	require.Len(t, december, 2)
	assert.Equal(t, int64(67350), december[0].Revenue)
}

func TestOpen_MemoryWithDemoData(t *testing.T) {
	cfg := config.Default()
	cfg.StoreDriver = config.DriverMemory
	cfg.SeedDemoData = true

	store, err := Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	products, err := store.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 3)
}

func TestOpen_SQLite(t *testing.T) {
	cfg := config.Default()
	cfg.StoreDriver = config.DriverSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "nested", "recap.db")

	store, err := Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()
	assert.NoError(t, store.Ping(context.Background()))
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.StoreDriver = "mongo"

	_, err := Open(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
