package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"recap/internal/domain"
	"recap/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sale(item string, purchase, selling int64) domain.Transaction {
	date := time.Date(2024, time.December, 10, 0, 0, 0, 0, time.UTC)
	return domain.NewTransaction(domain.TransactionInput{
		Date:          date,
		ItemPurchased: item,
		CustomerName:  "John Smith",
		StoreName:     "Tech Store Downtown",
		PaymentMethod: "Cash",
		PurchasePrice: purchase,
		SellingPrice:  selling,
	}, date)
}

func TestSummarize(t *testing.T) {
	stats := summarize(12, 2024, []domain.Transaction{
		sale("Coffee Mug", 100, 200),
		sale("Notebook", 100, 150),
		sale("Coffee Mug", 100, 110),
	})

	assert.Equal(t, 3, stats.TotalTransactions)
	assert.Equal(t, int64(160), stats.TotalRevenue)
	assert.Equal(t, int64(460), stats.TotalSales)
	assert.Equal(t, 53.33, stats.AverageRevenue)
	assert.Equal(t, "Coffee Mug", stats.TopProduct)
}

func TestSummarize_TopProductTies(t *testing.T) {
	byRevenue := summarize(12, 2024, []domain.Transaction{sale("Mug", 0, 10), sale("Pen", 0, 50)})
	assert.Equal(t, "Pen", byRevenue.TopProduct)

	byName := summarize(12, 2024, []domain.Transaction{sale("Pen", 0, 10), sale("Mug", 0, 10)})
	assert.Equal(t, "Mug", byName.TopProduct)
}

func TestSummarize_Empty(t *testing.T) {
	stats := summarize(1, 2025, nil)
	assert.Zero(t, stats.TotalTransactions)
	assert.Zero(t, stats.AverageRevenue)
	assert.Empty(t, stats.TopProduct)
}

func TestMonthStats(t *testing.T) {
	store := repository.NewMemory()
	require.NoError(t, repository.SeedDemo(context.Background(), store))
	svc := New(store, 0, zerolog.Nop())

	stats, err := svc.MonthStats(context.Background(), 12, 2024)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalTransactions)
	assert.Equal(t, int64(374850+67350), stats.TotalRevenue)
	assert.Equal(t, "Wireless Headphones", stats.TopProduct)

	_, err = svc.MonthStats(context.Background(), 13, 2024)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
