package repository

import (
	"context"
	"fmt"
	"time"

	"recap/internal/domain"
)

// SeedDemo loads the sample catalog and two December 2024 sales so a fresh
// install has something to show.
func SeedDemo(ctx context.Context, store Store) error {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	products := []domain.ProductInput{
		{Name: "Wireless Headphones", Type: "Electronics", Price: 1499850},
		{Name: "Coffee Mug", Type: "Kitchenware", Price: 194850},
		{Name: "Notebook", Type: "Stationery", Price: 49950},
	}
	seeded := make([]domain.Product, 0, len(products))
	for i, input := range products {
		seeded = append(seeded, domain.NewProduct(input, created.AddDate(0, 0, i)))
	}
	if _, err := store.CreateProducts(ctx, seeded); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	satisfied := "Customer was very satisfied with the product"
	bulk := "Part of a bulk order"
	sales := []domain.TransactionInput{
		{
			Date:          time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC),
			ItemPurchased: "Wireless Headphones",
			CustomerName:  "John Smith",
			StoreName:     "Tech Store Downtown",
			PaymentMethod: "Credit Card",
			PurchasePrice: 1125000,
			SellingPrice:  1499850,
			Notes:         &satisfied,
		},
		{
			Date:          time.Date(2024, 12, 16, 0, 0, 0, 0, time.UTC),
			ItemPurchased: "Coffee Mug",
			CustomerName:  "Sarah Johnson",
			StoreName:     "Home Goods Plus",
			PaymentMethod: "Cash",
			PurchasePrice: 127500,
			SellingPrice:  194850,
			Notes:         &bulk,
		},
	}
	txs := make([]domain.Transaction, 0, len(sales))
	for _, input := range sales {
		txs = append(txs, domain.NewTransaction(input, input.Date))
	}
	if _, err := store.CreateTransactions(ctx, txs); err != nil {
		return fmt.Errorf("seed transactions: %w", err)
	}
	return nil
}
