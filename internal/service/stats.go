package service

import (
	"context"

	"recap/internal/domain"

	"github.com/shopspring/decimal"
)

// MonthStats summarises one calendar month. TopProduct is the most frequently
// sold item; ties go to the higher total revenue, then to the name.
func (s *Service) MonthStats(ctx context.Context, month, year int) (domain.MonthStats, error) {
	if month < 1 || month > 12 || year < 1 {
		return domain.MonthStats{}, validationError("month and year are required")
	}
	txs, err := s.store.ListTransactionsByPeriod(ctx, month, year)
	if err != nil {
		return domain.MonthStats{}, err
	}
	return summarize(month, year, txs), nil
}

type itemTally struct {
	count   int
	revenue int64
}

func summarize(month, year int, txs []domain.Transaction) domain.MonthStats {
	stats := domain.MonthStats{Month: month, Year: year, TotalTransactions: len(txs)}
	if len(txs) == 0 {
		return stats
	}

	tallies := make(map[string]*itemTally)
	for _, tx := range txs {
		stats.TotalRevenue += tx.Revenue
		stats.TotalSales += tx.SellingPrice

		tally, ok := tallies[tx.ItemPurchased]
		if !ok {
			tally = &itemTally{}
			tallies[tx.ItemPurchased] = tally
		}
		tally.count++
		tally.revenue += tx.Revenue
	}

	average := decimal.NewFromInt(stats.TotalRevenue).
		Div(decimal.NewFromInt(int64(len(txs)))).
		Round(2)
	stats.AverageRevenue = average.InexactFloat64()

	var best *itemTally
	for name, tally := range tallies {
		if best == nil ||
			tally.count > best.count ||
			(tally.count == best.count && tally.revenue > best.revenue) ||
			(tally.count == best.count && tally.revenue == best.revenue && name < stats.TopProduct) {
			best = tally
			stats.TopProduct = name
		}
	}
	return stats
}
