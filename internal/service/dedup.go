package service

import (
	"context"
	"errors"
	"fmt"

	"recap/internal/domain"
	"recap/internal/metrics"
)

// BulkInsertProducts inserts the products whose names are new, skipping
// repeats within the batch and names already in the catalog. Duplicates
// lists in-batch repeats first, then pre-existing names, in input order.
//
// The existence check and the insert are two separate round trips. A name
// created by another writer in between fails the insert with
// domain.ErrDuplicateName; it is reported, not retried. Failures return the
// result gathered so far alongside the error.
func (s *Service) BulkInsertProducts(ctx context.Context, inputs []domain.ProductInput) (domain.BulkInsertResult, error) {
	result := domain.BulkInsertResult{Created: []domain.Product{}, Duplicates: []string{}}

	seen := make(map[string]struct{}, len(inputs))
	survivors := make([]domain.ProductInput, 0, len(inputs))
	for _, input := range inputs {
		if _, dup := seen[input.Name]; dup {
			result.Duplicates = append(result.Duplicates, input.Name)
			continue
		}
		seen[input.Name] = struct{}{}
		survivors = append(survivors, input)
	}
	result.Skipped = len(result.Duplicates)

	names := make([]string, 0, len(survivors))
	for _, input := range survivors {
		names = append(names, input.Name)
	}
	existing, err := s.store.FindProductsByNames(ctx, names)
	if err != nil {
		return result, fmt.Errorf("%w: check existing products: %w", domain.ErrStorage, err)
	}
	taken := make(map[string]struct{}, len(existing))
	for _, product := range existing {
		taken[product.Name] = struct{}{}
	}

	now := s.now()
	fresh := make([]domain.Product, 0, len(survivors))
	for _, input := range survivors {
		if _, ok := taken[input.Name]; ok {
			result.Duplicates = append(result.Duplicates, input.Name)
			continue
		}
		fresh = append(fresh, domain.NewProduct(input, now))
	}
	result.Skipped = len(result.Duplicates)
	metrics.ProductDuplicates.Add(float64(result.Skipped))

	if len(fresh) == 0 {
		s.log.Info().Int("duplicates", result.Skipped).Msg("bulk product insert: nothing new")
		return result, nil
	}

	created, err := s.store.CreateProducts(ctx, fresh)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateName) {
			return result, fmt.Errorf("bulk insert products: %w", err)
		}
		return result, fmt.Errorf("%w: bulk insert products: %w", domain.ErrStorage, err)
	}
	result.Created = created
	metrics.ProductsCreated.Add(float64(len(created)))

	s.log.Info().
		Int("created", len(created)).
		Int("duplicates", result.Skipped).
		Msg("bulk product insert")
	return result, nil
}
