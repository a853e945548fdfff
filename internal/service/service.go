package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recap/internal/domain"
	"recap/internal/repository"
	"recap/internal/upload"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	store     repository.Store
	threshold float64
	log       zerolog.Logger
	now       func() time.Time
}

func New(store repository.Store, threshold float64, log zerolog.Logger) *Service {
	if threshold <= 0 {
		threshold = upload.DefaultThreshold
	}
	return &Service{
		store:     store,
		threshold: threshold,
		log:       log.With().Str("component", "service").Logger(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// LoadCorpus snapshots the reference names one upload is corrected against.
func (s *Service) LoadCorpus(ctx context.Context) (upload.Corpus, error) {
	var corpus upload.Corpus
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		names, err := s.store.ProductNames(gctx)
		corpus.Products = names
		return err
	})
	g.Go(func() error {
		names, err := s.store.CustomerNames(gctx)
		corpus.Customers = names
		return err
	})
	g.Go(func() error {
		names, err := s.store.StoreNames(gctx)
		corpus.Stores = names
		return err
	})
	if err := g.Wait(); err != nil {
		return upload.Corpus{}, fmt.Errorf("load reference names: %w", err)
	}
	return corpus, nil
}

// ListTransactions returns one month when month and year are set, otherwise
// every transaction, narrowed by filter.
func (s *Service) ListTransactions(ctx context.Context, month, year int, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	var (
		txs []domain.Transaction
		err error
	)
	if month > 0 && year > 0 {
		txs, err = s.store.ListTransactionsByPeriod(ctx, month, year)
	} else {
		txs, err = s.store.ListTransactions(ctx)
	}
	if err != nil {
		return nil, err
	}
	return filterTransactions(txs, filter), nil
}

func (s *Service) CreateTransaction(ctx context.Context, input domain.TransactionInput) (domain.Transaction, error) {
	input = normalizeTransactionInput(input)

	if input.SellingPrice == 0 && input.ItemPurchased != "" {
		products, err := s.store.FindProductsByNames(ctx, []string{input.ItemPurchased})
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("look up catalog price: %w", err)
		}
		if len(products) > 0 {
			input.SellingPrice = products[0].Price
		}
	}

	if err := validateTransactionInput(input); err != nil {
		return domain.Transaction{}, err
	}
	return s.store.CreateTransaction(ctx, domain.NewTransaction(input, s.now()))
}

func (s *Service) UpdateTransaction(ctx context.Context, id uuid.UUID, patch domain.TransactionPatch) (domain.Transaction, error) {
	if err := validateTransactionPatch(patch); err != nil {
		return domain.Transaction{}, err
	}
	return s.store.UpdateTransaction(ctx, id, patch)
}

func (s *Service) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteTransaction(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.store.ListProducts(ctx)
}

func (s *Service) CreateProduct(ctx context.Context, input domain.ProductInput) (domain.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Type = strings.TrimSpace(input.Type)
	if err := validateProductInput(input); err != nil {
		return domain.Product{}, err
	}
	return s.store.CreateProduct(ctx, domain.NewProduct(input, s.now()))
}

func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (domain.Product, error) {
	if err := validateProductPatch(patch); err != nil {
		return domain.Product{}, err
	}
	return s.store.UpdateProduct(ctx, id, patch)
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteProduct(ctx, id)
}

func (s *Service) DeleteProducts(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, validationError("at least one product id is required")
	}
	return s.store.DeleteProducts(ctx, ids)
}

func filterTransactions(txs []domain.Transaction, filter domain.TransactionFilter) []domain.Transaction {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	payment := strings.TrimSpace(filter.PaymentMethod)
	if search == "" && payment == "" {
		return txs
	}

	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if payment != "" && !strings.EqualFold(tx.PaymentMethod, payment) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(tx.ItemPurchased), search) &&
			!strings.Contains(strings.ToLower(tx.CustomerName), search) &&
			!strings.Contains(strings.ToLower(tx.StoreName), search) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
