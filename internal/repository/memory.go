package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"recap/internal/domain"

	"github.com/google/uuid"
)

// Memory is the in-process store used when no database is configured and in
// tests. Values are copied on the way in and out.
type Memory struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]domain.Transaction
	products     map[uuid.UUID]domain.Product
	customers    []string
	stores       []string
}

func NewMemory() *Memory {
	return &Memory{
		transactions: make(map[uuid.UUID]domain.Transaction),
		products:     make(map[uuid.UUID]domain.Product),
	}
}

// AddReferenceNames registers customer and store names that exist outside
// recorded transactions.
func (m *Memory) AddReferenceNames(_ context.Context, customers, stores []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers = append(m.customers, customers...)
	m.stores = append(m.stores, stores...)
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

func (m *Memory) CreateTransaction(_ context.Context, tx domain.Transaction) (domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[tx.ID] = copyTransaction(tx)
	return copyTransaction(tx), nil
}

func (m *Memory) CreateTransactions(_ context.Context, txs []domain.Transaction) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		m.transactions[tx.ID] = copyTransaction(tx)
		created = append(created, copyTransaction(tx))
	}
	return created, nil
}

func (m *Memory) UpdateTransaction(_ context.Context, id uuid.UUID, patch domain.TransactionPatch) (domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok {
		return domain.Transaction{}, domain.ErrNotFound
	}
	tx.Apply(patch, time.Now().UTC())
	m.transactions[id] = copyTransaction(tx)
	return copyTransaction(tx), nil
}

func (m *Memory) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.transactions, id)
	return nil
}

func (m *Memory) ListTransactionsByPeriod(_ context.Context, month, year int) ([]domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Transaction, 0)
	for _, tx := range m.transactions {
		if tx.Month == month && tx.Year == year {
			out = append(out, copyTransaction(tx))
		}
	}
	sortTransactions(out)
	return out, nil
}

func (m *Memory) ListTransactions(context.Context) ([]domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Transaction, 0, len(m.transactions))
	for _, tx := range m.transactions {
		out = append(out, copyTransaction(tx))
	}
	sortTransactions(out)
	return out, nil
}

func (m *Memory) CreateProduct(_ context.Context, product domain.Product) (domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nameTakenLocked(product.Name, uuid.Nil) {
		return domain.Product{}, domain.ErrDuplicateName
	}
	m.products[product.ID] = product
	return product, nil
}

// CreateProducts is all-or-nothing, like the SQL stores.
func (m *Memory) CreateProducts(_ context.Context, products []domain.Product) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	batch := make(map[string]struct{}, len(products))
	for _, product := range products {
		if _, seen := batch[product.Name]; seen || m.nameTakenLocked(product.Name, uuid.Nil) {
			return nil, domain.ErrDuplicateName
		}
		batch[product.Name] = struct{}{}
	}
	created := make([]domain.Product, 0, len(products))
	for _, product := range products {
		m.products[product.ID] = product
		created = append(created, product)
	}
	return created, nil
}

func (m *Memory) FindProductsByNames(_ context.Context, names []string) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}
	out := make([]domain.Product, 0)
	for _, product := range m.products {
		if _, ok := wanted[product.Name]; ok {
			out = append(out, product)
		}
	}
	sortProducts(out)
	return out, nil
}

func (m *Memory) UpdateProduct(_ context.Context, id uuid.UUID, patch domain.ProductPatch) (domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	if patch.Name != nil && m.nameTakenLocked(*patch.Name, id) {
		return domain.Product{}, domain.ErrDuplicateName
	}
	product.Apply(patch, time.Now().UTC())
	m.products[id] = product
	return product, nil
}

func (m *Memory) DeleteProduct(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *Memory) DeleteProducts(_ context.Context, ids []uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := 0
	for _, id := range ids {
		if _, ok := m.products[id]; ok {
			delete(m.products, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *Memory) ListProducts(context.Context) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Product, 0, len(m.products))
	for _, product := range m.products {
		out = append(out, product)
	}
	sortProducts(out)
	return out, nil
}

func (m *Memory) ProductNames(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.products))
	for _, product := range m.products {
		names = append(names, product.Name)
	}
	return uniqueSorted(names), nil
}

func (m *Memory) CustomerNames(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := append([]string{}, m.customers...)
	for _, tx := range m.transactions {
		names = append(names, tx.CustomerName)
	}
	return uniqueSorted(names), nil
}

func (m *Memory) StoreNames(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := append([]string{}, m.stores...)
	for _, tx := range m.transactions {
		names = append(names, tx.StoreName)
	}
	return uniqueSorted(names), nil
}

func (m *Memory) nameTakenLocked(name string, except uuid.UUID) bool {
	for id, product := range m.products {
		if id != except && product.Name == name {
			return true
		}
	}
	return false
}

func copyTransaction(tx domain.Transaction) domain.Transaction {
	if tx.Notes != nil {
		notes := *tx.Notes
		tx.Notes = &notes
	}
	return tx
}

func sortTransactions(txs []domain.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
}

func sortProducts(products []domain.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}
