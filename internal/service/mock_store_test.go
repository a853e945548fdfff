package service

import (
	"context"

	"recap/internal/domain"
	"recap/internal/repository"

	"github.com/stretchr/testify/mock"
)

// mockStore stubs the product calls bulk insert makes. Any other Store method
// panics through the nil embedded interface.
type mockStore struct {
	repository.Store
	mock.Mock
}

func (m *mockStore) FindProductsByNames(ctx context.Context, names []string) ([]domain.Product, error) {
	args := m.Called(ctx, names)
	products, _ := args.Get(0).([]domain.Product)
	return products, args.Error(1)
}

func (m *mockStore) CreateProducts(ctx context.Context, products []domain.Product) ([]domain.Product, error) {
	args := m.Called(ctx, products)
	created, _ := args.Get(0).([]domain.Product)
	return created, args.Error(1)
}
