package service

import (
	"context"
	"errors"
	"testing"

	"recap/internal/domain"
	"recap/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func productInputs(names ...string) []domain.ProductInput {
	inputs := make([]domain.ProductInput, 0, len(names))
	for _, name := range names {
		inputs = append(inputs, domain.ProductInput{Name: name, Type: "General", Price: 1000})
	}
	return inputs
}

func createdNames(products []domain.Product) []string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return names
}

func TestBulkInsertProducts_Idempotent(t *testing.T) {
	svc := New(repository.NewMemory(), 0, zerolog.Nop())
	ctx := context.Background()

	first, err := svc.BulkInsertProducts(ctx, productInputs("A", "A", "B"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, createdNames(first.Created))
	assert.Equal(t, []string{"A"}, first.Duplicates)
	assert.Equal(t, 1, first.Skipped)

	second, err := svc.BulkInsertProducts(ctx, productInputs("A", "A", "B"))
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Equal(t, []string{"A", "A", "B"}, second.Duplicates)
	assert.Equal(t, 3, second.Skipped)
}

func TestBulkInsertProducts_NamesAreCaseSensitive(t *testing.T) {
	svc := New(repository.NewMemory(), 0, zerolog.Nop())

	result, err := svc.BulkInsertProducts(context.Background(), productInputs("Mug", "mug"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Mug", "mug"}, createdNames(result.Created))
	assert.Empty(t, result.Duplicates)
}

func TestBulkInsertProducts_NothingNewSkipsWrite(t *testing.T) {
	store := &mockStore{}
	store.On("FindProductsByNames", mock.Anything, []string{"A"}).
		Return([]domain.Product{{Name: "A"}}, nil)
	svc := New(store, 0, zerolog.Nop())

	result, err := svc.BulkInsertProducts(context.Background(), productInputs("A"))
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	assert.Equal(t, []string{"A"}, result.Duplicates)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "CreateProducts", mock.Anything, mock.Anything)
}

func TestBulkInsertProducts_RaceReportsDuplicateName(t *testing.T) {
	store := &mockStore{}
	store.On("FindProductsByNames", mock.Anything, []string{"A", "B"}).
		Return([]domain.Product{}, nil)
	store.On("CreateProducts", mock.Anything, mock.Anything).
		Return(nil, domain.ErrDuplicateName)
	svc := New(store, 0, zerolog.Nop())

	result, err := svc.BulkInsertProducts(context.Background(), productInputs("A", "B", "B"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateName))
	assert.False(t, errors.Is(err, domain.ErrStorage))
	assert.Equal(t, []string{"B"}, result.Duplicates)
	assert.Equal(t, 1, result.Skipped)
	store.AssertExpectations(t)
}

func TestBulkInsertProducts_StorageFailures(t *testing.T) {
	t.Run("existence check", func(t *testing.T) {
		store := &mockStore{}
		store.On("FindProductsByNames", mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused"))
		svc := New(store, 0, zerolog.Nop())

		result, err := svc.BulkInsertProducts(context.Background(), productInputs("A", "A"))
		assert.True(t, errors.Is(err, domain.ErrStorage))
		assert.Equal(t, 1, result.Skipped)
	})

	t.Run("insert", func(t *testing.T) {
		store := &mockStore{}
		store.On("FindProductsByNames", mock.Anything, mock.Anything).
			Return([]domain.Product{}, nil)
		store.On("CreateProducts", mock.Anything, mock.Anything).
			Return(nil, errors.New("disk full"))
		svc := New(store, 0, zerolog.Nop())

		result, err := svc.BulkInsertProducts(context.Background(), productInputs("A"))
		assert.True(t, errors.Is(err, domain.ErrStorage))
		assert.False(t, errors.Is(err, domain.ErrDuplicateName))
		assert.Empty(t, result.Created)
	})
}
