package repository

import (
	"context"
	"fmt"
	"loyalty_rewards/internal/domain/loyalty/model"
	"loyalty_rewards/pkg/kvstore"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShopRepository(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	repo := NewShopRepository(store)
	createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	shop := &model.Shop{Slug: "acme", Name: "Acme", Threshold: 3, Secret: "abcd", Emoji: "⭐", CreatedAt: createdAt}
	require.NoError(t, repo.Create(ctx, shop))

	t.Run("Duplicate slug keeps original", func(t *testing.T) {
		err := repo.Create(ctx, &model.Shop{Slug: "acme", Name: "Other", Threshold: 5, Secret: "zzzz"})
		assert.ErrorIs(t, err, ErrShopExists)

		got, err := repo.GetBySlug(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, "Acme", got.Name)
		assert.Equal(t, "abcd", got.Secret)
		assert.Equal(t, 3, got.Threshold)
		assert.True(t, createdAt.Equal(got.CreatedAt))
	})

	t.Run("Missing shop", func(t *testing.T) {
		_, err := repo.GetBySlug(ctx, "nope")
		assert.ErrorIs(t, err, ErrShopNotFound)
	})

	t.Run("Record carries schema version and secret", func(t *testing.T) {
		e, err := store.Get(ctx, "shop:acme")
		require.NoError(t, err)
		assert.Contains(t, string(e.Value), `"schemaVersion":1`)
		assert.Contains(t, string(e.Value), `"secret":"abcd"`)
	})

	t.Run("Newer schema is rejected", func(t *testing.T) {
		_, err := store.Create(ctx, "shop:future", []byte(`{"schemaVersion":2,"slug":"future"}`))
		require.NoError(t, err)
		_, err = repo.GetBySlug(ctx, "future")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrShopNotFound)
	})
}

func TestCustomerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository(kvstore.NewMemoryStore())

	account, err := repo.Get(ctx, "acme", "555")
	require.NoError(t, err)
	assert.False(t, account.Exists())
	assert.Equal(t, 0, account.Points)
	assert.Equal(t, "acme", account.ShopSlug)
	assert.Equal(t, "555", account.CustomerID)

	account.Points = 1
	account.LastConsumedCode = "123456"
	require.NoError(t, repo.Save(ctx, account))
	assert.Equal(t, int64(1), account.Version)

	t.Run("Stale create conflicts", func(t *testing.T) {
		stale := &model.CustomerAccount{ShopSlug: "acme", CustomerID: "555", Points: 7}
		assert.ErrorIs(t, repo.Save(ctx, stale), ErrAccountConflict)
	})

	t.Run("Stale update conflicts", func(t *testing.T) {
		first, err := repo.Get(ctx, "acme", "555")
		require.NoError(t, err)
		second, err := repo.Get(ctx, "acme", "555")
		require.NoError(t, err)

		first.Points = 2
		require.NoError(t, repo.Save(ctx, first))

		second.Points = 9
		assert.ErrorIs(t, repo.Save(ctx, second), ErrAccountConflict)

		got, err := repo.Get(ctx, "acme", "555")
		require.NoError(t, err)
		assert.Equal(t, 2, got.Points)
		assert.Equal(t, "123456", got.LastConsumedCode)
		assert.Equal(t, int64(2), got.Version)
	})

	t.Run("Accounts are scoped per shop", func(t *testing.T) {
		other, err := repo.Get(ctx, "other-shop", "555")
		require.NoError(t, err)
		assert.False(t, other.Exists())
	})
}

func TestActivityRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewActivityRepository(kvstore.NewMemoryStore(), 3, 5)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	items, err := repo.List(ctx, "acme", "555")
	require.NoError(t, err)
	assert.Empty(t, items)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Append(ctx, "acme", "555", model.Activity{
			ID:     fmt.Sprintf("a%d", i),
			Type:   model.ActivityEarn,
			Points: i,
			At:     base.Add(time.Duration(i) * time.Minute),
		}))
	}

	items, err = repo.List(ctx, "acme", "555")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "a4", items[0].ID)
	assert.Equal(t, "a3", items[1].ID)
	assert.Equal(t, "a2", items[2].ID)
}

func TestActivityRepositoryConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	repo := NewActivityRepository(kvstore.NewMemoryStore(), 100, 50)

	const writers = 10
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.Append(ctx, "acme", "555", model.Activity{ID: fmt.Sprintf("a%d", i)}))
		}(i)
	}
	wg.Wait()

	items, err := repo.List(ctx, "acme", "555")
	require.NoError(t, err)
	assert.Len(t, items, writers)
}
