package repositories_test

import (
	"context"
	"fmt"
	"testing"

	"sareehouse/internal/database"
	"sareehouse/internal/models"
	"sareehouse/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupDB opens a private in-memory SQLite database with the storefront schema.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func testProduct(id, category string) *models.Product {
	return &models.Product{
		ID:          id,
		Name:        "Saree " + id,
		Description: "Handwoven",
		Category:    category,
		Images:      []string{"https://res.cloudinary.com/demo/" + id + ".png"},
		Colors:      []string{"Red", "Gold"},
	}
}

func exerciseCollectionStore(t *testing.T, store repositories.CollectionRepository) {
	ctx := context.Background()

	t.Run("empty state", func(t *testing.T) {
		state, err := store.Get(ctx, "nobody")
		require.NoError(t, err)
		require.Equal(t, "nobody", state.UserID)
		require.NotNil(t, state.Cart)
		require.NotNil(t, state.Wishlist)
		require.Empty(t, state.Cart)
		require.Empty(t, state.Wishlist)
	})

	t.Run("cart keeps duplicates in order", func(t *testing.T) {
		for _, id := range []string{"100-A", "200-A", "100-A"} {
			_, err := store.AppendCart(ctx, "u1", id)
			require.NoError(t, err)
		}
		state, err := store.Get(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, []string{"100-A", "200-A", "100-A"}, state.Cart)
	})

	t.Run("remove drops first occurrence only", func(t *testing.T) {
		state, err := store.RemoveCartItem(ctx, "u1", "100-A")
		require.NoError(t, err)
		require.Equal(t, []string{"200-A", "100-A"}, state.Cart)

		state, err = store.RemoveCartItem(ctx, "u1", "999-Z")
		require.NoError(t, err)
		require.Equal(t, []string{"200-A", "100-A"}, state.Cart)
	})

	t.Run("wishlist toggles", func(t *testing.T) {
		state, err := store.ToggleWishlist(ctx, "u1", "300-A")
		require.NoError(t, err)
		require.Equal(t, []string{"300-A"}, state.Wishlist)

		state, err = store.ToggleWishlist(ctx, "u1", "100-B")
		require.NoError(t, err)
		require.Equal(t, []string{"300-A", "100-B"}, state.Wishlist)

		state, err = store.ToggleWishlist(ctx, "u1", "300-A")
		require.NoError(t, err)
		require.Equal(t, []string{"100-B"}, state.Wishlist)
		require.Equal(t, []string{"200-A", "100-A"}, state.Cart, "cart is untouched by wishlist toggles")
	})

	t.Run("users are isolated", func(t *testing.T) {
		_, err := store.AppendCart(ctx, "u2", "500-A")
		require.NoError(t, err)
		state, err := store.Get(ctx, "u1")
		require.NoError(t, err)
		require.NotContains(t, state.Cart, "500-A")
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx, "u1"))
		state, err := store.Get(ctx, "u1")
		require.NoError(t, err)
		require.Empty(t, state.Cart)
		require.Empty(t, state.Wishlist)

		state, err = store.Get(ctx, "u2")
		require.NoError(t, err)
		require.Equal(t, []string{"500-A"}, state.Cart)
	})
}

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}
