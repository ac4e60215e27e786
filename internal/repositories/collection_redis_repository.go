package repositories

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"sareehouse/internal/apperrors"
	"sareehouse/internal/models"
)

const collectionKeyPrefix = "collection:"

// toggleWishlistScript removes the member if present, otherwise appends it.
// Returns 1 when the member was added.
var toggleWishlistScript = redis.NewScript(`
local removed = redis.call('LREM', KEYS[1], 0, ARGV[1])
if removed == 0 then
	redis.call('RPUSH', KEYS[1], ARGV[1])
	return 1
end
return 0
`)

// RedisCollectionRepository stores each collection as a Redis list:
// the cart under "collection:<user>:cart", the wishlist under "collection:<user>:wishlist".
type RedisCollectionRepository struct {
	client *redis.Client
}

// NewRedisCollectionRepository creates a Redis-backed collection repository.
func NewRedisCollectionRepository(client *redis.Client) *RedisCollectionRepository {
	return &RedisCollectionRepository{client: client}
}

// Get reads both lists in one MULTI so they describe the same moment.
func (r *RedisCollectionRepository) Get(ctx context.Context, userID string) (models.CollectionState, error) {
	return r.exec(ctx, userID, "failed to load collection", nil)
}

// AppendCart pushes productID onto the cart list.
func (r *RedisCollectionRepository) AppendCart(ctx context.Context, userID, productID string) (models.CollectionState, error) {
	return r.exec(ctx, userID, "failed to append cart entry", func(pipe redis.Pipeliner) {
		pipe.RPush(ctx, cartKey(userID), productID)
	})
}

// RemoveCartItem removes the first occurrence of productID from the cart list.
func (r *RedisCollectionRepository) RemoveCartItem(ctx context.Context, userID, productID string) (models.CollectionState, error) {
	return r.exec(ctx, userID, "failed to remove cart entry", func(pipe redis.Pipeliner) {
		pipe.LRem(ctx, cartKey(userID), 1, productID)
	})
}

// ToggleWishlist flips membership with a Lua script, then reads the new state.
func (r *RedisCollectionRepository) ToggleWishlist(ctx context.Context, userID, productID string) (models.CollectionState, error) {
	if err := toggleWishlistScript.Run(ctx, r.client, []string{wishlistKey(userID)}, productID).Err(); err != nil {
		return models.CollectionState{}, apperrors.Persistence("failed to toggle wishlist entry", err)
	}
	return r.Get(ctx, userID)
}

// Clear deletes both lists.
func (r *RedisCollectionRepository) Clear(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cartKey(userID), wishlistKey(userID)).Err(); err != nil {
		return apperrors.Persistence("failed to clear collection", err)
	}
	return nil
}

// exec queues mutate (if any) followed by reads of both lists in one transaction.
func (r *RedisCollectionRepository) exec(ctx context.Context, userID, op string, mutate func(redis.Pipeliner)) (models.CollectionState, error) {
	var cart, wishlist *redis.StringSliceCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if mutate != nil {
			mutate(pipe)
		}
		cart = pipe.LRange(ctx, cartKey(userID), 0, -1)
		wishlist = pipe.LRange(ctx, wishlistKey(userID), 0, -1)
		return nil
	})
	if err != nil {
		return models.CollectionState{}, apperrors.Persistence(op, err)
	}
	return normalize(models.CollectionState{
		UserID:   userID,
		Cart:     cart.Val(),
		Wishlist: wishlist.Val(),
	}), nil
}

func cartKey(userID string) string {
	return fmt.Sprintf("%s%s:cart", collectionKeyPrefix, userID)
}

func wishlistKey(userID string) string {
	return fmt.Sprintf("%s%s:wishlist", collectionKeyPrefix, userID)
}
