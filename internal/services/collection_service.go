package services

import (
	"context"
	"log/slog"
	"time"

	"sareehouse/internal/apperrors"
	"sareehouse/internal/logger"
	"sareehouse/internal/metrics"
	"sareehouse/internal/models"
	"sareehouse/internal/repositories"
	"sareehouse/internal/validation"
)

// EventPublisher delivers collection events to interested consumers.
type EventPublisher interface {
	PublishCollectionEvent(ctx context.Context, event models.CollectionEvent) error
}

// CollectionService manages users' carts and wishlists. It keeps no state of
// its own: every call names the user and returns the resulting state.
type CollectionService struct {
	users       repositories.UserRepository
	products    repositories.ProductRepository
	collections repositories.CollectionRepository
	publisher   EventPublisher
	guard       productGuard
	metrics     *metrics.Metrics
	log         *slog.Logger
}

// NewCollectionService creates a new CollectionService. publisher may be nil.
func NewCollectionService(
	users repositories.UserRepository,
	products repositories.ProductRepository,
	collections repositories.CollectionRepository,
	publisher EventPublisher,
	m *metrics.Metrics,
	log *slog.Logger,
) *CollectionService {
	return &CollectionService{
		users:       users,
		products:    products,
		collections: collections,
		publisher:   publisher,
		guard:       newProductGuard(m, log),
		metrics:     m,
		log:         log,
	}
}

// State returns the user's stored cart and wishlist IDs.
func (s *CollectionService) State(ctx context.Context, userID string) (models.CollectionState, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return models.CollectionState{}, err
	}
	return s.collections.Get(ctx, userID)
}

// AddToCart appends productID to the cart. Adding the same product twice
// leaves two entries.
func (s *CollectionService) AddToCart(ctx context.Context, userID, productID string) (models.CollectionState, error) {
	state, err := s.addToCart(ctx, userID, productID)
	s.record("add_to_cart", err)
	if err != nil {
		return models.CollectionState{}, err
	}
	s.publish(ctx, models.CollectionEvent{
		Type:      models.EventCartItemAdded,
		UserID:    userID,
		ProductID: productID,
		CartSize:  len(state.Cart),
	})
	return state, nil
}

func (s *CollectionService) addToCart(ctx context.Context, userID, productID string) (models.CollectionState, error) {
	if err := checkProductID(productID); err != nil {
		return models.CollectionState{}, err
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return models.CollectionState{}, err
	}
	if _, err := s.guard.lookup(ctx, s.products, productID); err != nil {
		return models.CollectionState{}, err
	}
	return s.collections.AppendCart(ctx, userID, productID)
}

// RemoveFromCart drops one occurrence of productID. Removing a product that is
// not in the cart is a no-op. The product need not exist in the catalog any more.
func (s *CollectionService) RemoveFromCart(ctx context.Context, userID, productID string) (models.CollectionState, error) {
	state, removed, err := s.removeFromCart(ctx, userID, productID)
	s.record("remove_from_cart", err)
	if err != nil {
		return models.CollectionState{}, err
	}
	if removed {
		s.publish(ctx, models.CollectionEvent{
			Type:      models.EventCartItemRemoved,
			UserID:    userID,
			ProductID: productID,
			CartSize:  len(state.Cart),
		})
	}
	return state, nil
}

func (s *CollectionService) removeFromCart(ctx context.Context, userID, productID string) (models.CollectionState, bool, error) {
	if err := checkProductID(productID); err != nil {
		return models.CollectionState{}, false, err
	}
	before, err := s.State(ctx, userID)
	if err != nil {
		return models.CollectionState{}, false, err
	}
	if !before.InCart(productID) {
		return before, false, nil
	}
	state, err := s.collections.RemoveCartItem(ctx, userID, productID)
	if err != nil {
		return models.CollectionState{}, false, err
	}
	return state, true, nil
}

// ToggleWishlist adds productID to the wishlist when absent and removes it
// when present. Only additions require the product to exist.
func (s *CollectionService) ToggleWishlist(ctx context.Context, userID, productID string) (models.CollectionState, error) {
	state, err := s.toggleWishlist(ctx, userID, productID)
	s.record("toggle_wishlist", err)
	if err != nil {
		return models.CollectionState{}, err
	}
	present := state.InWishlist(productID)
	s.publish(ctx, models.CollectionEvent{
		Type:       models.EventWishlistToggled,
		UserID:     userID,
		ProductID:  productID,
		InWishlist: &present,
		CartSize:   len(state.Cart),
	})
	return state, nil
}

func (s *CollectionService) toggleWishlist(ctx context.Context, userID, productID string) (models.CollectionState, error) {
	if err := checkProductID(productID); err != nil {
		return models.CollectionState{}, err
	}
	current, err := s.State(ctx, userID)
	if err != nil {
		return models.CollectionState{}, err
	}
	if !current.InWishlist(productID) {
		if _, err := s.guard.lookup(ctx, s.products, productID); err != nil {
			return models.CollectionState{}, err
		}
	}
	return s.collections.ToggleWishlist(ctx, userID, productID)
}

// GetCart resolves the cart into products, keeping order and duplicates.
// IDs that no longer resolve to a product are skipped.
func (s *CollectionService) GetCart(ctx context.Context, userID string) ([]models.Product, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, state.Cart)
}

// GetWishlist resolves the wishlist into products with the same policy as GetCart.
func (s *CollectionService) GetWishlist(ctx context.Context, userID string) ([]models.Product, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, state.Wishlist)
}

// IsInCart reports whether productID is in a state the caller already holds.
func (s *CollectionService) IsInCart(state models.CollectionState, productID string) bool {
	return state.InCart(productID)
}

// IsInWishlist reports whether productID is in a state the caller already holds.
func (s *CollectionService) IsInWishlist(state models.CollectionState, productID string) bool {
	return state.InWishlist(productID)
}

func (s *CollectionService) resolve(ctx context.Context, ids []string) ([]models.Product, error) {
	resolved := make([]models.Product, 0, len(ids))
	if len(ids) == 0 {
		return resolved, nil
	}
	found, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	stored := make(map[string]bool, len(found))
	for _, p := range found {
		stored[p.ID] = true
	}
	byID := make(map[string]models.Product, len(found))
	for _, p := range s.guard.keepValid(ctx, found) {
		byID[p.ID] = p
	}
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			if stored[id] {
				continue // malformed; already counted by the guard
			}
			s.metrics.UnresolvedProducts.Inc()
			logger.WithContext(ctx, s.log).Warn("skipping unresolved product reference", "product_id", id)
			continue
		}
		resolved = append(resolved, p)
	}
	return resolved, nil
}

func (s *CollectionService) ensureUser(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.Validation("user ID is required")
	}
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound("user", userID)
	}
	return nil
}

func (s *CollectionService) record(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(apperrors.KindOf(err))
	}
	s.metrics.CollectionMutations.WithLabelValues(operation, outcome).Inc()
}

// publish sends event; the mutation has already succeeded, so failures are only logged.
func (s *CollectionService) publish(ctx context.Context, event models.CollectionEvent) {
	if s.publisher == nil {
		return
	}
	event.OccurredAt = time.Now().UTC()
	if err := s.publisher.PublishCollectionEvent(ctx, event); err != nil {
		s.metrics.EventPublishErrors.Inc()
		logger.WithContext(ctx, s.log).Warn("failed to publish collection event",
			"type", event.Type, "product_id", event.ProductID, "error", err)
	}
}

func checkProductID(productID string) error {
	if !validation.ValidProductID(productID) {
		return apperrors.Validationf("malformed product ID %q", productID)
	}
	return nil
}
