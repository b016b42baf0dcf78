package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vendora/marketplace/internal/domain"
	"github.com/vendora/marketplace/internal/repository"
	apperrors "github.com/vendora/marketplace/pkg/errors"
)

// Validator validates and prices one cart line. Implemented by LineValidator.
type Validator interface {
	ValidateLine(ctx context.Context, line domain.CartLine, country *domain.Country) (*domain.CartItem, error)
}

// DestinationResolver maps a submitted destination to a served country.
// Implemented by ShippingService.
type DestinationResolver interface {
	ResolveDestination(ctx context.Context, dest Destination) (*domain.Country, error)
}

// CartEventProducer publishes cart lifecycle events.
type CartEventProducer interface {
	PublishCartSaved(ctx context.Context, cart *domain.Cart) error
}

// CartService assembles and persists carts.
type CartService struct {
	cartRepo  repository.CartRepository
	validator Validator
	resolver  DestinationResolver
	producer  CartEventProducer
	logger    *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(cartRepo repository.CartRepository, validator Validator, resolver DestinationResolver, producer CartEventProducer, logger *slog.Logger) *CartService {
	return &CartService{
		cartRepo:  cartRepo,
		validator: validator,
		resolver:  resolver,
		producer:  producer,
		logger:    logger,
	}
}

// SaveCart validates every submitted line against the catalog, aggregates the
// totals, and replaces the user's cart. Lines are validated concurrently;
// any line failing resolution aborts the whole save and leaves the previous
// cart untouched.
func (s *CartService) SaveCart(ctx context.Context, userID string, lines []domain.CartLine, dest Destination) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated("user identity is required")
	}
	if len(lines) == 0 {
		return nil, apperrors.InvalidInput("cart must contain at least one line")
	}

	country, err := s.resolver.ResolveDestination(ctx, dest)
	if err != nil {
		return nil, err
	}

	items := make([]domain.CartItem, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	for i, line := range lines {
		g.Go(func() error {
			item, err := s.validator.ValidateLine(gctx, line, country)
			if err != nil {
				return err
			}
			items[i] = *item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cart := &domain.Cart{
		ID:        uuid.New().String(),
		UserID:    userID,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
	cart.Recalculate()

	if err := s.cartRepo.Replace(ctx, cart); err != nil {
		return nil, fmt.Errorf("persist cart: %w", err)
	}

	// Event publishing is best effort; a saved cart is valid even when the
	// broker is down.
	if err := s.producer.PublishCartSaved(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.saved event",
			slog.String("cart_id", cart.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart saved",
		slog.String("cart_id", cart.ID),
		slog.String("user_id", userID),
		slog.Int("items", len(cart.Items)),
		slog.Int64("total", cart.Total),
	)

	return cart, nil
}

// GetCart fetches the user's current cart.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated("user identity is required")
	}
	return s.cartRepo.GetByUser(ctx, userID)
}
