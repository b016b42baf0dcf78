package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vendora/marketplace/internal/domain"
	"github.com/vendora/marketplace/internal/repository"
	apperrors "github.com/vendora/marketplace/pkg/errors"
)

// OrderEventProducer publishes order lifecycle events.
type OrderEventProducer interface {
	PublishOrderPlaced(ctx context.Context, order *domain.Order) error
}

// OrderService turns saved carts into placed orders.
type OrderService struct {
	orderRepo  repository.OrderRepository
	cartRepo   repository.CartRepository
	couponRepo repository.CouponRepository
	validator  Validator
	resolver   DestinationResolver
	producer   OrderEventProducer
	logger     *slog.Logger
	now        func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	couponRepo repository.CouponRepository,
	validator Validator,
	resolver DestinationResolver,
	producer OrderEventProducer,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		cartRepo:   cartRepo,
		couponRepo: couponRepo,
		validator:  validator,
		resolver:   resolver,
		producer:   producer,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// PlaceOrder revalidates every line of the saved cart against the address's
// country, partitions the result into one group per store, applies the
// coupon to its store's group, and persists the order while decrementing
// stock. Prices and stock are re-derived at placement time; nothing is
// trusted from the saved cart.
func (s *OrderService) PlaceOrder(ctx context.Context, userID, cartID string, address domain.Address, couponCode string) (*domain.Order, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated("user identity is required")
	}
	if cartID == "" {
		return nil, apperrors.InvalidInput("cart id is required")
	}

	cart, err := s.cartRepo.GetByID(ctx, cartID, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	coupon, err := s.resolveCoupon(ctx, couponCode, cart)
	if err != nil {
		return nil, err
	}

	country, err := s.resolver.ResolveDestination(ctx, Destination{
		CountryName: address.CountryName,
		CountryCode: address.CountryCode,
	})
	if err != nil {
		return nil, err
	}

	items := make([]domain.CartItem, len(cart.Items))

	g, gctx := errgroup.WithContext(ctx)
	for i, saved := range cart.Items {
		line := domain.CartLine{
			ProductID: saved.ProductID,
			VariantID: saved.VariantID,
			SizeID:    saved.SizeID,
			Quantity:  saved.Quantity,
		}
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

	order := s.buildOrder(userID, items, address, coupon)

	decrements := make([]repository.StockDecrement, 0, len(items))
	for _, item := range items {
		if item.Quantity > 0 {
			decrements = append(decrements, repository.StockDecrement{
				SizeID:   item.SizeID,
				Quantity: item.Quantity,
			})
		}
	}

	if err := s.orderRepo.Create(ctx, order, cartID, decrements); err != nil {
		return nil, err
	}

	if err := s.producer.PublishOrderPlaced(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("user_id", userID),
		slog.Int("groups", len(order.Groups)),
		slog.Int64("total", order.Total),
	)

	return order, nil
}

// GetOrder fetches an order owned by the user.
func (s *OrderService) GetOrder(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated("user identity is required")
	}
	return s.orderRepo.GetByID(ctx, orderID, userID)
}

// resolveCoupon checks the coupon precondition before any totals are
// computed: it must exist, be active, and match a store present in the cart.
func (s *OrderService) resolveCoupon(ctx context.Context, code string, cart *domain.Cart) (*domain.Coupon, error) {
	if code == "" {
		return nil, nil
	}

	coupon, err := s.couponRepo.ByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !coupon.ActiveAt(s.now()) {
		return nil, apperrors.CouponInvalid(fmt.Sprintf("coupon %q is not active", code))
	}

	for _, item := range cart.Items {
		if item.StoreID == coupon.StoreID {
			return coupon, nil
		}
	}
	return nil, apperrors.CouponInvalid(fmt.Sprintf("coupon %q does not apply to any store in this cart", code))
}

// buildOrder partitions validated items by store, ordering groups by store
// id so the placement response lists them the same way later reads do, and
// computes all aggregates.
func (s *OrderService) buildOrder(userID string, items []domain.CartItem, address domain.Address, coupon *domain.Coupon) *domain.Order {
	now := s.now()

	order := &domain.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Status:          domain.OrderStatusPending,
		ShippingAddress: address,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	groupIndex := make(map[string]int)
	for _, item := range items {
		idx, ok := groupIndex[item.StoreID]
		if !ok {
			idx = len(order.Groups)
			groupIndex[item.StoreID] = idx
			order.Groups = append(order.Groups, domain.OrderGroup{
				ID:              uuid.New().String(),
				OrderID:         order.ID,
				StoreID:         item.StoreID,
				Status:          domain.OrderStatusPending,
				ShippingService: item.ShippingService,
				DeliveryMinDays: item.DeliveryMinDays,
				DeliveryMaxDays: item.DeliveryMaxDays,
			})
		}

		g := &order.Groups[idx]
		g.Items = append(g.Items, domain.OrderItem{
			ID:          uuid.New().String(),
			GroupID:     g.ID,
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			SizeID:      item.SizeID,
			Name:        item.Name,
			SKU:         item.SKU,
			SizeLabel:   item.SizeLabel,
			ImageURL:    item.ImageURL,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			ShippingFee: item.ShippingFee,
			TotalPrice:  item.TotalPrice,
		})
	}

	sort.Slice(order.Groups, func(i, j int) bool {
		return order.Groups[i].StoreID < order.Groups[j].StoreID
	})

	for i := range order.Groups {
		g := &order.Groups[i]
		g.Recalculate()

		if coupon != nil && coupon.StoreID == g.StoreID {
			g.CouponID = coupon.ID
			g.CouponDiscount = coupon.DiscountAmount(g.SubTotal + g.ShippingFees)
			g.Recalculate()
		}
	}

	order.Recalculate()
	return order
}
