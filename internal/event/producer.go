package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vendora/marketplace/internal/domain"
	pkgkafka "github.com/vendora/marketplace/pkg/kafka"
)

// Kafka topic constants for cart and order domain events.
const (
	TopicCartSaved   = "marketplace.cart.saved"
	TopicOrderPlaced = "marketplace.order.placed"
)

// Aggregate type constants.
const (
	AggregateTypeCart  = "cart"
	AggregateTypeOrder = "order"
)

// Source identifier for events originating from the checkout engine.
const SourceCheckout = "checkout-engine"

// CartSavedData is the payload for a cart.saved event.
type CartSavedData struct {
	CartID       string `json:"cart_id"`
	UserID       string `json:"user_id"`
	ItemCount    int    `json:"item_count"`
	SubTotal     int64  `json:"sub_total"`
	ShippingFees int64  `json:"shipping_fees"`
	Total        int64  `json:"total"`
}

// OrderPlacedData is the payload for an order.placed event.
type OrderPlacedData struct {
	OrderID      string                 `json:"order_id"`
	UserID       string                 `json:"user_id"`
	Groups       []OrderGroupPlacedData `json:"groups"`
	SubTotal     int64                  `json:"sub_total"`
	ShippingFees int64                  `json:"shipping_fees"`
	Total        int64                  `json:"total"`
}

// OrderGroupPlacedData is the per-store slice of an order.placed payload.
type OrderGroupPlacedData struct {
	GroupID        string `json:"group_id"`
	StoreID        string `json:"store_id"`
	ItemCount      int    `json:"item_count"`
	CouponID       string `json:"coupon_id,omitempty"`
	CouponDiscount int64  `json:"coupon_discount"`
	Total          int64  `json:"total"`
}

// Producer publishes cart and order domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the checkout engine.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartSaved publishes a cart.saved event with the cart aggregates.
func (p *Producer) PublishCartSaved(ctx context.Context, cart *domain.Cart) error {
	data := CartSavedData{
		CartID:       cart.ID,
		UserID:       cart.UserID,
		ItemCount:    cart.ItemCount(),
		SubTotal:     cart.SubTotal,
		ShippingFees: cart.ShippingFees,
		Total:        cart.Total,
	}

	event, err := pkgkafka.NewEvent(TopicCartSaved, cart.ID, AggregateTypeCart, SourceCheckout, data)
	if err != nil {
		return fmt.Errorf("create cart.saved event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartSaved, event); err != nil {
		return fmt.Errorf("publish cart.saved event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.saved event",
		slog.String("cart_id", cart.ID),
		slog.String("user_id", cart.UserID),
	)

	return nil
}

// PublishOrderPlaced publishes an order.placed event with the group totals.
func (p *Producer) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	groups := make([]OrderGroupPlacedData, len(order.Groups))
	for i, g := range order.Groups {
		groups[i] = OrderGroupPlacedData{
			GroupID:        g.ID,
			StoreID:        g.StoreID,
			ItemCount:      len(g.Items),
			CouponID:       g.CouponID,
			CouponDiscount: g.CouponDiscount,
			Total:          g.Total,
		}
	}

	data := OrderPlacedData{
		OrderID:      order.ID,
		UserID:       order.UserID,
		Groups:       groups,
		SubTotal:     order.SubTotal,
		ShippingFees: order.ShippingFees,
		Total:        order.Total,
	}

	event, err := pkgkafka.NewEvent(TopicOrderPlaced, order.ID, AggregateTypeOrder, SourceCheckout, data)
	if err != nil {
		return fmt.Errorf("create order.placed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderPlaced, event); err != nil {
		return fmt.Errorf("publish order.placed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.placed event",
		slog.String("order_id", order.ID),
		slog.String("user_id", order.UserID),
	)

	return nil
}
