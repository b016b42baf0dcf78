package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vendora/marketplace/internal/domain"
	"github.com/vendora/marketplace/internal/repository"
	"github.com/vendora/marketplace/pkg/database"
	apperrors "github.com/vendora/marketplace/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Conditional decrement: the row is only updated when enough stock remains,
// so two concurrent placements can never drive quantity negative.
const decrementStockQuery = `
	UPDATE sizes SET quantity = quantity - $2 WHERE id = $1 AND quantity >= $2`

const insertOrderQuery = `
	INSERT INTO orders (id, user_id, status, sub_total, shipping_fees, total,
	                    shipping_address, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const insertOrderGroupQuery = `
	INSERT INTO order_groups (id, order_id, store_id, status, coupon_id,
	                          coupon_discount, sub_total, shipping_fees, total,
	                          shipping_service, delivery_min_days, delivery_max_days)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

const insertOrderItemQuery = `
	INSERT INTO order_items (id, group_id, product_id, variant_id, size_id,
	                         name, sku, size_label, image_url, quantity,
	                         unit_price, shipping_fee, total_price)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

const deleteCartByIDQuery = `DELETE FROM carts WHERE id = $1`

// Create persists the order, decrements stock, and consumes the source cart
// in one transaction. A decrement that finds insufficient stock rolls the
// whole placement back.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order, cartID string, decrements []repository.StockDecrement) (err error) {
	ctx, end := database.TraceQuery(ctx, "CreateOrder", insertOrderQuery)
	defer func() { end(err) }()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, d := range decrements {
		tag, err := tx.Exec(ctx, decrementStockQuery, d.SizeID, d.Quantity)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.OutOfStock(d.SizeID, d.Quantity)
		}
	}

	addressJSON, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("marshal shipping address: %w", err)
	}

	_, err = tx.Exec(ctx, insertOrderQuery,
		o.ID,
		o.UserID,
		o.Status,
		o.SubTotal,
		o.ShippingFees,
		o.Total,
		addressJSON,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, g := range o.Groups {
		var couponID *string
		if g.CouponID != "" {
			couponID = &g.CouponID
		}

		_, err = tx.Exec(ctx, insertOrderGroupQuery,
			g.ID,
			g.OrderID,
			g.StoreID,
			g.Status,
			couponID,
			g.CouponDiscount,
			g.SubTotal,
			g.ShippingFees,
			g.Total,
			g.ShippingService,
			g.DeliveryMinDays,
			g.DeliveryMaxDays,
		)
		if err != nil {
			return fmt.Errorf("insert order group: %w", err)
		}

		for _, item := range g.Items {
			_, err = tx.Exec(ctx, insertOrderItemQuery,
				item.ID,
				item.GroupID,
				item.ProductID,
				item.VariantID,
				item.SizeID,
				item.Name,
				item.SKU,
				item.SizeLabel,
				item.ImageURL,
				item.Quantity,
				item.UnitPrice,
				item.ShippingFee,
				item.TotalPrice,
			)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
	}

	if _, err := tx.Exec(ctx, deleteCartByIDQuery, cartID); err != nil {
		return fmt.Errorf("delete consumed cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

const getOrderQuery = `
	SELECT id, user_id, status, sub_total, shipping_fees, total,
	       shipping_address, created_at, updated_at
	FROM orders
	WHERE id = $1 AND user_id = $2`

const getOrderGroupsQuery = `
	SELECT
		g.id, g.order_id, g.store_id, g.status, g.coupon_id, g.coupon_discount,
		g.sub_total, g.shipping_fees, g.total, g.shipping_service,
		g.delivery_min_days, g.delivery_max_days,
		COALESCE(
			JSONB_AGG(
				JSONB_BUILD_OBJECT(
					'id', oi.id,
					'group_id', oi.group_id,
					'product_id', oi.product_id,
					'variant_id', oi.variant_id,
					'size_id', oi.size_id,
					'name', oi.name,
					'sku', oi.sku,
					'size_label', oi.size_label,
					'image_url', oi.image_url,
					'quantity', oi.quantity,
					'unit_price', oi.unit_price,
					'shipping_fee', oi.shipping_fee,
					'total_price', oi.total_price
				) ORDER BY oi.id
			) FILTER (WHERE oi.id IS NOT NULL),
			'[]'
		) AS items
	FROM order_groups g
	LEFT JOIN order_items oi ON oi.group_id = g.id
	WHERE g.order_id = $1
	GROUP BY g.id
	ORDER BY g.store_id`

// GetByID fetches an order with its groups and items, scoped to the owning
// user.
func (r *OrderRepository) GetByID(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	ctx, end := database.TraceQuery(ctx, "GetOrderByID", getOrderQuery)

	var (
		o           domain.Order
		addressJSON []byte
	)

	err := r.pool.QueryRow(ctx, getOrderQuery, orderID, userID).Scan(
		&o.ID,
		&o.UserID,
		&o.Status,
		&o.SubTotal,
		&o.ShippingFees,
		&o.Total,
		&addressJSON,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		end(err)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", orderID)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if err := json.Unmarshal(addressJSON, &o.ShippingAddress); err != nil {
		end(err)
		return nil, fmt.Errorf("unmarshal shipping address: %w", err)
	}

	if !domain.IsValidStatus(o.Status) {
		err := fmt.Errorf("order %s has unknown status %q", orderID, o.Status)
		end(err)
		return nil, err
	}

	rows, err := r.pool.Query(ctx, getOrderGroupsQuery, orderID)
	if err != nil {
		end(err)
		return nil, fmt.Errorf("get order groups: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			g         domain.OrderGroup
			couponID  *string
			itemsJSON []byte
		)

		err := rows.Scan(
			&g.ID,
			&g.OrderID,
			&g.StoreID,
			&g.Status,
			&couponID,
			&g.CouponDiscount,
			&g.SubTotal,
			&g.ShippingFees,
			&g.Total,
			&g.ShippingService,
			&g.DeliveryMinDays,
			&g.DeliveryMaxDays,
			&itemsJSON,
		)
		if err != nil {
			end(err)
			return nil, fmt.Errorf("scan order group: %w", err)
		}

		if couponID != nil {
			g.CouponID = *couponID
		}

		if err := json.Unmarshal(itemsJSON, &g.Items); err != nil {
			end(err)
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}

		o.Groups = append(o.Groups, g)
	}
	if err := rows.Err(); err != nil {
		end(err)
		return nil, fmt.Errorf("iterate order groups: %w", err)
	}

	end(nil)
	return &o, nil
}
