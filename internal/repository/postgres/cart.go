package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vendora/marketplace/internal/domain"
	"github.com/vendora/marketplace/pkg/database"
	apperrors "github.com/vendora/marketplace/pkg/errors"
)

// CartRepository implements repository.CartRepository using PostgreSQL.
type CartRepository struct {
	pool database.DBTX
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool database.DBTX) *CartRepository {
	return &CartRepository{pool: pool}
}

const deleteCartByUserQuery = `DELETE FROM carts WHERE user_id = $1`

const insertCartQuery = `
	INSERT INTO carts (id, user_id, sub_total, shipping_fees, total, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

const insertCartItemQuery = `
	INSERT INTO cart_items (cart_id, product_id, variant_id, size_id, store_id,
	                        name, sku, size_label, image_url, quantity,
	                        unit_price, shipping_fee, total_price,
	                        shipping_service, delivery_min_days, delivery_max_days)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

// Replace swaps the user's cart for the given one. The delete and inserts run
// in one transaction so the user never observes a missing or partial cart.
func (r *CartRepository) Replace(ctx context.Context, cart *domain.Cart) (err error) {
	ctx, end := database.TraceQuery(ctx, "ReplaceCart", insertCartQuery)
	defer func() { end(err) }()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, deleteCartByUserQuery, cart.UserID); err != nil {
		return fmt.Errorf("delete previous cart: %w", err)
	}

	_, err = tx.Exec(ctx, insertCartQuery,
		cart.ID,
		cart.UserID,
		cart.SubTotal,
		cart.ShippingFees,
		cart.Total,
		cart.CreatedAt,
		cart.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cart: %w", err)
	}

	for _, item := range cart.Items {
		_, err = tx.Exec(ctx, insertCartItemQuery,
			cart.ID,
			item.ProductID,
			item.VariantID,
			item.SizeID,
			item.StoreID,
			item.Name,
			item.SKU,
			item.SizeLabel,
			item.ImageURL,
			item.Quantity,
			item.UnitPrice,
			item.ShippingFee,
			item.TotalPrice,
			item.ShippingService,
			item.DeliveryMinDays,
			item.DeliveryMaxDays,
		)
		if err != nil {
			return fmt.Errorf("insert cart item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Cart and items are fetched in one query via JSONB_AGG to avoid a second
// round trip per cart.
const getCartQuery = `
	SELECT
		c.id, c.user_id, c.sub_total, c.shipping_fees, c.total,
		c.created_at, c.updated_at,
		COALESCE(
			JSONB_AGG(
				JSONB_BUILD_OBJECT(
					'product_id', ci.product_id,
					'variant_id', ci.variant_id,
					'size_id', ci.size_id,
					'store_id', ci.store_id,
					'name', ci.name,
					'sku', ci.sku,
					'size_label', ci.size_label,
					'image_url', ci.image_url,
					'quantity', ci.quantity,
					'unit_price', ci.unit_price,
					'shipping_fee', ci.shipping_fee,
					'total_price', ci.total_price,
					'shipping_service', ci.shipping_service,
					'delivery_min_days', ci.delivery_min_days,
					'delivery_max_days', ci.delivery_max_days
				) ORDER BY ci.id
			) FILTER (WHERE ci.id IS NOT NULL),
			'[]'
		) AS items
	FROM carts c
	LEFT JOIN cart_items ci ON ci.cart_id = c.id
	WHERE %s
	GROUP BY c.id`

// GetByUser fetches a user's cart with its items.
func (r *CartRepository) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	query := fmt.Sprintf(getCartQuery, "c.user_id = $1")
	ctx, end := database.TraceQuery(ctx, "GetCartByUser", query)

	cart, err := r.scanCart(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		end(err)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("cart", userID)
		}
		return nil, fmt.Errorf("get cart by user: %w", err)
	}

	end(nil)
	return cart, nil
}

// GetByID fetches a cart by id, scoped to the owning user.
func (r *CartRepository) GetByID(ctx context.Context, cartID, userID string) (*domain.Cart, error) {
	query := fmt.Sprintf(getCartQuery, "c.id = $1 AND c.user_id = $2")
	ctx, end := database.TraceQuery(ctx, "GetCartByID", query)

	cart, err := r.scanCart(r.pool.QueryRow(ctx, query, cartID, userID))
	if err != nil {
		end(err)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("cart", cartID)
		}
		return nil, fmt.Errorf("get cart by id: %w", err)
	}

	end(nil)
	return cart, nil
}

func (r *CartRepository) scanCart(row pgx.Row) (*domain.Cart, error) {
	var (
		cart      domain.Cart
		itemsJSON []byte
	)

	err := row.Scan(
		&cart.ID,
		&cart.UserID,
		&cart.SubTotal,
		&cart.ShippingFees,
		&cart.Total,
		&cart.CreatedAt,
		&cart.UpdatedAt,
		&itemsJSON,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &cart.Items); err != nil {
		return nil, fmt.Errorf("unmarshal cart items: %w", err)
	}

	return &cart, nil
}
