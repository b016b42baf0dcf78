package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vendora/marketplace/internal/domain"
	"github.com/vendora/marketplace/pkg/database"
	apperrors "github.com/vendora/marketplace/pkg/errors"
)

// CouponRepository implements repository.CouponRepository using PostgreSQL.
type CouponRepository struct {
	pool database.DBTX
}

// NewCouponRepository creates a new PostgreSQL-backed coupon repository.
func NewCouponRepository(pool database.DBTX) *CouponRepository {
	return &CouponRepository{pool: pool}
}

const couponByCodeQuery = `
	SELECT id, code, store_id, discount, starts_at, expires_at
	FROM coupons
	WHERE code = $1`

// ByCode fetches a coupon by its code.
func (r *CouponRepository) ByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	ctx, end := database.TraceQuery(ctx, "CouponByCode", couponByCodeQuery)

	var c domain.Coupon
	err := r.pool.QueryRow(ctx, couponByCodeQuery, code).Scan(
		&c.ID,
		&c.Code,
		&c.StoreID,
		&c.Discount,
		&c.StartsAt,
		&c.ExpiresAt,
	)
	if err != nil {
		end(err)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.CouponInvalid(fmt.Sprintf("coupon %q does not exist", code))
		}
		return nil, fmt.Errorf("get coupon: %w", err)
	}

	end(nil)
	return &c, nil
}
