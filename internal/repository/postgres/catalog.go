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

// CatalogRepository implements repository.CatalogRepository using PostgreSQL.
type CatalogRepository struct {
	pool database.DBTX
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool database.DBTX) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

const resolveLineQuery = `
	SELECT
		p.id, p.store_id, p.name, p.fee_method,
		v.id, v.product_id, v.sku, v.name, v.image_url, v.weight_grams,
		s.id, s.label, s.price, s.discount, s.quantity,
		fsp.id, fsp.all_countries
	FROM products p
	JOIN variants v ON v.product_id = p.id AND v.id = $2
	JOIN sizes s ON s.variant_id = v.id AND s.id = $3
	LEFT JOIN free_shipping_policies fsp ON fsp.product_id = p.id
	WHERE p.id = $1`

const policyCountriesQuery = `
	SELECT country_id FROM free_shipping_countries WHERE policy_id = $1 ORDER BY country_id`

const productByIDQuery = `
	SELECT p.id, p.store_id, p.name, p.fee_method, fsp.id, fsp.all_countries
	FROM products p
	LEFT JOIN free_shipping_policies fsp ON fsp.product_id = p.id
	WHERE p.id = $1`

// ResolveLine fetches the product/variant/size chain for one cart line in a
// single joined read. A chain that does not resolve is reported as an invalid
// combination, never as three separate lookups that partially succeed.
func (r *CatalogRepository) ResolveLine(ctx context.Context, productID, variantID, sizeID string) (*domain.ResolvedLine, error) {
	ctx, end := database.TraceQuery(ctx, "ResolveLine", resolveLineQuery)

	var (
		line         domain.ResolvedLine
		policyID     *string
		allCountries *bool
	)

	err := r.pool.QueryRow(ctx, resolveLineQuery, productID, variantID, sizeID).Scan(
		&line.Product.ID,
		&line.Product.StoreID,
		&line.Product.Name,
		&line.Product.FeeMethod,
		&line.Variant.ID,
		&line.Variant.ProductID,
		&line.Variant.SKU,
		&line.Variant.Name,
		&line.Variant.ImageURL,
		&line.Variant.WeightGrams,
		&line.Size.ID,
		&line.Size.Label,
		&line.Size.Price,
		&line.Size.Discount,
		&line.Size.Quantity,
		&policyID,
		&allCountries,
	)
	if err != nil {
		end(err)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.InvalidCombination(productID, variantID, sizeID)
		}
		return nil, fmt.Errorf("resolve line: %w", err)
	}

	if policyID != nil {
		policy, err := r.loadPolicy(ctx, *policyID, line.Product.ID, allCountries)
		if err != nil {
			end(err)
			return nil, err
		}
		line.Product.FreeShipping = policy
	}

	end(nil)
	return &line, nil
}

// ProductByID fetches a product with its free-shipping policy.
func (r *CatalogRepository) ProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	ctx, end := database.TraceQuery(ctx, "ProductByID", productByIDQuery)

	var (
		p            domain.Product
		policyID     *string
		allCountries *bool
	)

	err := r.pool.QueryRow(ctx, productByIDQuery, productID).Scan(
		&p.ID, &p.StoreID, &p.Name, &p.FeeMethod, &policyID, &allCountries,
	)
	if err != nil {
		end(err)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", productID)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	if policyID != nil {
		policy, err := r.loadPolicy(ctx, *policyID, p.ID, allCountries)
		if err != nil {
			end(err)
			return nil, err
		}
		p.FreeShipping = policy
	}

	end(nil)
	return &p, nil
}

func (r *CatalogRepository) loadPolicy(ctx context.Context, policyID, productID string, allCountries *bool) (*domain.FreeShippingPolicy, error) {
	policy := &domain.FreeShippingPolicy{
		ID:        policyID,
		ProductID: productID,
	}
	if allCountries != nil {
		policy.AllCountries = *allCountries
	}
	if policy.AllCountries {
		return policy, nil
	}

	rows, err := r.pool.Query(ctx, policyCountriesQuery, policy.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch free shipping countries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var countryID string
		if err := rows.Scan(&countryID); err != nil {
			return nil, fmt.Errorf("scan free shipping country: %w", err)
		}
		policy.CountryIDs = append(policy.CountryIDs, countryID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate free shipping countries: %w", err)
	}

	return policy, nil
}
