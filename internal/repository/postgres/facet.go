package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vendora/marketplace/internal/repository"
	"github.com/vendora/marketplace/pkg/database"
	apperrors "github.com/vendora/marketplace/pkg/errors"
)

// FacetRepository implements repository.FacetRepository using PostgreSQL.
type FacetRepository struct {
	pool database.DBTX
}

// NewFacetRepository creates a new PostgreSQL-backed facet repository.
func NewFacetRepository(pool database.DBTX) *FacetRepository {
	return &FacetRepository{pool: pool}
}

const storeIDByURLQuery = `SELECT id FROM stores WHERE url = $1`

// StoreIDByURL resolves a store URL slug to its id.
func (r *FacetRepository) StoreIDByURL(ctx context.Context, url string) (string, error) {
	ctx, end := database.TraceQuery(ctx, "StoreIDByURL", storeIDByURLQuery)

	var id string
	err := r.pool.QueryRow(ctx, storeIDByURLQuery, url).Scan(&id)
	if err != nil {
		end(err)
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NotFound("store", url)
		}
		return "", fmt.Errorf("resolve store url: %w", err)
	}

	end(nil)
	return id, nil
}

// SizeLabels returns the distinct size labels present in inventory matching
// the filter. The window count is computed over the distinct set before the
// cap is applied, so the total may exceed the number of returned labels.
func (r *FacetRepository) SizeLabels(ctx context.Context, filter repository.FacetFilter, take int) ([]string, int, error) {
	conditions := []string{"1=1"}
	args := []any{}

	addFilter := func(clause, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	addFilter("cat.url = $%d", filter.CategoryURL)
	addFilter("sub.url = $%d", filter.SubCategoryURL)
	addFilter("ot.url = $%d", filter.OfferURL)
	addFilter("p.store_id = $%d", filter.StoreID)

	args = append(args, take)

	query := fmt.Sprintf(`
		SELECT label, count(*) OVER() AS total
		FROM (
			SELECT DISTINCT s.label
			FROM sizes s
			JOIN variants v ON v.id = s.variant_id
			JOIN products p ON p.id = v.product_id
			LEFT JOIN categories cat ON cat.id = p.category_id
			LEFT JOIN subcategories sub ON sub.id = p.subcategory_id
			LEFT JOIN offer_tags ot ON ot.id = p.offer_tag_id
			WHERE %s
		) AS labels
		ORDER BY label
		LIMIT $%d`, strings.Join(conditions, " AND "), len(args))

	ctx, end := database.TraceQuery(ctx, "SizeLabels", query)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		end(err)
		return nil, 0, fmt.Errorf("query size labels: %w", err)
	}
	defer rows.Close()

	var (
		labels []string
		total  int
	)
	for rows.Next() {
		var label string
		if err := rows.Scan(&label, &total); err != nil {
			end(err)
			return nil, 0, fmt.Errorf("scan size label: %w", err)
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		end(err)
		return nil, 0, fmt.Errorf("iterate size labels: %w", err)
	}

	end(nil)
	return labels, total, nil
}
