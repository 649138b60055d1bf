package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-cart/pkg/db"
	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	"github.com/angelmondragon/storefront-cart/pkg/pagination"
)

// Repository exposes catalog reads plus the writes used by seeding and price maintenance.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID returns the active product or gorm.ErrRecordNotFound.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListActive returns one page of the active catalog in (name, id) order and the
// cursor for the following page, or nil on the last page.
func (r *Repository) ListActive(ctx context.Context, limit int, after *pagination.Cursor) ([]models.Product, *pagination.Cursor, error) {
	pageSize := pagination.NormalizeLimit(limit)
	q := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Order("id ASC").
		Limit(pagination.LimitWithBuffer(limit))
	if after != nil {
		q = q.Where("((name > ?) OR (name = ? AND id > ?))", after.Name, after.Name, after.ID)
	}

	var rows []models.Product
	if err := q.Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	if len(rows) <= pageSize {
		return rows, nil, nil
	}
	rows = rows[:pageSize]
	last := rows[pageSize-1]
	return rows, &pagination.Cursor{Name: last.Name, ID: last.ID}, nil
}

// ErrDuplicateSKU is returned by Create when the SKU is already taken.
var ErrDuplicateSKU = errors.New("product sku already exists")

// Create inserts a product.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.Price.IsNegative() {
		return nil, fmt.Errorf("product price cannot be negative")
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if db.IsUniqueViolation(err, "idx_products_sku") {
			return nil, ErrDuplicateSKU
		}
		return nil, err
	}
	return product, nil
}

// UpdatePrice changes the list price. Carts pick the new price up on their next total.
func (r *Repository) UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("product price cannot be negative")
	}
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("price", price)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Deactivate hides the product from the catalog and from new cart adds.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
