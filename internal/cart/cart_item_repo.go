package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/storefront-cart/pkg/db/models"
)

// ItemRepository manages persistent cart items.
type ItemRepository struct {
	db *gorm.DB
}

// NewItemRepository binds the repository to the provided DB handle.
func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *ItemRepository) WithTx(tx *gorm.DB) CartItemRepository {
	if tx == nil {
		return r
	}
	return &ItemRepository{db: tx}
}

// ListByCart returns items belonging to a cart in insertion order.
func (r *ItemRepository) ListByCart(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByCartAndProduct returns the line for a product, or gorm.ErrRecordNotFound.
func (r *ItemRepository) FindByCartAndProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Increment adds delta to the quantity in a single statement. It reports false
// when the item no longer exists.
func (r *ItemRepository) Increment(ctx context.Context, itemID uuid.UUID, delta int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AddOrIncrement inserts a quantity-1 line or, when the (cart, product) line
// already exists, increments it. Concurrent adds of one product converge on a
// single row through idx_cart_items_cart_product.
func (r *ItemRepository) AddOrIncrement(ctx context.Context, cartID, productID uuid.UUID) error {
	item := &models.CartItem{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  1,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + ?", 1),
				"updated_at": time.Now(),
			}),
		}).
		Create(item).Error
}

// Delete removes the item when it belongs to the cart and reports whether a row was removed.
func (r *ItemRepository) Delete(ctx context.Context, cartID, itemID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
