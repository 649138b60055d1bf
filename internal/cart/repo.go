package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	"github.com/angelmondragon/storefront-cart/pkg/enums"
)

// Repository exposes persistence operations for session carts.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByUniqueCartID loads the cart correlated with a session token.
func (r *Repository) FindByUniqueCartID(ctx context.Context, uniqueCartID string) (*models.Cart, error) {
	var record models.Cart
	err := r.db.WithContext(ctx).
		Where("unique_cart_id = ?", uniqueCartID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// CreateIfAbsent inserts an open cart for the token unless one already exists,
// then returns whichever row won.
func (r *Repository) CreateIfAbsent(ctx context.Context, uniqueCartID string) (*models.Cart, error) {
	record := &models.Cart{
		UniqueCartID: uniqueCartID,
		Status:       enums.CartStatusOpen,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "unique_cart_id"}},
			DoNothing: true,
		}).
		Create(record).Error
	if err != nil {
		return nil, err
	}
	return r.FindByUniqueCartID(ctx, uniqueCartID)
}

// Touch marks the cart as active now, reopening it if a sweep had closed it.
func (r *Repository) Touch(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]any{
			"status":     enums.CartStatusOpen,
			"updated_at": time.Now().UTC(),
		}).Error
}

// CloseIdleBefore closes open carts untouched since cutoff and returns the number closed.
func (r *Repository) CloseIdleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("status = ? AND updated_at < ?", enums.CartStatusOpen, cutoff).
		Updates(map[string]any{
			"status":     enums.CartStatusClosed,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

// PurgeClosedBefore deletes closed carts, and their items, last touched before cutoff.
func (r *Repository) PurgeClosedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var purged int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stale := tx.Model(&models.Cart{}).
			Select("id").
			Where("status = ? AND updated_at < ?", enums.CartStatusClosed, cutoff)
		if err := tx.Where("cart_id IN (?)", stale).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("status = ? AND updated_at < ?", enums.CartStatusClosed, cutoff).Delete(&models.Cart{})
		if res.Error != nil {
			return res.Error
		}
		purged = res.RowsAffected
		return nil
	})
	return purged, err
}
