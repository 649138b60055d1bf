package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-cart/pkg/db/models"
)

// CartRepository defines the cart persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindByUniqueCartID(ctx context.Context, uniqueCartID string) (*models.Cart, error)
	CreateIfAbsent(ctx context.Context, uniqueCartID string) (*models.Cart, error)
	Touch(ctx context.Context, cartID uuid.UUID) error
}

// CartItemRepository defines the line-item persistence surface required by the cart service.
type CartItemRepository interface {
	WithTx(tx *gorm.DB) CartItemRepository
	ListByCart(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
	FindByCartAndProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error)
	Increment(ctx context.Context, itemID uuid.UUID, delta int) (bool, error)
	AddOrIncrement(ctx context.Context, cartID, productID uuid.UUID) error
	Delete(ctx context.Context, cartID, itemID uuid.UUID) (bool, error)
}

// ProductLookup resolves catalog products; a missing product is gorm.ErrRecordNotFound.
type ProductLookup interface {
	WithTx(tx *gorm.DB) ProductLookup
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Identity yields the cart token correlating the caller's browser session to its cart.
type Identity interface {
	CartToken(ctx context.Context) (string, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
