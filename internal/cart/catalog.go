package cart

import (
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-cart/internal/products"
)

type catalog struct {
	*products.Repository
}

// NewProductLookup adapts the product repository to the cart's lookup surface.
func NewProductLookup(repo *products.Repository) ProductLookup {
	return catalog{Repository: repo}
}

func (c catalog) WithTx(tx *gorm.DB) ProductLookup {
	return catalog{Repository: c.Repository.WithTx(tx)}
}
