package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-cart/pkg/db"
	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

// Service exposes the session cart operations.
type Service interface {
	CartToken(ctx context.Context) (string, error)
	GetCart(ctx context.Context) (*models.Cart, bool, error)
	AddToCart(ctx context.Context, productID uuid.UUID) (AddResult, error)
	RemoveFromCart(ctx context.Context, itemID uuid.UUID) error
	GetCartItems(ctx context.Context) ([]models.CartItem, error)
	CartItemsCount(ctx context.Context) (int, error)
	GetCartTotal(ctx context.Context) (decimal.Decimal, error)
	Summary(ctx context.Context) (Summary, error)
}

// Summary is the cart page view: the token, the cart when one exists, and derived totals.
type Summary struct {
	Token string
	Cart  *models.Cart
	Items []models.CartItem
	Count int
	Total decimal.Decimal
}

type service struct {
	carts    CartRepository
	items    CartItemRepository
	products ProductLookup
	tx       txRunner
	identity Identity
}

// NewService builds a cart service backed by the provided stack.
func NewService(carts CartRepository, items CartItemRepository, products ProductLookup, tx txRunner, identity Identity) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("cart item repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if identity == nil {
		return nil, fmt.Errorf("identity provider required")
	}
	return &service{
		carts:    carts,
		items:    items,
		products: products,
		tx:       tx,
		identity: identity,
	}, nil
}

func (s *service) CartToken(ctx context.Context) (string, error) {
	token, err := s.identity.CartToken(ctx)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return "", err
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve cart token")
	}
	return token, nil
}

func (s *service) GetCart(ctx context.Context) (*models.Cart, bool, error) {
	token, err := s.CartToken(ctx)
	if err != nil {
		return nil, false, err
	}
	return s.findCart(ctx, s.carts, token)
}

func (s *service) findCart(ctx context.Context, carts CartRepository, token string) (*models.Cart, bool, error) {
	record, err := carts.FindByUniqueCartID(ctx, token)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return record, true, nil
}

func (s *service) AddToCart(ctx context.Context, productID uuid.UUID) (AddResult, error) {
	if productID == uuid.Nil {
		return AddResultProductNotFound, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	token, err := s.CartToken(ctx)
	if err != nil {
		return AddResultProductNotFound, err
	}

	result := AddResultAdded
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		items := s.items.WithTx(tx)

		record, ok, err := s.findCart(ctx, carts, token)
		if err != nil {
			return err
		}
		if ok {
			existing, err := items.FindByCartAndProduct(ctx, record.ID, productID)
			switch {
			case err == nil:
				incremented, err := items.Increment(ctx, existing.ID, 1)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment cart item")
				}
				if incremented {
					return touch(ctx, carts, record)
				}
			case !db.IsNotFound(err):
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
			}
		}

		if _, err := s.products.WithTx(tx).FindByID(ctx, productID); err != nil {
			if db.IsNotFound(err) {
				result = AddResultProductNotFound
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		if !ok {
			record, err = carts.CreateIfAbsent(ctx, token)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
			}
		}
		if err := items.AddOrIncrement(ctx, record.ID, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
		}
		return touch(ctx, carts, record)
	})
	if err != nil {
		return AddResultProductNotFound, err
	}
	return result, nil
}

func touch(ctx context.Context, carts CartRepository, record *models.Cart) error {
	if err := carts.Touch(ctx, record.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch cart")
	}
	return nil
}

func (s *service) RemoveFromCart(ctx context.Context, itemID uuid.UUID) error {
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	record, ok, err := s.GetCart(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	removed, err := s.items.Delete(ctx, record.ID, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return nil
}

func (s *service) GetCartItems(ctx context.Context) ([]models.CartItem, error) {
	record, ok, err := s.GetCart(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.CartItem{}, nil
	}
	return s.listItems(ctx, record.ID)
}

func (s *service) listItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	rows, err := s.items.ListByCart(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}
	if rows == nil {
		rows = []models.CartItem{}
	}
	return rows, nil
}

func (s *service) CartItemsCount(ctx context.Context) (int, error) {
	items, err := s.GetCartItems(ctx)
	if err != nil {
		return 0, err
	}
	return countItems(items), nil
}

func (s *service) GetCartTotal(ctx context.Context) (decimal.Decimal, error) {
	items, err := s.GetCartItems(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return s.totalItems(ctx, items)
}

func (s *service) Summary(ctx context.Context) (Summary, error) {
	token, err := s.CartToken(ctx)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Token: token, Items: []models.CartItem{}, Total: decimal.Zero}

	record, ok, err := s.findCart(ctx, s.carts, token)
	if err != nil {
		return Summary{}, err
	}
	if !ok {
		return summary, nil
	}
	items, err := s.listItems(ctx, record.ID)
	if err != nil {
		return Summary{}, err
	}
	total, err := s.totalItems(ctx, items)
	if err != nil {
		return Summary{}, err
	}
	summary.Cart = record
	summary.Items = items
	summary.Count = countItems(items)
	summary.Total = total
	return summary, nil
}

func countItems(items []models.CartItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// totalItems prices each line at the product's current price; lines whose
// product has left the catalog count as zero.
func (s *service) totalItems(ctx context.Context, items []models.CartItem) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if db.IsNotFound(err) {
				continue
			}
			return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total, nil
}
