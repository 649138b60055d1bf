package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

func TestNewServiceRequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := NewService(nil, &stubItemRepo{}, stubProducts{}, stubTxRunner{}, staticIdentity("t")); err == nil {
		t.Fatal("expected error for missing cart repository")
	}
	if _, err := NewService(&stubCartRepo{}, &stubItemRepo{}, stubProducts{}, stubTxRunner{}, nil); err == nil {
		t.Fatal("expected error for missing identity")
	}
}

func TestServiceGetCartAbsent(t *testing.T) {
	t.Parallel()

	svc := newTestService(&stubCartRepo{findErr: gorm.ErrRecordNotFound}, &stubItemRepo{}, stubProducts{})

	got, ok, err := svc.GetCart(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || got != nil {
		t.Fatalf("expected no cart, got %+v", got)
	}

	items, err := svc.GetCartItems(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil items, got %#v", items)
	}
}

func TestServiceGetCartDependencyError(t *testing.T) {
	t.Parallel()

	svc := newTestService(&stubCartRepo{findErr: errors.New("boom")}, &stubItemRepo{}, stubProducts{})

	_, _, err := svc.GetCart(context.Background())
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestServiceAddToCartIncrementsExistingItem(t *testing.T) {
	t.Parallel()

	cart := &models.Cart{ID: uuid.New(), UniqueCartID: "token"}
	productID := uuid.New()
	itemID := uuid.New()
	items := &stubItemRepo{existing: &models.CartItem{ID: itemID, CartID: cart.ID, ProductID: productID, Quantity: 1}, incremented: true}
	carts := &stubCartRepo{record: cart}
	svc := newTestService(carts, items, stubProducts{})

	result, err := svc.AddToCart(context.Background(), productID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != AddResultAdded {
		t.Fatalf("expected added, got %s", result)
	}
	if items.incrementCalls != 1 || items.incrementedID != itemID {
		t.Fatalf("expected increment of %s, got %d calls on %s", itemID, items.incrementCalls, items.incrementedID)
	}
	if items.upserts != 0 {
		t.Fatalf("expected no insert, got %d", items.upserts)
	}
	if carts.touched != 1 {
		t.Fatalf("expected cart touched once, got %d", carts.touched)
	}
}

func TestServiceAddToCartProductNotFoundCreatesNothing(t *testing.T) {
	t.Parallel()

	carts := &stubCartRepo{findErr: gorm.ErrRecordNotFound}
	items := &stubItemRepo{}
	svc := newTestService(carts, items, stubProducts{})

	result, err := svc.AddToCart(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != AddResultProductNotFound {
		t.Fatalf("expected product not found, got %s", result)
	}
	if carts.created != 0 || items.upserts != 0 || carts.touched != 0 {
		t.Fatalf("expected no writes, got carts=%d items=%d touched=%d", carts.created, items.upserts, carts.touched)
	}
}

func TestServiceAddToCartCreatesCartAndItem(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	carts := &stubCartRepo{findErr: gorm.ErrRecordNotFound}
	items := &stubItemRepo{}
	svc := newTestService(carts, items, stubProducts{productID: {ID: productID, Price: decimal.NewFromInt(10)}})

	result, err := svc.AddToCart(context.Background(), productID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != AddResultAdded {
		t.Fatalf("expected added, got %s", result)
	}
	if carts.created != 1 || carts.createdToken != "token" {
		t.Fatalf("expected cart created for token, got %d %q", carts.created, carts.createdToken)
	}
	if items.upserts != 1 || items.upsertProduct != productID {
		t.Fatalf("expected item insert for product, got %d", items.upserts)
	}
}

func TestServiceAddToCartRejectsNilProduct(t *testing.T) {
	t.Parallel()

	svc := newTestService(&stubCartRepo{}, &stubItemRepo{}, stubProducts{})

	_, err := svc.AddToCart(context.Background(), uuid.Nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceRemoveFromCartNotFound(t *testing.T) {
	t.Parallel()

	cart := &models.Cart{ID: uuid.New(), UniqueCartID: "token"}
	svc := newTestService(&stubCartRepo{record: cart}, &stubItemRepo{}, stubProducts{})

	err := svc.RemoveFromCart(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceRemoveFromCartWithoutCart(t *testing.T) {
	t.Parallel()

	svc := newTestService(&stubCartRepo{findErr: gorm.ErrRecordNotFound}, &stubItemRepo{}, stubProducts{})

	err := svc.RemoveFromCart(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceTotalsSkipMissingProducts(t *testing.T) {
	t.Parallel()

	cart := &models.Cart{ID: uuid.New(), UniqueCartID: "token"}
	priced := uuid.New()
	gone := uuid.New()
	items := &stubItemRepo{rows: []models.CartItem{
		{ID: uuid.New(), CartID: cart.ID, ProductID: priced, Quantity: 3},
		{ID: uuid.New(), CartID: cart.ID, ProductID: gone, Quantity: 2},
	}}
	svc := newTestService(&stubCartRepo{record: cart}, items, stubProducts{
		priced: {ID: priced, Price: decimal.RequireFromString("2.50")},
	})

	count, err := svc.CartItemsCount(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected count 5, got %d", count)
	}

	total, err := svc.GetCartTotal(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("7.50")) {
		t.Fatalf("expected total 7.50, got %s", total)
	}

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Token != "token" || summary.Cart != cart || summary.Count != 5 || !summary.Total.Equal(total) {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestServiceCartTokenWrapsIdentityErrors(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubCartRepo{}, &stubItemRepo{}, stubProducts{}, stubTxRunner{}, identityFunc(func(context.Context) (string, error) {
		return "", errors.New("redis down")
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.CartToken(context.Background())
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func newTestService(carts CartRepository, items CartItemRepository, products ProductLookup) Service {
	svc, err := NewService(carts, items, products, stubTxRunner{}, staticIdentity("token"))
	if err != nil {
		panic(err)
	}
	return svc
}

type stubCartRepo struct {
	record       *models.Cart
	findErr      error
	created      int
	createdToken string
	touched      int
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) CartRepository { return s }

func (s *stubCartRepo) FindByUniqueCartID(ctx context.Context, uniqueCartID string) (*models.Cart, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.record == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.record, nil
}

func (s *stubCartRepo) CreateIfAbsent(ctx context.Context, uniqueCartID string) (*models.Cart, error) {
	s.created++
	s.createdToken = uniqueCartID
	return &models.Cart{ID: uuid.New(), UniqueCartID: uniqueCartID}, nil
}

func (s *stubCartRepo) Touch(ctx context.Context, cartID uuid.UUID) error {
	s.touched++
	return nil
}

type stubItemRepo struct {
	rows           []models.CartItem
	existing       *models.CartItem
	incremented    bool
	incrementCalls int
	incrementedID  uuid.UUID
	upserts        int
	upsertProduct  uuid.UUID
}

func (s *stubItemRepo) WithTx(tx *gorm.DB) CartItemRepository { return s }

func (s *stubItemRepo) ListByCart(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	return s.rows, nil
}

func (s *stubItemRepo) FindByCartAndProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	if s.existing == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.existing, nil
}

func (s *stubItemRepo) Increment(ctx context.Context, itemID uuid.UUID, delta int) (bool, error) {
	s.incrementCalls++
	s.incrementedID = itemID
	return s.incremented, nil
}

func (s *stubItemRepo) AddOrIncrement(ctx context.Context, cartID, productID uuid.UUID) error {
	s.upserts++
	s.upsertProduct = productID
	return nil
}

func (s *stubItemRepo) Delete(ctx context.Context, cartID, itemID uuid.UUID) (bool, error) {
	return false, nil
}

type stubProducts map[uuid.UUID]*models.Product

func (s stubProducts) WithTx(tx *gorm.DB) ProductLookup { return s }

func (s stubProducts) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type staticIdentity string

func (s staticIdentity) CartToken(context.Context) (string, error) { return string(s), nil }

type identityFunc func(ctx context.Context) (string, error)

func (fn identityFunc) CartToken(ctx context.Context) (string, error) { return fn(ctx) }
