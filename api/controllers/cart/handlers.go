package cart

import (
	"net/http"

	cartdto "github.com/angelmondragon/storefront-cart/api/controllers/cart/dto"
	"github.com/angelmondragon/storefront-cart/api/responses"
	cartsvc "github.com/angelmondragon/storefront-cart/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
)

func serviceUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable")
}

// CartFetch renders the session cart with its derived count and total.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable())
			return
		}

		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil && summary.Cart != nil {
			ctx := logg.WithCartID(r.Context(), summary.Cart.ID.String())
			logg.Debug(ctx, "cart.loaded")
		}

		responses.WriteSuccess(w, newCartSummary(summary))
	}
}

// CartItems lists the session cart's items.
func CartItems(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable())
			return
		}

		rows, err := svc.GetCartItems(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartdto.ItemsResponse{Items: newCartItems(rows)})
	}
}

// CartAddItem adds one unit of a product to the session cart.
func CartAddItem(svc cartsvc.Service, m *metrics.CartMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable())
			return
		}

		productID, err := parseAddItem(r)
		if err != nil {
			m.IncMutation(metrics.OpAdd, "invalid")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AddToCart(r.Context(), productID)
		if err != nil {
			m.IncMutation(metrics.OpAdd, "error")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m.IncMutation(metrics.OpAdd, result.String())

		if result == cartsvc.AddResultProductNotFound {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"product_id": productID}))
			return
		}

		if logg != nil {
			ctx := logg.WithField(r.Context(), "product_id", productID.String())
			logg.Info(ctx, "cart.item_added")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, cartdto.AddItemResult{Result: result.String()})
	}
}

// CartRemoveItem deletes an item from the session cart.
func CartRemoveItem(svc cartsvc.Service, m *metrics.CartMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable())
			return
		}

		itemID, err := itemIDFromPath(r)
		if err != nil {
			m.IncMutation(metrics.OpRemove, "invalid")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveFromCart(r.Context(), itemID); err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				m.IncMutation(metrics.OpRemove, "not_found")
			} else {
				m.IncMutation(metrics.OpRemove, "error")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m.IncMutation(metrics.OpRemove, "removed")

		responses.WriteSuccess(w, cartdto.RemoveItemResult{Removed: itemID})
	}
}

// CartCount returns the sum of item quantities.
func CartCount(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable())
			return
		}

		count, err := svc.CartItemsCount(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartdto.CountResponse{Count: count})
	}
}

// CartTotal returns the cart total priced at current product prices.
func CartTotal(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable())
			return
		}

		total, err := svc.GetCartTotal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartdto.TotalResponse{Total: formatTotal(total)})
	}
}
