package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-cart/api/responses"
	"github.com/angelmondragon/storefront-cart/api/validators"
	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/pagination"
)

type productLister interface {
	ListActive(ctx context.Context, limit int, after *pagination.Cursor) ([]models.Product, *pagination.Cursor, error)
}

type productItem struct {
	ID    uuid.UUID `json:"id"`
	SKU   string    `json:"sku"`
	Name  string    `json:"name"`
	Price string    `json:"price"`
}

type productListResponse struct {
	Products   []productItem `json:"products"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// ProductList exposes the active catalog the storefront adds to carts from.
func ProductList(catalog productLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalog == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product catalog unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		after, err := pagination.ParseCursor(r.URL.Query().Get("cursor"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor"))
			return
		}

		rows, next, err := catalog.ListActive(r.Context(), limit, after)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products"))
			return
		}

		items := make([]productItem, 0, len(rows))
		for _, p := range rows {
			items = append(items, productItem{
				ID:    p.ID,
				SKU:   p.SKU,
				Name:  p.Name,
				Price: p.Price.StringFixed(2),
			})
		}
		resp := productListResponse{Products: items}
		if next != nil {
			resp.NextCursor = pagination.EncodeCursor(*next)
		}
		responses.WriteSuccess(w, resp)
	}
}
