package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	cartdto "github.com/angelmondragon/storefront-cart/api/controllers/cart/dto"
	"github.com/angelmondragon/storefront-cart/api/validators"
)

func parseAddItem(r *http.Request) (uuid.UUID, error) {
	var payload cartdto.AddItemRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		return uuid.Nil, err
	}
	return validators.ParseUUIDParam(payload.ProductID, "product_id")
}

func itemIDFromPath(r *http.Request) (uuid.UUID, error) {
	return validators.ParseUUIDParam(chi.URLParam(r, "itemId"), "itemId")
}
