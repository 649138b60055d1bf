package cartdto

import (
	"time"

	"github.com/google/uuid"
)

// AddItemRequest is the body of POST /api/v1/cart/items.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

type AddItemResult struct {
	Result string `json:"result"`
}

type RemoveItemResult struct {
	Removed uuid.UUID `json:"removed"`
}

type CartItem struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartSummary is the cart page payload. CartID is omitted until the first successful add.
type CartSummary struct {
	CartID *uuid.UUID `json:"cart_id,omitempty"`
	Status string     `json:"status,omitempty"`
	Items  []CartItem `json:"items"`
	Count  int        `json:"count"`
	Total  string     `json:"total"`
}

type ItemsResponse struct {
	Items []CartItem `json:"items"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type TotalResponse struct {
	Total string `json:"total"`
}
