package cart

import (
	"github.com/shopspring/decimal"

	cartdto "github.com/angelmondragon/storefront-cart/api/controllers/cart/dto"
	cartsvc "github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/pkg/db/models"
)

const totalPlaces = 2

func newCartItems(rows []models.CartItem) []cartdto.CartItem {
	items := make([]cartdto.CartItem, 0, len(rows))
	for _, item := range rows {
		items = append(items, cartdto.CartItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		})
	}
	return items
}

func newCartSummary(summary cartsvc.Summary) cartdto.CartSummary {
	out := cartdto.CartSummary{
		Items: newCartItems(summary.Items),
		Count: summary.Count,
		Total: formatTotal(summary.Total),
	}
	if summary.Cart != nil {
		id := summary.Cart.ID
		out.CartID = &id
		out.Status = summary.Cart.Status.String()
	}
	return out
}

func formatTotal(total decimal.Decimal) string {
	return total.StringFixed(totalPlaces)
}
