package cart

// AddResult is the outcome of AddToCart.
type AddResult int

const (
	AddResultAdded AddResult = iota
	AddResultProductNotFound
)

func (r AddResult) String() string {
	switch r {
	case AddResultAdded:
		return "added"
	case AddResultProductNotFound:
		return "product_not_found"
	default:
		return "unknown"
	}
}
