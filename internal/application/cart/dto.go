package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
)

// AddItemRequest adds one unit of a product to the cart
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
}

// ChangeQuantityRequest moves a line quantity up or down
type ChangeQuantityRequest struct {
	Delta int `json:"delta" binding:"required,min=-100,max=100"`
}

// LineResponse is one cart line
type LineResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartResponse is the cart as returned to the shopper
type CartResponse struct {
	StoreID uuid.UUID       `json:"store_id"`
	Lines   []LineResponse  `json:"lines"`
	Count   int             `json:"count"`
	Total   decimal.Decimal `json:"total"`
}

// CheckoutResponse carries the composed WhatsApp message and link
type CheckoutResponse struct {
	Message        string              `json:"message"`
	EncodedMessage string              `json:"encoded_message"`
	Phone          string              `json:"phone"`
	URL            string              `json:"url"`
	Lines          []cart.CheckoutLine `json:"lines"`
	Total          decimal.Decimal     `json:"total"`
}

// ToCartResponse converts a domain Cart to CartResponse
func ToCartResponse(c *cart.Cart) CartResponse {
	lines := c.Lines()
	out := make([]LineResponse, len(lines))
	for i, l := range lines {
		out[i] = LineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal(),
		}
	}
	return CartResponse{
		StoreID: c.TenantID(),
		Lines:   out,
		Count:   c.Count(),
		Total:   c.Total(),
	}
}

// ToCheckoutResponse converts a domain Checkout to CheckoutResponse
func ToCheckoutResponse(co *cart.Checkout) CheckoutResponse {
	return CheckoutResponse{
		Message:        co.Message,
		EncodedMessage: co.EncodedMessage,
		Phone:          co.Phone,
		URL:            co.URL,
		Lines:          co.Lines,
		Total:          co.Total,
	}
}
