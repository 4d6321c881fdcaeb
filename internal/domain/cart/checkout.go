package cart

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// WhatsappBaseURL is the deep link host used for checkout
const WhatsappBaseURL = "https://wa.me/"

const customerDataTemplate = "Mis datos:\nNombre: \nTeléfono: \nDirección: \n\nGracias."

// ContactInfo is the store contact data used by checkout
type ContactInfo struct {
	Name           string
	WhatsappNumber string
}

// CheckoutLine is one displayed line of the checkout message
type CheckoutLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

// Checkout is the composed outbound message plus its deep link
type Checkout struct {
	Message        string          `json:"message"`
	EncodedMessage string          `json:"encoded_message"`
	Phone          string          `json:"phone"`
	URL            string          `json:"url"`
	Lines          []CheckoutLine  `json:"lines"`
	Total          decimal.Decimal `json:"total"`
}

// Compose builds the checkout message for the cart. The displayed total is
// the sum of the displayed (two decimal) line totals.
func Compose(c *Cart, info ContactInfo) (*Checkout, error) {
	if c == nil || c.IsEmpty() {
		return nil, shared.NewValidationError("Cart is empty")
	}
	phone := SanitizePhone(info.WhatsappNumber)
	if phone == "" {
		return nil, shared.NewValidationError("Store has no WhatsApp number configured")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "¡Hola %s! Me interesan los siguientes productos:\n\n", info.Name)

	lines := make([]CheckoutLine, 0, len(c.lines))
	total := decimal.Zero
	for _, l := range c.lines {
		lineTotal := l.Subtotal().Round(2)
		total = total.Add(lineTotal)
		lines = append(lines, CheckoutLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			Total:     lineTotal,
		})
		fmt.Fprintf(&b, "• %s x%d: %s\n", l.Name, l.Quantity, FormatPrice(lineTotal))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n\n", FormatPrice(total))
	b.WriteString(customerDataTemplate)

	message := b.String()
	encoded := EncodeMessage(message)
	return &Checkout{
		Message:        message,
		EncodedMessage: encoded,
		Phone:          phone,
		URL:            WhatsappBaseURL + phone + "?text=" + encoded,
		Lines:          lines,
		Total:          total,
	}, nil
}

// FormatPrice renders an amount with a fixed two decimal currency format
func FormatPrice(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// SanitizePhone keeps only the digits of a phone number
func SanitizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EncodeMessage percent-encodes text for a query parameter, spaces as %20
func EncodeMessage(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}
