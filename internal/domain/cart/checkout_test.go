package cart

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose(t *testing.T) {
	t.Run("builds message and deep link", func(t *testing.T) {
		c := New(Key{SessionID: "s", TenantID: uuid.New()})
		c.Add("p1", "Widget", decimal.NewFromInt(5))
		c.Add("p1", "Widget", decimal.NewFromInt(5))
		c.Add("p2", "Gadget", decimal.NewFromInt(3))

		out, err := Compose(c, ContactInfo{Name: "Acme", WhatsappNumber: "+1 (555) 123-4567"})
		require.NoError(t, err)

		assert.Equal(t, "15551234567", out.Phone)
		assert.True(t, strings.HasPrefix(out.URL, "https://wa.me/15551234567?text="))
		assert.True(t, decimal.RequireFromString("13").Equal(out.Total))
		require.Len(t, out.Lines, 2)

		assert.Contains(t, out.Message, "¡Hola Acme!")
		assert.Contains(t, out.Message, "• Widget x2: $10.00\n")
		assert.Contains(t, out.Message, "• Gadget x1: $3.00\n")
		assert.Contains(t, out.Message, "Total: $13.00")
		assert.True(t, strings.HasSuffix(out.Message, "Gracias."))

		decoded, err := url.QueryUnescape(strings.TrimPrefix(out.URL, "https://wa.me/15551234567?text="))
		require.NoError(t, err)
		assert.Equal(t, out.Message, decoded)
		assert.NotContains(t, out.EncodedMessage, "+")
		assert.NotContains(t, out.EncodedMessage, " ")
	})

	t.Run("grand total equals the sum of displayed line totals", func(t *testing.T) {
		c := New(Key{TenantID: uuid.New()})
		c.Add("p1", "A", decimal.RequireFromString("0.335"))
		c.Add("p2", "B", decimal.RequireFromString("0.335"))
		c.Add("p3", "C", decimal.RequireFromString("0.335"))

		out, err := Compose(c, ContactInfo{Name: "Shop", WhatsappNumber: "584121234567"})
		require.NoError(t, err)

		// Each line shows 0.34, so the total shows 1.02 rather than 1.005 rounded
		assert.Equal(t, 3, strings.Count(out.Message, ": $0.34\n"))
		assert.Contains(t, out.Message, "Total: $1.02")
		assert.Equal(t, "1.02", out.Total.StringFixed(2))
	})

	t.Run("fails on empty cart", func(t *testing.T) {
		c := New(Key{TenantID: uuid.New()})
		out, err := Compose(c, ContactInfo{Name: "Acme", WhatsappNumber: "123"})
		require.Error(t, err)
		assert.Nil(t, out)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("fails on nil cart", func(t *testing.T) {
		_, err := Compose(nil, ContactInfo{WhatsappNumber: "123"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("fails on blank whatsapp number", func(t *testing.T) {
		c := New(Key{TenantID: uuid.New()})
		c.Add("p1", "A", decimal.NewFromInt(1))

		for _, number := range []string{"", "   ", "+() -"} {
			_, err := Compose(c, ContactInfo{Name: "Acme", WhatsappNumber: number})
			require.Error(t, err, number)
			de, ok := shared.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, "VALIDATION_ERROR", de.Code)
		}
	})
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$13.00", FormatPrice(decimal.NewFromInt(13)))
	assert.Equal(t, "$0.50", FormatPrice(decimal.RequireFromString("0.5")))
	assert.Equal(t, "$1234.57", FormatPrice(decimal.RequireFromString("1234.567")))
}

func TestSanitizePhone(t *testing.T) {
	assert.Equal(t, "15551234567", SanitizePhone("+1 (555) 123-4567"))
	assert.Equal(t, "", SanitizePhone("abc"))
}

func TestEncodeMessage(t *testing.T) {
	assert.Equal(t, "a%20b%26c%3Dd%0A", EncodeMessage("a b&c=d\n"))
}
