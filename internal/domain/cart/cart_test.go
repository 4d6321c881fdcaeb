package cart

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCart() *Cart {
	return New(Key{SessionID: "sess-1", TenantID: uuid.New()})
}

func TestKey_StorageKey(t *testing.T) {
	tenantID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	key := Key{SessionID: "abc", TenantID: tenantID}
	assert.Equal(t, "cart_00000000-0000-0000-0000-000000000001", key.StorageKey())
}

func TestCart_Add(t *testing.T) {
	t.Run("appends new line with quantity 1", func(t *testing.T) {
		c := newTestCart()
		c.Add("p1", "Widget", decimal.NewFromInt(10))

		lines := c.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, "p1", lines[0].ProductID)
		assert.Equal(t, "Widget", lines[0].Name)
		assert.Equal(t, 1, lines[0].Quantity)
	})

	t.Run("adding the same product twice increments quantity", func(t *testing.T) {
		c := newTestCart()
		c.Add("p1", "Widget", decimal.NewFromInt(10))
		c.Add("p1", "Widget", decimal.NewFromInt(10))

		lines := c.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].Quantity)
		assert.True(t, decimal.NewFromInt(20).Equal(c.Total()))
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		c := newTestCart()
		c.Add("p2", "B", decimal.NewFromInt(1))
		c.Add("p1", "A", decimal.NewFromInt(1))
		c.Add("p2", "B", decimal.NewFromInt(1))

		lines := c.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, "p2", lines[0].ProductID)
		assert.Equal(t, "p1", lines[1].ProductID)
	})
}

func TestCart_ChangeQuantity(t *testing.T) {
	t.Run("increments and decrements", func(t *testing.T) {
		c := newTestCart()
		c.Add("p1", "Widget", decimal.NewFromInt(3))
		c.ChangeQuantity("p1", 4)
		line, ok := c.Line("p1")
		require.True(t, ok)
		assert.Equal(t, 5, line.Quantity)

		c.ChangeQuantity("p1", -2)
		line, _ = c.Line("p1")
		assert.Equal(t, 3, line.Quantity)
	})

	t.Run("removing the full quantity removes the line", func(t *testing.T) {
		c := newTestCart()
		c.Add("p1", "Widget", decimal.NewFromInt(3))
		c.Add("p1", "Widget", decimal.NewFromInt(3))
		c.ChangeQuantity("p1", -2)

		_, ok := c.Line("p1")
		assert.False(t, ok)
		assert.True(t, c.IsEmpty())
	})

	t.Run("dropping below zero removes the line", func(t *testing.T) {
		c := newTestCart()
		c.Add("p1", "Widget", decimal.NewFromInt(3))
		c.ChangeQuantity("p1", -10)
		assert.True(t, c.IsEmpty())
	})

	t.Run("absent product is a no-op", func(t *testing.T) {
		c := newTestCart()
		c.Add("p1", "Widget", decimal.NewFromInt(3))
		c.ChangeQuantity("missing", 5)
		assert.Len(t, c.Lines(), 1)
		assert.Equal(t, 1, c.Count())
	})
}

func TestCart_RemoveAndClear(t *testing.T) {
	c := newTestCart()
	c.Add("p1", "A", decimal.NewFromInt(1))
	c.Add("p2", "B", decimal.NewFromInt(2))

	c.Remove("p1")
	require.Len(t, c.Lines(), 1)
	assert.Equal(t, "p2", c.Lines()[0].ProductID)

	c.Remove("missing")
	assert.Len(t, c.Lines(), 1)

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Total().IsZero())
}

func TestCart_TotalIsNotRoundedInternally(t *testing.T) {
	c := newTestCart()
	price := decimal.RequireFromString("0.333")
	c.Add("p1", "Third", price)
	c.ChangeQuantity("p1", 2)

	assert.Equal(t, "0.999", c.Total().String())
	assert.Equal(t, 3, c.Count())
}

func TestCart_LinesReturnsCopy(t *testing.T) {
	c := newTestCart()
	c.Add("p1", "A", decimal.NewFromInt(1))

	lines := c.Lines()
	lines[0].Quantity = 99

	line, _ := c.Line("p1")
	assert.Equal(t, 1, line.Quantity)
}

func TestRestore(t *testing.T) {
	key := Key{SessionID: "s", TenantID: uuid.New()}
	c := Restore(key, []Line{
		{ProductID: "p1", Name: "A", UnitPrice: decimal.NewFromInt(1), Quantity: 2},
		{ProductID: "p2", Name: "B", UnitPrice: decimal.NewFromInt(1), Quantity: 0},
		{ProductID: "p1", Name: "A", UnitPrice: decimal.NewFromInt(1), Quantity: 1},
		{ProductID: "", Name: "blank", UnitPrice: decimal.NewFromInt(1), Quantity: 1},
	})

	assert.Equal(t, key, c.Key())
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

// Random add/change/remove sequences never produce duplicate products and the
// total always matches the line sum.
func TestCart_RandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	c := newTestCart()
	prices := map[string]decimal.Decimal{}

	for i := 0; i < 2000; i++ {
		id := "p" + strconv.Itoa(rng.Intn(8))
		if _, ok := prices[id]; !ok {
			prices[id] = decimal.NewFromInt(int64(rng.Intn(5000))).Div(decimal.NewFromInt(100))
		}
		switch rng.Intn(3) {
		case 0:
			c.Add(id, id, prices[id])
		case 1:
			c.ChangeQuantity(id, rng.Intn(7)-3)
		case 2:
			if rng.Intn(4) == 0 {
				c.Remove(id)
			}
		}

		seen := map[string]bool{}
		expected := decimal.Zero
		for _, l := range c.Lines() {
			require.False(t, seen[l.ProductID], "duplicate line for %s", l.ProductID)
			seen[l.ProductID] = true
			require.GreaterOrEqual(t, l.Quantity, 1)
			expected = expected.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		require.True(t, expected.Equal(c.Total()))
	}
}
