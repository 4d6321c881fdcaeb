package telemetry

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	cartapp "github.com/storefront/backend/internal/application/cart"
)

// StorefrontMetrics records shopper-facing business events
type StorefrontMetrics struct {
	checkouts     *Counter
	checkoutValue *Histogram
	checkoutItems *Histogram
}

// NewStorefrontMetrics registers the storefront instruments on the meter provider
func NewStorefrontMetrics(mp *MeterProvider) (*StorefrontMetrics, error) {
	meter := mp.Meter("storefront")

	checkouts, err := NewCounter(meter, "storefront_checkouts_total", "WhatsApp checkouts composed", "{checkout}")
	if err != nil {
		return nil, err
	}
	value, err := NewHistogram(meter, HistogramOpts{
		Name:        "storefront_checkout_value",
		Description: "Cart total at checkout",
		Unit:        "{currency}",
		Boundaries:  CheckoutValueBuckets,
	})
	if err != nil {
		return nil, err
	}
	items, err := NewHistogram(meter, HistogramOpts{
		Name:        "storefront_checkout_items",
		Description: "Units in the cart at checkout",
		Unit:        "{item}",
		Boundaries:  CheckoutItemBuckets,
	})
	if err != nil {
		return nil, err
	}

	return &StorefrontMetrics{checkouts: checkouts, checkoutValue: value, checkoutItems: items}, nil
}

// RecordCheckout counts one checkout and records its size and value
func (m *StorefrontMetrics) RecordCheckout(ctx context.Context, storeID uuid.UUID, items int, total decimal.Decimal) {
	attr := AttrStoreID.String(storeID.String())
	m.checkouts.Inc(ctx, attr)
	m.checkoutItems.Record(ctx, float64(items), attr)
	m.checkoutValue.Record(ctx, total.InexactFloat64(), attr)
}

var _ cartapp.CheckoutRecorder = (*StorefrontMetrics)(nil)
