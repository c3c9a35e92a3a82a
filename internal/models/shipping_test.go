package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func optionByMethod(t *testing.T, q ShippingQuote, method string) ShippingOption {
	t.Helper()
	for _, opt := range q.Options {
		if opt.Method == method {
			return opt
		}
	}
	t.Fatalf("no option for method %q", method)
	return ShippingOption{}
}

func TestQuoteShippingBelowThreshold(t *testing.T) {
	q := QuoteShipping(20.00)

	require.Len(t, q.Options, 2)
	assert.False(t, q.IsFree)
	assert.Equal(t, FreeShippingThreshold, q.FreeThreshold)
	assert.Equal(t, 20.00, q.CartTotal)

	pickup := optionByMethod(t, q, MethodPickup)
	assert.Equal(t, 0.0, pickup.Price)

	delivery := optionByMethod(t, q, MethodDelivery)
	assert.Equal(t, FlatShippingPrice, delivery.Price)
}

func TestQuoteShippingAtThreshold(t *testing.T) {
	q := QuoteShipping(FreeShippingThreshold)

	assert.True(t, q.IsFree)
	assert.Equal(t, 0.0, optionByMethod(t, q, MethodDelivery).Price)
	assert.Equal(t, 0.0, optionByMethod(t, q, MethodPickup).Price)
}
