package models

// ShippingOption is one fulfillment choice quoted to the storefront.
type ShippingOption struct {
	Method        string  `json:"method"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	EstimatedDays int     `json:"estimated_days"`
}

// ShippingQuote prices both fulfillment methods for a cart subtotal.
type ShippingQuote struct {
	Options       []ShippingOption `json:"options"`
	FreeThreshold float64          `json:"free_threshold"`
	CartTotal     float64          `json:"cart_total"`
	IsFree        bool             `json:"is_free"`
}

// QuoteShipping applies the flat-rate rule: pickup is always free, delivery
// costs FlatShippingPrice until the subtotal reaches FreeShippingThreshold.
func QuoteShipping(cartTotal float64) ShippingQuote {
	isFree := cartTotal >= FreeShippingThreshold
	deliveryPrice := FlatShippingPrice
	if isFree {
		deliveryPrice = 0
	}

	return ShippingQuote{
		Options: []ShippingOption{
			{
				Method:        MethodPickup,
				Name:          "Store pickup",
				Description:   "Pick up in store with your order QR code",
				Price:         0,
				EstimatedDays: 1,
			},
			{
				Method:        MethodDelivery,
				Name:          "Home delivery",
				Description:   "Standard courier delivery",
				Price:         deliveryPrice,
				EstimatedDays: 4,
			},
		},
		FreeThreshold: FreeShippingThreshold,
		CartTotal:     cartTotal,
		IsFree:        isFree,
	}
}
