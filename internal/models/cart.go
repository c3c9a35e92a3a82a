package models

// CartItem is one line of a cart: a product reference with the price
// snapshot taken at add-time. The snapshot is deliberately never refreshed
// from the catalog before checkout.
type CartItem struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
	SKU       string  `json:"sku,omitempty"`
}

// Cart is the client-owned pre-purchase collection, one line per distinct
// product. It only becomes server-authoritative at checkout.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Add merges the item into an existing line for the same product, or
// appends a new one. A non-positive quantity is treated as 1.
func (c *Cart) Add(item CartItem) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// SetQuantity applies a quantity delta to the line for productID. If the
// resulting quantity drops to zero or below, the line is removed entirely;
// a line is never stored at quantity 0.
func (c *Cart) SetQuantity(productID string, delta int) {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		c.Items[i].Quantity += delta
		if c.Items[i].Quantity <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		}
		return
	}
}

// Remove drops the line for productID, if present.
func (c *Cart) Remove(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// Total is Σ(price × quantity) over all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
