package models

import (
	"fmt"
	"math"
	"time"

	"github.com/gocql/gocql"
)

// Statuses an order can be in.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusRejected   = "rejected"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

const (
	// TaxRate is applied to the post-discount subtotal.
	TaxRate = 0.085
	// FreeShippingThreshold : shipping is free at or above this subtotal.
	FreeShippingThreshold = 50.00
	// FlatShippingPrice below the free shipping threshold.
	FlatShippingPrice = 5.99

	// OrderNumberPrefix + yymmdd + 4-digit daily sequence, e.g. GOPG2506030007.
	OrderNumberPrefix = "GOPG"
)

// Fulfillment methods.
const (
	MethodPickup   = "pickup"
	MethodDelivery = "delivery"
)

type OrderItem struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
	SKU       string  `json:"sku,omitempty"`
}

type OrderCoupon struct {
	Code     string  `json:"code,omitempty"`
	Discount float64 `json:"discount"`
}

type Order struct {
	ID          gocql.UUID  `json:"id" db:"order_id"`
	OrderNumber string      `json:"order_number" db:"order_number"`
	UserID      string      `json:"user_id" db:"user_id"`
	Items       []OrderItem `json:"items" db:"items"`
	Method      string      `json:"method" db:"method"`
	Address     string      `json:"address,omitempty" db:"address"`
	Coupon      OrderCoupon `json:"coupon" db:"coupon"`

	ItemsPrice    float64 `json:"items_price" db:"items_price"`
	TaxPrice      float64 `json:"tax_price" db:"tax_price"`
	ShippingPrice float64 `json:"shipping_price" db:"shipping_price"`
	TotalPrice    float64 `json:"total_price" db:"total_price"`

	Status       string `json:"status" db:"status"`
	AdminMessage string `json:"admin_message,omitempty" db:"admin_message"`

	TrackingNumber    string     `json:"tracking_number,omitempty" db:"tracking_number"`
	Carrier           string     `json:"carrier,omitempty" db:"carrier"`
	ShippedAt         *time.Time `json:"shipped_at,omitempty" db:"shipped_at"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty" db:"estimated_delivery"`
	DeliveredAt       *time.Time `json:"delivered_at,omitempty" db:"delivered_at"`

	RefundAmount *float64   `json:"refund_amount,omitempty" db:"refund_amount"`
	RefundReason string     `json:"refund_reason,omitempty" db:"refund_reason"`
	RefundedBy   string     `json:"refunded_by,omitempty" db:"refunded_by"`
	RefundedAt   *time.Time `json:"refunded_at,omitempty" db:"refunded_at"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// orderTransitions: every legal status change. Transitions are one-way,
// nothing ever goes back to pending.
var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusRejected, OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:  {OrderStatusRefunded},
	OrderStatusRejected:   {},
	OrderStatusCancelled:  {},
	OrderStatusRefunded:   {},
}

// IsValidStatus reports whether s is a known order status.
func IsValidStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatuses lists every known status (for error payloads).
func ValidStatuses() []string {
	return []string{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusRejected,
		OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered,
		OrderStatusCancelled, OrderStatusRefunded,
	}
}

// IsValidMethod reports whether m is a recognized fulfillment method.
func IsValidMethod(m string) bool {
	return m == MethodPickup || m == MethodDelivery
}

// CalculateTotals recomputes the derived monetary fields from the line
// items and the coupon. Called whenever items or coupon change, before the
// order is persisted. A discount larger than the subtotal is NOT clamped;
// the negative base flows into tax and total.
func (o *Order) CalculateTotals() {
	var items float64
	for _, item := range o.Items {
		items += item.Price * float64(item.Quantity)
	}
	o.ItemsPrice = round2(items)

	discounted := o.ItemsPrice - o.Coupon.Discount
	o.TaxPrice = round2(discounted * TaxRate)

	if discounted >= FreeShippingThreshold {
		o.ShippingPrice = 0
	} else {
		o.ShippingPrice = FlatShippingPrice
	}

	o.TotalPrice = round2(discounted + o.TaxPrice + o.ShippingPrice)
}

// TotalItems returns the summed quantity over all lines.
func (o *Order) TotalItems() int {
	var n int
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// NewOrderNumber builds the order number for the (todayCount+1)-th order of
// the day: prefix + yymmdd + zero-padded sequence. The count comes from a
// plain read of today's orders, so two near-simultaneous checkouts can race
// to the same sequence. Advisory numbering only.
func NewOrderNumber(at time.Time, todayCount int) string {
	return fmt.Sprintf("%s%02d%02d%02d%04d",
		OrderNumberPrefix, at.Year()%100, int(at.Month()), at.Day(), todayCount+1)
}

// StartOfDay returns local midnight of t, the lower bound for the daily
// sequence count.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
