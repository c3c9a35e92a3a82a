package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"gopg_back_end/internal/database"
	"gopg_back_end/internal/models"

	"github.com/gocql/gocql"
)

const orderColumns = `order_id, order_number, user_id, items, method, address,
	coupon_code, coupon_discount, items_price, tax_price, shipping_price, total_price,
	status, admin_message, tracking_number, carrier, shipped_at, estimated_delivery,
	delivered_at, refund_amount, refund_reason, refunded_by, refunded_at,
	created_at, updated_at`

// ScyllaOrderRepository keeps orders in the orders keyspace:
//   - orders            : full row per order, keyed by order_id
//   - orders_by_user    : (user_id, created_at DESC, order_id) lookup index
//   - orders_by_day     : (day, order_id) partition used for the daily
//     order-number sequence count
type ScyllaOrderRepository struct{}

func NewScyllaOrderRepository() *ScyllaOrderRepository {
	return &ScyllaOrderRepository{}
}

func (r *ScyllaOrderRepository) Create(ctx context.Context, order *models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	// All three tables live in the orders keyspace; a logged batch keeps
	// them all-or-nothing, so a failed checkout leaves no order row behind.
	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(
		`INSERT INTO orders (`+orderColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.OrderNumber, order.UserID, string(itemsJSON), order.Method, order.Address,
		order.Coupon.Code, order.Coupon.Discount, order.ItemsPrice, order.TaxPrice,
		order.ShippingPrice, order.TotalPrice, order.Status, order.AdminMessage,
		order.TrackingNumber, order.Carrier, order.ShippedAt, order.EstimatedDelivery,
		order.DeliveredAt, order.RefundAmount, order.RefundReason, order.RefundedBy,
		order.RefundedAt, order.CreatedAt, order.UpdatedAt,
	)
	batch.Query(
		`INSERT INTO orders_by_user (user_id, created_at, order_id) VALUES (?, ?, ?)`,
		order.UserID, order.CreatedAt, order.ID,
	)
	batch.Query(
		`INSERT INTO orders_by_day (day, order_id) VALUES (?, ?)`,
		dayKey(order.CreatedAt), order.ID,
	)

	return session.ExecuteBatch(batch)
}

func (r *ScyllaOrderRepository) FindByID(ctx context.Context, id gocql.UUID) (*models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var order models.Order
	var itemsJSON string

	err = session.Query(`SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, id).
		WithContext(ctx).Scan(
		&order.ID, &order.OrderNumber, &order.UserID, &itemsJSON, &order.Method, &order.Address,
		&order.Coupon.Code, &order.Coupon.Discount, &order.ItemsPrice, &order.TaxPrice,
		&order.ShippingPrice, &order.TotalPrice, &order.Status, &order.AdminMessage,
		&order.TrackingNumber, &order.Carrier, &order.ShippedAt, &order.EstimatedDelivery,
		&order.DeliveredAt, &order.RefundAmount, &order.RefundReason, &order.RefundedBy,
		&order.RefundedAt, &order.CreatedAt, &order.UpdatedAt,
	)
	if err == gocql.ErrNotFound {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(itemsJSON), &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	return &order, nil
}

func (r *ScyllaOrderRepository) FindByUser(ctx context.Context, userID string) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(
		`SELECT order_id FROM orders_by_user WHERE user_id = ?`, userID,
	).WithContext(ctx).Iter()

	var ids []gocql.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(ids))
	for _, id := range ids {
		order, err := r.FindByID(ctx, id)
		if err == ErrOrderNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func (r *ScyllaOrderRepository) FindAll(ctx context.Context) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT ` + orderColumns + ` FROM orders`).WithContext(ctx).Iter()

	var orders []models.Order
	for {
		var order models.Order
		var itemsJSON string
		if !iter.Scan(
			&order.ID, &order.OrderNumber, &order.UserID, &itemsJSON, &order.Method, &order.Address,
			&order.Coupon.Code, &order.Coupon.Discount, &order.ItemsPrice, &order.TaxPrice,
			&order.ShippingPrice, &order.TotalPrice, &order.Status, &order.AdminMessage,
			&order.TrackingNumber, &order.Carrier, &order.ShippedAt, &order.EstimatedDelivery,
			&order.DeliveredAt, &order.RefundAmount, &order.RefundReason, &order.RefundedBy,
			&order.RefundedAt, &order.CreatedAt, &order.UpdatedAt,
		) {
			break
		}
		if err := json.Unmarshal([]byte(itemsJSON), &order.Items); err == nil {
			orders = append(orders, order)
		}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	// Scylla returns partitions in token order; newest-first is sorted here.
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (r *ScyllaOrderRepository) Update(ctx context.Context, order *models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	return session.Query(`UPDATE orders SET
		items = ?, status = ?, admin_message = ?, tracking_number = ?, carrier = ?,
		shipped_at = ?, estimated_delivery = ?, delivered_at = ?,
		refund_amount = ?, refund_reason = ?, refunded_by = ?, refunded_at = ?,
		updated_at = ?
		WHERE order_id = ?`,
		string(itemsJSON), order.Status, order.AdminMessage, order.TrackingNumber, order.Carrier,
		order.ShippedAt, order.EstimatedDelivery, order.DeliveredAt,
		order.RefundAmount, order.RefundReason, order.RefundedBy, order.RefundedAt,
		order.UpdatedAt, order.ID,
	).WithContext(ctx).Exec()
}

func (r *ScyllaOrderRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return 0, err
	}

	var count int
	err = session.Query(
		`SELECT COUNT(*) FROM orders_by_day WHERE day = ?`, dayKey(since),
	).WithContext(ctx).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// dayKey buckets a timestamp into the local-date partition key.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
