package order

import (
	"context"
	"net/http"
	"testing"
	"time"

	"gopg_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	id := repo.seed(t, models.Order{UserID: "alice", OrderNumber: "GOPG2506030001", Status: models.OrderStatusPending, CreatedAt: time.Now()})

	r := newTestRouter(newTestHandler(repo, nil), "admin-1", models.RoleAdmin)

	w := doJSON(t, r, http.MethodPost, "/api/admin/orders/"+id.String()+"/confirm", map[string]any{"message": "Ready Friday"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Order confirmed", decodeBody(t, w)["message"])

	got, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, got.Status)
	assert.Equal(t, "Ready Friday", got.AdminMessage)
	assert.NotNil(t, got.UpdatedAt)

	// A second confirm is rejected: confirmed is not pending anymore.
	w = doJSON(t, r, http.MethodPost, "/api/admin/orders/"+id.String()+"/confirm", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRejectOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	id := repo.seed(t, models.Order{UserID: "alice", Status: models.OrderStatusPending, CreatedAt: time.Now()})

	r := newTestRouter(newTestHandler(repo, nil), "admin-1", models.RoleAdmin)

	// The message body is optional.
	w := doJSON(t, r, http.MethodPost, "/api/admin/orders/"+id.String()+"/reject", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Order rejected", decodeBody(t, w)["message"])

	got, _ := repo.FindByID(context.Background(), id)
	assert.Equal(t, models.OrderStatusRejected, got.Status)
	assert.Empty(t, got.AdminMessage)
}

func TestReviewUnknownOrder(t *testing.T) {
	r := newTestRouter(newTestHandler(newFakeOrderRepo(), nil), "admin-1", models.RoleAdmin)

	w := doJSON(t, r, http.MethodPost, "/api/admin/orders/"+gocql.TimeUUID().String()+"/confirm", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/admin/orders/garbage/confirm", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Run("ship requires tracking details", func(t *testing.T) {
		repo := newFakeOrderRepo()
		id := repo.seed(t, models.Order{UserID: "alice", Status: models.OrderStatusProcessing, CreatedAt: time.Now()})
		r := newTestRouter(newTestHandler(repo, nil), "admin-1", models.RoleAdmin)

		w := doJSON(t, r, http.MethodPut, "/api/orders/"+id.String()+"/status", map[string]any{"status": "shipped"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Tracking number and carrier are required to ship", decodeBody(t, w)["message"])

		w = doJSON(t, r, http.MethodPut, "/api/orders/"+id.String()+"/status", map[string]any{
			"status":          "shipped",
			"tracking_number": "TRK-123",
			"carrier":         "DHL",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		got, _ := repo.FindByID(context.Background(), id)
		assert.Equal(t, models.OrderStatusShipped, got.Status)
		assert.Equal(t, "TRK-123", got.TrackingNumber)
		assert.Equal(t, "DHL", got.Carrier)
		assert.NotNil(t, got.ShippedAt)
	})

	t.Run("delivered stamps the delivery time", func(t *testing.T) {
		repo := newFakeOrderRepo()
		id := repo.seed(t, models.Order{UserID: "alice", Status: models.OrderStatusShipped, CreatedAt: time.Now()})
		r := newTestRouter(newTestHandler(repo, nil), "admin-1", models.RoleAdmin)

		w := doJSON(t, r, http.MethodPut, "/api/orders/"+id.String()+"/status", map[string]any{"status": "delivered"})
		require.Equal(t, http.StatusOK, w.Code)

		got, _ := repo.FindByID(context.Background(), id)
		assert.Equal(t, models.OrderStatusDelivered, got.Status)
		assert.NotNil(t, got.DeliveredAt)
	})

	t.Run("illegal transition", func(t *testing.T) {
		repo := newFakeOrderRepo()
		id := repo.seed(t, models.Order{UserID: "alice", Status: models.OrderStatusPending, CreatedAt: time.Now()})
		r := newTestRouter(newTestHandler(repo, nil), "admin-1", models.RoleAdmin)

		w := doJSON(t, r, http.MethodPut, "/api/orders/"+id.String()+"/status", map[string]any{"status": "delivered"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		got, _ := repo.FindByID(context.Background(), id)
		assert.Equal(t, models.OrderStatusPending, got.Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		repo := newFakeOrderRepo()
		id := repo.seed(t, models.Order{UserID: "alice", Status: models.OrderStatusPending, CreatedAt: time.Now()})
		r := newTestRouter(newTestHandler(repo, nil), "admin-1", models.RoleAdmin)

		w := doJSON(t, r, http.MethodPut, "/api/orders/"+id.String()+"/status", map[string]any{"status": "paid"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Invalid status", body["message"])
		assert.NotEmpty(t, body["valid_statuses"])
	})

	t.Run("refunds go through the refund endpoint", func(t *testing.T) {
		repo := newFakeOrderRepo()
		id := repo.seed(t, models.Order{UserID: "alice", Status: models.OrderStatusDelivered, CreatedAt: time.Now()})
		r := newTestRouter(newTestHandler(repo, nil), "admin-1", models.RoleAdmin)

		w := doJSON(t, r, http.MethodPut, "/api/orders/"+id.String()+"/status", map[string]any{"status": "refunded"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Use the refund endpoint to refund an order", decodeBody(t, w)["message"])
	})
}

func TestRefundOrder(t *testing.T) {
	t.Run("refunds a delivered order", func(t *testing.T) {
		repo := newFakeOrderRepo()
		id := repo.seed(t, models.Order{UserID: "alice", Status: models.OrderStatusDelivered, TotalPrice: 65.10, CreatedAt: time.Now()})
		r := newTestRouter(newTestHandler(repo, nil), "admin-1", models.RoleAdmin)

		w := doJSON(t, r, http.MethodPost, "/api/admin/orders/"+id.String()+"/refund", map[string]any{
			"amount": 65.10,
			"reason": "Damaged on arrival",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		got, _ := repo.FindByID(context.Background(), id)
		assert.Equal(t, models.OrderStatusRefunded, got.Status)
		require.NotNil(t, got.RefundAmount)
		assert.InDelta(t, 65.10, *got.RefundAmount, 0.001)
		assert.Equal(t, "Damaged on arrival", got.RefundReason)
		assert.Equal(t, "admin-1", got.RefundedBy)
		assert.NotNil(t, got.RefundedAt)
	})

	t.Run("amount and reason are required", func(t *testing.T) {
		repo := newFakeOrderRepo()
		id := repo.seed(t, models.Order{UserID: "alice", Status: models.OrderStatusDelivered, CreatedAt: time.Now()})
		r := newTestRouter(newTestHandler(repo, nil), "admin-1", models.RoleAdmin)

		for _, payload := range []map[string]any{
			{},
			{"amount": 10.0},
			{"reason": "whoops"},
			{"amount": -5.0, "reason": "negative"},
		} {
			w := doJSON(t, r, http.MethodPost, "/api/admin/orders/"+id.String()+"/refund", payload)
			assert.Equal(t, http.StatusBadRequest, w.Code, "%v", payload)
		}

		got, _ := repo.FindByID(context.Background(), id)
		assert.Equal(t, models.OrderStatusDelivered, got.Status)
	})

	t.Run("pending orders cannot be refunded", func(t *testing.T) {
		repo := newFakeOrderRepo()
		id := repo.seed(t, models.Order{UserID: "alice", Status: models.OrderStatusPending, CreatedAt: time.Now()})
		r := newTestRouter(newTestHandler(repo, nil), "admin-1", models.RoleAdmin)

		w := doJSON(t, r, http.MethodPost, "/api/admin/orders/"+id.String()+"/refund", map[string]any{
			"amount": 10.0,
			"reason": "nope",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetAllOrders(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.seed(t, models.Order{UserID: "alice", OrderNumber: "A", Status: models.OrderStatusPending, CreatedAt: time.Now().Add(-time.Hour)})
	repo.seed(t, models.Order{UserID: "bob", OrderNumber: "B", Status: models.OrderStatusConfirmed, CreatedAt: time.Now()})

	r := newTestRouter(newTestHandler(repo, nil), "admin-1", models.RoleAdmin)
	w := doJSON(t, r, http.MethodGet, "/api/admin/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.EqualValues(t, 2, body["count"])
	orders := body["orders"].([]any)
	assert.Equal(t, "B", orders[0].(map[string]any)["order_number"])
}

func TestGetOrderStats(t *testing.T) {
	repo := newFakeOrderRepo()
	now := time.Now()
	repo.seed(t, models.Order{UserID: "a", Status: models.OrderStatusPending, TotalPrice: 10, CreatedAt: now})
	repo.seed(t, models.Order{UserID: "b", Status: models.OrderStatusConfirmed, TotalPrice: 20, CreatedAt: now})
	repo.seed(t, models.Order{UserID: "c", Status: models.OrderStatusDelivered, TotalPrice: 30, CreatedAt: now})
	repo.seed(t, models.Order{UserID: "d", Status: models.OrderStatusCancelled, TotalPrice: 40, CreatedAt: now})
	repo.seed(t, models.Order{UserID: "e", Status: models.OrderStatusRejected, TotalPrice: 50, CreatedAt: now})
	repo.seed(t, models.Order{UserID: "f", Status: models.OrderStatusRefunded, TotalPrice: 60, CreatedAt: now})

	r := newTestRouter(newTestHandler(repo, nil), "admin-1", models.RoleAdmin)
	w := doJSON(t, r, http.MethodGet, "/api/admin/orders/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.EqualValues(t, 6, body["total_orders"])
	// Cancelled, rejected and refunded orders do not count as revenue.
	assert.InDelta(t, 60.0, body["total_revenue"].(float64), 0.001)

	byStatus := body["by_status"].(map[string]any)
	assert.EqualValues(t, 1, byStatus[models.OrderStatusPending])
	assert.EqualValues(t, 1, byStatus[models.OrderStatusRefunded])
}
