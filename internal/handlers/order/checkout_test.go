package order

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"gopg_back_end/internal/models"
	"gopg_back_end/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[gocql.UUID]models.Order
	createErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[gocql.UUID]models.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.orders[order.ID] = *order
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id gocql.UUID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return &order, nil
}

func (r *fakeOrderRepo) FindByUser(_ context.Context, userID string) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *fakeOrderRepo) FindAll(_ context.Context) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		out = append(out, o)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *fakeOrderRepo) Update(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return repository.ErrOrderNotFound
	}
	r.orders[order.ID] = *order
	return nil
}

func (r *fakeOrderRepo) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, o := range r.orders {
		if !o.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func sortNewestFirst(orders []models.Order) {
	for i := 0; i < len(orders); i++ {
		for j := i + 1; j < len(orders); j++ {
			if orders[j].CreatedAt.After(orders[i].CreatedAt) {
				orders[i], orders[j] = orders[j], orders[i]
			}
		}
	}
}

func (r *fakeOrderRepo) seed(t *testing.T, order models.Order) gocql.UUID {
	t.Helper()
	if order.ID == (gocql.UUID{}) {
		order.ID = gocql.TimeUUID()
	}
	require.NoError(t, r.Create(context.Background(), &order))
	return order.ID
}

type fakeCouponRepo struct {
	coupons map[string]models.Coupon
}

func (r *fakeCouponRepo) FindByCode(_ context.Context, code string) (*models.Coupon, error) {
	coupon, ok := r.coupons[strings.ToUpper(code)]
	if !ok {
		return nil, repository.ErrCouponNotFound
	}
	return &coupon, nil
}

type fakeUserDirectory struct{}

func (fakeUserDirectory) EmailOf(_ context.Context, userID string) (string, error) {
	return userID + "@example.com", nil
}

func newTestHandler(orders *fakeOrderRepo, coupons map[string]models.Coupon) *Handler {
	h := NewHandler(orders, &fakeCouponRepo{coupons: coupons}, fakeUserDirectory{})
	h.notify = func(models.Order, string, string) {}
	return h
}

// newTestRouter wires the handler behind a stand-in for the auth
// middleware that plants the identity directly.
func newTestRouter(h *Handler, userID, role string) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
			c.Set("email", userID+"@example.com")
			c.Set("role", role)
		}
	})

	r.POST("/api/checkout", h.Checkout)
	r.GET("/api/my-orders", h.GetMyOrders)
	r.GET("/api/my-orders/:id", h.GetMyOrder)
	r.POST("/api/my-orders/:id/cancel", h.CancelMyOrder)
	r.GET("/api/admin/orders", h.GetAllOrders)
	r.GET("/api/admin/orders/stats", h.GetOrderStats)
	r.POST("/api/admin/orders/:id/confirm", h.ConfirmOrder)
	r.POST("/api/admin/orders/:id/reject", h.RejectOrder)
	r.POST("/api/admin/orders/:id/refund", h.RefundOrder)
	r.PUT("/api/orders/:id/status", h.UpdateOrderStatus)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func validCheckout() map[string]any {
	return map[string]any{
		"method": "pickup",
		"cart": []map[string]any{
			{"id": "p1", "name": "Phone", "price": 10.00, "quantity": 3},
		},
	}
}

func TestCheckoutCreatesPendingOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	r := newTestRouter(newTestHandler(repo, nil), "alice", "user")

	w := doJSON(t, r, http.MethodPost, "/api/checkout", validCheckout())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Order sent for admin approval.", body["message"])

	number, _ := body["order_number"].(string)
	wantPrefix := "GOPG" + time.Now().Format("060102")
	assert.True(t, strings.HasPrefix(number, wantPrefix), number)
	assert.True(t, strings.HasSuffix(number, "0001"), number)

	orders, err := repo.FindByUser(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	created := orders[0]

	assert.Equal(t, models.OrderStatusPending, created.Status)
	assert.Equal(t, models.MethodPickup, created.Method)
	assert.InDelta(t, 30.00, created.ItemsPrice, 0.001)
	assert.InDelta(t, 2.55, created.TaxPrice, 0.001)
	assert.InDelta(t, 5.99, created.ShippingPrice, 0.001)
	assert.InDelta(t, 38.54, created.TotalPrice, 0.001)
}

func TestCheckoutDailySequenceIncrements(t *testing.T) {
	repo := newFakeOrderRepo()
	r := newTestRouter(newTestHandler(repo, nil), "alice", "user")

	w1 := doJSON(t, r, http.MethodPost, "/api/checkout", validCheckout())
	require.Equal(t, http.StatusCreated, w1.Code)
	w2 := doJSON(t, r, http.MethodPost, "/api/checkout", validCheckout())
	require.Equal(t, http.StatusCreated, w2.Code)

	n1, _ := decodeBody(t, w1)["order_number"].(string)
	n2, _ := decodeBody(t, w2)["order_number"].(string)
	assert.True(t, strings.HasSuffix(n1, "0001"), n1)
	assert.True(t, strings.HasSuffix(n2, "0002"), n2)
	assert.NotEqual(t, n1, n2)
}

func TestCheckoutRequiresLogin(t *testing.T) {
	r := newTestRouter(newTestHandler(newFakeOrderRepo(), nil), "", "")

	w := doJSON(t, r, http.MethodPost, "/api/checkout", validCheckout())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Unauthorized. Please log in.", body["message"])
}

func TestCheckoutValidation(t *testing.T) {
	repo := newFakeOrderRepo()
	r := newTestRouter(newTestHandler(repo, nil), "alice", "user")

	cases := []struct {
		name    string
		mutate  func(m map[string]any)
		message string
	}{
		{
			name:    "invalid method",
			mutate:  func(m map[string]any) { m["method"] = "teleport" },
			message: "Checkout method must be pickup or delivery",
		},
		{
			name:    "empty cart",
			mutate:  func(m map[string]any) { m["cart"] = []map[string]any{} },
			message: "Cart is empty",
		},
		{
			name:    "delivery without address",
			mutate:  func(m map[string]any) { m["method"] = "delivery"; m["address"] = "  " },
			message: "Delivery address required for delivery method",
		},
		{
			name: "zero quantity line",
			mutate: func(m map[string]any) {
				m["cart"] = []map[string]any{{"id": "p1", "name": "Phone", "price": 10.0, "quantity": 0}}
			},
			message: "Item quantity must be at least 1",
		},
		{
			name: "missing product id",
			mutate: func(m map[string]any) {
				m["cart"] = []map[string]any{{"id": "", "name": "Phone", "price": 10.0, "quantity": 1}}
			},
			message: "Item product id is required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := validCheckout()
			tc.mutate(payload)

			w := doJSON(t, r, http.MethodPost, "/api/checkout", payload)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tc.message, body["message"])
		})
	}

	// Nothing got persisted along the way.
	orders, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCheckoutFailedCreateLeavesNoOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.createErr = errors.New("write timeout")
	r := newTestRouter(newTestHandler(repo, nil), "alice", "user")

	w := doJSON(t, r, http.MethodPost, "/api/checkout", validCheckout())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Could not create order", body["message"])

	// A failed checkout persists nothing: no order row, and the next
	// successful checkout still takes the first sequence slot of the day.
	orders, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)

	repo.createErr = nil
	w = doJSON(t, r, http.MethodPost, "/api/checkout", validCheckout())
	require.Equal(t, http.StatusCreated, w.Code)
	number, _ := decodeBody(t, w)["order_number"].(string)
	assert.True(t, strings.HasSuffix(number, "0001"), number)
}

func TestCheckoutDeliveryKeepsAddress(t *testing.T) {
	repo := newFakeOrderRepo()
	r := newTestRouter(newTestHandler(repo, nil), "alice", "user")

	payload := validCheckout()
	payload["method"] = "delivery"
	payload["address"] = "1 Main Street"

	w := doJSON(t, r, http.MethodPost, "/api/checkout", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	orders, _ := repo.FindByUser(context.Background(), "alice")
	require.Len(t, orders, 1)
	assert.Equal(t, models.MethodDelivery, orders[0].Method)
	assert.Equal(t, "1 Main Street", orders[0].Address)
}

func TestCheckoutWithCoupon(t *testing.T) {
	now := time.Now()
	coupons := map[string]models.Coupon{
		"SAVE20": {
			Code:      "SAVE20",
			Amount:    20,
			MinAmount: 50,
			StartsAt:  now.AddDate(0, -1, 0),
			ExpiresAt: now.AddDate(0, 1, 0),
			IsActive:  true,
		},
	}

	t.Run("applied", func(t *testing.T) {
		repo := newFakeOrderRepo()
		r := newTestRouter(newTestHandler(repo, coupons), "alice", "user")

		payload := validCheckout()
		payload["cart"] = []map[string]any{{"id": "p1", "name": "Phone", "price": 60.0, "quantity": 1}}
		payload["coupon_code"] = "SAVE20"

		w := doJSON(t, r, http.MethodPost, "/api/checkout", payload)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		orders, _ := repo.FindByUser(context.Background(), "alice")
		require.Len(t, orders, 1)
		assert.Equal(t, "SAVE20", orders[0].Coupon.Code)
		assert.InDelta(t, 20.0, orders[0].Coupon.Discount, 0.001)
		// 60 - 20 = 40, under the free-shipping threshold again.
		assert.InDelta(t, 3.40, orders[0].TaxPrice, 0.001)
		assert.InDelta(t, 5.99, orders[0].ShippingPrice, 0.001)
		assert.InDelta(t, 49.39, orders[0].TotalPrice, 0.001)
	})

	t.Run("unknown code", func(t *testing.T) {
		repo := newFakeOrderRepo()
		r := newTestRouter(newTestHandler(repo, coupons), "alice", "user")

		payload := validCheckout()
		payload["coupon_code"] = "NOPE"

		w := doJSON(t, r, http.MethodPost, "/api/checkout", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid coupon code", decodeBody(t, w)["message"])
	})

	t.Run("below coupon minimum", func(t *testing.T) {
		repo := newFakeOrderRepo()
		r := newTestRouter(newTestHandler(repo, coupons), "alice", "user")

		payload := validCheckout() // subtotal 30, minimum is 50
		payload["coupon_code"] = "SAVE20"

		w := doJSON(t, r, http.MethodPost, "/api/checkout", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Cart total is below the coupon minimum", decodeBody(t, w)["message"])
	})
}

func TestGetMyOrdersOnlyOwn(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.seed(t, models.Order{UserID: "alice", OrderNumber: "GOPG2506030001", Status: models.OrderStatusPending, CreatedAt: time.Now().Add(-2 * time.Hour)})
	repo.seed(t, models.Order{UserID: "alice", OrderNumber: "GOPG2506030002", Status: models.OrderStatusConfirmed, CreatedAt: time.Now().Add(-1 * time.Hour)})
	repo.seed(t, models.Order{UserID: "bob", OrderNumber: "GOPG2506030003", Status: models.OrderStatusPending, CreatedAt: time.Now()})

	r := newTestRouter(newTestHandler(repo, nil), "alice", "user")
	w := doJSON(t, r, http.MethodGet, "/api/my-orders", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	orders, ok := body["orders"].([]any)
	require.True(t, ok)
	require.Len(t, orders, 2)

	// Newest first.
	first := orders[0].(map[string]any)
	assert.Equal(t, "GOPG2506030002", first["order_number"])
}

func TestGetMyOrderOwnership(t *testing.T) {
	repo := newFakeOrderRepo()
	id := repo.seed(t, models.Order{UserID: "bob", Status: models.OrderStatusPending, CreatedAt: time.Now()})

	// A foreign order reads as not found, never as forbidden.
	r := newTestRouter(newTestHandler(repo, nil), "alice", "user")
	w := doJSON(t, r, http.MethodGet, "/api/my-orders/"+id.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Order not found", decodeBody(t, w)["message"])

	owner := newTestRouter(newTestHandler(repo, nil), "bob", "user")
	w = doJSON(t, owner, http.MethodGet, "/api/my-orders/"+id.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, owner, http.MethodGet, "/api/my-orders/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelMyOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	pending := repo.seed(t, models.Order{UserID: "alice", Status: models.OrderStatusPending, CreatedAt: time.Now()})
	confirmed := repo.seed(t, models.Order{UserID: "alice", Status: models.OrderStatusConfirmed, CreatedAt: time.Now()})

	r := newTestRouter(newTestHandler(repo, nil), "alice", "user")

	w := doJSON(t, r, http.MethodPost, "/api/my-orders/"+pending.String()+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got, _ := repo.FindByID(context.Background(), pending)
	assert.Equal(t, models.OrderStatusCancelled, got.Status)

	w = doJSON(t, r, http.MethodPost, "/api/my-orders/"+confirmed.String()+"/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Only pending orders can be cancelled", decodeBody(t, w)["message"])
}
