package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordercomposite/internal/model"
	"ordercomposite/pkg/apperr"
)

func newClients(productURL, inventoryURL, orderURL, shippingURL string) *Clients {
	return New(Config{
		ProductBaseURL:   productURL,
		InventoryBaseURL: inventoryURL,
		OrderBaseURL:     orderURL,
		ShippingBaseURL:  shippingURL,
		Timeout:          2 * time.Second,
	})
}

func TestErrorTranslation(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind *apperr.Error
	}{
		{"404 maps to NotFound", http.StatusNotFound, `{"message":"no product found"}`, apperr.ErrNotFound},
		{"422 maps to InvalidInput", http.StatusUnprocessableEntity, `{"message":"invalid productId"}`, apperr.ErrInvalidInput},
		{"400 maps to InvalidInput", http.StatusBadRequest, `{"message":"bad request"}`, apperr.ErrInvalidInput},
		{"409 maps to Conflict", http.StatusConflict, `{"message":"stale version"}`, apperr.ErrConflict},
		{"503 maps to Unavailable", http.StatusServiceUnavailable, `{"message":"down for maintenance"}`, apperr.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			clients := newClients(srv.URL, srv.URL, srv.URL, srv.URL)
			_, err := clients.Product.GetProduct(context.Background(), 1)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantKind)
		})
	}
}

func TestErrorTranslation_ConnectionFailureIsUnavailable(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	clients := newClients(srv.URL, srv.URL, srv.URL, srv.URL)
	_, err := clients.Order.GetOrder(context.Background(), 42)
	assert.ErrorIs(t, err, apperr.ErrUnavailable)
}

func TestErrorTranslation_TimeoutIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	clients := New(Config{
		ProductBaseURL: srv.URL, InventoryBaseURL: srv.URL,
		OrderBaseURL: srv.URL, ShippingBaseURL: srv.URL,
		Timeout: 20 * time.Millisecond,
	})
	_, err := clients.Shipping.GetShippingByOrderID(context.Background(), 42)
	assert.ErrorIs(t, err, apperr.ErrUnavailable)
}

func TestErrorTranslation_UnexpectedRetainsStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	clients := newClients(srv.URL, srv.URL, srv.URL, srv.URL)
	_, err := clients.Inventory.GetInventory(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnexpected, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestGetProductsByIDs_SingleBatchedCall(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/products/byIds", r.URL.Path)
		assert.Equal(t, "7,9,13", r.URL.Query().Get("ids"))
		json.NewEncoder(w).Encode([]model.ProductDto{
			{ID: 7, Name: "keyboard", Price: 250},
			{ID: 9, Name: "mouse", Price: 120},
			{ID: 13, Name: "monitor", Price: 900},
		})
	}))
	defer srv.Close()

	clients := newClients(srv.URL, srv.URL, srv.URL, srv.URL)
	products, err := clients.Product.GetProductsByIDs(context.Background(), []int{7, 9, 13})
	require.NoError(t, err)
	assert.Len(t, products, 3)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetShipmentsByOrderIDs_SingleBatchedCall(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/shipments/byOrdersIds", r.URL.Path)
		assert.Equal(t, "1,2", r.URL.Query().Get("orderIds"))
		json.NewEncoder(w).Encode([]model.ShippingDto{
			{OrderID: 1, Address: "123 Main St", Status: model.ShippingStatusCreated},
			{OrderID: 2, Address: "9 Side Rd", Status: model.ShippingStatusShipped},
		})
	}))
	defer srv.Close()

	clients := newClients(srv.URL, srv.URL, srv.URL, srv.URL)
	shipments, err := clients.Shipping.GetShipmentsByOrderIDs(context.Background(), []int{1, 2})
	require.NoError(t, err)
	assert.Len(t, shipments, 2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCheckStock_DecodesBoolean(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/inventories/checkStock", r.URL.Path)

		var adjustments []model.StockAdjustment
		require.NoError(t, json.NewDecoder(r.Body).Decode(&adjustments))
		require.Len(t, adjustments, 1)
		json.NewEncoder(w).Encode(adjustments[0].Quantity <= 5)
	}))
	defer srv.Close()

	clients := newClients(srv.URL, srv.URL, srv.URL, srv.URL)

	ok, err := clients.Inventory.CheckStock(context.Background(), []model.StockAdjustment{{ProductID: 3, Quantity: 5}})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = clients.Inventory.CheckStock(context.Background(), []model.StockAdjustment{{ProductID: 3, Quantity: 100}})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateInventory_SendsVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/inventories/7", r.URL.Path)

		var body model.InventoryDto
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 3, body.Version)

		body.Version++
		json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	clients := newClients(srv.URL, srv.URL, srv.URL, srv.URL)
	updated, err := clients.Inventory.UpdateInventory(context.Background(), model.InventoryDto{
		ProductID: 7, Quantity: 10, Version: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Version)
}

func TestCreateOrder_PostsAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		var create model.OrderCreateDto
		require.NoError(t, json.NewDecoder(r.Body).Decode(&create))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(model.OrderDto{
			ID: 42, UserID: create.UserID, Status: model.OrderStatusCreated,
		})
	}))
	defer srv.Close()

	clients := newClients(srv.URL, srv.URL, srv.URL, srv.URL)
	order, err := clients.Order.CreateOrder(context.Background(), model.OrderCreateDto{
		UserID:     1,
		OrderItems: []model.OrderItemCreate{{ProductID: 7, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, 42, order.ID)
	assert.Equal(t, model.OrderStatusCreated, order.Status)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	clients := newClients(srv.URL, srv.URL, srv.URL, srv.URL)
	assert.NoError(t, clients.Product.Ping(context.Background()))
}
