// Package mocks provides testify mocks for the downstream service clients.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ordercomposite/internal/model"
)

// ProductAPI mocks client.ProductAPI
type ProductAPI struct {
	mock.Mock
}

func (m *ProductAPI) GetProduct(ctx context.Context, id int) (*model.ProductDto, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductDto), args.Error(1)
}

func (m *ProductAPI) GetProducts(ctx context.Context) ([]model.ProductDto, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProductDto), args.Error(1)
}

func (m *ProductAPI) GetProductsByIDs(ctx context.Context, ids []int) ([]model.ProductDto, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProductDto), args.Error(1)
}

func (m *ProductAPI) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// OrderAPI mocks client.OrderAPI
type OrderAPI struct {
	mock.Mock
}

func (m *OrderAPI) GetOrder(ctx context.Context, id int) (*model.OrderDto, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderDto), args.Error(1)
}

func (m *OrderAPI) GetOrders(ctx context.Context) ([]model.OrderDto, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderDto), args.Error(1)
}

func (m *OrderAPI) GetOrdersByUser(ctx context.Context, userID int) ([]model.OrderDto, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderDto), args.Error(1)
}

func (m *OrderAPI) CreateOrder(ctx context.Context, create model.OrderCreateDto) (*model.OrderDto, error) {
	args := m.Called(ctx, create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderDto), args.Error(1)
}

func (m *OrderAPI) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// ShippingAPI mocks client.ShippingAPI
type ShippingAPI struct {
	mock.Mock
}

func (m *ShippingAPI) GetShippingByOrderID(ctx context.Context, orderID int) (*model.ShippingDto, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShippingDto), args.Error(1)
}

func (m *ShippingAPI) GetShipments(ctx context.Context) ([]model.ShippingDto, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ShippingDto), args.Error(1)
}

func (m *ShippingAPI) GetShipmentsByOrderIDs(ctx context.Context, orderIDs []int) ([]model.ShippingDto, error) {
	args := m.Called(ctx, orderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ShippingDto), args.Error(1)
}

func (m *ShippingAPI) CreateShipping(ctx context.Context, create model.ShippingCreateDto) (*model.ShippingDto, error) {
	args := m.Called(ctx, create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShippingDto), args.Error(1)
}

func (m *ShippingAPI) UpdateShippingStatus(ctx context.Context, orderID int, status string) (*model.ShippingDto, error) {
	args := m.Called(ctx, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShippingDto), args.Error(1)
}

func (m *ShippingAPI) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// InventoryAPI mocks client.InventoryAPI
type InventoryAPI struct {
	mock.Mock
}

func (m *InventoryAPI) GetInventory(ctx context.Context, productID int) (*model.InventoryDto, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryDto), args.Error(1)
}

func (m *InventoryAPI) GetInventories(ctx context.Context) ([]model.InventoryDto, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InventoryDto), args.Error(1)
}

func (m *InventoryAPI) CreateInventory(ctx context.Context, create model.InventoryCreateDto) (*model.InventoryDto, error) {
	args := m.Called(ctx, create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryDto), args.Error(1)
}

func (m *InventoryAPI) CheckStock(ctx context.Context, adjustments []model.StockAdjustment) (bool, error) {
	args := m.Called(ctx, adjustments)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryAPI) ReduceStocks(ctx context.Context, adjustments []model.StockAdjustment) error {
	return m.Called(ctx, adjustments).Error(0)
}

func (m *InventoryAPI) UpdateInventory(ctx context.Context, inventory model.InventoryDto) (*model.InventoryDto, error) {
	args := m.Called(ctx, inventory)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryDto), args.Error(1)
}

func (m *InventoryAPI) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
