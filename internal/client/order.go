package client

import (
	"context"
	"fmt"

	"ordercomposite/internal/model"
)

// OrderAPI typed operations against the order service
type OrderAPI interface {
	GetOrder(ctx context.Context, id int) (*model.OrderDto, error)
	GetOrders(ctx context.Context) ([]model.OrderDto, error)
	GetOrdersByUser(ctx context.Context, userID int) ([]model.OrderDto, error)
	CreateOrder(ctx context.Context, create model.OrderCreateDto) (*model.OrderDto, error)
	Ping(ctx context.Context) error
}

// OrderClient order service client
type OrderClient struct {
	rest restClient
}

// GetOrder fetches one order by id
func (c *OrderClient) GetOrder(ctx context.Context, id int) (*model.OrderDto, error) {
	var order model.OrderDto
	if err := c.rest.get(ctx, fmt.Sprintf("/orders/%d", id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrders fetches all orders
func (c *OrderClient) GetOrders(ctx context.Context) ([]model.OrderDto, error) {
	var orders []model.OrderDto
	if err := c.rest.get(ctx, "/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrdersByUser fetches all orders owned by a user
func (c *OrderClient) GetOrdersByUser(ctx context.Context, userID int) ([]model.OrderDto, error) {
	var orders []model.OrderDto
	if err := c.rest.get(ctx, fmt.Sprintf("/orders/user/%d", userID), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateOrder creates an order record
func (c *OrderClient) CreateOrder(ctx context.Context, create model.OrderCreateDto) (*model.OrderDto, error) {
	var order model.OrderDto
	if err := c.rest.post(ctx, "/orders", create, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Ping probes order service liveness
func (c *OrderClient) Ping(ctx context.Context) error {
	return c.rest.ping(ctx)
}
