package client

import (
	"context"
	"fmt"

	"ordercomposite/internal/model"
)

// ShippingAPI typed operations against the shipping service
type ShippingAPI interface {
	GetShippingByOrderID(ctx context.Context, orderID int) (*model.ShippingDto, error)
	GetShipments(ctx context.Context) ([]model.ShippingDto, error)
	GetShipmentsByOrderIDs(ctx context.Context, orderIDs []int) ([]model.ShippingDto, error)
	CreateShipping(ctx context.Context, create model.ShippingCreateDto) (*model.ShippingDto, error)
	UpdateShippingStatus(ctx context.Context, orderID int, status string) (*model.ShippingDto, error)
	Ping(ctx context.Context) error
}

// ShippingClient shipping service client
type ShippingClient struct {
	rest restClient
}

// GetShippingByOrderID fetches the shipment for one order
func (c *ShippingClient) GetShippingByOrderID(ctx context.Context, orderID int) (*model.ShippingDto, error) {
	var shipping model.ShippingDto
	if err := c.rest.get(ctx, fmt.Sprintf("/shipments/order/%d", orderID), &shipping); err != nil {
		return nil, err
	}
	return &shipping, nil
}

// GetShipments fetches all shipments
func (c *ShippingClient) GetShipments(ctx context.Context) ([]model.ShippingDto, error) {
	var shipments []model.ShippingDto
	if err := c.rest.get(ctx, "/shipments", &shipments); err != nil {
		return nil, err
	}
	return shipments, nil
}

// GetShipmentsByOrderIDs resolves shipments for a set of orders in one call
func (c *ShippingClient) GetShipmentsByOrderIDs(ctx context.Context, orderIDs []int) ([]model.ShippingDto, error) {
	var shipments []model.ShippingDto
	if err := c.rest.get(ctx, "/shipments/byOrdersIds?orderIds="+joinIDs(orderIDs), &shipments); err != nil {
		return nil, err
	}
	return shipments, nil
}

// CreateShipping creates the shipping record for an order
func (c *ShippingClient) CreateShipping(ctx context.Context, create model.ShippingCreateDto) (*model.ShippingDto, error) {
	var shipping model.ShippingDto
	if err := c.rest.post(ctx, "/shipments", create, &shipping); err != nil {
		return nil, err
	}
	return &shipping, nil
}

// UpdateShippingStatus updates the status of an order's shipment
func (c *ShippingClient) UpdateShippingStatus(ctx context.Context, orderID int, status string) (*model.ShippingDto, error) {
	var shipping model.ShippingDto
	body := map[string]string{"status": status}
	if err := c.rest.put(ctx, fmt.Sprintf("/shipments/order/%d", orderID), body, &shipping); err != nil {
		return nil, err
	}
	return &shipping, nil
}

// Ping probes shipping service liveness
func (c *ShippingClient) Ping(ctx context.Context) error {
	return c.rest.ping(ctx)
}
