package client

import (
	"context"
	"fmt"

	"ordercomposite/internal/model"
)

// InventoryAPI typed operations against the inventory service
type InventoryAPI interface {
	GetInventory(ctx context.Context, productID int) (*model.InventoryDto, error)
	GetInventories(ctx context.Context) ([]model.InventoryDto, error)
	CreateInventory(ctx context.Context, create model.InventoryCreateDto) (*model.InventoryDto, error)
	CheckStock(ctx context.Context, adjustments []model.StockAdjustment) (bool, error)
	ReduceStocks(ctx context.Context, adjustments []model.StockAdjustment) error
	UpdateInventory(ctx context.Context, inventory model.InventoryDto) (*model.InventoryDto, error)
	Ping(ctx context.Context) error
}

// InventoryClient inventory service client
type InventoryClient struct {
	rest restClient
}

// GetInventory fetches the inventory record for one product
func (c *InventoryClient) GetInventory(ctx context.Context, productID int) (*model.InventoryDto, error) {
	var inventory model.InventoryDto
	if err := c.rest.get(ctx, fmt.Sprintf("/inventories/%d", productID), &inventory); err != nil {
		return nil, err
	}
	return &inventory, nil
}

// GetInventories fetches all inventory records
func (c *InventoryClient) GetInventories(ctx context.Context) ([]model.InventoryDto, error) {
	var inventories []model.InventoryDto
	if err := c.rest.get(ctx, "/inventories", &inventories); err != nil {
		return nil, err
	}
	return inventories, nil
}

// CreateInventory registers stock for a product for the first time
func (c *InventoryClient) CreateInventory(ctx context.Context, create model.InventoryCreateDto) (*model.InventoryDto, error) {
	var inventory model.InventoryDto
	if err := c.rest.post(ctx, "/inventories", create, &inventory); err != nil {
		return nil, err
	}
	return &inventory, nil
}

// CheckStock asks whether every adjustment is currently satisfiable
func (c *InventoryClient) CheckStock(ctx context.Context, adjustments []model.StockAdjustment) (bool, error) {
	var sufficient bool
	if err := c.rest.put(ctx, "/inventories/checkStock", adjustments, &sufficient); err != nil {
		return false, err
	}
	return sufficient, nil
}

// ReduceStocks reduces stock for all adjustments in a single request
func (c *InventoryClient) ReduceStocks(ctx context.Context, adjustments []model.StockAdjustment) error {
	return c.rest.put(ctx, "/inventories/reduceStock", adjustments, nil)
}

// UpdateInventory persists a mutated record under its optimistic version;
// a stale version maps to Conflict.
func (c *InventoryClient) UpdateInventory(ctx context.Context, inventory model.InventoryDto) (*model.InventoryDto, error) {
	var updated model.InventoryDto
	path := fmt.Sprintf("/inventories/%d", inventory.ProductID)
	if err := c.rest.put(ctx, path, inventory, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Ping probes inventory service liveness
func (c *InventoryClient) Ping(ctx context.Context) error {
	return c.rest.ping(ctx)
}
