package model

import "ordercomposite/pkg/apperr"

// InventoryDto inventory record owned by the inventory service. Quantity
// never goes below zero; Version is the optimistic concurrency counter.
type InventoryDto struct {
	ProductID      int    `json:"productId"`
	Quantity       int    `json:"quantity"`
	Version        int    `json:"version"`
	ServiceAddress string `json:"serviceAddress,omitempty"`
}

// InventoryCreateDto request body for POST /inventories
type InventoryCreateDto struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// StockAdjustment a positive stock quantity delta. Direction (increase or
// decrease) is carried by the surrounding event type, not the payload.
type StockAdjustment struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// Validate checks the adjustment invariants
func (a StockAdjustment) Validate() error {
	if a.ProductID < 1 || a.Quantity < 1 {
		return apperr.Newf(apperr.KindInvalidInput,
			"invalid stock adjustment: productId = %d, quantity = %d", a.ProductID, a.Quantity)
	}
	return nil
}
