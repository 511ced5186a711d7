package model

import (
	"time"

	"ordercomposite/pkg/apperr"
)

// ProductSummary product details embedded in an item summary
type ProductSummary struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
}

// OrderItemSummary one order line joined with its product. Price is the
// line price (quantity x unit price).
type OrderItemSummary struct {
	OrderItemID int            `json:"orderItemId"`
	Quantity    int            `json:"quantity"`
	Price       int            `json:"price"`
	Product     ProductSummary `json:"product"`
}

// ShippingSummary shipping view embedded in an aggregate
type ShippingSummary struct {
	OrderID int    `json:"orderId"`
	Address string `json:"address"`
	Status  string `json:"status"`
}

// OrderAggregate read-only composite view of one order. Items has the same
// length and order as the source order's line items; ServiceAddresses
// records which service instance answered each sub-query.
type OrderAggregate struct {
	OrderID          int                `json:"orderId"`
	UserID           int                `json:"userId"`
	TotalPrice       int                `json:"totalPrice"`
	Status           string             `json:"status"`
	CreatedAt        time.Time          `json:"createdAt"`
	ShippingSummary  ShippingSummary    `json:"shippingSummary"`
	Items            []OrderItemSummary `json:"orderItemsSummary"`
	ServiceAddresses map[string]string  `json:"serviceAddresses"`
}

// OrderItemCreate one requested order line
type OrderItemCreate struct {
	ProductID int `json:"productId" binding:"required,min=1"`
	Quantity  int `json:"quantity" binding:"required,min=1"`
}

// OrderCreateRequest input for composite order placement
type OrderCreateRequest struct {
	UserID          int               `json:"userId" binding:"required,min=1"`
	ShippingAddress string            `json:"shippingAddress" binding:"required"`
	Items           []OrderItemCreate `json:"items" binding:"required,min=1,dive"`
}

// Validate checks the request invariants locally, before any network call
func (r *OrderCreateRequest) Validate() error {
	if r.UserID < 1 {
		return apperr.Newf(apperr.KindInvalidInput, "invalid userId: %d", r.UserID)
	}
	if r.ShippingAddress == "" {
		return apperr.New(apperr.KindInvalidInput, "shippingAddress is required")
	}
	if len(r.Items) == 0 {
		return apperr.New(apperr.KindInvalidInput, "order must contain at least one item")
	}
	for _, item := range r.Items {
		if item.ProductID < 1 || item.Quantity < 1 {
			return apperr.Newf(apperr.KindInvalidInput,
				"invalid order item: productId = %d, quantity = %d", item.ProductID, item.Quantity)
		}
	}
	return nil
}

// Adjustments maps the requested lines to stock adjustments, preserving order
func (r *OrderCreateRequest) Adjustments() []StockAdjustment {
	adjustments := make([]StockAdjustment, 0, len(r.Items))
	for _, item := range r.Items {
		adjustments = append(adjustments, StockAdjustment{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return adjustments
}
