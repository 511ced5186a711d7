package model

// Shipping status values. The shipping service stores the status as a
// plain string; the composite layer only emits values from this set.
const (
	ShippingStatusCreated   = "CREATED"
	ShippingStatusShipped   = "SHIPPED"
	ShippingStatusDelivered = "DELIVERED"
	ShippingStatusCancelled = "CANCELLED"
)

// ShippingDto shipping record owned by the shipping service. One record
// per order; Version is the optimistic concurrency counter.
type ShippingDto struct {
	OrderID        int    `json:"orderId"`
	Address        string `json:"address"`
	Status         string `json:"status"`
	Version        int    `json:"version"`
	ServiceAddress string `json:"serviceAddress,omitempty"`
}

// ShippingCreateDto request body for POST /shipments
type ShippingCreateDto struct {
	OrderID int    `json:"orderId"`
	Address string `json:"address"`
}

// IsValidShippingStatus reports whether s belongs to the closed status set
func IsValidShippingStatus(s string) bool {
	switch s {
	case ShippingStatusCreated, ShippingStatusShipped, ShippingStatusDelivered, ShippingStatusCancelled:
		return true
	}
	return false
}
