package model

import "time"

// Order status values reported by the order service
const (
	OrderStatusCreated   = "CREATED"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// OrderItemDto a single order line
type OrderItemDto struct {
	ID        int `json:"id"`
	OrderID   int `json:"orderId"`
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
	Price     int `json:"price"`
}

// OrderDto order record owned by the order service
type OrderDto struct {
	ID             int            `json:"id"`
	UserID         int            `json:"userId"`
	TotalPrice     int            `json:"totalPrice"`
	Status         string         `json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	OrderItems     []OrderItemDto `json:"orderItems"`
	ServiceAddress string         `json:"serviceAddress,omitempty"`
}

// OrderCreateDto request body for POST /orders on the order service
type OrderCreateDto struct {
	UserID     int               `json:"userId"`
	OrderItems []OrderItemCreate `json:"orderItems"`
}
