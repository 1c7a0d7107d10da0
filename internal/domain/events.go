package domain

import "time"

// Event types carried in the message header of the order events topic.
const (
	EventTypeOrderCreated  = "order.created"
	EventTypeOrderCanceled = "order.canceled"
	EventTypeOrderRepeated = "order.repeated"
)

type OrderCreatedEvent struct {
	OrderID    int64     `json:"order_id"`
	CustomerID int64     `json:"customer_id"`
	TotalPrice Money     `json:"total_price"`
	Items      []Item    `json:"items"`
	Timestamp  time.Time `json:"timestamp"`
}

type OrderCanceledEvent struct {
	OrderID    int64     `json:"order_id"`
	CustomerID int64     `json:"customer_id"`
	Timestamp  time.Time `json:"timestamp"`
}

type OrderRepeatedEvent struct {
	OrderID       int64     `json:"order_id"`
	SourceOrderID int64     `json:"source_order_id"`
	CustomerID    int64     `json:"customer_id"`
	Timestamp     time.Time `json:"timestamp"`
}
