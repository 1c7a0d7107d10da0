package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

// OrderStatusValues lists every valid status, in lifecycle order.
func OrderStatusValues() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCanceled,
	}
}

// ParseOrderStatus validates a status string from a request body or query
// parameter. The error names every accepted value.
func ParseOrderStatus(value string) (OrderStatus, error) {
	names := make([]string, 0, 4)
	for _, s := range OrderStatusValues() {
		if string(s) == value {
			return s, nil
		}
		names = append(names, string(s))
	}
	return "", &ValidationError{Field: "status", Reason: "must be one of " + strings.Join(names, ", ")}
}

// ErrInvalidTransition reports a status change the lifecycle does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

type Order struct {
	ID         int64       `json:"id"`
	CustomerID int64       `json:"customer_id"`
	Status     OrderStatus `json:"status"`
	TotalPrice Money       `json:"total_price"`
	Items      []Item      `json:"items"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// RecomputeTotal sets total_price to the sum of price*quantity over the
// attached items. An order without items keeps whatever total it has: the
// total is only derived when an item collection is present.
func (o *Order) RecomputeTotal() {
	if len(o.Items) == 0 {
		return
	}
	var total Money
	for _, item := range o.Items {
		total = total.Add(item.Price.MulInt(item.Quantity))
	}
	o.TotalPrice = total
}

// Cancel transitions the order to CANCELED. Only a PENDING order can be
// canceled; shipped, delivered and already-canceled orders are left untouched.
func (o *Order) Cancel() error {
	if o.Status != OrderStatusPending {
		return fmt.Errorf("%w: cannot cancel a %s order", ErrInvalidTransition, o.Status)
	}
	o.Status = OrderStatusCanceled
	return nil
}

// ValidationError reports a missing or malformed field in a request body or
// query string.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

// OrderInput is the wire form of an order create/update body. Required fields
// are pointers so absence is distinguishable from a zero value.
type OrderInput struct {
	CustomerID *int64      `json:"customer_id"`
	Status     *string     `json:"status"`
	TotalPrice *Money      `json:"total_price"`
	Items      []ItemInput `json:"items"`
}

// HasItems reports whether the body carried an item collection at all. An
// explicit empty list replaces the stored items on update; an absent key
// leaves them alone.
func (in *OrderInput) HasItems() bool {
	return in.Items != nil
}

// Order validates the input and converts it to a domain entity. The returned
// order has its total derived from the items when any are present.
func (in *OrderInput) Order() (*Order, error) {
	if in.CustomerID == nil {
		return nil, &ValidationError{Field: "customer_id", Reason: "is required"}
	}

	status := OrderStatusPending
	if in.Status != nil {
		parsed, err := ParseOrderStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	var total Money
	if in.TotalPrice != nil {
		if in.TotalPrice.IsNegative() {
			return nil, &ValidationError{Field: "total_price", Reason: "must not be negative"}
		}
		total = *in.TotalPrice
	}

	items := make([]Item, 0, len(in.Items))
	for _, payload := range in.Items {
		item, err := payload.Item()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	order := &Order{
		CustomerID: *in.CustomerID,
		Status:     status,
		TotalPrice: total,
		Items:      items,
	}
	order.RecomputeTotal()
	return order, nil
}
