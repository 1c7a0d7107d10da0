package domain

import "fmt"

const (
	maxNameLen        = 63
	maxCategoryLen    = 63
	maxDescriptionLen = 1023
)

// Item is a line entry belonging to exactly one order.
type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	ProductID   int64  `json:"product_id"`
	Description string `json:"description"`
	Price       Money  `json:"price"`
	Quantity    int    `json:"quantity"`
	OrderID     int64  `json:"order_id"`
}

// Subtotal is price times quantity.
func (i Item) Subtotal() Money {
	return i.Price.MulInt(i.Quantity)
}

// ItemInput is the wire form of an item create/update body.
type ItemInput struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	ProductID   *int64  `json:"product_id"`
	Price       *Money  `json:"price"`
	Quantity    *int    `json:"quantity"`
}

// Item validates the input and converts it to a domain entity. Quantity
// defaults to 1 when absent. The owning order id is assigned by the caller.
func (in *ItemInput) Item() (Item, error) {
	if in.Name == nil {
		return Item{}, &ValidationError{Field: "name", Reason: "is required"}
	}
	if len(*in.Name) > maxNameLen {
		return Item{}, &ValidationError{Field: "name", Reason: fmt.Sprintf("must be at most %d characters", maxNameLen)}
	}
	if in.Category == nil {
		return Item{}, &ValidationError{Field: "category", Reason: "is required"}
	}
	if len(*in.Category) > maxCategoryLen {
		return Item{}, &ValidationError{Field: "category", Reason: fmt.Sprintf("must be at most %d characters", maxCategoryLen)}
	}
	if in.Description == nil {
		return Item{}, &ValidationError{Field: "description", Reason: "is required"}
	}
	if len(*in.Description) > maxDescriptionLen {
		return Item{}, &ValidationError{Field: "description", Reason: fmt.Sprintf("must be at most %d characters", maxDescriptionLen)}
	}
	if in.ProductID == nil {
		return Item{}, &ValidationError{Field: "product_id", Reason: "is required"}
	}
	if in.Price == nil {
		return Item{}, &ValidationError{Field: "price", Reason: "is required"}
	}
	if in.Price.IsNegative() {
		return Item{}, &ValidationError{Field: "price", Reason: "must not be negative"}
	}

	quantity := 1
	if in.Quantity != nil {
		if *in.Quantity < 1 {
			return Item{}, &ValidationError{Field: "quantity", Reason: "must be at least 1"}
		}
		quantity = *in.Quantity
	}

	return Item{
		Name:        *in.Name,
		Category:    *in.Category,
		Description: *in.Description,
		ProductID:   *in.ProductID,
		Price:       *in.Price,
		Quantity:    quantity,
	}, nil
}
