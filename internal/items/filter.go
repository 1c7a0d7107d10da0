package items

import (
	"net/url"
	"strconv"

	"github.com/devops-orders/orders-service/internal/domain"
)

// ListFilter holds the optional query parameters of an item listing, always
// scoped to one order. All set filters are combined with AND.
type ListFilter struct {
	Category    *string
	Name        *string
	Description *string
	ProductID   *int64
	Quantity    *int
	MinPrice    *domain.Money
	MaxPrice    *domain.Money
}

// ParseListFilter validates the query string of GET /orders/{id}/items.
// Category matches case-insensitively; name and description are
// case-insensitive substring matches. Unknown parameters are rejected.
func ParseListFilter(values url.Values) (ListFilter, error) {
	var filter ListFilter

	for key := range values {
		switch key {
		case "category", "name", "description", "product_id", "quantity", "min_price", "max_price":
		default:
			return ListFilter{}, &domain.ValidationError{Field: key, Reason: "is not a supported query parameter"}
		}
	}

	if raw := values.Get("category"); raw != "" {
		filter.Category = &raw
	}
	if raw := values.Get("name"); raw != "" {
		filter.Name = &raw
	}
	if raw := values.Get("description"); raw != "" {
		filter.Description = &raw
	}

	if raw := values.Get("product_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return ListFilter{}, &domain.ValidationError{Field: "product_id", Reason: "must be an integer"}
		}
		filter.ProductID = &id
	}

	if raw := values.Get("quantity"); raw != "" {
		quantity, err := strconv.Atoi(raw)
		if err != nil {
			return ListFilter{}, &domain.ValidationError{Field: "quantity", Reason: "must be an integer"}
		}
		filter.Quantity = &quantity
	}

	if raw := values.Get("min_price"); raw != "" {
		min, err := domain.ParseMoney(raw)
		if err != nil {
			return ListFilter{}, &domain.ValidationError{Field: "min_price", Reason: "must be a decimal number"}
		}
		filter.MinPrice = &min
	}

	if raw := values.Get("max_price"); raw != "" {
		max, err := domain.ParseMoney(raw)
		if err != nil {
			return ListFilter{}, &domain.ValidationError{Field: "max_price", Reason: "must be a decimal number"}
		}
		filter.MaxPrice = &max
	}

	return filter, nil
}
