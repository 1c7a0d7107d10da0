package orders

import (
	"net/url"
	"strconv"

	"github.com/devops-orders/orders-service/internal/domain"
)

// ListFilter holds the optional query parameters of GET /orders. All set
// filters are combined with AND.
type ListFilter struct {
	CustomerID *int64
	Status     *domain.OrderStatus
	MinTotal   *domain.Money
	MaxTotal   *domain.Money
}

// ParseListFilter validates the query string of an order listing. Unknown
// parameters are rejected so a typo never silently returns the full
// collection.
func ParseListFilter(values url.Values) (ListFilter, error) {
	var filter ListFilter

	for key := range values {
		switch key {
		case "customer_id", "status", "min_total", "max_total":
		default:
			return ListFilter{}, &domain.ValidationError{Field: key, Reason: "is not a supported query parameter"}
		}
	}

	if raw := values.Get("customer_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return ListFilter{}, &domain.ValidationError{Field: "customer_id", Reason: "must be an integer"}
		}
		filter.CustomerID = &id
	}

	if raw := values.Get("status"); raw != "" {
		status, err := domain.ParseOrderStatus(raw)
		if err != nil {
			return ListFilter{}, err
		}
		filter.Status = &status
	}

	if raw := values.Get("min_total"); raw != "" {
		min, err := domain.ParseMoney(raw)
		if err != nil {
			return ListFilter{}, &domain.ValidationError{Field: "min_total", Reason: "must be a decimal number"}
		}
		filter.MinTotal = &min
	}

	if raw := values.Get("max_total"); raw != "" {
		max, err := domain.ParseMoney(raw)
		if err != nil {
			return ListFilter{}, &domain.ValidationError{Field: "max_total", Reason: "must be a decimal number"}
		}
		filter.MaxTotal = &max
	}

	return filter, nil
}
