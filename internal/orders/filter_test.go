package orders

import (
	"net/url"
	"strings"
	"testing"

	"github.com/devops-orders/orders-service/internal/domain"
)

func TestParseListFilter(t *testing.T) {
	t.Run("empty query yields an empty filter", func(t *testing.T) {
		filter, err := ParseListFilter(url.Values{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filter.CustomerID != nil || filter.Status != nil || filter.MinTotal != nil || filter.MaxTotal != nil {
			t.Errorf("expected empty filter, got %+v", filter)
		}
	})

	t.Run("parses all supported parameters", func(t *testing.T) {
		values := url.Values{}
		values.Set("customer_id", "123")
		values.Set("status", "SHIPPED")
		values.Set("min_total", "50")
		values.Set("max_total", "200.00")

		filter, err := ParseListFilter(values)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filter.CustomerID == nil || *filter.CustomerID != 123 {
			t.Errorf("unexpected customer_id: %v", filter.CustomerID)
		}
		if filter.Status == nil || *filter.Status != domain.OrderStatusShipped {
			t.Errorf("unexpected status: %v", filter.Status)
		}
		if filter.MinTotal == nil || filter.MinTotal.StringFixed(2) != "50.00" {
			t.Errorf("unexpected min_total: %v", filter.MinTotal)
		}
		if filter.MaxTotal == nil || filter.MaxTotal.StringFixed(2) != "200.00" {
			t.Errorf("unexpected max_total: %v", filter.MaxTotal)
		}
	})

	t.Run("rejects unknown parameters", func(t *testing.T) {
		values := url.Values{}
		values.Set("foo", "123")

		_, err := ParseListFilter(values)
		if err == nil {
			t.Fatal("expected an error")
		}
		if !strings.Contains(err.Error(), "foo") {
			t.Errorf("expected the error to name the parameter, got: %v", err)
		}
	})

	t.Run("rejects a non-integer customer_id", func(t *testing.T) {
		values := url.Values{}
		values.Set("customer_id", "abc")

		if _, err := ParseListFilter(values); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("rejects an invalid status and names valid values", func(t *testing.T) {
		values := url.Values{}
		values.Set("status", "XXXXXX")

		_, err := ParseListFilter(values)
		if err == nil {
			t.Fatal("expected an error")
		}
		if !strings.Contains(err.Error(), "DELIVERED") {
			t.Errorf("expected the error to list valid statuses, got: %v", err)
		}
	})

	t.Run("rejects a non-decimal total bound", func(t *testing.T) {
		values := url.Values{}
		values.Set("min_total", "cheap")

		if _, err := ParseListFilter(values); err == nil {
			t.Error("expected an error")
		}
	})
}
