package domain

import (
	"errors"
	"strings"
	"testing"
)

func fullItemInput(t *testing.T) ItemInput {
	t.Helper()
	name, category, description := "widget", "tools", "a widget"
	productID := int64(42)
	price := mustMoney(t, "10.00")
	quantity := 2
	return ItemInput{
		Name:        &name,
		Category:    &category,
		Description: &description,
		ProductID:   &productID,
		Price:       &price,
		Quantity:    &quantity,
	}
}

func TestItemInput_Item(t *testing.T) {
	t.Run("converts a complete input", func(t *testing.T) {
		input := fullItemInput(t)
		item, err := input.Item()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.Name != "widget" || item.Quantity != 2 || item.ProductID != 42 {
			t.Errorf("unexpected item: %+v", item)
		}
	})

	t.Run("names each missing required field", func(t *testing.T) {
		cases := map[string]func(*ItemInput){
			"name":        func(in *ItemInput) { in.Name = nil },
			"category":    func(in *ItemInput) { in.Category = nil },
			"description": func(in *ItemInput) { in.Description = nil },
			"product_id":  func(in *ItemInput) { in.ProductID = nil },
			"price":       func(in *ItemInput) { in.Price = nil },
		}

		for field, clear := range cases {
			input := fullItemInput(t)
			clear(&input)

			_, err := input.Item()
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected a validation error for missing %s, got %v", field, err)
			}
			if validationErr.Field != field {
				t.Errorf("expected field %s, got %s", field, validationErr.Field)
			}
		}
	})

	t.Run("rejects a negative price", func(t *testing.T) {
		input := fullItemInput(t)
		negative := mustMoney(t, "-0.01")
		input.Price = &negative

		if _, err := input.Item(); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("defaults quantity to 1", func(t *testing.T) {
		input := fullItemInput(t)
		input.Quantity = nil

		item, err := input.Item()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.Quantity != 1 {
			t.Errorf("expected quantity 1, got %d", item.Quantity)
		}
	})

	t.Run("rejects quantity below 1", func(t *testing.T) {
		input := fullItemInput(t)
		zero := 0
		input.Quantity = &zero

		if _, err := input.Item(); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("rejects an overlong name", func(t *testing.T) {
		input := fullItemInput(t)
		long := strings.Repeat("x", 64)
		input.Name = &long

		if _, err := input.Item(); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestItem_Subtotal(t *testing.T) {
	item := Item{Price: mustMoney(t, "5.25"), Quantity: 4}
	if !item.Subtotal().Equal(mustMoney(t, "21.00")) {
		t.Errorf("expected subtotal 21.00, got %s", item.Subtotal().StringFixed(2))
	}
}
