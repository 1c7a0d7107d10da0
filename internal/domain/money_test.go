package domain

import (
	"encoding/json"
	"testing"
)

func mustMoney(t *testing.T, value string) Money {
	t.Helper()
	m, err := ParseMoney(value)
	if err != nil {
		t.Fatalf("failed to parse money %q: %v", value, err)
	}
	return m
}

func TestParseMoney(t *testing.T) {
	t.Run("parses decimal strings", func(t *testing.T) {
		m, err := ParseMoney("19.99")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.StringFixed(2) != "19.99" {
			t.Errorf("expected 19.99, got %s", m.StringFixed(2))
		}
	})

	t.Run("rejects non-numeric strings", func(t *testing.T) {
		if _, err := ParseMoney("nineteen"); err == nil {
			t.Error("expected an error for a non-numeric string")
		}
	})
}

func TestMoney_MarshalJSON(t *testing.T) {
	t.Run("preserves two decimal places", func(t *testing.T) {
		data, err := json.Marshal(mustMoney(t, "35.00"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `"35.00"` {
			t.Errorf(`expected "35.00", got %s`, data)
		}
	})

	t.Run("pads whole amounts", func(t *testing.T) {
		data, err := json.Marshal(mustMoney(t, "7"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `"7.00"` {
			t.Errorf(`expected "7.00", got %s`, data)
		}
	})

	t.Run("zero value renders as 0.00", func(t *testing.T) {
		data, err := json.Marshal(Money{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `"0.00"` {
			t.Errorf(`expected "0.00", got %s`, data)
		}
	})
}

func TestMoney_UnmarshalJSON(t *testing.T) {
	t.Run("accepts quoted decimal strings", func(t *testing.T) {
		var m Money
		if err := json.Unmarshal([]byte(`"12.30"`), &m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !m.Equal(mustMoney(t, "12.30")) {
			t.Errorf("expected 12.30, got %s", m.StringFixed(2))
		}
	})

	t.Run("accepts bare numbers", func(t *testing.T) {
		var m Money
		if err := json.Unmarshal([]byte(`12.3`), &m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !m.Equal(mustMoney(t, "12.30")) {
			t.Errorf("expected 12.30, got %s", m.StringFixed(2))
		}
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	t.Run("MulInt multiplies by a quantity", func(t *testing.T) {
		got := mustMoney(t, "10.00").MulInt(3)
		if !got.Equal(mustMoney(t, "30.00")) {
			t.Errorf("expected 30.00, got %s", got.StringFixed(2))
		}
	})

	t.Run("Equal ignores scale", func(t *testing.T) {
		if !mustMoney(t, "35").Equal(mustMoney(t, "35.00")) {
			t.Error("expected 35 to equal 35.00")
		}
	})
}
