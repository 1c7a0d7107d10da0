package items

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestHandler() *Handler {
	return NewHandler(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp["error"]
}

func TestHandler_HandleCreate_Validation(t *testing.T) {
	handler := newTestHandler()

	t.Run("returns 404 for a non-integer order id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/orders/abc/items", strings.NewReader(`{}`))
		req.SetPathValue("id", "abc")
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("rejects a missing content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/orders/1/items", strings.NewReader(`{}`))
		req.SetPathValue("id", "1")
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusUnsupportedMediaType {
			t.Errorf("expected status 415, got %d", rec.Code)
		}
	})

	t.Run("rejects an item without a name", func(t *testing.T) {
		body := `{"category": "fruit", "description": "ripe", "product_id": 1, "price": "1.00"}`
		req := httptest.NewRequest(http.MethodPost, "/orders/1/items", strings.NewReader(body))
		req.SetPathValue("id", "1")
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
		if !strings.Contains(errorBody(t, rec), "name") {
			t.Errorf("expected the error to name the field, got: %s", rec.Body.String())
		}
	})

	t.Run("rejects a negative price", func(t *testing.T) {
		body := `{"name": "banana", "category": "fruit", "description": "ripe", "product_id": 1, "price": "-1.00"}`
		req := httptest.NewRequest(http.MethodPost, "/orders/1/items", strings.NewReader(body))
		req.SetPathValue("id", "1")
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
		if !strings.Contains(errorBody(t, rec), "price") {
			t.Errorf("expected the error to name the field, got: %s", rec.Body.String())
		}
	})

	t.Run("rejects a zero quantity", func(t *testing.T) {
		body := `{"name": "banana", "category": "fruit", "description": "ripe", "product_id": 1, "price": "1.00", "quantity": 0}`
		req := httptest.NewRequest(http.MethodPost, "/orders/1/items", strings.NewReader(body))
		req.SetPathValue("id", "1")
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
		if !strings.Contains(errorBody(t, rec), "quantity") {
			t.Errorf("expected the error to name the field, got: %s", rec.Body.String())
		}
	})
}

func TestHandler_HandleList_Validation(t *testing.T) {
	handler := newTestHandler()

	t.Run("rejects unknown query parameters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders/1/items?color=yellow", nil)
		req.SetPathValue("id", "1")
		rec := httptest.NewRecorder()

		handler.HandleList(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
		if !strings.Contains(errorBody(t, rec), "color") {
			t.Errorf("expected the error to name the parameter, got: %s", rec.Body.String())
		}
	})

	t.Run("returns 404 for a non-integer order id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders/abc/items", nil)
		req.SetPathValue("id", "abc")
		rec := httptest.NewRecorder()

		handler.HandleList(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}

func TestHandler_NonIntegerItemID(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/orders/1/items/xyz", nil)
	req.SetPathValue("id", "1")
	req.SetPathValue("itemID", "xyz")
	rec := httptest.NewRecorder()

	handler.HandleGet(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}
