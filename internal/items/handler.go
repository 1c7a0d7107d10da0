package items

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/devops-orders/orders-service/internal/domain"
)

type Handler struct {
	repo   *ItemRepository
	logger *slog.Logger
}

func NewHandler(repo *ItemRepository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}
	if !h.requireJSON(w, r) {
		return
	}

	var input domain.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeBodyError(w, err)
		return
	}

	item, err := input.Item()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	item.OrderID = orderID

	exists, err := h.repo.OrderExists(r.Context(), orderID)
	if err != nil {
		h.logger.Error("failed to check order", "error", err, "order_id", orderID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !exists {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("order with id '%d' was not found", orderID))
		return
	}

	if err := h.repo.Create(r.Context(), &item); err != nil {
		h.logger.Error("failed to create item", "error", err, "order_id", orderID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("item created", "item_id", item.ID, "order_id", orderID)
	w.Header().Set("Location", fmt.Sprintf("/orders/%d/items/%d", orderID, item.ID))
	h.writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	filter, err := ParseListFilter(r.URL.Query())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	exists, err := h.repo.OrderExists(r.Context(), orderID)
	if err != nil {
		h.logger.Error("failed to check order", "error", err, "order_id", orderID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !exists {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("order with id '%d' was not found", orderID))
		return
	}

	items, err := h.repo.List(r.Context(), orderID, filter)
	if err != nil {
		h.logger.Error("failed to list items", "error", err, "order_id", orderID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("items listed", "order_id", orderID, "count", len(items))
	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	orderID, itemID, ok := h.itemPath(w, r)
	if !ok {
		return
	}

	item, err := h.repo.GetByID(r.Context(), orderID, itemID)
	if err != nil {
		h.logger.Error("failed to get item", "error", err, "order_id", orderID, "item_id", itemID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if item == nil {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("item with id '%d' was not found", itemID))
		return
	}

	h.writeJSON(w, http.StatusOK, item)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	orderID, itemID, ok := h.itemPath(w, r)
	if !ok {
		return
	}
	if !h.requireJSON(w, r) {
		return
	}

	existing, err := h.repo.GetByID(r.Context(), orderID, itemID)
	if err != nil {
		h.logger.Error("failed to get item", "error", err, "order_id", orderID, "item_id", itemID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if existing == nil {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("item with id '%d' was not found", itemID))
		return
	}

	var input domain.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeBodyError(w, err)
		return
	}

	item, err := input.Item()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	item.ID = itemID
	item.OrderID = orderID

	if err := h.repo.Update(r.Context(), &item); err != nil {
		h.logger.Error("failed to update item", "error", err, "order_id", orderID, "item_id", itemID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("item updated", "item_id", item.ID, "order_id", orderID)
	h.writeJSON(w, http.StatusOK, item)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	orderID, itemID, ok := h.itemPath(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), orderID, itemID); err != nil {
		h.logger.Error("failed to delete item", "error", err, "order_id", orderID, "item_id", itemID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("item deleted", "item_id", itemID, "order_id", orderID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("order with id '%s' was not found", raw))
		return 0, false
	}
	return id, true
}

func (h *Handler) itemPath(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return 0, 0, false
	}
	raw := r.PathValue("itemID")
	itemID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("item with id '%s' was not found", raw))
		return 0, 0, false
	}
	return orderID, itemID, true
}

func (h *Handler) requireJSON(w http.ResponseWriter, r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		h.writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "application/json" {
		h.writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	return true
}

func (h *Handler) writeBodyError(w http.ResponseWriter, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		h.writeError(w, http.StatusBadRequest, "invalid "+typeErr.Field+": has the wrong type")
		return
	}
	h.writeError(w, http.StatusBadRequest, "invalid request body")
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		h.writeError(w, http.StatusBadRequest, validationErr.Error())
		return
	}
	h.logger.Error("unexpected domain error", "error", err)
	h.writeError(w, http.StatusInternalServerError, "internal server error")
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
