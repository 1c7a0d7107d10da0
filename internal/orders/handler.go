package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/devops-orders/orders-service/internal/domain"
	"github.com/devops-orders/orders-service/internal/messaging"
	"github.com/devops-orders/orders-service/internal/telemetry"
)

type Handler struct {
	repo     *OrderRepository
	producer *messaging.Producer
	metrics  *telemetry.OrderMetrics
	logger   *slog.Logger
}

// NewHandler wires the order endpoints. The producer may be nil, in which
// case no lifecycle events are published.
func NewHandler(repo *OrderRepository, producer *messaging.Producer, logger *slog.Logger) (*Handler, error) {
	metrics, err := telemetry.NewOrderMetrics()
	if err != nil {
		return nil, err
	}
	return &Handler{
		repo:     repo,
		producer: producer,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !h.requireJSON(w, r) {
		return
	}

	var input domain.OrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeBodyError(w, err)
		return
	}

	order, err := input.Order()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	order.CreatedAt = time.Now().UTC()

	if err := h.repo.Create(r.Context(), order); err != nil {
		h.logger.Error("failed to create order", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.publish(r.Context(), order.ID, domain.EventTypeOrderCreated, domain.OrderCreatedEvent{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		TotalPrice: order.TotalPrice,
		Items:      order.Items,
		Timestamp:  order.CreatedAt,
	})
	h.metrics.OrderCreated(r.Context())

	h.logger.Info("order created", "order_id", order.ID, "customer_id", order.CustomerID)
	w.Header().Set("Location", fmt.Sprintf("/orders/%d", order.ID))
	h.writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseListFilter(r.URL.Query())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	orders, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("orders listed", "count", len(orders))
	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if order == nil {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("order with id '%d' was not found", id))
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	if !h.requireJSON(w, r) {
		return
	}

	existing, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if existing == nil {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("order with id '%d' was not found", id))
		return
	}

	var input domain.OrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeBodyError(w, err)
		return
	}

	order, err := input.Order()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	order.ID = existing.ID
	order.CreatedAt = existing.CreatedAt

	replaceItems := input.HasItems()
	if !replaceItems {
		// Keep the stored items; the total is still re-derived from them.
		order.Items = existing.Items
		order.RecomputeTotal()
	}

	if err := h.repo.Update(r.Context(), order, replaceItems); err != nil {
		h.logger.Error("failed to update order", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("order updated", "order_id", order.ID, "status", order.Status)
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete order", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("order deleted", "order_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if order == nil {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("order with id '%d' was not found", id))
		return
	}

	if err := order.Cancel(); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to cancel order", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if _, err := h.repo.UpdateStatus(r.Context(), id, order.Status); err != nil {
		h.logger.Error("failed to persist cancellation", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.publish(r.Context(), order.ID, domain.EventTypeOrderCanceled, domain.OrderCanceledEvent{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Timestamp:  time.Now().UTC(),
	})
	h.metrics.OrderCanceled(r.Context())

	h.logger.Info("order canceled", "order_id", order.ID)
	h.writeJSON(w, http.StatusOK, order)
}

type repeatResponse struct {
	OrderID int64              `json:"order_id"`
	Status  domain.OrderStatus `json:"status"`
}

func (h *Handler) HandleRepeat(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	source, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if source == nil {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("order with id '%d' was not found", id))
		return
	}

	if source.Status == domain.OrderStatusCanceled {
		h.writeError(w, http.StatusBadRequest, "cannot repeat a canceled order")
		return
	}

	clone := &domain.Order{
		CustomerID: source.CustomerID,
		Status:     domain.OrderStatusPending,
		Items:      make([]domain.Item, 0, len(source.Items)),
		CreatedAt:  time.Now().UTC(),
	}
	for _, item := range source.Items {
		clone.Items = append(clone.Items, domain.Item{
			Name:        item.Name,
			Category:    item.Category,
			Description: item.Description,
			ProductID:   item.ProductID,
			Price:       item.Price,
			Quantity:    item.Quantity,
		})
	}
	clone.RecomputeTotal()

	if err := h.repo.Create(r.Context(), clone); err != nil {
		h.logger.Error("failed to repeat order", "error", err, "source_order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.publish(r.Context(), clone.ID, domain.EventTypeOrderRepeated, domain.OrderRepeatedEvent{
		OrderID:       clone.ID,
		SourceOrderID: source.ID,
		CustomerID:    clone.CustomerID,
		Timestamp:     clone.CreatedAt,
	})
	h.metrics.OrderRepeated(r.Context())

	h.logger.Info("order repeated", "order_id", clone.ID, "source_order_id", source.ID)
	w.Header().Set("Location", fmt.Sprintf("/orders/%d", clone.ID))
	h.writeJSON(w, http.StatusCreated, repeatResponse{OrderID: clone.ID, Status: clone.Status})
}

// orderID parses the {id} path segment. A non-integer id can never match an
// order, so it reports not found rather than bad request.
func (h *Handler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("order with id '%s' was not found", raw))
		return 0, false
	}
	return id, true
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

func (h *Handler) publish(ctx context.Context, orderID int64, eventType string, event any) {
	if h.producer == nil {
		return
	}
	key := strconv.FormatInt(orderID, 10)
	if err := h.producer.Publish(ctx, key, eventType, event); err != nil {
		h.logger.Error("failed to publish order event", "error", err, "event", eventType, "order_id", orderID)
	}
}

// writeBodyError maps a JSON decode failure to a 400, naming the offending
// field when the decoder can tell us.
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
