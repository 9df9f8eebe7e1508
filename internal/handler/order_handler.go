package handler

import (
	"encoding/json"
	"net/http"

	"till-ledger/internal/model"
	"till-ledger/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests.
// Both outcomes are reported as a CreateOrderResult.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Msg("invalid order request body")
		writeJSON(w, http.StatusBadRequest, &model.CreateOrderResult{Error: "invalid request body"})
		return
	}

	result, err := h.service.CreateOrder(r.Context(), &req)
	if err != nil {
		status, code, message := errorStatus(err, "failed to create order")
		h.logger.Error().Err(err).Str("code", code).Int("status", status).Msg("order not created")
		writeJSON(w, status, &model.CreateOrderResult{Error: message})
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// List handles GET /api/orders?date=YYYY-MM-DD requests.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err, "failed to list orders", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	orderIDStr := chi.URLParam(r, "id")
	if orderIDStr == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "order ID is required", h.logger)
		return
	}

	orderID, err := uuid.Parse(orderIDStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid order ID format", h.logger)
		return
	}

	order, err := h.service.GetOrderDetail(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve order", h.logger)
		return
	}

	if order == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeOrderNotFound, "order not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// NextNumber handles GET /api/orders/next-number requests.
func (h *OrderHandler) NextNumber(w http.ResponseWriter, r *http.Request) {
	next, err := h.service.NextOrderNumber(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err, "failed to read next order number", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, next)
}
