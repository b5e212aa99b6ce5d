package transport

import (
	"net/http"
	"strconv"
	"time"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderLineRequest is one product/quantity pair of an order request
type OrderLineRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"required,gt=0"`
}

// PlaceOrderRequest is the payload for placing an order
type PlaceOrderRequest struct {
	Items []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderStatusRequest is the payload for moving an order item to a new status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orders service.OrderService
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/order", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/create", h.Place)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminMiddleware)
			r.Put("/update-item-status/{orderItemId}", h.UpdateStatus)
			r.Get("/filter", h.Filter)
		})
	})
}

// Place handles order placement for the authenticated user
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req PlaceOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Order validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lines := make([]service.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	resp, err := h.orders.PlaceOrder(r.Context(), userID, lines)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Order placed", zap.Int64("user_id", userID), zap.Int("items", len(lines)))
	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// UpdateStatus moves an order item to a new status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderItemID, err := strconv.ParseInt(chi.URLParam(r, "orderItemId"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order item ID")
		return
	}

	var req UpdateOrderStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.orders.UpdateOrderItemStatus(r.Context(), orderItemID, req.Status)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Order status updated",
		zap.Int64("order_item_id", orderItemID),
		zap.String("status", req.Status),
	)
	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// Filter returns order items matching the query parameters: status,
// startDate, endDate (RFC 3339), itemId, page and size
func (h *OrderHandler) Filter(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := repository.OrderFilter{
		Status: domain.OrderStatus(query.Get("status")),
	}

	if v := query.Get("startDate"); v != "" {
		startDate, err := time.Parse(time.RFC3339, v)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid startDate")
			return
		}
		filter.StartDate = startDate
	}
	if v := query.Get("endDate"); v != "" {
		endDate, err := time.Parse(time.RFC3339, v)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid endDate")
			return
		}
		filter.EndDate = endDate
	}
	if v := query.Get("itemId"); v != "" {
		itemID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid itemId")
			return
		}
		filter.ItemID = itemID
	}
	filter.Page, _ = strconv.Atoi(query.Get("page"))
	filter.PageSize, _ = strconv.Atoi(query.Get("size"))

	resp, err := h.orders.FilterOrderItems(r.Context(), filter)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}
