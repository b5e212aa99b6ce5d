package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// OrderLine is one requested product/quantity pair of an order
type OrderLine struct {
	ProductID int64
	Quantity  int64
}

// OrderService defines order item business logic
type OrderService interface {
	PlaceOrder(ctx context.Context, userID int64, lines []OrderLine) (*Response, error)
	UpdateOrderItemStatus(ctx context.Context, orderItemID int64, status string) (*Response, error)
	FilterOrderItems(ctx context.Context, filter repository.OrderFilter) (*Response, error)
}

type orderService struct {
	orderRepo   repository.OrderItemRepository
	productRepo repository.ProductRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderItemRepository, productRepo repository.ProductRepository) OrderService {
	return &orderService{orderRepo: orderRepo, productRepo: productRepo}
}

// PlaceOrder creates one order item per line, snapshotting the current
// product price. Stock is decremented transactionally; any line with
// insufficient stock aborts the whole order.
func (s *orderService) PlaceOrder(ctx context.Context, userID int64, lines []OrderLine) (*Response, error) {
	if userID <= 0 || len(lines) == 0 {
		return nil, NewValidation("Order must contain at least one item")
	}

	now := time.Now()
	items := make([]*domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, NewValidation("Order item quantity must be positive")
		}

		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			if err == repository.ErrProductNotFound {
				return nil, NewNotFound("Product Not Found")
			}
			return nil, fmt.Errorf("failed to resolve product: %w", err)
		}

		items = append(items, &domain.OrderItem{
			UserID:    userID,
			ProductID: product.ID,
			Quantity:  line.Quantity,
			Price:     product.Price,
			Status:    domain.OrderStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.orderRepo.CreateAll(ctx, items); err != nil {
		if err == repository.ErrInsufficientStock {
			return nil, NewValidation("Insufficient stock for one or more items")
		}
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	return ok("Order was successfully placed"), nil
}

// UpdateOrderItemStatus moves an order item to a new status
func (s *orderService) UpdateOrderItemStatus(ctx context.Context, orderItemID int64, status string) (*Response, error) {
	orderStatus := domain.OrderStatus(strings.ToUpper(status))
	if !orderStatus.Valid() {
		return nil, NewValidation("Invalid order status")
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderItemID, orderStatus); err != nil {
		if err == repository.ErrOrderItemNotFound {
			return nil, NewNotFound("Order Not Found")
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return ok("Order status updated successfully"), nil
}

// FilterOrderItems returns order items matching the filter with pagination
func (s *orderService) FilterOrderItems(ctx context.Context, filter repository.OrderFilter) (*Response, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, NewValidation("Invalid order status")
	}

	items, total, err := s.orderRepo.Filter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to filter order items: %w", err)
	}
	if len(items) == 0 {
		return nil, NewNotFound("No Order Found")
	}

	views := make([]*OrderItemView, 0, len(items))
	for _, item := range items {
		views = append(views, toOrderItemView(item))
	}

	return &Response{Status: 200, OrderList: views, TotalCount: total}, nil
}

func toOrderItemView(item *domain.OrderItem) *OrderItemView {
	return &OrderItemView{
		ID:        item.ID,
		UserID:    item.UserID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Price:     item.Price,
		Status:    string(item.Status),
		CreatedAt: item.CreatedAt,
	}
}
