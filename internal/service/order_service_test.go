package service

import (
	"context"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
)

type mockOrderItemRepository struct {
	items  map[int64]*domain.OrderItem
	nextID int64
	// stock tracked per product, only when a product repo is attached
	productRepo *mockProductRepository
}

func newMockOrderItemRepository() *mockOrderItemRepository {
	return &mockOrderItemRepository{
		items:  make(map[int64]*domain.OrderItem),
		nextID: 1,
	}
}

func (m *mockOrderItemRepository) CreateAll(ctx context.Context, items []*domain.OrderItem) error {
	// Check stock for the whole batch first so a failing line aborts everything
	if m.productRepo != nil {
		for _, item := range items {
			product, exists := m.productRepo.products[item.ProductID]
			if !exists || product.Quantity < item.Quantity {
				return repository.ErrInsufficientStock
			}
		}
		for _, item := range items {
			m.productRepo.products[item.ProductID].Quantity -= item.Quantity
		}
	}
	for _, item := range items {
		item.ID = m.nextID
		m.nextID++
		copied := *item
		m.items[item.ID] = &copied
	}
	return nil
}

func (m *mockOrderItemRepository) FindByID(ctx context.Context, id int64) (*domain.OrderItem, error) {
	item, exists := m.items[id]
	if !exists {
		return nil, repository.ErrOrderItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (m *mockOrderItemRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	item, exists := m.items[id]
	if !exists {
		return repository.ErrOrderItemNotFound
	}
	item.Status = status
	return nil
}

func (m *mockOrderItemRepository) Filter(ctx context.Context, filter repository.OrderFilter) ([]*domain.OrderItem, int, error) {
	var matched []*domain.OrderItem
	for _, item := range m.items {
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.ItemID != 0 && item.ID != filter.ItemID {
			continue
		}
		copied := *item
		matched = append(matched, &copied)
	}
	return matched, len(matched), nil
}

func (m *mockOrderItemRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.OrderItem, error) {
	var matched []*domain.OrderItem
	for _, item := range m.items {
		if item.UserID == userID {
			copied := *item
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func newOrderFixture(t *testing.T) (*mockProductRepository, *mockOrderItemRepository, OrderService, int64) {
	t.Helper()
	productRepo := newMockProductRepository()
	categoryRepo := newMockCategoryRepository()
	orderRepo := newMockOrderItemRepository()
	orderRepo.productRepo = productRepo

	category := mustCategory(t, categoryRepo, "electronics")
	product := &domain.Product{
		Name:       "Widget",
		Price:      decimal.NewFromFloat(12.50),
		Quantity:   10,
		CategoryID: category.ID,
	}
	if err := productRepo.Create(context.Background(), product); err != nil {
		t.Fatalf("seed product: %v", err)
	}

	svc := NewOrderService(orderRepo, productRepo)
	return productRepo, orderRepo, svc, product.ID
}

func TestPlaceOrderSnapshotsPriceAndDecrementsStock(t *testing.T) {
	productRepo, orderRepo, svc, productID := newOrderFixture(t)
	ctx := context.Background()

	resp, err := svc.PlaceOrder(ctx, 1, []OrderLine{{ProductID: productID, Quantity: 3}})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if resp.Message != "Order was successfully placed" {
		t.Errorf("unexpected message %q", resp.Message)
	}

	if len(orderRepo.items) != 1 {
		t.Fatalf("expected 1 order item, got %d", len(orderRepo.items))
	}
	var item *domain.OrderItem
	for _, stored := range orderRepo.items {
		item = stored
	}
	if !item.Price.Equal(decimal.NewFromFloat(12.50)) {
		t.Errorf("expected snapshotted price 12.50, got %s", item.Price)
	}
	if item.Status != domain.OrderStatusPending {
		t.Errorf("new order items start PENDING, got %s", item.Status)
	}

	product, _ := productRepo.FindByID(ctx, productID)
	if product.Quantity != 7 {
		t.Errorf("expected stock 7 after ordering 3 of 10, got %d", product.Quantity)
	}
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	productRepo, orderRepo, svc, productID := newOrderFixture(t)
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, 1, []OrderLine{{ProductID: productID, Quantity: 11}})
	if !IsValidation(err) {
		t.Fatalf("expected validation error for insufficient stock, got %v", err)
	}

	// Nothing moved
	if len(orderRepo.items) != 0 {
		t.Errorf("failed order must not create items")
	}
	product, _ := productRepo.FindByID(ctx, productID)
	if product.Quantity != 10 {
		t.Errorf("failed order must not change stock, got %d", product.Quantity)
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	_, _, svc, productID := newOrderFixture(t)
	ctx := context.Background()

	if _, err := svc.PlaceOrder(ctx, 1, nil); !IsValidation(err) {
		t.Errorf("expected validation error for empty order, got %v", err)
	}
	if _, err := svc.PlaceOrder(ctx, 0, []OrderLine{{ProductID: productID, Quantity: 1}}); !IsValidation(err) {
		t.Errorf("expected validation error for missing user, got %v", err)
	}
	if _, err := svc.PlaceOrder(ctx, 1, []OrderLine{{ProductID: productID, Quantity: 0}}); !IsValidation(err) {
		t.Errorf("expected validation error for zero quantity, got %v", err)
	}
	if _, err := svc.PlaceOrder(ctx, 1, []OrderLine{{ProductID: 404, Quantity: 1}}); !IsNotFound(err) {
		t.Errorf("expected not-found error for unknown product, got %v", err)
	}
}

func TestUpdateOrderItemStatus(t *testing.T) {
	_, orderRepo, svc, productID := newOrderFixture(t)
	ctx := context.Background()

	if _, err := svc.PlaceOrder(ctx, 1, []OrderLine{{ProductID: productID, Quantity: 1}}); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	var itemID int64
	for id := range orderRepo.items {
		itemID = id
	}

	// Status is accepted case-insensitively
	if _, err := svc.UpdateOrderItemStatus(ctx, itemID, "shipped"); err != nil {
		t.Fatalf("UpdateOrderItemStatus: %v", err)
	}
	if orderRepo.items[itemID].Status != domain.OrderStatusShipped {
		t.Errorf("expected SHIPPED, got %s", orderRepo.items[itemID].Status)
	}

	if _, err := svc.UpdateOrderItemStatus(ctx, itemID, "TELEPORTED"); !IsValidation(err) {
		t.Errorf("expected validation error for unknown status, got %v", err)
	}
	if _, err := svc.UpdateOrderItemStatus(ctx, itemID+1000, "SHIPPED"); !IsNotFound(err) {
		t.Errorf("expected not-found error for unknown item, got %v", err)
	}
}

func TestFilterOrderItems(t *testing.T) {
	_, _, svc, productID := newOrderFixture(t)
	ctx := context.Background()

	if _, err := svc.PlaceOrder(ctx, 1, []OrderLine{
		{ProductID: productID, Quantity: 1},
		{ProductID: productID, Quantity: 2},
	}); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	resp, err := svc.FilterOrderItems(ctx, repository.OrderFilter{Status: domain.OrderStatusPending})
	if err != nil {
		t.Fatalf("FilterOrderItems: %v", err)
	}
	if len(resp.OrderList) != 2 || resp.TotalCount != 2 {
		t.Errorf("expected 2 pending items, got %d (total %d)", len(resp.OrderList), resp.TotalCount)
	}

	// No delivered items yet
	_, err = svc.FilterOrderItems(ctx, repository.OrderFilter{Status: domain.OrderStatusDelivered})
	if !IsNotFound(err) {
		t.Errorf("expected not-found error for empty result, got %v", err)
	}

	_, err = svc.FilterOrderItems(ctx, repository.OrderFilter{Status: domain.OrderStatus("BOGUS")})
	if !IsValidation(err) {
		t.Errorf("expected validation error for bad status, got %v", err)
	}
}
