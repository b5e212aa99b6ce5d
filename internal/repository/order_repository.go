package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
)

var (
	ErrOrderItemNotFound = errors.New("order item not found")
	ErrInsufficientStock = errors.New("insufficient stock for product")
)

// OrderFilter narrows FilterOrderItems results. Zero values mean the
// dimension is not filtered on.
type OrderFilter struct {
	Status    domain.OrderStatus
	StartDate time.Time
	EndDate   time.Time
	ItemID    int64
	Page      int
	PageSize  int
}

// OrderItemRepository defines the interface for order item data access
type OrderItemRepository interface {
	CreateAll(ctx context.Context, items []*domain.OrderItem) error
	FindByID(ctx context.Context, id int64) (*domain.OrderItem, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
	Filter(ctx context.Context, filter OrderFilter) ([]*domain.OrderItem, int, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.OrderItem, error)
}

type orderItemRepository struct {
	db *sql.DB
}

// NewOrderItemRepository creates a new instance of OrderItemRepository
func NewOrderItemRepository(db *sql.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

// CreateAll inserts all items of an order in one transaction, decrementing
// product stock as it goes. Any item with insufficient stock aborts the
// whole order.
func (r *orderItemRepository) CreateAll(ctx context.Context, items []*domain.OrderItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, item := range items {
		result, err := tx.ExecContext(ctx,
			`UPDATE products SET quantity = quantity - $2, updated_at = NOW()
			 WHERE id = $1 AND quantity >= $2`,
			item.ProductID, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return ErrInsufficientStock
		}

		err = tx.QueryRowContext(ctx,
			`INSERT INTO order_items (user_id, product_id, quantity, price, status, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id`,
			item.UserID,
			item.ProductID,
			item.Quantity,
			item.Price,
			item.Status,
			item.CreatedAt,
			item.UpdatedAt,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

// FindByID retrieves an order item by ID
func (r *orderItemRepository) FindByID(ctx context.Context, id int64) (*domain.OrderItem, error) {
	query := `
		SELECT id, user_id, product_id, quantity, price, status, created_at, updated_at
		FROM order_items
		WHERE id = $1
	`

	item := &domain.OrderItem{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.Price,
		&item.Status,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderItemNotFound
		}
		return nil, fmt.Errorf("failed to find order item by ID: %w", err)
	}

	return item, nil
}

// UpdateStatus moves an order item to a new status
func (r *orderItemRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	query := `
		UPDATE order_items
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update order item status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderItemNotFound
	}

	return nil
}

// Filter retrieves order items matching the filter, newest first, with the
// total match count for pagination
func (r *orderItemRepository) Filter(ctx context.Context, filter OrderFilter) ([]*domain.OrderItem, int, error) {
	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.Status != "" {
		whereClause += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, filter.Status)
		argIndex++
	}
	if !filter.StartDate.IsZero() {
		whereClause += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, filter.StartDate)
		argIndex++
	}
	if !filter.EndDate.IsZero() {
		whereClause += fmt.Sprintf(" AND created_at <= $%d", argIndex)
		args = append(args, filter.EndDate)
		argIndex++
	}
	if filter.ItemID != 0 {
		whereClause += fmt.Sprintf(" AND id = $%d", argIndex)
		args = append(args, filter.ItemID)
		argIndex++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM order_items %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count order items: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`
		SELECT id, user_id, product_id, quantity, price, status, created_at, updated_at
		FROM order_items
		%s
		ORDER BY id DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to filter order items: %w", err)
	}
	defer rows.Close()

	items, err := scanOrderItems(rows)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// ListByUser retrieves all order items placed by a user, newest first
func (r *orderItemRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.OrderItem, error) {
	query := `
		SELECT id, user_id, product_id, quantity, price, status, created_at, updated_at
		FROM order_items
		WHERE user_id = $1
		ORDER BY id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items by user: %w", err)
	}
	defer rows.Close()

	return scanOrderItems(rows)
}

func scanOrderItems(rows *sql.Rows) ([]*domain.OrderItem, error) {
	items := []*domain.OrderItem{}
	for rows.Next() {
		item := &domain.OrderItem{}
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.Quantity,
			&item.Price,
			&item.Status,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}
