package service

import (
	"time"

	"github.com/shopspring/decimal"
)

// Response is the envelope returned by every successful service operation.
// Only the fields relevant to the operation are populated.
type Response struct {
	Status       int              `json:"status"`
	Message      string           `json:"message,omitempty"`
	Product      *ProductView     `json:"product,omitempty"`
	ProductList  []*ProductView   `json:"productList,omitempty"`
	Category     *CategoryView    `json:"category,omitempty"`
	CategoryList []*CategoryView  `json:"categoryList,omitempty"`
	Order        *OrderItemView   `json:"order,omitempty"`
	OrderList    []*OrderItemView `json:"orderList,omitempty"`
	TotalCount   int              `json:"totalCount,omitempty"`
}

// ProductView is the outward projection of a product. ImageURL is a signed,
// time-limited retrieval URL derived from the stored image key.
type ProductView struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	CategoryID  int64           `json:"categoryId"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// CategoryView is the outward projection of a category
type CategoryView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// OrderItemView is the outward projection of an order item
type OrderItemView struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"userId"`
	ProductID int64           `json:"productId"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

func ok(message string) *Response {
	return &Response{Status: 200, Message: message}
}
