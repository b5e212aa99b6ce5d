package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// CategoryService defines category management business logic
type CategoryService interface {
	CreateCategory(ctx context.Context, name, description string) (*Response, error)
	UpdateCategory(ctx context.Context, categoryID int64, name, description string) (*Response, error)
	GetAllCategories(ctx context.Context) (*Response, error)
	GetCategoryByID(ctx context.Context, categoryID int64) (*Response, error)
	DeleteCategory(ctx context.Context, categoryID int64) (*Response, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(ctx context.Context, name, description string) (*Response, error) {
	if name == "" {
		return nil, NewValidation("Category name is required")
	}

	category := &domain.Category{
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if err == repository.ErrCategoryAlreadyExists {
			return nil, NewValidation("Category with this name already exists")
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return ok("Category created successfully"), nil
}

// UpdateCategory renames an existing category
func (s *categoryService) UpdateCategory(ctx context.Context, categoryID int64, name, description string) (*Response, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			return nil, NewNotFound("Category not found")
		}
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	if name != "" {
		category.Name = name
	}
	if description != "" {
		category.Description = description
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if err == repository.ErrCategoryAlreadyExists {
			return nil, NewValidation("Category with this name already exists")
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return ok("Category updated successfully"), nil
}

// GetAllCategories returns every category
func (s *categoryService) GetAllCategories(ctx context.Context) (*Response, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	views := make([]*CategoryView, 0, len(categories))
	for _, category := range categories {
		views = append(views, toCategoryView(category))
	}

	return &Response{Status: 200, CategoryList: views}, nil
}

// GetCategoryByID returns a single category
func (s *categoryService) GetCategoryByID(ctx context.Context, categoryID int64) (*Response, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			return nil, NewNotFound("Category not found")
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &Response{Status: 200, Category: toCategoryView(category)}, nil
}

// DeleteCategory removes a category
func (s *categoryService) DeleteCategory(ctx context.Context, categoryID int64) (*Response, error) {
	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		if err == repository.ErrCategoryNotFound {
			return nil, NewNotFound("Category not found")
		}
		return nil, fmt.Errorf("failed to delete category: %w", err)
	}

	return ok("Category deleted successfully"), nil
}

func toCategoryView(category *domain.Category) *CategoryView {
	return &CategoryView{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
	}
}
