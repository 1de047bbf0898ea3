package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/store"
)

type CategoryService struct {
	st store.Store
}

func NewCategoryService(st store.Store) *CategoryService {
	return &CategoryService{st: st}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.st.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	return s.st.CategoryByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, req models.CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{Name: req.Name, Description: req.Description}
	if err := s.st.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, req models.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.st.CategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if err := s.st.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	return s.st.DeleteCategory(ctx, id)
}
