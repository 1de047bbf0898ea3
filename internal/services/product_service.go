package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/store"
)

type ProductService struct {
	st store.Store
}

func NewProductService(st store.Store) *ProductService {
	return &ProductService{st: st}
}

func (s *ProductService) List(ctx context.Context, f store.ProductFilter) ([]models.Product, int, error) {
	products, total, err := s.st.Products(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, total, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*models.Product, error) {
	return s.st.ProductByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	if req.CategoryID != nil {
		if _, err := s.st.CategoryByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}
	product := &models.Product{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		ArtisanName: req.ArtisanName,
		BasePrice:   req.BasePrice,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}
	if err := s.st.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, req models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.st.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.st.CategoryByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = req.CategoryID
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.ArtisanName != nil {
		product.ArtisanName = *req.ArtisanName
	}
	if req.BasePrice != nil {
		product.BasePrice = *req.BasePrice
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}

	if err := s.st.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.st.DeleteProduct(ctx, id)
}

func (s *ProductService) CreateVariant(ctx context.Context, productID int64, req models.CreateVariantRequest) (*models.Variant, error) {
	if _, err := s.st.ProductByID(ctx, productID); err != nil {
		return nil, err
	}
	variant := &models.Variant{
		ProductID:     productID,
		Name:          req.Name,
		SKU:           req.SKU,
		PriceModifier: req.PriceModifier,
		Stock:         req.Stock,
	}
	if err := s.st.CreateVariant(ctx, variant); err != nil {
		return nil, err
	}
	return variant, nil
}

func (s *ProductService) UpdateVariant(ctx context.Context, id int64, req models.UpdateVariantRequest) (*models.Variant, error) {
	variant, err := s.st.VariantByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		variant.Name = *req.Name
	}
	if req.SKU != nil {
		variant.SKU = *req.SKU
	}
	if req.PriceModifier != nil {
		variant.PriceModifier = *req.PriceModifier
	}
	if req.Stock != nil {
		variant.Stock = *req.Stock
	}

	if err := s.st.UpdateVariant(ctx, variant); err != nil {
		return nil, err
	}
	return variant, nil
}

func (s *ProductService) DeleteVariant(ctx context.Context, id int64) error {
	return s.st.DeleteVariant(ctx, id)
}
