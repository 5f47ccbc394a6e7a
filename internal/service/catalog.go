package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-api/internal/apperr"
	"storefront-api/internal/dto"
	"storefront-api/internal/model"
	"storefront-api/internal/repository"
)

type ProductService interface {
	Create(ctx context.Context, req *dto.ProductRequest) (*model.Product, error)
	Update(ctx context.Context, productID string, req *dto.ProductRequest) (*model.Product, error)
	Delete(ctx context.Context, productID string) error
	Get(ctx context.Context, productID string) (*model.Product, error)
	List(ctx context.Context, query *dto.ProductListQuery) ([]*model.Product, error)
	Search(ctx context.Context, keyword string) ([]*model.Product, error)
}

type productServiceImpl struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productServiceImpl{
		productRepo: productRepo,
	}
}

func (s *productServiceImpl) Create(ctx context.Context, req *dto.ProductRequest) (*model.Product, error) {
	product := &model.Product{
		ID:          uuid.NewString(),
		Image:       req.Image,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Brand:       req.Brand,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		TotalStock:  req.TotalStock,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

func (s *productServiceImpl) Update(ctx context.Context, productID string, req *dto.ProductRequest) (*model.Product, error) {
	product := &model.Product{
		ID:          productID,
		Image:       req.Image,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Brand:       req.Brand,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		TotalStock:  req.TotalStock,
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	return s.Get(ctx, productID)
}

func (s *productServiceImpl) Delete(ctx context.Context, productID string) error {
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("product not found")
		}
		return fmt.Errorf("delete product: %w", err)
	}

	return nil
}

func (s *productServiceImpl) Get(ctx context.Context, productID string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	return product, nil
}

func (s *productServiceImpl) List(ctx context.Context, query *dto.ProductListQuery) ([]*model.Product, error) {
	products, err := s.productRepo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

func (s *productServiceImpl) Search(ctx context.Context, keyword string) ([]*model.Product, error) {
	if keyword == "" {
		return nil, apperr.Validation("keyword is required")
	}

	products, err := s.productRepo.Search(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	return products, nil
}
