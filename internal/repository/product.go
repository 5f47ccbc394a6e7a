package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storefront-api/internal/apperr"
	"storefront-api/internal/dto"
	"storefront-api/internal/model"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, productID string) error
	FindByID(ctx context.Context, productID string) (*model.Product, error)
	FindMany(ctx context.Context, productIDs []string) ([]*model.Product, error)
	List(ctx context.Context, query *dto.ProductListQuery) ([]*model.Product, error)
	Search(ctx context.Context, keyword string) ([]*model.Product, error)
	// DecrementStock reduces total_stock by quantity, refusing to go negative.
	DecrementStock(ctx context.Context, tx *gorm.DB, productID string, quantity int) error
	UpdateAverageReview(ctx context.Context, productID string, average float64) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) Update(ctx context.Context, product *model.Product) error {
	result := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"image":       product.Image,
			"title":       product.Title,
			"description": product.Description,
			"category":    product.Category,
			"brand":       product.Brand,
			"price":       product.Price,
			"sale_price":  product.SalePrice,
			"total_stock": product.TotalStock,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *productRepoImpl) Delete(ctx context.Context, productID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", productID).
		Delete(&model.Product{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, productIDs []string) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) List(ctx context.Context, query *dto.ProductListQuery) ([]*model.Product, error) {
	db := r.db.WithContext(ctx).Model(&model.Product{})

	if len(query.Categories) > 0 {
		db = db.Where("category IN ?", query.Categories)
	}
	if len(query.Brands) > 0 {
		db = db.Where("brand IN ?", query.Brands)
	}

	switch query.SortBy {
	case "price-lowtohigh":
		db = db.Order("price asc")
	case "price-hightolow":
		db = db.Order("price desc")
	case "title-ztoa":
		db = db.Order("title desc")
	default:
		db = db.Order("title asc")
	}

	var products []*model.Product
	if err := db.Find(&products).Error; err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) Search(ctx context.Context, keyword string) ([]*model.Product, error) {
	pattern := "%" + keyword + "%"

	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("title LIKE ? OR description LIKE ? OR category LIKE ? OR brand LIKE ?",
			pattern, pattern, pattern, pattern).
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) DecrementStock(ctx context.Context, tx *gorm.DB, productID string, quantity int) error {
	result := tx.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND total_stock >= ?", productID, quantity).
		Update("total_stock", gorm.Expr("total_stock - ?", quantity))

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		// distinguish a missing product from one without enough stock
		var product model.Product
		err := tx.WithContext(ctx).Where("id = ?", productID).First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("product %s no longer exists", productID)
		}
		if err != nil {
			return fmt.Errorf("check product stock: %w", err)
		}
		return apperr.InsufficientStock("not enough stock for product %s", product.Title)
	}

	return nil
}

func (r *productRepoImpl) UpdateAverageReview(ctx context.Context, productID string, average float64) error {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productID).
		Update("average_review", average).
		Error
}
