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

// CartService manages the per-user cart. GetCart is a pure read; Reconcile is
// the explicit cleanup that drops line items whose product was deleted.
type CartService interface {
	AddItem(ctx context.Context, userID, productID string, quantity int) (*dto.CartResponse, error)
	GetCart(ctx context.Context, userID string) (*dto.CartResponse, error)
	Reconcile(ctx context.Context, userID string) error
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*dto.CartResponse, error)
	RemoveItem(ctx context.Context, userID, productID string) (*dto.CartResponse, error)
}

type cartServiceImpl struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartServiceImpl) AddItem(ctx context.Context, userID, productID string, quantity int) (*dto.CartResponse, error) {
	if quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive")
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = &model.Cart{
			ID:     uuid.NewString(),
			UserID: userID,
		}
		if err := s.cartRepo.Create(ctx, cart); err != nil {
			return nil, fmt.Errorf("create cart: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}

	err = s.cartRepo.UpsertItem(ctx, &model.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}

	return s.GetCart(ctx, userID)
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*dto.CartResponse, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("cart not found")
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}

	items, err := s.cartRepo.GetItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}

	products, err := s.productsByID(ctx, items)
	if err != nil {
		return nil, err
	}

	// price/image/title reflect the live catalog, not what was true at
	// add-time; items whose product vanished are omitted from the view
	lines := make([]dto.CartLine, 0, len(items))
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, dto.CartLine{
			ProductID: product.ID,
			Image:     product.Image,
			Title:     product.Title,
			Price:     product.Price,
			SalePrice: product.SalePrice,
			Quantity:  item.Quantity,
		})
	}

	return &dto.CartResponse{
		CartID: cart.ID,
		UserID: cart.UserID,
		Items:  lines,
	}, nil
}

// Reconcile deletes line items whose product no longer resolves. Kept apart
// from GetCart so reads are not hidden writes.
func (s *cartServiceImpl) Reconcile(ctx context.Context, userID string) error {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("find cart: %w", err)
	}

	items, err := s.cartRepo.GetItems(ctx, cart.ID)
	if err != nil {
		return fmt.Errorf("get cart items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	products, err := s.productsByID(ctx, items)
	if err != nil {
		return err
	}

	var dangling []string
	for _, item := range items {
		if _, ok := products[item.ProductID]; !ok {
			dangling = append(dangling, item.ProductID)
		}
	}

	return s.cartRepo.RemoveItems(ctx, cart.ID, dangling)
}

func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*dto.CartResponse, error) {
	if quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive")
	}

	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("cart not found")
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}

	err = s.cartRepo.SetItemQuantity(ctx, cart.ID, productID, quantity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("cart item not present")
		}
		return nil, fmt.Errorf("set cart item quantity: %w", err)
	}

	return s.GetCart(ctx, userID)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, productID string) (*dto.CartResponse, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("cart not found")
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}

	// absence of the item is not an error
	if err := s.cartRepo.RemoveItem(ctx, cart.ID, productID); err != nil {
		return nil, fmt.Errorf("remove cart item: %w", err)
	}

	return s.GetCart(ctx, userID)
}

func (s *cartServiceImpl) productsByID(ctx context.Context, items []*model.CartItem) (map[string]*model.Product, error) {
	if len(items) == 0 {
		return map[string]*model.Product{}, nil
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}

	products, err := s.productRepo.FindMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get many products by item ids: %w", err)
	}

	byID := make(map[string]*model.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	return byID, nil
}
