package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"storefront-api/internal/apperr"
	"storefront-api/internal/dto"
	"storefront-api/internal/model"
	"storefront-api/internal/repository"
)

type ReviewService interface {
	Add(ctx context.Context, req *dto.ReviewRequest) (*model.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]*model.Review, error)
}

type reviewServiceImpl struct {
	reviewRepo  repository.ReviewRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
) ReviewService {
	return &reviewServiceImpl{
		reviewRepo:  reviewRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

func (s *reviewServiceImpl) Add(ctx context.Context, req *dto.ReviewRequest) (*model.Review, error) {
	purchased, err := s.orderRepo.ExistsForUserAndProduct(ctx, req.UserID, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("check purchase history: %w", err)
	}
	if !purchased {
		return nil, apperr.Forbidden("you need to purchase the product to review it")
	}

	exists, err := s.reviewRepo.Exists(ctx, req.ProductID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if exists {
		return nil, apperr.Conflict("you have already reviewed this product")
	}

	review := &model.Review{
		ID:            uuid.NewString(),
		ProductID:     req.ProductID,
		UserID:        req.UserID,
		UserName:      req.UserName,
		ReviewMessage: req.ReviewMessage,
		ReviewValue:   req.ReviewValue,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	average, err := s.reviewRepo.AverageForProduct(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("compute average review: %w", err)
	}
	if err := s.productRepo.UpdateAverageReview(ctx, req.ProductID, average); err != nil {
		return nil, fmt.Errorf("update product average review: %w", err)
	}

	return review, nil
}

func (s *reviewServiceImpl) ListByProduct(ctx context.Context, productID string) ([]*model.Review, error) {
	reviews, err := s.reviewRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	return reviews, nil
}
