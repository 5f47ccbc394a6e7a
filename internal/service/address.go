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

// Addresses have a lifecycle independent of orders; orders snapshot the
// fields, so edits and deletes here never rewrite history.
const maxAddressesPerUser = 3

type AddressService interface {
	Add(ctx context.Context, req *dto.AddressRequest) (*model.Address, error)
	List(ctx context.Context, userID string) ([]*model.Address, error)
	Update(ctx context.Context, userID, addressID string, req *dto.AddressRequest) (*model.Address, error)
	Delete(ctx context.Context, userID, addressID string) error
}

type addressServiceImpl struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) AddressService {
	return &addressServiceImpl{
		addressRepo: addressRepo,
	}
}

func (s *addressServiceImpl) Add(ctx context.Context, req *dto.AddressRequest) (*model.Address, error) {
	count, err := s.addressRepo.CountByUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("count addresses: %w", err)
	}
	if count >= maxAddressesPerUser {
		return nil, apperr.Validation("you can add a maximum of %d addresses", maxAddressesPerUser)
	}

	address := &model.Address{
		ID:      uuid.NewString(),
		UserID:  req.UserID,
		Address: req.Address,
		City:    req.City,
		Pincode: req.Pincode,
		Phone:   req.Phone,
		Notes:   req.Notes,
	}

	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}

	return address, nil
}

func (s *addressServiceImpl) List(ctx context.Context, userID string) ([]*model.Address, error) {
	addresses, err := s.addressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}

	return addresses, nil
}

func (s *addressServiceImpl) Update(ctx context.Context, userID, addressID string, req *dto.AddressRequest) (*model.Address, error) {
	address := &model.Address{
		ID:      addressID,
		UserID:  userID,
		Address: req.Address,
		City:    req.City,
		Pincode: req.Pincode,
		Phone:   req.Phone,
		Notes:   req.Notes,
	}

	if err := s.addressRepo.Update(ctx, address); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("address not found")
		}
		return nil, fmt.Errorf("update address: %w", err)
	}

	return s.addressRepo.FindByID(ctx, userID, addressID)
}

func (s *addressServiceImpl) Delete(ctx context.Context, userID, addressID string) error {
	if err := s.addressRepo.Delete(ctx, userID, addressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("address not found")
		}
		return fmt.Errorf("delete address: %w", err)
	}

	return nil
}
