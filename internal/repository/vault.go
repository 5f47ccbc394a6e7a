package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront-api/internal/model"
)

type VaultRepository interface {
	Save(ctx context.Context, vault *model.CardVault) error
	GetToken(ctx context.Context, userID string) (string, error)
}

type vaultRepoImpl struct {
	db *gorm.DB
}

func NewVaultRepository(db *gorm.DB) VaultRepository {
	return &vaultRepoImpl{
		db: db,
	}
}

func (r *vaultRepoImpl) Save(ctx context.Context, vault *model.CardVault) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"token":      vault.Token,
			"provider":   vault.Provider,
			"updated_at": time.Now(),
		}),
	}).Create(&vault).Error
}

func (r *vaultRepoImpl) GetToken(ctx context.Context, userID string) (string, error) {
	var vault model.CardVault
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&vault).Error

	if err != nil {
		return "", err
	}

	return vault.Token, nil
}
