// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// AvatarRepository defines persistence operations for avatar records.
// Each user has at most one avatar row; replacing an avatar swaps the row.
type AvatarRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Avatar, error)
	Create(ctx context.Context, avatar *models.Avatar) error
	DeleteByUserID(ctx context.Context, userID uint) error
}

type avatarRepository struct {
	db *gorm.DB
}

// NewAvatarRepository returns a new AvatarRepository implementation.
func NewAvatarRepository(db *gorm.DB) AvatarRepository {
	return &avatarRepository{db: db}
}

func (r *avatarRepository) GetByUserID(ctx context.Context, userID uint) (*models.Avatar, error) {
	var avatar models.Avatar
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&avatar).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &avatar, nil
}

func (r *avatarRepository) Create(ctx context.Context, avatar *models.Avatar) error {
	if err := r.db.WithContext(ctx).Create(avatar).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, avatar.UserID)
	return nil
}

func (r *avatarRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Avatar{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, userID)
	return nil
}
