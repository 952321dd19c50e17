package service

import (
	"context"
	"fmt"
	"io"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/storage"
)

// allowedAvatarTypes are the accepted upload content types.
var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// AvatarService handles avatar upload and removal against object storage.
type AvatarService struct {
	avatarRepo repository.AvatarRepository
	store      storage.ObjectStorage
	maxSize    int64
}

// UploadAvatarInput describes a single uploaded file.
type UploadAvatarInput struct {
	UserID      uint
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// NewAvatarService creates a new AvatarService.
func NewAvatarService(avatarRepo repository.AvatarRepository, store storage.ObjectStorage, maxSize int64) *AvatarService {
	return &AvatarService{avatarRepo: avatarRepo, store: store, maxSize: maxSize}
}

// Upload stores a new avatar for the user, replacing any existing one. The
// replacement is delete-then-upload and not transactional: a failure in
// between leaves the user without an avatar, which is a tolerable state.
func (s *AvatarService) Upload(ctx context.Context, in UploadAvatarInput) (*models.Avatar, error) {
	if !allowedAvatarTypes[in.ContentType] {
		return nil, models.NewValidationError("Provide a valid image")
	}
	if s.maxSize > 0 && in.Size > s.maxSize {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %d bytes)", s.maxSize))
	}

	existing, err := s.avatarRepo.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := s.store.Delete(ctx, existing.Key); err != nil {
			middleware.Logger.WarnContext(ctx, "Failed to delete previous avatar object",
				"key", existing.Key, "error", err)
		}
		if err := s.avatarRepo.DeleteByUserID(ctx, in.UserID); err != nil {
			return nil, err
		}
	}

	key := fmt.Sprintf("%d/private/%s", in.UserID, storage.RenameFile(in.Filename))
	url, err := s.store.Put(ctx, key, in.Body, in.ContentType)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	avatar := &models.Avatar{
		Key:    key,
		URL:    url,
		UserID: in.UserID,
	}
	if err := s.avatarRepo.Create(ctx, avatar); err != nil {
		return nil, err
	}
	return avatar, nil
}

// Remove deletes the user's avatar from storage and the database.
func (s *AvatarService) Remove(ctx context.Context, userID uint) error {
	existing, err := s.avatarRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return models.NewNotFoundError("Avatar")
	}

	if err := s.store.Delete(ctx, existing.Key); err != nil {
		return models.NewInternalError(err)
	}
	return s.avatarRepo.DeleteByUserID(ctx, userID)
}
