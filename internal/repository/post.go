// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter narrows post listings. Zero values mean "no constraint".
type PostFilter struct {
	// AuthorUsername keeps only posts written by the named user.
	AuthorUsername string
	// FavoritedBy keeps only posts favorited by the named user.
	FavoritedBy string
	// AuthorID scopes the listing to a single author regardless of filters.
	AuthorID uint
	// PublishedOnly drops drafts from the result.
	PublishedOnly bool

	Limit  int
	Offset int
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetBySlug(ctx context.Context, slug string, currentUserID uint) (*models.Post, error)
	List(ctx context.Context, filter PostFilter, currentUserID uint) ([]*models.Post, int64, error)
	Feed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, int64, error)
	Drafts(ctx context.Context, authorID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	Publish(ctx context.Context, id uint) (bool, error)
	IncrementViews(ctx context.Context, id uint) error
	Favorite(ctx context.Context, userID, postID uint) (bool, error)
	Unfavorite(ctx context.Context, userID, postID uint) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A post with this title already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string, currentUserID uint) (*models.Post, error) {
	var post models.Post
	err := r.applyFavorited(r.db.WithContext(ctx), currentUserID).
		Preload("Author").
		Preload("Author.Avatar").
		Preload("Comments").
		Preload("Comments.Author").
		Where("posts.slug = ?", slug).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter, currentUserID uint) ([]*models.Post, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Post{})

	if filter.PublishedOnly {
		base = base.Where("posts.published = ?", true)
	}
	if filter.AuthorID != 0 {
		base = base.Where("posts.author_id = ?", filter.AuthorID)
	}
	if filter.AuthorUsername != "" {
		base = base.Where(
			"posts.author_id IN (SELECT id FROM users WHERE username = ?)",
			filter.AuthorUsername,
		)
	}
	if filter.FavoritedBy != "" {
		base = base.Where(
			"posts.id IN (SELECT post_id FROM favorites WHERE user_id IN (SELECT id FROM users WHERE username = ?))",
			filter.FavoritedBy,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []*models.Post
	err := r.applyFavorited(base, currentUserID).
		Preload("Author").
		Preload("Author.Avatar").
		Order("posts.updated_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

// Feed lists published posts from authors the user follows.
func (r *postRepository) Feed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("posts.published = ?", true).
		Where("posts.author_id IN (SELECT followed_id FROM follows WHERE follower_id = ?)", userID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []*models.Post
	err := r.applyFavorited(base, userID).
		Preload("Author").
		Preload("Author.Avatar").
		Order("posts.updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

func (r *postRepository) Drafts(ctx context.Context, authorID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("author_id = ? AND published = ?", authorID, false).
		Order("updated_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// applyFavorited adds an EXISTS subquery computing the favorited flag for the
// requesting user. Anonymous requests skip the subquery entirely, leaving the
// field unset.
func (r *postRepository) applyFavorited(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID == 0 {
		return db.Select("posts.*")
	}
	return db.Select(
		"posts.*, EXISTS(SELECT 1 FROM favorites WHERE favorites.post_id = posts.id AND favorites.user_id = ?) AS favorited",
		currentUserID,
	)
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A post with this title already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes a post together with its comments and favorite edges.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Publish flips the draft flag in a single conditional update. Returns false
// when the post was already published, so publishing stays one-way and
// repeat calls are visible to the caller.
func (r *postRepository) Publish(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND published = ?", id, false).
		Update("published", true)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// IncrementViews bumps the view counter for a published post. Drafts are
// filtered in the WHERE clause so a read of an unpublished slug never counts.
func (r *postRepository) IncrementViews(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND published = ?", id, true).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Favorite inserts the favorite edge if absent. Returns true when this call
// created the edge.
func (r *postRepository) Favorite(ctx context.Context, userID, postID uint) (bool, error) {
	edge := models.Favorite{UserID: userID, PostID: postID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&edge)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Unfavorite removes the favorite edge if present. Returns true when an edge
// was actually removed.
func (r *postRepository) Unfavorite(ctx context.Context, userID, postID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}
