package service

import (
	"context"
	"strings"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/gosimple/slug"
)

// PostService handles the post lifecycle: drafts, publishing, listings,
// favorites, and comments.
type PostService struct {
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	commentRepo repository.CommentRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)

	// enforceOwnership gates post mutation and comment deletion on the
	// caller owning the resource. Off by default: any authenticated user
	// may mutate by slug, which keeps moderation-by-anyone possible.
	enforceOwnership bool
}

// CreatePostInput carries the fields accepted when creating a post.
type CreatePostInput struct {
	AuthorID    uint
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Published   bool   `json:"published"`
}

// UpdatePostInput enumerates the mutable post fields. The slug is the
// post's identity and never changes, even when the title does.
type UpdatePostInput struct {
	CallerID    uint
	Slug        string
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
}

// ListPostsInput narrows and paginates post listings.
type ListPostsInput struct {
	Author      string
	FavoritedBy string
	Limit       int
	Offset      int
}

// PostPage is a page of posts with the total matching count.
type PostPage struct {
	Posts []*models.Post `json:"posts"`
	Total int64          `json:"postsCount"`
}

// NewPostService creates a new PostService.
func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	commentRepo repository.CommentRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
	enforceOwnership bool,
) *PostService {
	return &PostService{
		postRepo:         postRepo,
		userRepo:         userRepo,
		commentRepo:      commentRepo,
		isAdmin:          isAdmin,
		enforceOwnership: enforceOwnership,
	}
}

// Slugify derives the URL identifier from a post title.
func Slugify(title string) string {
	return slug.Make(title)
}

// CreatePost creates a post owned by the caller. The slug is derived from
// the title; a colliding slug is a conflict.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	const maxTitleLen = 300

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}

	post := &models.Post{
		Slug:        Slugify(title),
		Title:       title,
		Description: in.Description,
		Content:     in.Content,
		AuthorID:    in.AuthorID,
		Published:   in.Published,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, post.Slug, in.AuthorID)
}

// GetPost returns a single post with its derived fields computed relative
// to the requesting user.
func (s *PostService) GetPost(ctx context.Context, postSlug string, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, postSlug, currentUserID)
	if err != nil {
		return nil, err
	}
	if err := s.decorateFollowing(ctx, []*models.Post{post}, currentUserID); err != nil {
		return nil, err
	}
	return post, nil
}

// ListAllPosts is the admin listing: drafts included, derived fields
// omitted since the listing is not relative to any requester.
func (s *PostService) ListAllPosts(ctx context.Context, in ListPostsInput) (*PostPage, error) {
	posts, total, err := s.postRepo.List(ctx, repository.PostFilter{
		AuthorUsername: in.Author,
		FavoritedBy:    in.FavoritedBy,
		Limit:          in.Limit,
		Offset:         in.Offset,
	}, 0)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, Total: total}, nil
}

// MyPosts lists the caller's published posts. Drafts are excluded here and
// reachable only through Drafts.
func (s *PostService) MyPosts(ctx context.Context, callerID uint, in ListPostsInput) (*PostPage, error) {
	posts, total, err := s.postRepo.List(ctx, repository.PostFilter{
		AuthorUsername: in.Author,
		FavoritedBy:    in.FavoritedBy,
		AuthorID:       callerID,
		PublishedOnly:  true,
		Limit:          in.Limit,
		Offset:         in.Offset,
	}, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.decorateFollowing(ctx, posts, callerID); err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, Total: total}, nil
}

// Feed lists published posts from authors the caller follows.
func (s *PostService) Feed(ctx context.Context, callerID uint, limit, offset int) (*PostPage, error) {
	posts, total, err := s.postRepo.Feed(ctx, callerID, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.decorateFollowing(ctx, posts, callerID); err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, Total: total}, nil
}

// Drafts lists the caller's unpublished posts.
func (s *PostService) Drafts(ctx context.Context, callerID uint) (*PostPage, error) {
	posts, err := s.postRepo.Drafts(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, Total: int64(len(posts))}, nil
}

// UpdatePost applies the patch to the named post. The slug stays fixed.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, in.Slug, 0)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(ctx, in.CallerID, post.AuthorID); err != nil {
		return nil, err
	}

	if in.Title != nil {
		post.Title = *in.Title
	}
	if in.Description != nil {
		post.Description = *in.Description
	}
	if in.Content != nil {
		post.Content = *in.Content
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, in.Slug, in.CallerID)
}

// DeletePost removes the named post with its comments and favorites.
func (s *PostService) DeletePost(ctx context.Context, callerID uint, postSlug string) error {
	post, err := s.postRepo.GetBySlug(ctx, postSlug, 0)
	if err != nil {
		return err
	}
	if err := s.checkOwnership(ctx, callerID, post.AuthorID); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, post.ID)
}

// Publish transitions a draft to published. The transition is one-way;
// publishing an already-published post leaves it untouched.
func (s *PostService) Publish(ctx context.Context, callerID uint, postSlug string) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, postSlug, 0)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(ctx, callerID, post.AuthorID); err != nil {
		return nil, err
	}

	changed, err := s.postRepo.Publish(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	if changed {
		middleware.PostsPublished.Inc()
	}
	return s.GetPost(ctx, postSlug, callerID)
}

// IncrementViews counts a read of a published post. Drafts and unknown
// slugs are indistinguishable to the caller.
func (s *PostService) IncrementViews(ctx context.Context, postSlug string) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, postSlug, 0)
	if err != nil {
		return nil, err
	}
	if !post.Published {
		return nil, models.NewNotFoundError("Post")
	}

	if err := s.postRepo.IncrementViews(ctx, post.ID); err != nil {
		return nil, err
	}
	post.ViewCount++
	return post, nil
}

// ToggleFavorite adds or removes the caller's favorite edge on the named
// post and returns the refreshed post. Unlike follow toggles, a redundant
// toggle is not an error.
func (s *PostService) ToggleFavorite(ctx context.Context, userID uint, postSlug string, enable bool) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, postSlug, 0)
	if err != nil {
		return nil, err
	}

	if enable {
		_, err = s.postRepo.Favorite(ctx, userID, post.ID)
		middleware.FavoriteToggles.WithLabelValues("favorite").Inc()
	} else {
		_, err = s.postRepo.Unfavorite(ctx, userID, post.ID)
		middleware.FavoriteToggles.WithLabelValues("unfavorite").Inc()
	}
	if err != nil {
		return nil, err
	}

	return s.GetPost(ctx, postSlug, userID)
}

// AddComment attaches a comment by the caller to the named post.
func (s *PostService) AddComment(ctx context.Context, userID uint, postSlug, body string) (*models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, models.NewValidationError("Comment body is required")
	}

	post, err := s.postRepo.GetBySlug(ctx, postSlug, 0)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Body:     body,
		AuthorID: userID,
		PostID:   post.ID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns the named post's comments, newest first.
func (s *PostService) ListComments(ctx context.Context, postSlug string) ([]models.Comment, error) {
	post, err := s.postRepo.GetBySlug(ctx, postSlug, 0)
	if err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, post.ID)
}

// DeleteComment removes a comment within a post's scope. With ownership
// enforcement off, any authenticated caller may delete any comment under
// the post.
func (s *PostService) DeleteComment(ctx context.Context, callerID uint, postSlug string, commentID uint) error {
	post, err := s.postRepo.GetBySlug(ctx, postSlug, 0)
	if err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if s.enforceOwnership {
		if comment.PostID != post.ID {
			return models.NewNotFoundError("Comment")
		}
		if err := s.checkOwnership(ctx, callerID, comment.AuthorID); err != nil {
			return err
		}
	}

	return s.commentRepo.Delete(ctx, comment.ID)
}

// checkOwnership denies the action when ownership enforcement is on and
// the caller neither owns the resource nor holds the admin role.
func (s *PostService) checkOwnership(ctx context.Context, callerID, ownerID uint) error {
	if !s.enforceOwnership || callerID == ownerID {
		return nil
	}
	if s.isAdmin != nil {
		admin, err := s.isAdmin(ctx, callerID)
		if err != nil {
			return err
		}
		if admin {
			return nil
		}
	}
	return models.NewUnauthorizedError("Not authorized")
}

// decorateFollowing fills author.Following on each post relative to the
// requester, batching the edge lookups into a single query. Anonymous
// requests leave the field unset.
func (s *PostService) decorateFollowing(ctx context.Context, posts []*models.Post, currentUserID uint) error {
	if currentUserID == 0 || len(posts) == 0 {
		return nil
	}

	authorIDs := make([]uint, 0, len(posts))
	seen := map[uint]struct{}{}
	for _, p := range posts {
		if _, ok := seen[p.AuthorID]; ok {
			continue
		}
		seen[p.AuthorID] = struct{}{}
		authorIDs = append(authorIDs, p.AuthorID)
	}

	followed, err := s.userRepo.FollowedAuthorIDs(ctx, currentUserID, authorIDs)
	if err != nil {
		return err
	}
	for _, p := range posts {
		following := followed[p.AuthorID]
		p.Author.Following = &following
	}
	return nil
}
