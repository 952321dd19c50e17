package service

import (
	"context"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles profile management and the follow graph.
type UserService struct {
	userRepo repository.UserRepository
}

// UpdateProfileInput enumerates the mutable profile fields. Nil means
// "leave unchanged"; identity and role are not patchable here.
type UpdateProfileInput struct {
	UserID    uint
	Email     *string `json:"email"`
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns the reduced projection of every user.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.UserSummary, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, models.SummaryOf(&users[i]))
	}
	return summaries, nil
}

// GetUser returns the full user record, avatar included.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile applies the patch to the caller's own record.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		if err := validation.ValidateEmail(*in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = *in.Email
	}
	if in.Username != nil {
		if err := validation.ValidateUsername(*in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Username = *in.Username
	}
	if in.Password != nil {
		if err := validation.ValidatePassword(*in.Password); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = string(hashed)
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteByUsername removes a user account.
func (s *UserService) DeleteByUsername(ctx context.Context, username string) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewNotFoundError("User")
	}
	return s.userRepo.Delete(ctx, user.ID)
}

// ToggleFollow adds or removes the follow edge from the caller to the named
// user and returns the target's profile as seen by the caller. Repeating an
// already-applied toggle is a conflict, not a silent success.
func (s *UserService) ToggleFollow(ctx context.Context, followerID uint, username string, enable bool) (*models.ProfileView, error) {
	if username == "" {
		return nil, models.NewValidationError("Username not provided")
	}

	target, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, models.NewNotFoundError("User to follow")
	}
	if target.ID == followerID {
		return nil, models.NewInvalidOperationError("Cannot follow yourself")
	}

	direction := "follow"
	if !enable {
		direction = "unfollow"
	}

	// A single conditional write both applies the edge mutation and detects
	// the redundant case, so two concurrent toggles cannot double-apply.
	var changed bool
	if enable {
		changed, err = s.userRepo.AddFollow(ctx, followerID, target.ID)
	} else {
		changed, err = s.userRepo.RemoveFollow(ctx, followerID, target.ID)
	}
	if err != nil {
		return nil, err
	}
	if !changed {
		middleware.FollowToggles.WithLabelValues(direction, "conflict").Inc()
		if enable {
			return nil, models.NewConflictError("You are already following this user")
		}
		return nil, models.NewConflictError("You are already unfollowing this user")
	}

	middleware.FollowToggles.WithLabelValues(direction, "applied").Inc()
	return models.ProfileViewOf(target, enable), nil
}
