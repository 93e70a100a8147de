package services

import (
	"context"
	"time"

	"educycle-api/internal/adapters/persistence/models"
	"educycle-api/internal/adapters/persistence/repositories"
	"educycle-api/internal/config"
	"educycle-api/internal/core/domain"
	"educycle-api/internal/pkg/logger"
	"educycle-api/internal/pkg/password"

	"go.uber.org/zap"
)

// UserService handles user management business logic
type UserService struct {
	store *repositories.Store
	cfg   *config.Config
}

// NewUserService creates a new user service
func NewUserService(store *repositories.Store, cfg *config.Config) *UserService {
	return &UserService{store: store, cfg: cfg}
}

// UpdateUserInput is a partial profile update; nil fields are left unchanged
type UpdateUserInput struct {
	Name      *string   `json:"name" validate:"omitempty,max=100"`
	Email     *string   `json:"email" validate:"omitempty,email"`
	Password  *string   `json:"password" validate:"omitempty,min=6"`
	Avatar    *string   `json:"avatar"`
	ClassName *string   `json:"class_name"`
	ThClass   *string   `json:"th_class"`
	Status    *string   `json:"status"`
	Roles     *[]string `json:"roles"`
}

// ListUsersOutput represents a page of users
type ListUsersOutput struct {
	Users []*models.UserResponse `json:"users"`
	Total int64                  `json:"total"`
}

// ToResponse renders a user with its derived primary role
func (s *UserService) ToResponse(user *models.User) *models.UserResponse {
	return user.ToResponse(s.cfg.Marketplace.RolePriority)
}

// GetUserByID gets a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.UserResponse, error) {
	user, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, domain.ErrUserNotFound)
	}
	return s.ToResponse(user), nil
}

// ListUsers lists every user
func (s *UserService) ListUsers(ctx context.Context) ([]*models.UserResponse, error) {
	users, err := s.store.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.toResponses(users), nil
}

// ListUsersPaged lists users with pagination
func (s *UserService) ListUsersPaged(ctx context.Context, offset, limit int) (*ListUsersOutput, error) {
	users, total, err := s.store.Users.ListPaged(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return &ListUsersOutput{Users: s.toResponses(users), Total: total}, nil
}

// ChangeProfile applies a partial update. A user may edit their own profile;
// an admin may edit anyone and is the only one allowed to touch status or roles.
func (s *UserService) ChangeProfile(ctx context.Context, actor Actor, id string, input *UpdateUserInput) (*models.UserResponse, error) {
	if !actor.IsAdmin && actor.UserID != id {
		return nil, domain.ErrNotProfileOwner
	}
	if !actor.IsAdmin && (input.Status != nil || input.Roles != nil) {
		return nil, domain.ErrAdminOnlyField
	}

	var updated *models.User
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		user, err := tx.Users.GetByID(ctx, id)
		if err != nil {
			return translate(err, domain.ErrUserNotFound)
		}

		if input.Name != nil {
			user.Name = *input.Name
		}
		if input.Email != nil && *input.Email != user.Email {
			taken, err := tx.Users.EmailTakenByOther(ctx, *input.Email, user.ID)
			if err != nil {
				return err
			}
			if taken {
				return domain.ErrEmailAlreadyExists
			}
			user.Email = *input.Email
		}
		if input.Password != nil {
			if !password.ValidatePassword(*input.Password) {
				return domain.ErrPasswordTooShort
			}
			hashed, err := password.Hash(*input.Password)
			if err != nil {
				return err
			}
			user.PasswordHash = hashed
		}
		if input.Avatar != nil {
			user.Avatar = *input.Avatar
		}
		if input.ClassName != nil {
			user.ClassName = *input.ClassName
		}
		if input.ThClass != nil {
			user.ThClass = *input.ThClass
		}
		if input.Status != nil {
			status, err := domain.ParseUserStatus(*input.Status)
			if err != nil {
				return domain.ErrInvalidUserStatus
			}
			user.Status = status
		}

		user.UpdatedAt = time.Now()
		if err := tx.Users.Update(ctx, user); err != nil {
			return err
		}

		if input.Roles != nil {
			roles, err := resolveRoles(ctx, tx, *input.Roles)
			if err != nil {
				return err
			}
			if err := tx.Users.ReplaceRoles(ctx, user, roles); err != nil {
				return err
			}
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L().Info("profile updated", zap.String("user_id", id), zap.String("actor", actor.UserID))
	return s.ToResponse(updated), nil
}

// DeleteUser removes a user and its role assignments
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	var deleted bool
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		deleted, err = tx.Users.Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrUserNotFound
	}

	logger.L().Info("user deleted", zap.String("user_id", id))
	return nil
}

func (s *UserService) toResponses(users []*models.User) []*models.UserResponse {
	out := make([]*models.UserResponse, len(users))
	for i, user := range users {
		out[i] = s.ToResponse(user)
	}
	return out
}
