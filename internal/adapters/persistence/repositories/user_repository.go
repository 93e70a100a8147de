package repositories

import (
	"context"

	"educycle-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user together with its role assignments
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Omit("Roles").Create(user).Error; err != nil {
		return err
	}
	for _, role := range user.Roles {
		if err := r.db.WithContext(ctx).Create(&models.UserRole{UserID: user.ID, RoleID: role.ID}).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Roles").Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail gets a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update saves the user's columns. Role assignments are left untouched.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit("Roles").Save(user).Error
}

// ReplaceRoles swaps the user's role assignments for roles
func (r *userRepository) ReplaceRoles(ctx context.Context, user *models.User, roles []models.Role) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", user.ID).Delete(&models.UserRole{}).Error; err != nil {
		return err
	}
	for _, role := range roles {
		if err := r.db.WithContext(ctx).Create(&models.UserRole{UserID: user.ID, RoleID: role.ID}).Error; err != nil {
			return err
		}
	}
	user.Roles = roles
	return nil
}

// Delete removes a user and its role assignments
func (r *userRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := r.db.WithContext(ctx).Where("user_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
		return false, err
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	return result.RowsAffected > 0, result.Error
}

// List lists every user
func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).Preload("Roles").Order("created_at").Find(&users).Error
	return users, err
}

// ListPaged lists users with pagination
func (r *userRepository) ListPaged(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).Preload("Roles").Order("created_at").
		Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Exists checks if a user id exists
func (r *userRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks if email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// EmailTakenByOther checks if email belongs to a user other than userID
func (r *userRepository) EmailTakenByOther(ctx context.Context, email, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Where("id <> ?", userID).
		Count(&count).Error
	return count > 0, err
}
