package config

import (
	"context"
	"errors"
	"time"

	"educycle-api/internal/adapters/persistence/models"
	"educycle-api/internal/adapters/persistence/repositories"
	"educycle-api/internal/core/domain"
	"educycle-api/internal/pkg/logger"
	"educycle-api/internal/pkg/password"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	logger.L().Info("running database seeders")

	ctx := context.Background()
	store := repositories.NewStore(s.db)

	if err := s.seedRoles(ctx, store); err != nil {
		return err
	}

	if err := s.seedAdminUser(ctx, store); err != nil {
		logger.L().Warn("admin seeder skipped", zap.Error(err))
	}

	logger.L().Info("database seeding completed")
	return nil
}

// seedRoles makes sure every role named in the priority list exists
func (s *Seeder) seedRoles(ctx context.Context, store *repositories.Store) error {
	for _, name := range s.cfg.Marketplace.RolePriority {
		if _, err := store.Roles.FirstOrCreate(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// seedAdminUser creates the bootstrap admin when SEED_ADMIN_EMAIL is set.
// An existing account with that email is left untouched.
func (s *Seeder) seedAdminUser(ctx context.Context, store *repositories.Store) error {
	email := s.cfg.Seed.AdminEmail
	if email == "" {
		return nil
	}
	if len(s.cfg.Seed.AdminPassword) < 8 {
		return errors.New("SEED_ADMIN_PASSWORD must be at least 8 characters")
	}

	exists, err := store.Users.ExistsByEmail(ctx, email)
	if err != nil || exists {
		return err
	}

	adminRole, err := store.Roles.GetByName(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}

	hashedPassword, err := password.Hash(s.cfg.Seed.AdminPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := &models.User{
		ID:              uuid.New().String(),
		Name:            "Administrator",
		Email:           email,
		PasswordHash:    hashedPassword,
		ReputationScore: 100,
		Status:          domain.UserStatusActive,
		Roles:           []models.Role{*adminRole},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = store.Transaction(ctx, func(tx *repositories.Store) error {
		return tx.Users.Create(ctx, admin)
	})
	if err != nil {
		return err
	}

	logger.L().Info("admin user created", zap.String("email", admin.Email))
	return nil
}
