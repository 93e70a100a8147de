package repositories

import (
	"context"

	"educycle-api/internal/adapters/persistence/models"
	"educycle-api/internal/core/domain"

	"github.com/shopspring/decimal"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ReplaceRoles(ctx context.Context, user *models.User, roles []models.Role) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]*models.User, error)
	ListPaged(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	Exists(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	EmailTakenByOther(ctx context.Context, email, userID string) (bool, error)
}

// RoleRepository defines role repository interface
type RoleRepository interface {
	GetByName(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context) ([]*models.Role, error)
	FirstOrCreate(ctx context.Context, name string) (*models.Role, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
	CountActiveByUserID(ctx context.Context, userID string) (int64, error)
}

// CategoryRepository defines category repository interface
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
	CountItems(ctx context.Context, id string) (int64, error)
}

// ItemRepository defines item repository interface
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id string) (*models.Item, error)
	List(ctx context.Context) ([]*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id string) error
	CountListings(ctx context.Context, id string) (int64, error)
}

// ListingFilter narrows listing reads. Zero values mean no filter.
type ListingFilter struct {
	SellerID   string
	CategoryID string
	Type       domain.PostType
	Status     domain.PostStatus
	State      domain.PostState
}

// ListingRepository defines listing repository interface
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	List(ctx context.Context, filter ListingFilter) ([]*models.Listing, error)
	Update(ctx context.Context, listing *models.Listing, expectedVersion int) error
	Delete(ctx context.Context, id string) (bool, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// ActivityRepository defines activity repository interface
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	GetByID(ctx context.Context, id string) (*models.Activity, error)
	List(ctx context.Context) ([]*models.Activity, error)
	ListIDs(ctx context.Context) ([]string, error)
	Update(ctx context.Context, activity *models.Activity, expectedVersion int) error
	Delete(ctx context.Context, id string) (bool, error)
	AddRaised(ctx context.Context, id string, amount decimal.Decimal) error
	SetRaised(ctx context.Context, id string, amount decimal.Decimal) error
	LinkListing(ctx context.Context, activityID, listingID string) error
	UnlinkListing(ctx context.Context, activityID, listingID string) (bool, error)
	ListListings(ctx context.Context, activityID string) ([]*models.Listing, error)
}

// TransactionRepository defines ledger repository interface.
// Entries are append-only: there is no update or delete.
type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Transaction, error)
	List(ctx context.Context) ([]*models.Transaction, error)
	ListPaged(ctx context.Context, offset, limit int) ([]*models.Transaction, int64, error)
	SumByActivity(ctx context.Context) (map[string]decimal.Decimal, error)
}
