package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups every repository over one *gorm.DB handle
type Store struct {
	db *gorm.DB

	Users         UserRepository
	Roles         RoleRepository
	RefreshTokens RefreshTokenRepository
	Categories    CategoryRepository
	Items         ItemRepository
	Listings      ListingRepository
	Activities    ActivityRepository
	Transactions  TransactionRepository
}

// NewStore creates a store bound to db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		Roles:         NewRoleRepository(db),
		RefreshTokens: NewRefreshTokenRepository(db),
		Categories:    NewCategoryRepository(db),
		Items:         NewItemRepository(db),
		Listings:      NewListingRepository(db),
		Activities:    NewActivityRepository(db),
		Transactions:  NewTransactionRepository(db),
	}
}

// Transaction runs fn inside a single database transaction. The store passed
// to fn is bound to that transaction; fn must not use the outer store.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// DB returns the underlying handle
func (s *Store) DB() *gorm.DB {
	return s.db
}
