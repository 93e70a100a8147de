package models

import (
	"time"

	"educycle-api/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Identity
// ============================================================

// User represents users table
type User struct {
	ID              string            `gorm:"primaryKey;size:36" json:"user_id"`
	Name            string            `gorm:"size:100;not null" json:"name"`
	Email           string            `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash    string            `gorm:"column:password_hash;size:255;not null" json:"-"`
	ReputationScore int               `gorm:"not null;default:100" json:"reputation_score"`
	ViolationCount  int               `gorm:"not null;default:0" json:"violation_count"`
	WalletBalance   decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0" json:"wallet_balance"`
	Rating          decimal.Decimal   `gorm:"type:decimal(3,2);not null;default:0" json:"rating"`
	Status          domain.UserStatus `gorm:"size:20;not null;default:'Active'" json:"status"`
	ClassName       string            `gorm:"size:100" json:"class_name"`
	ThClass         string            `gorm:"size:100" json:"th_class"`
	Avatar          string            `gorm:"size:500" json:"avatar"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	Roles []Role `gorm:"many2many:user_roles;" json:"roles,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// RoleNames returns the names of the assigned roles
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.RoleName)
	}
	return names
}

// UserResponse DTO
type UserResponse struct {
	ID              string            `json:"user_id"`
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	Roles           []string          `json:"roles"`
	PrimaryRole     string            `json:"primary_role"`
	ReputationScore int               `json:"reputation_score"`
	ViolationCount  int               `json:"violation_count"`
	WalletBalance   decimal.Decimal   `json:"wallet_balance"`
	Rating          decimal.Decimal   `json:"rating"`
	Status          domain.UserStatus `json:"status"`
	ClassName       string            `json:"class_name,omitempty"`
	ThClass         string            `json:"th_class,omitempty"`
	Avatar          string            `json:"avatar,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// ToResponse builds the public view, deriving the primary role from priority
func (u *User) ToResponse(priority domain.RolePriority) *UserResponse {
	roles := u.RoleNames()
	return &UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Roles:           roles,
		PrimaryRole:     priority.PrimaryRole(roles),
		ReputationScore: u.ReputationScore,
		ViolationCount:  u.ViolationCount,
		WalletBalance:   u.WalletBalance,
		Rating:          u.Rating,
		Status:          u.Status,
		ClassName:       u.ClassName,
		ThClass:         u.ThClass,
		Avatar:          u.Avatar,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// Role represents roles table
type Role struct {
	ID       uint   `gorm:"primaryKey" json:"role_id"`
	RoleName string `gorm:"uniqueIndex;size:50;not null" json:"role_name"`
}

func (Role) TableName() string {
	return "roles"
}

// UserRole is the user_roles join table carrying the assignment time
type UserRole struct {
	UserID     string    `gorm:"primaryKey;size:36"`
	RoleID     uint      `gorm:"primaryKey"`
	AssignedAt time.Time `gorm:"autoCreateTime"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    string     `gorm:"index;size:36;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Catalog
// ============================================================

// Category represents categories table
type Category struct {
	ID          string    `gorm:"primaryKey;size:36" json:"category_id"`
	Name        string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

// Item represents items table
type Item struct {
	ID          string    `gorm:"primaryKey;size:36" json:"item_id"`
	Name        string    `gorm:"column:item_name;size:255;not null" json:"item_name"`
	Description string    `gorm:"type:text" json:"description"`
	ImageURL    string    `gorm:"column:image_url;size:500" json:"image_url"`
	OwnerID     string    `gorm:"index;size:36" json:"owner_id"`
	CategoryID  string    `gorm:"index;size:36" json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`

	Owner    *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Item) TableName() string {
	return "items"
}

// ============================================================
// Marketplace
// ============================================================

// Listing represents sell_exchange_posts table
type Listing struct {
	ID          string            `gorm:"column:post_id;primaryKey;size:36" json:"post_id"`
	SellerID    string            `gorm:"index;size:36;not null" json:"seller_id"`
	ItemID      string            `gorm:"index;size:36;not null" json:"item_id"`
	Title       string            `gorm:"size:255;not null" json:"title"`
	Description string            `gorm:"type:text;not null" json:"description"`
	Price       decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"price"`
	Type        domain.PostType   `gorm:"size:20;not null;index" json:"type"`
	ProductType string            `gorm:"column:product_type;size:100;not null" json:"product_type"`
	Status      domain.PostStatus `gorm:"size:20;not null;index;default:'Pending'" json:"status"`
	State       domain.PostState  `gorm:"size:20;not null;index;default:'Pending'" json:"state"`
	Version     int               `gorm:"not null;default:1" json:"version"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	Seller *User `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Item   *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

func (Listing) TableName() string {
	return "sell_exchange_posts"
}

// Activity represents activities table
type Activity struct {
	ID           string              `gorm:"primaryKey;size:36" json:"activity_id"`
	OrganizerID  string              `gorm:"index;size:36;not null" json:"organizer_id"`
	Title        string              `gorm:"size:255;not null" json:"title"`
	Description  string              `gorm:"type:text;not null" json:"description"`
	GoalAmount   decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"goal_amount"`
	AmountRaised decimal.Decimal     `gorm:"type:decimal(10,2);not null;default:0" json:"amount_raised"`
	Image        string              `gorm:"size:500;not null" json:"image"`
	ActivityType domain.ActivityType `gorm:"size:20;not null" json:"activity_type"`
	StartDate    time.Time           `json:"start_date"`
	EndDate      time.Time           `gorm:"not null" json:"end_date"`
	Version      int                 `gorm:"not null;default:1" json:"version"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`

	Organizer *User     `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	Listings  []Listing `gorm:"many2many:activity_posts;joinReferences:post_id" json:"posts,omitempty"`
}

func (Activity) TableName() string {
	return "activities"
}

// ActivityListing is the activity_posts join table
type ActivityListing struct {
	ActivityID string    `gorm:"primaryKey;size:36"`
	ListingID  string    `gorm:"column:post_id;primaryKey;size:36"`
	AddedAt    time.Time `gorm:"autoCreateTime"`
}

func (ActivityListing) TableName() string {
	return "activity_posts"
}

// ============================================================
// Ledger
// ============================================================

// Transaction is an immutable ledger entry against a post or an activity
type Transaction struct {
	ID         string           `gorm:"column:transaction_id;primaryKey;size:36" json:"transaction_id"`
	ListingID  *string          `gorm:"column:post_id;index;size:36" json:"post_id"`
	ActivityID *string          `gorm:"index;size:36" json:"activity_id"`
	ItemID     *string          `gorm:"index;size:36" json:"item_id"`
	UserID     string           `gorm:"index;size:36;not null" json:"user_id"`
	Type       string           `gorm:"size:50;not null" json:"type"`
	Status     string           `gorm:"size:20;not null" json:"status"`
	Amount     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`

	Listing  *Listing  `gorm:"foreignKey:ListingID" json:"post,omitempty"`
	Activity *Activity `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
	Item     *Item     `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// Ledger targets
const (
	LedgerTargetPost     = "post"
	LedgerTargetActivity = "activity"
)

// Target reports which entity the entry was recorded against
func (t *Transaction) Target() string {
	if t.ActivityID != nil {
		return LedgerTargetActivity
	}
	return LedgerTargetPost
}

// ============================================================
// Auto Migration
// ============================================================

// SetupJoinTables registers the custom join models. Must run before the
// many2many associations are used on a fresh *gorm.DB.
func SetupJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&User{}, "Roles", &UserRole{}); err != nil {
		return err
	}
	return db.SetupJoinTable(&Activity{}, "Listings", &ActivityListing{})
}

// AutoMigrate creates or updates every table
func AutoMigrate(db *gorm.DB) error {
	if err := SetupJoinTables(db); err != nil {
		return err
	}
	if err := db.AutoMigrate(
		&Role{},
		&User{},
		&UserRole{},
		&RefreshToken{},
		&Category{},
		&Item{},
		&Listing{},
		&Activity{},
		&ActivityListing{},
		&Transaction{},
	); err != nil {
		return err
	}
	for _, stmt := range caseSensitiveColumns(db.Dialector.Name()) {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// caseSensitiveColumns returns the DDL that makes exact-match unique columns
// compare byte for byte. sqlite's default BINARY collation already does.
func caseSensitiveColumns(dialect string) []string {
	if dialect != "mysql" {
		return nil
	}
	return []string{
		"ALTER TABLE categories MODIFY name VARCHAR(100) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL",
	}
}
