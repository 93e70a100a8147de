package services

import (
	"context"
	"time"

	"educycle-api/internal/adapters/persistence/models"
	"educycle-api/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardService aggregates read-only statistics straight from the tables
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	// User Statistics
	TotalUsers  int64            `json:"total_users"`
	UsersByRole map[string]int64 `json:"users_by_role"`
	BannedUsers int64            `json:"banned_users"`

	// Marketplace Statistics
	TotalPosts    int64            `json:"total_posts"`
	PostsByStatus map[string]int64 `json:"posts_by_status"`
	PostsByType   map[string]int64 `json:"posts_by_type"`

	// Fundraising Statistics
	TotalActivities int64           `json:"total_activities"`
	TotalGoal       decimal.Decimal `json:"total_goal"`
	TotalRaised     decimal.Decimal `json:"total_raised"`

	// Ledger Statistics
	TotalTransactions     int64 `json:"total_transactions"`
	TransactionsThisMonth int64 `json:"transactions_this_month"`

	RecentTransactions []*models.Transaction `json:"recent_transactions"`
	TopActivities      []*models.Activity    `json:"top_activities"`
}

// MemberDashboardData represents a member's own overview
type MemberDashboardData struct {
	PostsByStatus        map[string]int64 `json:"posts_by_status"`
	TotalTransactions    int64            `json:"total_transactions"`
	OrganizedActivities  int64            `json:"organized_activities"`
	RaisedByMyActivities decimal.Decimal  `json:"raised_by_my_activities"`
}

type labelCount struct {
	Label string
	Total int64
}

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	db := s.db.WithContext(ctx)
	data := &AdminDashboardData{}
	var err error

	// User counts
	if err = db.Model(&models.User{}).Count(&data.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err = db.Model(&models.User{}).Where("status = ?", domain.UserStatusBanned).Count(&data.BannedUsers).Error; err != nil {
		return nil, err
	}
	data.UsersByRole, err = groupCount(db.Table("user_roles").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Select("roles.role_name AS label, COUNT(*) AS total").
		Group("roles.role_name"))
	if err != nil {
		return nil, err
	}

	// Post counts
	if err = db.Model(&models.Listing{}).Count(&data.TotalPosts).Error; err != nil {
		return nil, err
	}
	data.PostsByStatus, err = groupCount(db.Model(&models.Listing{}).
		Select("status AS label, COUNT(*) AS total").Group("status"))
	if err != nil {
		return nil, err
	}
	data.PostsByType, err = groupCount(db.Model(&models.Listing{}).
		Select("type AS label, COUNT(*) AS total").Group("type"))
	if err != nil {
		return nil, err
	}

	// Activity totals
	if err = db.Model(&models.Activity{}).Count(&data.TotalActivities).Error; err != nil {
		return nil, err
	}
	if data.TotalGoal, err = sumDecimal(db.Model(&models.Activity{}), "goal_amount"); err != nil {
		return nil, err
	}
	if data.TotalRaised, err = sumDecimal(db.Model(&models.Activity{}), "amount_raised"); err != nil {
		return nil, err
	}

	// Ledger counts
	if err = db.Model(&models.Transaction{}).Count(&data.TotalTransactions).Error; err != nil {
		return nil, err
	}
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err = db.Model(&models.Transaction{}).
		Where("created_at >= ?", startOfMonth).
		Count(&data.TransactionsThisMonth).Error; err != nil {
		return nil, err
	}

	// Recent activity
	if err = db.Order("created_at DESC").Limit(10).Find(&data.RecentTransactions).Error; err != nil {
		return nil, err
	}
	if err = db.Order("amount_raised DESC").Limit(5).Find(&data.TopActivities).Error; err != nil {
		return nil, err
	}

	return data, nil
}

// ============================================================
// Member Dashboard
// ============================================================

// GetMemberDashboard returns the caller's own statistics
func (s *DashboardService) GetMemberDashboard(ctx context.Context, userID string) (*MemberDashboardData, error) {
	db := s.db.WithContext(ctx)
	data := &MemberDashboardData{}
	var err error

	data.PostsByStatus, err = groupCount(db.Model(&models.Listing{}).
		Where("seller_id = ?", userID).
		Select("status AS label, COUNT(*) AS total").Group("status"))
	if err != nil {
		return nil, err
	}

	if err = db.Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&data.TotalTransactions).Error; err != nil {
		return nil, err
	}

	if err = db.Model(&models.Activity{}).Where("organizer_id = ?", userID).Count(&data.OrganizedActivities).Error; err != nil {
		return nil, err
	}
	data.RaisedByMyActivities, err = sumDecimal(db.Model(&models.Activity{}).Where("organizer_id = ?", userID), "amount_raised")
	if err != nil {
		return nil, err
	}

	return data, nil
}

func groupCount(q *gorm.DB) (map[string]int64, error) {
	var rows []labelCount
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Label] = r.Total
	}
	return out, nil
}

func sumDecimal(q *gorm.DB, column string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := q.Select("COALESCE(SUM(" + column + "), 0)").Row().Scan(&total)
	return total, err
}
