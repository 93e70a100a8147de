package services

import (
	"context"
	"errors"
	"time"

	"educycle-api/internal/adapters/persistence/models"
	"educycle-api/internal/adapters/persistence/repositories"
	"educycle-api/internal/config"
	"educycle-api/internal/core/domain"
	"educycle-api/internal/pkg/jwt"
	"educycle-api/internal/pkg/logger"
	"educycle-api/internal/pkg/metrics"
	"educycle-api/internal/pkg/password"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthService handles authentication business logic
type AuthService struct {
	store *repositories.Store
	cfg   *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(store *repositories.Store, cfg *config.Config) *AuthService {
	return &AuthService{store: store, cfg: cfg}
}

// RegisterInput represents registration input
type RegisterInput struct {
	ID       string   `json:"user_id"`
	Name     string   `json:"name" validate:"required,max=100"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	Roles    []string `json:"roles"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse is returned by login and refresh
type AuthResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	UserID       string   `json:"user_id"`
	Name         string   `json:"name"`
	Avatar       string   `json:"avatar"`
	Roles        []string `json:"roles"`
	PrimaryRole  string   `json:"primary_role"`
}

// Register creates a user with hashed credentials and resolved roles
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.User, error) {
	if !password.ValidatePassword(input.Password) {
		return nil, domain.ErrPasswordTooShort
	}

	exists, err := s.store.Users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailAlreadyExists
	}

	roleNames := input.Roles
	if len(roleNames) == 0 {
		roleNames = []string{domain.RoleMember}
	}
	roles, err := resolveRoles(ctx, s.store, roleNames)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	id := input.ID
	if id == "" {
		id = uuid.New().String()
	}

	now := time.Now()
	user := &models.User{
		ID:              id,
		Name:            input.Name,
		Email:           input.Email,
		PasswordHash:    hashedPassword,
		ReputationScore: 100,
		Status:          domain.UserStatusActive,
		Roles:           roles,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		return tx.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	logger.L().Info("user registered", zap.String("user_id", user.ID), zap.Strings("roles", roleNames))
	return user, nil
}

// Login authenticates by email and password and issues a token pair
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.store.Users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.auditLogin(input.Email, "unknown_email")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.PasswordHash) {
		s.auditLogin(input.Email, "bad_password")
		return nil, domain.ErrInvalidCredentials
	}

	if user.Status == domain.UserStatusBanned {
		s.auditLogin(input.Email, "banned")
		return nil, domain.ErrUserBanned
	}

	resp, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	s.auditLogin(input.Email, "success")
	return resp, nil
}

// Refresh rotates a refresh token: the presented one is revoked and a new pair issued
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	stored, err := s.store.RefreshTokens.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		return nil, translate(err, domain.ErrTokenRevoked)
	}
	if stored.IsExpired() {
		return nil, domain.ErrTokenExpired
	}

	user, err := s.store.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, translate(err, domain.ErrUserNotFound)
	}
	if user.Status == domain.UserStatusBanned {
		return nil, domain.ErrUserBanned
	}

	if err := s.store.RefreshTokens.Revoke(ctx, stored.ID); err != nil {
		return nil, err
	}

	logger.L().Debug("refresh token rotated", zap.String("user_id", user.ID))
	return s.issue(ctx, user)
}

// Logout revokes a single refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.store.RefreshTokens.RevokeByTokenHash(ctx, password.HashToken(refreshToken))
}

// LogoutAll revokes every refresh token of a user
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	if err := s.store.RefreshTokens.RevokeAllByUserID(ctx, userID); err != nil {
		return err
	}
	logger.L().Info("all sessions revoked", zap.String("user_id", userID))
	return nil
}

// ResolveIdentity validates an access token and returns its claims
func (s *AuthService) ResolveIdentity(accessToken string) (*jwt.Claims, error) {
	claims, err := jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

// Me returns the current user's record
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, translate(err, domain.ErrUserNotFound)
	}
	return user, nil
}

// ActiveSessions counts the user's unrevoked, unexpired refresh tokens
func (s *AuthService) ActiveSessions(ctx context.Context, userID string) (int64, error) {
	return s.store.RefreshTokens.CountActiveByUserID(ctx, userID)
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*AuthResponse, error) {
	roles := user.RoleNames()
	primary := s.cfg.Marketplace.RolePriority.PrimaryRole(roles)

	tokens, err := s.generateTokens(user, roles, primary)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		UserID:       user.ID,
		Name:         user.Name,
		Avatar:       user.Avatar,
		Roles:        roles,
		PrimaryRole:  primary,
	}, nil
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(user *models.User, roles []string, primary string) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Email,
		roles,
		primary,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		uuid.New().String(),
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken stores a refresh token hash in the database
func (s *AuthService) storeRefreshToken(ctx context.Context, userID string, refreshToken string) error {
	token := &models.RefreshToken{
		UserID:    userID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	return s.store.RefreshTokens.Create(ctx, token)
}

func (s *AuthService) auditLogin(email, result string) {
	metrics.AuthAttemptsTotal.WithLabelValues(result).Inc()
	if result == "success" {
		logger.L().Info("login succeeded", zap.String("email", email))
		return
	}
	logger.L().Warn("login failed", zap.String("email", email), zap.String("reason", result))
}

// resolveRoles looks up every role by name; any miss fails the whole set
func resolveRoles(ctx context.Context, store *repositories.Store, names []string) ([]models.Role, error) {
	roles := make([]models.Role, 0, len(names))
	for _, name := range names {
		role, err := store.Roles.GetByName(ctx, name)
		if err != nil {
			return nil, translate(err, domain.ErrRoleNotFound)
		}
		roles = append(roles, *role)
	}
	return roles, nil
}
