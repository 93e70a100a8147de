package services

import (
	"testing"

	"educycle-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterDefaultsToMember(t *testing.T) {
	env := newTestEnv(t)

	user := env.register(t, "seller1", "s1@x.com")

	assert.Equal(t, "seller1", user.ID)
	assert.Equal(t, []string{domain.RoleMember}, user.RoleNames())
	assert.Equal(t, 100, user.ReputationScore)
	assert.Equal(t, domain.UserStatusActive, user.Status)
	assert.NotEqual(t, "secret123", user.PasswordHash)
}

func TestAuthService_RegisterRejects(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "u1", "dup@x.com")

	_, err := env.auth().Register(env.ctx, &RegisterInput{Name: "b", Email: "dup@x.com", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.ErrorIs(t, err, domain.ErrDuplicateEntry)

	_, err = env.auth().Register(env.ctx, &RegisterInput{Name: "c", Email: "c@x.com", Password: "secret123", Roles: []string{"Wizard"}})
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)

	_, err = env.auth().Register(env.ctx, &RegisterInput{Name: "d", Email: "d@x.com", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "u1", "a@x.com", domain.RoleMember, domain.RoleApprovalManager)

	resp, err := env.auth().Login(env.ctx, &LoginInput{Email: "a@x.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.UserID)
	assert.Equal(t, domain.RoleApprovalManager, resp.PrimaryRole)
	assert.ElementsMatch(t, []string{domain.RoleMember, domain.RoleApprovalManager}, resp.Roles)

	claims, err := env.auth().ResolveIdentity(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)

	_, err = env.auth().Login(env.ctx, &LoginInput{Email: "a@x.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = env.auth().Login(env.ctx, &LoginInput{Email: "nobody@x.com", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_LoginBanned(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "u1", "a@x.com")

	banned := string(domain.UserStatusBanned)
	_, err := env.users().ChangeProfile(env.ctx, Actor{UserID: "admin", IsAdmin: true}, "u1", &UpdateUserInput{Status: &banned})
	require.NoError(t, err)

	_, err = env.auth().Login(env.ctx, &LoginInput{Email: "a@x.com", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrUserBanned)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAuthService_RefreshRotates(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "u1", "a@x.com")

	first, err := env.auth().Login(env.ctx, &LoginInput{Email: "a@x.com", Password: "secret123"})
	require.NoError(t, err)

	second, err := env.auth().Refresh(env.ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = env.auth().Refresh(env.ctx, first.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	sessions, err := env.auth().ActiveSessions(env.ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), sessions)

	require.NoError(t, env.auth().LogoutAll(env.ctx, "u1"))
	sessions, err = env.auth().ActiveSessions(env.ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, sessions)
	_, err = env.auth().Refresh(env.ctx, second.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_ResolveIdentityRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth().ResolveIdentity("not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
