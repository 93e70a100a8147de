package config

import (
	"context"
	"testing"

	"educycle-api/internal/adapters/persistence/repositories"
	"educycle-api/internal/adapters/persistence/testdb"
	"educycle-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, domain.RaisedModeLegacy, cfg.Marketplace.RaisedMode)
	assert.False(t, cfg.Marketplace.EnforceTransitions)
	assert.Equal(t, domain.DefaultRolePriority(), cfg.Marketplace.RolePriority)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
}

func TestLoadProdPrefixesAndLists(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("PROD_DB_HOST", "db.internal")
	t.Setenv("DEV_DB_HOST", "localhost-dev")
	t.Setenv("PROD_JWT_SECRET", "prod-secret")
	t.Setenv("ROLE_PRIORITY", "Admin, Member")
	t.Setenv("ACTIVITY_RAISED_MODE", "ledger")
	t.Setenv("LISTING_ENFORCE_TRANSITIONS", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "prod-secret", cfg.JWT.Secret)
	assert.Equal(t, domain.RolePriority{"Admin", "Member"}, cfg.Marketplace.RolePriority)
	assert.Equal(t, domain.RaisedModeLedger, cfg.Marketplace.RaisedMode)
	assert.True(t, cfg.Marketplace.EnforceTransitions)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"app mode":    {"APP_MODE", "staging"},
		"db driver":   {"DB_DRIVER", "postgres"},
		"raised mode": {"ACTIVITY_RAISED_MODE", "sometimes"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("APP_MODE", "dev")
			t.Setenv("DB_DRIVER", "sqlite")
			t.Setenv(kv[0], kv[1])

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestSeeder(t *testing.T) {
	db := testdb.Open(t)
	cfg := &Config{
		Marketplace: MarketplaceConfig{RolePriority: domain.DefaultRolePriority()},
		Seed:        SeedConfig{AdminEmail: "root@educycle.test", AdminPassword: "long-enough"},
	}

	require.NoError(t, NewSeeder(db, cfg).Run())
	// idempotent
	require.NoError(t, NewSeeder(db, cfg).Run())

	store := repositories.NewStore(db)
	roles, err := store.Roles.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, roles, len(cfg.Marketplace.RolePriority))

	admin, err := store.Users.GetByEmail(context.Background(), "root@educycle.test")
	require.NoError(t, err)
	assert.Equal(t, []string{domain.RoleAdmin}, admin.RoleNames())
}
