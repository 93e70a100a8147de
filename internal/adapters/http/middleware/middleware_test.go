package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"educycle-api/internal/config"
	"educycle-api/internal/core/domain"
	"educycle-api/internal/pkg/jwt"
	"educycle-api/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT:     config.JWTConfig{Secret: "mw-secret", AccessTokenMins: 5},
	}
}

func token(t *testing.T, cfg *config.Config, roles ...string) string {
	t.Helper()
	tok, err := jwt.GenerateAccessToken("u-1", "u1@example.com", roles, domain.RoleMember, cfg.JWT.Secret, cfg.JWT.AccessTokenMins)
	require.NoError(t, err)
	return tok
}

func newApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthMiddleware(cfg), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("userID").(string))
	})
	app.Get("/admin", AuthMiddleware(cfg), AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func get(t *testing.T, app *fiber.App, path string, setup func(*http.Request)) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if setup != nil {
		setup(req)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func bearer(tok string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	app := newApp(cfg)

	resp := get(t, app, "/me", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = get(t, app, "/me", bearer("garbage"))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = get(t, app, "/me", bearer(token(t, cfg, domain.RoleMember)))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// cookie transport
	resp = get(t, app, "/me", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "access_token", Value: token(t, cfg, domain.RoleMember)})
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMiddlewareRejectsOtherSecret(t *testing.T) {
	cfg := testConfig()
	app := newApp(cfg)

	other := &config.Config{JWT: config.JWTConfig{Secret: "other", AccessTokenMins: 5}}
	resp := get(t, app, "/me", bearer(token(t, other, domain.RoleAdmin)))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminOnly(t *testing.T) {
	cfg := testConfig()
	app := newApp(cfg)

	resp := get(t, app, "/admin", bearer(token(t, cfg, domain.RoleMember)))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = get(t, app, "/admin", bearer(token(t, cfg, domain.RoleMember, domain.RoleAdmin)))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCacheHeaders(t *testing.T) {
	app := fiber.New()
	app.Get("/cached", CacheControl(2*time.Minute), func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing", CacheControl(2*time.Minute), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })
	app.Get("/private", NoCacheHeaders(), func(c *fiber.Ctx) error { return c.SendString("ok") })

	assert.Equal(t, "public, max-age=120", get(t, app, "/cached", nil).Header.Get("Cache-Control"))
	assert.Empty(t, get(t, app, "/missing", nil).Header.Get("Cache-Control"))
	assert.Equal(t, "no-store, no-cache, must-revalidate", get(t, app, "/private", nil).Header.Get("Cache-Control"))
}

func TestAuthRateLimiter(t *testing.T) {
	app := fiber.New()
	app.Post("/login", AuthRateLimiter(nil), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/login", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestCustomErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Use(Metrics())
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })

	resp := get(t, app, "/teapot", nil)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)

	resp = get(t, app, "/nowhere", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestMetrics_PlainErrorCountedAs500(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Use(Metrics())
	app.Get("/metrics-boom", func(c *fiber.Ctx) error { return errors.New("disk on fire") })

	served := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(fiber.MethodGet, "/metrics-boom", "500"))
	okLabel := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(fiber.MethodGet, "/metrics-boom", "200"))

	resp := get(t, app, "/metrics-boom", nil)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	assert.Equal(t, served+1, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(fiber.MethodGet, "/metrics-boom", "500")))
	assert.Equal(t, okLabel, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(fiber.MethodGet, "/metrics-boom", "200")))
}

func TestSetup_AssignsRequestID(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	Setup(app, testConfig(), nil)
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	resp := get(t, app, "/ping", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}
