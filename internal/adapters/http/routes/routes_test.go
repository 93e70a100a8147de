package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"educycle-api/internal/adapters/http/middleware"
	"educycle-api/internal/adapters/persistence/testdb"
	"educycle-api/internal/config"
	"educycle-api/internal/core/domain"
	"educycle-api/internal/core/services"
	"educycle-api/internal/pkg/export"
	"educycle-api/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail    = "admin@educycle.test"
	adminPassword = "admin-password"
)

func TestMain(m *testing.M) {
	password.DefaultCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type apiClient struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()

	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "routes-access",
			RefreshSecret:    "routes-refresh",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
		Cookie: config.CookieConfig{SameSite: "lax"},
		Marketplace: config.MarketplaceConfig{
			RolePriority: domain.DefaultRolePriority(),
			RaisedMode:   domain.RaisedModeLedger,
		},
		Upload: config.UploadConfig{CloudinarySecret: "cloud-secret"},
		Seed:   config.SeedConfig{AdminEmail: adminEmail, AdminPassword: adminPassword},
	}

	db := testdb.Open(t)
	require.NoError(t, config.NewSeeder(db, cfg).Run())

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	Setup(app, db, cfg, services.NoopLedgerPublisher{}, nil)
	return &apiClient{t: t, app: app}
}

func (a *apiClient) do(method, path, token string, body interface{}) (int, *envelope) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	env := &envelope{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, env)
	}
	return resp.StatusCode, env
}

func (a *apiClient) decode(env *envelope, dst interface{}) {
	a.t.Helper()
	require.NoError(a.t, json.Unmarshal(env.Data, dst))
}

func (a *apiClient) login(email, pw string) (token, userID string) {
	a.t.Helper()
	status, env := a.do(fiber.MethodPost, "/api/v1/auth/login", "", fiber.Map{"email": email, "password": pw})
	require.Equal(a.t, fiber.StatusOK, status, env.Error)

	var out services.AuthResponse
	a.decode(env, &out)
	return out.AccessToken, out.UserID
}

func (a *apiClient) registerAndLogin(name, email string) (token, userID string) {
	a.t.Helper()
	status, env := a.do(fiber.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"name": name, "email": email, "password": "secret123",
	})
	require.Equal(a.t, fiber.StatusCreated, status, env.Error)
	return a.login(email, "secret123")
}

func TestAuthFlow(t *testing.T) {
	api := newAPI(t)

	status, env := api.do(fiber.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"name": "Mali", "email": "mali@example.com", "password": "123",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, env.Success)

	token, userID := api.registerAndLogin("Mali", "mali@example.com")

	status, env = api.do(fiber.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "mali@example.com", "password": "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, env = api.do(fiber.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var me struct {
		ID             string   `json:"user_id"`
		Roles          []string `json:"roles"`
		PrimaryRole    string   `json:"primary_role"`
		ActiveSessions int64    `json:"active_sessions"`
	}
	api.decode(env, &me)
	assert.Equal(t, userID, me.ID)
	assert.Equal(t, int64(1), me.ActiveSessions)
	assert.Equal(t, []string{domain.RoleMember}, me.Roles)
	assert.Equal(t, domain.RoleMember, me.PrimaryRole)

	status, _ = api.do(fiber.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestProfileAndAdminGuards(t *testing.T) {
	api := newAPI(t)
	memberToken, memberID := api.registerAndLogin("Somchai", "somchai@example.com")
	adminToken, _ := api.login(adminEmail, adminPassword)

	status, _ := api.do(fiber.MethodPost, "/api/v1/categories", memberToken, fiber.Map{"name": "Books"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = api.do(fiber.MethodPost, "/api/v1/categories", "", fiber.Map{"name": "Books"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	// members cannot promote themselves
	status, _ = api.do(fiber.MethodPut, "/api/v1/users/"+memberID, memberToken, fiber.Map{"roles": []string{domain.RoleAdmin}})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env := api.do(fiber.MethodPut, "/api/v1/users/"+memberID, memberToken, fiber.Map{"class_name": "M.6/2"})
	require.Equal(t, fiber.StatusOK, status, env.Error)

	status, env = api.do(fiber.MethodPut, "/api/v1/users/"+memberID, adminToken, fiber.Map{
		"roles": []string{domain.RoleMember, domain.RoleRepresentative},
	})
	require.Equal(t, fiber.StatusOK, status, env.Error)
	var updated struct {
		PrimaryRole string `json:"primary_role"`
		ClassName   string `json:"class_name"`
	}
	api.decode(env, &updated)
	assert.Equal(t, domain.RoleRepresentative, updated.PrimaryRole)
	assert.Equal(t, "M.6/2", updated.ClassName)

	status, env = api.do(fiber.MethodGet, "/api/v1/admin/users?page=1&limit=1", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	var page struct {
		Meta struct {
			Total   int64 `json:"total"`
			HasNext bool  `json:"has_next"`
		} `json:"meta"`
	}
	api.decode(env, &page)
	assert.Equal(t, int64(2), page.Meta.Total)
	assert.True(t, page.Meta.HasNext)

	status, _ = api.do(fiber.MethodDelete, "/api/v1/users/missing", adminToken, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestMarketplaceFlow(t *testing.T) {
	api := newAPI(t)
	adminToken, _ := api.login(adminEmail, adminPassword)
	sellerToken, sellerID := api.registerAndLogin("Seller", "seller@example.com")

	status, env := api.do(fiber.MethodPost, "/api/v1/categories", adminToken, fiber.Map{"name": "Electronics"})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	var category struct {
		ID string `json:"category_id"`
	}
	api.decode(env, &category)

	status, _ = api.do(fiber.MethodPost, "/api/v1/categories", adminToken, fiber.Map{"name": "Electronics"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = api.do(fiber.MethodPost, "/api/v1/posts", sellerToken, fiber.Map{
		"category_id": category.ID,
		"title":       "Old Phone",
		"description": "Works fine",
		"price":       "1500.50",
		"type":        "Liquidation",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	var post struct {
		ID          string `json:"post_id"`
		SellerID    string `json:"seller_id"`
		Status      string `json:"status"`
		State       string `json:"state"`
		ProductType string `json:"product_type"`
		Version     int    `json:"version"`
	}
	api.decode(env, &post)
	assert.Equal(t, sellerID, post.SellerID)
	assert.Equal(t, "Pending", post.Status)
	assert.Equal(t, "Pending", post.State)
	assert.Equal(t, "Electronics", post.ProductType)

	status, _ = api.do(fiber.MethodGet, "/api/v1/posts/type/Bogus", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = api.do(fiber.MethodGet, "/api/v1/posts/category/"+category.ID, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var byCategory []json.RawMessage
	api.decode(env, &byCategory)
	assert.Len(t, byCategory, 1)

	// category still referenced by the backing item
	status, _ = api.do(fiber.MethodDelete, "/api/v1/categories/"+category.ID, adminToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	update := fiber.Map{"price": 1200, "status": "Approved", "state": "SellerSent", "type": "Liquidation", "version": post.Version}
	status, env = api.do(fiber.MethodPut, "/api/v1/posts/"+post.ID, sellerToken, update)
	require.Equal(t, fiber.StatusOK, status, env.Error)

	// same version again is stale
	status, _ = api.do(fiber.MethodPut, "/api/v1/posts/"+post.ID, sellerToken, update)
	assert.Equal(t, fiber.StatusConflict, status)

	status, env = api.do(fiber.MethodPatch, "/api/v1/admin/posts/"+post.ID, adminToken, fiber.Map{"title": "Old Phone (boxed)", "ignored": true})
	require.Equal(t, fiber.StatusOK, status, env.Error)

	status, _ = api.do(fiber.MethodPatch, "/api/v1/admin/posts/"+post.ID, sellerToken, fiber.Map{"title": "nope"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = api.do(fiber.MethodDelete, "/api/v1/posts/"+post.ID, sellerToken, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = api.do(fiber.MethodDelete, "/api/v1/posts/"+post.ID, sellerToken, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestWritesRequireOwnership(t *testing.T) {
	api := newAPI(t)
	adminToken, _ := api.login(adminEmail, adminPassword)
	sellerToken, sellerID := api.registerAndLogin("Seller", "seller@example.com")
	strangerToken, strangerID := api.registerAndLogin("Stranger", "stranger@example.com")

	status, env := api.do(fiber.MethodPost, "/api/v1/categories", adminToken, fiber.Map{"name": "Books"})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	var category struct {
		ID string `json:"category_id"`
	}
	api.decode(env, &category)

	// a member cannot post on someone else's behalf
	status, env = api.do(fiber.MethodPost, "/api/v1/posts", strangerToken, fiber.Map{
		"seller_id":   sellerID,
		"category_id": category.ID,
		"title":       "Atlas",
		"description": "Slightly used",
		"price":       "10",
		"type":        "Exchange",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	var spoofed struct {
		SellerID string `json:"seller_id"`
	}
	api.decode(env, &spoofed)
	assert.Equal(t, strangerID, spoofed.SellerID)

	status, env = api.do(fiber.MethodPost, "/api/v1/posts", sellerToken, fiber.Map{
		"category_id": category.ID,
		"title":       "Old Phone",
		"description": "Works fine",
		"price":       "100",
		"type":        "Liquidation",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	var post struct {
		ID     string `json:"post_id"`
		ItemID string `json:"item_id"`
	}
	api.decode(env, &post)

	approve := fiber.Map{"price": 100, "status": "Approved", "state": "Pending", "type": "Liquidation"}
	status, _ = api.do(fiber.MethodPut, "/api/v1/posts/"+post.ID, strangerToken, approve)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = api.do(fiber.MethodDelete, "/api/v1/posts/"+post.ID, strangerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = api.do(fiber.MethodPut, "/api/v1/items/"+post.ItemID, strangerToken, fiber.Map{
		"item_name": "Mine", "category_id": category.ID,
	})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env = api.do(fiber.MethodGet, "/api/v1/posts/"+post.ID, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var current struct {
		Status string `json:"status"`
	}
	api.decode(env, &current)
	assert.Equal(t, "Pending", current.Status)

	status, env = api.do(fiber.MethodPost, "/api/v1/activities", sellerToken, fiber.Map{
		"title":         "Book drive",
		"description":   "Collect books",
		"goal_amount":   500,
		"image":         "https://img.example.com/drive.png",
		"activity_type": "Donation",
		"end_date":      time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	var activity struct {
		ID string `json:"activity_id"`
	}
	api.decode(env, &activity)

	status, _ = api.do(fiber.MethodPost, "/api/v1/activities/"+activity.ID+"/posts/"+post.ID, strangerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = api.do(fiber.MethodDelete, "/api/v1/activities/"+activity.ID, strangerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	// admins keep full control
	status, _ = api.do(fiber.MethodPut, "/api/v1/posts/"+post.ID, adminToken, approve)
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = api.do(fiber.MethodDelete, "/api/v1/activities/"+activity.ID, adminToken, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
}

func TestFundraisingLedgerFlow(t *testing.T) {
	api := newAPI(t)
	adminToken, _ := api.login(adminEmail, adminPassword)
	donorToken, donorID := api.registerAndLogin("Donor", "donor@example.com")

	status, env := api.do(fiber.MethodPost, "/api/v1/activities", adminToken, fiber.Map{
		"title":         "Library fund",
		"description":   "New books",
		"goal_amount":   10000,
		"amount_raised": 999,
		"image":         "https://img.example.com/lib.png",
		"activity_type": "Donation",
		"end_date":      time.Now().Add(30 * 24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	var activity struct {
		ID           string `json:"activity_id"`
		AmountRaised string `json:"amount_raised"`
	}
	api.decode(env, &activity)
	assert.Equal(t, "0", activity.AmountRaised)

	status, env = api.do(fiber.MethodPost, "/api/v1/transactions/activity", donorToken, fiber.Map{
		"activity_id": activity.ID, "type": "Donation", "amount": "250.25",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	var txn struct {
		ID     string `json:"transaction_id"`
		UserID string `json:"user_id"`
		Status string `json:"status"`
	}
	api.decode(env, &txn)
	assert.Equal(t, donorID, txn.UserID)
	assert.Equal(t, "Pending", txn.Status)

	status, _ = api.do(fiber.MethodPost, "/api/v1/transactions/activity", donorToken, fiber.Map{
		"activity_id": activity.ID, "type": "Donation", "amount": -5,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = api.do(fiber.MethodGet, "/api/v1/activities/"+activity.ID, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	api.decode(env, &activity)
	assert.Equal(t, "250.25", activity.AmountRaised)

	status, env = api.do(fiber.MethodGet, "/api/v1/users/"+donorID+"/transactions", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var mine []json.RawMessage
	api.decode(env, &mine)
	assert.Len(t, mine, 1)

	status, _ = api.do(fiber.MethodGet, "/api/v1/users/ghost/transactions", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	otherToken, _ := api.registerAndLogin("Other", "other@example.com")
	status, _ = api.do(fiber.MethodGet, "/api/v1/transactions/"+txn.ID, otherToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = api.do(fiber.MethodGet, "/api/v1/transactions/"+txn.ID, adminToken, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, env = api.do(fiber.MethodPost, "/api/v1/admin/ledger/reconcile", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status, env.Error)

	status, env = api.do(fiber.MethodGet, "/api/v1/admin/dashboard", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status, env.Error)
	var dash services.AdminDashboardData
	api.decode(env, &dash)
	assert.Equal(t, int64(1), dash.TotalTransactions)
	assert.Equal(t, "250.25", dash.TotalRaised.String())

	status, env = api.do(fiber.MethodGet, "/api/v1/dashboard/me", donorToken, nil)
	require.Equal(t, fiber.StatusOK, status, env.Error)
}

func TestTransactionExport(t *testing.T) {
	api := newAPI(t)
	adminToken, _ := api.login(adminEmail, adminPassword)

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/admin/transactions/export", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, export.ContentTypeXLSX, resp.Header.Get(fiber.HeaderContentType))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(raw[:2]))
}

func TestUploadSignature(t *testing.T) {
	api := newAPI(t)
	token, _ := api.registerAndLogin("Uploader", "uploader@example.com")

	status, _ := api.do(fiber.MethodPost, "/api/v1/uploads/signature", token, fiber.Map{})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env := api.do(fiber.MethodPost, "/api/v1/uploads/signature", token, fiber.Map{"timestamp": "1700000000"})
	require.Equal(t, fiber.StatusOK, status)
	var sig services.UploadSignature
	api.decode(env, &sig)
	assert.Equal(t, "1700000000", sig.Timestamp)
	assert.Len(t, sig.Signature, 40)
}

func TestHealthEndpoints(t *testing.T) {
	api := newAPI(t)

	for _, path := range []string{"/", "/health", "/api/v1"} {
		resp, err := api.app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}
}
