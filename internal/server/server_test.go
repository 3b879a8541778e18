package server_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/remotebingo/backend/internal/auth"
	"github.com/remotebingo/backend/internal/config"
	"github.com/remotebingo/backend/internal/server"
	"github.com/remotebingo/backend/internal/squeeze"
	"github.com/remotebingo/backend/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *server.Server {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)

	// One connection keeps the in-memory database alive for the test.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, model := range []any{
		(*user.User)(nil),
		(*squeeze.Squeeze)(nil),
	} {
		_, err = db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		require.NoError(t, err)
	}

	cfg := &config.Config{
		Port: 8080,
		Auth: config.AuthConfig{
			AccessSecret:  "access-secret-for-tests-0123",
			AccessExpiry:  time.Minute,
			RefreshSecret: "refresh-secret-for-tests-0123",
			RefreshExpiry: time.Hour,
			Issuer:        "remotebingo-test",
		},
	}

	signer := auth.NewSigner(
		auth.TokenConfig{Secret: []byte(cfg.Auth.AccessSecret), Expiry: cfg.Auth.AccessExpiry},
		auth.TokenConfig{Secret: []byte(cfg.Auth.RefreshSecret), Expiry: cfg.Auth.RefreshExpiry},
	).WithIssuer(cfg.Auth.Issuer)

	users := user.NewStore(db)
	svc := auth.NewService(users, signer)

	return server.New(server.Options{
		Config:  cfg,
		Signer:  signer,
		Auth:    auth.NewController(svc),
		Squeeze: squeeze.NewController(squeeze.NewStore(db)),
		Users:   users,
	})
}

func do(t *testing.T, app *fiber.App, method, path, token string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	res, err := app.Test(req, -1)
	require.NoError(t, err)

	decoded := map[string]any{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&decoded))

	return res, decoded
}

func TestHealthAndProbeArePublic(t *testing.T) {
	app := testServer(t).App()

	res, body := do(t, app, fiber.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", body["message"])

	res, body = do(t, app, fiber.MethodGet, "/probe", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, body["message"])
}

func TestAuthRoutesArePublic(t *testing.T) {
	app := testServer(t).App()

	res, _ := do(t, app, fiber.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"first_name": "Grace",
		"last_name":  "Hopper",
		"email":      "grace@example.com",
		"password":   "cobol-forever",
	})
	assert.Equal(t, http.StatusCreated, res.StatusCode)
}

func TestSqueezeRouteIsPublic(t *testing.T) {
	app := testServer(t).App()

	res, _ := do(t, app, fiber.MethodPost, "/api/v1/squeeze", "", map[string]any{
		"email":           "lead@example.com",
		"first_name":      "Jane",
		"last_name":       "Doe",
		"phone":           "+14155552671",
		"location":        "Lagos",
		"job_title":       "Engineer",
		"company":         "Acme",
		"referral_source": "twitter",
	})
	assert.Equal(t, http.StatusCreated, res.StatusCode)
}

func TestMeRequiresToken(t *testing.T) {
	app := testServer(t).App()

	res, body := do(t, app, fiber.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "Unauthorized", body["message"])
}

func TestMeReturnsProfile(t *testing.T) {
	app := testServer(t).App()

	res, registered := do(t, app, fiber.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"first_name": "Grace",
		"last_name":  "Hopper",
		"email":      "grace@example.com",
		"password":   "cobol-forever",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	data := registered["data"].(map[string]any)
	token := data["accessToken"].(string)

	res, body := do(t, app, fiber.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "User retrieved successfully", body["message"])

	profile := body["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "grace@example.com", profile["email"])
	assert.Equal(t, "Grace", profile["first_name"])
	assert.NotEmpty(t, profile["id"])
	assert.NotContains(t, profile, "password_hash")
}

func TestMeWithUnknownSubject(t *testing.T) {
	srv := testServer(t)

	signer := auth.NewSigner(
		auth.TokenConfig{Secret: []byte("access-secret-for-tests-0123"), Expiry: time.Minute},
		auth.TokenConfig{Secret: []byte("refresh-secret-for-tests-0123"), Expiry: time.Hour},
	)

	token, err := signer.SignAccess(&auth.AccessClaims{UID: "b7f3d3d2-0000-0000-0000-000000000000"})
	require.NoError(t, err)

	res, body := do(t, srv.App(), fiber.MethodGet, "/api/v1/users/me", token, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "User not found", body["message"])
}

func TestUnknownProtectedRouteRejectedBeforeRouting(t *testing.T) {
	app := testServer(t).App()

	res, _ := do(t, app, fiber.MethodGet, "/api/v1/does-not-exist", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}
