package squeeze_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/remotebingo/backend/internal/squeeze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(t *testing.T) *fiber.App {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)

	// One connection keeps the in-memory database alive for the test.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	_, err = db.NewCreateTable().
		Model((*squeeze.Squeeze)(nil)).
		IfNotExists().
		Exec(context.Background())
	require.NoError(t, err)

	app := fiber.New()
	squeeze.NewController(squeeze.NewStore(db)).RegisterRoutes(app)

	return app
}

func validPayload() map[string]any {
	return map[string]any{
		"email":           "lead@example.com",
		"first_name":      "Jane",
		"last_name":       "Doe",
		"phone":           "+14155552671",
		"location":        "Lagos",
		"job_title":       "Engineer",
		"company":         "Acme",
		"interest":        []string{"web", "mobile"},
		"referral_source": "twitter",
	}
}

func post(t *testing.T, app *fiber.App, payload any) (*http.Response, map[string]any) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, "/squeeze", bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	res, err := app.Test(req, -1)
	require.NoError(t, err)

	decoded := map[string]any{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&decoded))

	return res, decoded
}

func TestSqueezeCreate(t *testing.T) {
	app := testApp(t)

	res, body := post(t, app, validPayload())

	require.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "Squeeze recorded successfully", body["message"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "lead@example.com", data["email"])
	assert.NotEmpty(t, data["id"])
}

func TestSqueezeDuplicateEmail(t *testing.T) {
	app := testApp(t)

	res, _ := post(t, app, validPayload())
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, body := post(t, app, validPayload())
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, "Email has already been captured", body["message"])
}

func TestSqueezeValidation(t *testing.T) {
	app := testApp(t)

	payload := validPayload()
	payload["email"] = "not-an-email"
	delete(payload, "company")

	res, body := post(t, app, payload)

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	fieldErrors, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fieldErrors, "email")
	assert.Contains(t, fieldErrors, "company")
}

func TestSqueezeMalformedBody(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(fiber.MethodPost, "/squeeze", bytes.NewReader([]byte("{nope")))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
