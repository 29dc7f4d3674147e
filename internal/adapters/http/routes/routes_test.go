package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"attendly/internal/adapters/persistence/models"
	"attendly/internal/adapters/persistence/store"
	"attendly/internal/config"
	"attendly/internal/core/domain"
	"attendly/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			ClientSecret: "client-secret",
			AdminSecret:  "admin-secret",
			Expiry:       time.Hour,
		},
		Auth: config.AuthConfig{
			MaxLoginRetryLimit: 5,
			LoginReactiveTime:  15 * time.Minute,
		},
		Seed: config.SeedConfig{AdminUsername: "admin", AdminPassword: "Admin@123"},
	}
}

// newTestApp seeds bootstrap data into a memory store, adds two client
// accounts holding the USER role, and returns the wired app.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()
	cfg := testConfig()
	config.AppConfig = cfg

	require.NoError(t, config.NewSeeder(mem, cfg).Run(ctx))

	var userRole models.Role
	require.NoError(t, mem.FindOne(ctx, domain.EntityRole, store.Eq{Field: "code", Value: domain.RoleCodeUser}, &userRole))

	hashed, err := password.Hash("Worker@123")
	require.NoError(t, err)
	for _, username := range []string{"worker", "worker2"} {
		account := &models.User{
			Username: username,
			Password: hashed,
			UserType: domain.UserTypeUser,
			IsActive: true,
		}
		require.NoError(t, mem.Create(ctx, domain.EntityUser, account))
		require.NoError(t, mem.Create(ctx, domain.EntityUserRole, &models.UserRole{
			UserID: account.ID, RoleID: userRole.ID, IsActive: true,
		}))
	}

	app := fiber.New()
	Setup(app, mem, cfg)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	var parsed map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &parsed)
	}
	return resp, parsed
}

func loginAs(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	resp, body := doJSON(t, app, fiber.MethodPost, "/client/api/v1/auth/login", "", fiber.Map{
		"username": username,
		"password": "Worker@123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	return data["token"].(string)
}

func loginWorker(t *testing.T, app *fiber.App) string {
	t.Helper()
	return loginAs(t, app, "worker")
}

// signInWorker opens today's attendance record at the seeded office and
// returns its id.
func signInWorker(t *testing.T, app *fiber.App, token string) uint {
	t.Helper()
	resp, body := doJSON(t, app, fiber.MethodPost, "/client/api/v1/attendance/signin", token, fiber.Map{
		"branch":    "Minna",
		"latitude":  9.618485756541178,
		"longitude": 6.5459333488767015,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	record := body["data"].(map[string]interface{})
	return uint(record["id"].(float64))
}

func TestClientSurface(t *testing.T) {
	t.Run("requests without a token are unauthorized", func(t *testing.T) {
		app := newTestApp(t)
		resp, _ := doJSON(t, app, fiber.MethodPost, "/client/api/v1/attendance/list", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("worker can sign in and list attendance", func(t *testing.T) {
		app := newTestApp(t)
		token := loginWorker(t, app)

		resp, body := doJSON(t, app, fiber.MethodPost, "/client/api/v1/attendance/signin", token, fiber.Map{
			"branch":    "Minna",
			"latitude":  9.618485756541178,
			"longitude": 6.5459333488767015,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, body)

		resp, _ = doJSON(t, app, fiber.MethodPost, "/client/api/v1/attendance/list", token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("far-away sign-in is rejected under the strict policy", func(t *testing.T) {
		app := newTestApp(t)
		token := loginWorker(t, app)

		resp, body := doJSON(t, app, fiber.MethodPost, "/client/api/v1/attendance/signin", token, fiber.Map{
			"branch":    "Minna",
			"latitude":  9.7,
			"longitude": 6.5459333488767015,
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Restricted location", body["error"])
	})

	t.Run("attendance create runs the sign-in flow", func(t *testing.T) {
		app := newTestApp(t)
		token := loginWorker(t, app)

		body := fiber.Map{
			"branch":    "Minna",
			"latitude":  9.618485756541178,
			"longitude": 6.5459333488767015,
		}
		resp, parsed := doJSON(t, app, fiber.MethodPost, "/client/api/v1/attendance/create", token, body)
		require.Equal(t, http.StatusCreated, resp.StatusCode, parsed)

		// the same day-window check as signin: no second record today
		resp, _ = doJSON(t, app, fiber.MethodPost, "/client/api/v1/attendance/create", token, body)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("worker cannot bulk insert attendance", func(t *testing.T) {
		app := newTestApp(t)
		token := loginWorker(t, app)

		resp, _ := doJSON(t, app, fiber.MethodPost, "/client/api/v1/attendance/addbulk", token, []fiber.Map{
			{"signed_in_at": time.Now()},
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("worker only sees their own attendance records", func(t *testing.T) {
		app := newTestApp(t)
		token := loginWorker(t, app)
		id := signInWorker(t, app, token)

		other := loginAs(t, app, "worker2")

		resp, body := doJSON(t, app, fiber.MethodPost, "/client/api/v1/attendance/list", other, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		page := body["data"].(map[string]interface{})
		meta := page["meta"].(map[string]interface{})
		assert.Zero(t, meta["total"])

		resp, _ = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/client/api/v1/attendance/%d", id), other, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, _ = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/client/api/v1/attendance/%d", id), token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("list rejects a filter key that is not a column", func(t *testing.T) {
		app := newTestApp(t)
		token := loginWorker(t, app)

		resp, _ := doJSON(t, app, fiber.MethodPost, "/client/api/v1/attendance/list", token, fiber.Map{
			"where": fiber.Map{"id = 1 OR 1 = 1 --": 1},
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("worker is denied on employee routes", func(t *testing.T) {
		app := newTestApp(t)
		token := loginWorker(t, app)

		resp, _ := doJSON(t, app, fiber.MethodPost, "/client/api/v1/employee/list", token, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("client token is rejected on the admin surface", func(t *testing.T) {
		app := newTestApp(t)
		token := loginWorker(t, app)

		resp, _ := doJSON(t, app, fiber.MethodPost, "/admin/attendance/list", token, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("worker cannot log in on the admin surface", func(t *testing.T) {
		app := newTestApp(t)
		resp, _ := doJSON(t, app, fiber.MethodPost, "/admin/auth/login", "", fiber.Map{
			"username": "worker",
			"password": "Worker@123",
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		app := newTestApp(t)
		token := loginWorker(t, app)

		resp, _ := doJSON(t, app, fiber.MethodPost, "/client/api/v1/auth/logout", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = doJSON(t, app, fiber.MethodGet, "/client/api/v1/auth/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
