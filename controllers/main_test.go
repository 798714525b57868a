package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ralfarishi/fin-track/config"
	"github.com/ralfarishi/fin-track/controllers"
	"github.com/ralfarishi/fin-track/live"
	"github.com/ralfarishi/fin-track/mail"
	"github.com/ralfarishi/fin-track/ratelimit"
	"github.com/ralfarishi/fin-track/routes"
)

type testEnv struct {
	app *fiber.App
	hub *live.Hub
}

// setupEnv поднимает приложение на in-memory sqlite с теми же миграциями,
// что и прод-база.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_REFRESH_SECRET", "test-refresh")
	t.Setenv("CLIENT_URL", "http://localhost:3000")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // одна in-memory база на все соединения пула
	require.NoError(t, config.Migrate(db))
	config.DB = db

	hub := live.NewHub()
	controllers.Setup(ratelimit.New(), hub, mail.NewMailService())

	app := fiber.New()
	routes.Setup(app)
	return &testEnv{app: app, hub: hub}
}

// request выполняет JSON-запрос и разбирает ответ-объект.
func (e *testEnv) request(t *testing.T, method, url, token string, body any) (int, map[string]any) {
	t.Helper()
	resp := e.do(t, method, url, token, body)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out
}

// requestList — то же, но для ответов-массивов.
func (e *testEnv) requestList(t *testing.T, method, url, token string) (int, []any) {
	t.Helper()
	resp := e.do(t, method, url, token, nil)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out []any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out
}

func (e *testEnv) do(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// registerAndLogin создает пользователя и возвращает его access-токен.
func (e *testEnv) registerAndLogin(t *testing.T, email string) string {
	t.Helper()
	code, _ := e.request(t, "POST", "/api/auth/register", "", fiber.Map{
		"email": email, "name": "Тестовый пользователь", "password": "секретный пароль",
	})
	require.Equal(t, fiber.StatusCreated, code)

	code, body := e.request(t, "POST", "/api/auth/login", "", fiber.Map{
		"email": email, "password": "секретный пароль",
	})
	require.Equal(t, fiber.StatusOK, code)
	return body["access_token"].(string)
}

// createProperty создает объект и возвращает его id.
func (e *testEnv) createProperty(t *testing.T, token, name string) string {
	t.Helper()
	code, body := e.request(t, "POST", "/api/properties/", token, fiber.Map{"name": name})
	require.Equal(t, fiber.StatusCreated, code)
	property := body["property"].(map[string]any)
	return property["id"].(string)
}

// addTransaction добавляет операцию по объекту.
func (e *testEnv) addTransaction(t *testing.T, token, propertyID, date, amount, typ string) map[string]any {
	t.Helper()
	code, body := e.request(t, "POST", "/api/transactions/", token, fiber.Map{
		"property_id": propertyID,
		"date":        date,
		"description": "операция за " + date,
		"amount":      amount,
		"type":        typ,
	})
	require.Equal(t, fiber.StatusCreated, code)
	return body["transaction"].(map[string]any)
}
