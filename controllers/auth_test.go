package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := setupEnv(t)

	code, body := env.request(t, "POST", "/api/auth/register", "", fiber.Map{
		"email": "user@example.com", "name": "Иван", "password": "секретный пароль",
	})
	require.Equal(t, fiber.StatusCreated, code)
	user := body["user"].(map[string]any)
	require.Equal(t, "user@example.com", user["email"])
	require.NotEmpty(t, user["id"])

	code, body = env.request(t, "POST", "/api/auth/login", "", fiber.Map{
		"email": "user@example.com", "password": "секретный пароль",
	})
	require.Equal(t, fiber.StatusOK, code)
	require.NotEmpty(t, body["access_token"])
	require.NotEmpty(t, body["refresh_token"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := setupEnv(t)
	env.registerAndLogin(t, "user@example.com")

	code, _ := env.request(t, "POST", "/api/auth/register", "", fiber.Map{
		"email": "user@example.com", "name": "Двойник", "password": "секретный пароль",
	})
	require.Equal(t, fiber.StatusBadRequest, code)
}

func TestLoginWrongPassword(t *testing.T) {
	env := setupEnv(t)
	env.registerAndLogin(t, "user@example.com")

	code, _ := env.request(t, "POST", "/api/auth/login", "", fiber.Map{
		"email": "user@example.com", "password": "не тот пароль",
	})
	require.Equal(t, fiber.StatusUnauthorized, code)
}

func TestLoginRateLimited(t *testing.T) {
	env := setupEnv(t)

	// 5 попыток в минуту на email; registerAndLogin здесь не используем,
	// чтобы не тратить лимит
	code, _ := env.request(t, "POST", "/api/auth/register", "", fiber.Map{
		"email": "brute@example.com", "name": "Жертва", "password": "секретный пароль",
	})
	require.Equal(t, fiber.StatusCreated, code)

	for i := 0; i < 5; i++ {
		code, _ := env.request(t, "POST", "/api/auth/login", "", fiber.Map{
			"email": "brute@example.com", "password": "перебор",
		})
		require.Equal(t, fiber.StatusUnauthorized, code, "попытка %d", i+1)
	}

	code, body := env.request(t, "POST", "/api/auth/login", "", fiber.Map{
		"email": "brute@example.com", "password": "перебор",
	})
	require.Equal(t, fiber.StatusTooManyRequests, code)
	wait := body["retry_after_seconds"].(float64)
	require.Greater(t, wait, float64(0))
	require.LessOrEqual(t, wait, float64(60))

	// Правильный пароль в заблокированном окне тоже не проходит
	code, _ = env.request(t, "POST", "/api/auth/login", "", fiber.Map{
		"email": "brute@example.com", "password": "секретный пароль",
	})
	require.Equal(t, fiber.StatusTooManyRequests, code)
}

func TestRefreshToken(t *testing.T) {
	env := setupEnv(t)
	env.registerAndLogin(t, "user@example.com")

	_, body := env.request(t, "POST", "/api/auth/login", "", fiber.Map{
		"email": "user@example.com", "password": "секретный пароль",
	})
	refresh := body["refresh_token"].(string)

	code, body := env.request(t, "POST", "/api/auth/refresh", "", fiber.Map{"refresh_token": refresh})
	require.Equal(t, fiber.StatusOK, code)
	require.NotEmpty(t, body["access_token"])

	code, _ = env.request(t, "POST", "/api/auth/refresh", "", fiber.Map{"refresh_token": "мусор"})
	require.Equal(t, fiber.StatusUnauthorized, code)
}

func TestLogoutRequiresAuth(t *testing.T) {
	env := setupEnv(t)

	code, _ := env.request(t, "POST", "/api/auth/logout", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, code)

	token := env.registerAndLogin(t, "user@example.com")
	code, _ = env.request(t, "POST", "/api/auth/logout", token, nil)
	require.Equal(t, fiber.StatusOK, code)
}
