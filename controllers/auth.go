package controllers

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/ralfarishi/fin-track/config"
	"github.com/ralfarishi/fin-track/models"
	"github.com/ralfarishi/fin-track/ratelimit"
	"github.com/ralfarishi/fin-track/security"
	"github.com/ralfarishi/fin-track/utils"
)

// RegisterInput – структура для регистрации пользователя.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginInput – структура для входа.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput – структура для обновления access-токена.
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Register создает нового пользователя.
func Register(c *fiber.Ctx) error {
	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невозможно разобрать JSON"})
	}
	if err := validate.Struct(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Проверьте email, имя и пароль (минимум 8 символов)"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Не удалось создать пользователя"})
	}

	user := models.User{
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Name:     input.Name,
		Password: string(hash),
	}
	if err := config.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Пользователь с таким email уже существует"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": fiber.Map{"id": user.ID, "email": user.Email, "name": user.Name},
	})
}

// Login проверяет пароль и выдает пару токенов.
// Попытки входа ограничены по email, чтобы затруднить перебор пароля.
func Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невозможно разобрать JSON"})
	}
	if err := validate.Struct(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Укажите email и пароль"})
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	rate := limiter.Check("login:"+email, ratelimit.LoginLimit)
	if !rate.Allowed {
		security.Log(security.LoginFailed, logrus.Fields{"email": email, "reason": "rate_limited"})
		wait := int(math.Ceil(rate.ResetIn.Seconds()))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":               fmt.Sprintf("Слишком много попыток. Подождите %d сек.", wait),
			"retry_after_seconds": wait,
		})
	}

	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		security.Log(security.LoginFailed, logrus.Fields{"email": email, "reason": "unknown_email"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный email или пароль"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		security.Log(security.LoginFailed, logrus.Fields{"email": email, "reason": "invalid_credentials"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный email или пароль"})
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Не удалось создать токен"})
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Не удалось создать токен"})
	}

	security.Log(security.LoginSuccess, logrus.Fields{"user_id": user.ID, "email": email})
	return c.JSON(fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          fiber.Map{"id": user.ID, "email": user.Email, "name": user.Name},
	})
}

// Refresh выдает новый access-токен по refresh-токену.
func Refresh(c *fiber.Ctx) error {
	var input RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невозможно разобрать JSON"})
	}
	if err := validate.Struct(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Укажите refresh_token"})
	}

	refreshSecret := os.Getenv("JWT_REFRESH_SECRET")
	tok, err := jwt.Parse(input.RefreshToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(refreshSecret), nil
	})
	if err != nil || !tok.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Недействительный refresh-токен"})
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Недействительный refresh-токен"})
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Недействительный refresh-токен"})
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не найден"})
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Не удалось создать токен"})
	}
	return c.JSON(fiber.Map{"access_token": accessToken})
}

// Logout фиксирует выход. Токены без состояния, клиент просто забывает их.
func Logout(c *fiber.Ctx) error {
	if userID, ok := currentUserID(c); ok {
		security.Log(security.Logout, logrus.Fields{"user_id": userID})
	}
	return c.JSON(fiber.Map{"message": "Вы вышли из аккаунта"})
}
