package controllers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ralfarishi/fin-track/config"
	"github.com/ralfarishi/fin-track/live"
	"github.com/ralfarishi/fin-track/mail"
	"github.com/ralfarishi/fin-track/models"
	"github.com/ralfarishi/fin-track/ratelimit"
)

var validate = validator.New()

// Зависимости контроллеров. Собираются один раз в main через Setup,
// чтобы лимитер и хаб можно было подменить (в тестах или при переезде
// на внешнее хранилище).
var (
	limiter *ratelimit.Limiter
	hub     *live.Hub
	mailer  *mail.MailService
)

func Setup(l *ratelimit.Limiter, h *live.Hub, m *mail.MailService) {
	limiter = l
	hub = h
	mailer = m
}

// currentUserID достает id пользователя из JWT-claims.
func currentUserID(c *fiber.Ctx) (string, bool) {
	claims, ok := c.Locals("user").(jwt.MapClaims)
	if !ok {
		return "", false
	}
	id, ok := claims["user_id"].(string)
	return id, ok
}

// findOwnedProperty возвращает объект, если он существует и принадлежит пользователю.
// «Не существует» и «чужой» наружу не различаем, чтобы не подтверждать чужие id.
func findOwnedProperty(propertyID, userID string) (*models.Property, error) {
	var property models.Property
	if err := config.DB.
		Where("id = ? AND user_id = ?", propertyID, userID).
		First(&property).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

func validUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
