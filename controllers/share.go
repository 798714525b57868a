package controllers

import (
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ralfarishi/fin-track/config"
	"github.com/ralfarishi/fin-track/models"
	"github.com/ralfarishi/fin-track/ratelimit"
	"github.com/ralfarishi/fin-track/security"
)

// Срок действия публичной ссылки
const shareTokenTTL = 7 * 24 * time.Hour

// Окно дедупликации посещений: повторные заходы в течение часа не считаем
const visitDedupWindow = time.Hour

// GenerateShareToken выпускает новый токен публичной ссылки.
// Старый токен, если был, перезаписывается — активная ссылка всегда одна.
func GenerateShareToken(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Нет JWT claims"})
	}

	propertyID := c.Params("id")
	if !validUUID(propertyID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Некорректный идентификатор объекта"})
	}

	property, err := findOwnedProperty(propertyID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Объект не найден"})
	}

	rate := limiter.Check("share:"+userID, ratelimit.ShareLimit)
	if !rate.Allowed {
		wait := int(math.Ceil(rate.ResetIn.Seconds()))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":               fmt.Sprintf("Слишком много ссылок. Подождите %d сек.", wait),
			"retry_after_seconds": wait,
		})
	}

	token := uuid.NewString()
	expiresAt := time.Now().Add(shareTokenTTL)

	// Оба поля пишем одним запросом: токен без срока действия существовать не должен
	if err := config.DB.Model(property).Updates(map[string]interface{}{
		"share_token":            token,
		"share_token_expires_at": expiresAt,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Не удалось выпустить ссылку"})
	}

	security.Log(security.ShareGenerated, logrus.Fields{"user_id": userID, "property_id": property.ID})
	return c.JSON(fiber.Map{"share_token": token, "expires_at": expiresAt})
}

// RevokeShareToken отзывает публичную ссылку. Идемпотентен:
// отзыв у объекта без ссылки — тоже успех.
func RevokeShareToken(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Нет JWT claims"})
	}

	propertyID := c.Params("id")
	if !validUUID(propertyID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Некорректный идентификатор объекта"})
	}

	property, err := findOwnedProperty(propertyID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Объект не найден"})
	}

	if err := config.DB.Model(property).Updates(map[string]interface{}{
		"share_token":            nil,
		"share_token_expires_at": nil,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Не удалось отозвать ссылку"})
	}

	security.Log(security.ShareRevoked, logrus.Fields{"user_id": userID, "property_id": property.ID})
	return c.JSON(fiber.Map{"message": "Ссылка отозвана"})
}

// GetShareStatus возвращает владельцу состояние публичной ссылки и число посещений.
// Просроченный, но не отозванный токен по-прежнему считается «выданным».
func GetShareStatus(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Нет JWT claims"})
	}

	propertyID := c.Params("id")
	if !validUUID(propertyID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Некорректный идентификатор объекта"})
	}

	property, err := findOwnedProperty(propertyID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Объект не найден"})
	}

	var visitCount int64
	if err := config.DB.Model(&models.ShareVisit{}).
		Where("property_id = ?", property.ID).
		Count(&visitCount).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Не удалось получить статистику"})
	}

	return c.JSON(fiber.Map{
		"is_shared":   property.IsShared(),
		"share_token": property.ShareToken,
		"expires_at":  property.ShareTokenExpiresAt,
		"visit_count": visitCount,
	})
}

// GetSharedReport — публичный отчёт по токену, без авторизации.
// Просроченный токен не очищается, а просто перестает работать:
// проверка срока выполняется при каждом чтении.
func GetSharedReport(c *fiber.Ctx) error {
	token := c.Params("token")
	if !validUUID(token) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ссылка недействительна"})
	}

	var property models.Property
	if err := config.DB.Where("share_token = ?", token).First(&property).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Отчёт не найден или доступ отозван"})
	}

	if property.ShareExpired(time.Now()) {
		return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": "Срок действия ссылки истёк. Запросите новую у владельца."})
	}

	var transactions []models.Transaction
	if err := config.DB.
		Where("property_id = ?", property.ID).
		Order("date ASC, created_at ASC").
		Find(&transactions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Не удалось загрузить отчёт"})
	}

	recordVisit(property.ID)
	security.Log(security.ShareAccessed, logrus.Fields{"property_id": property.ID})

	return c.JSON(fiber.Map{
		"property":     fiber.Map{"id": property.ID, "name": property.Name},
		"transactions": transactions,
	})
}

// recordVisit считает «уникальные» посещения: не чаще одного в час на объект.
// Между Count и Create нет транзакции — два одновременных захода могут
// записаться оба. Счётчик аналитический, такая погрешность допустима.
func recordVisit(propertyID string) {
	windowStart := time.Now().Add(-visitDedupWindow)

	var recent int64
	if err := config.DB.Model(&models.ShareVisit{}).
		Where("property_id = ? AND visited_at >= ?", propertyID, windowStart).
		Count(&recent).Error; err != nil {
		log.Printf("visit count: %v", err)
		return
	}
	if recent > 0 {
		return
	}

	visit := models.ShareVisit{PropertyID: propertyID, VisitedAt: time.Now()}
	if err := config.DB.Create(&visit).Error; err != nil {
		log.Printf("visit create: %v", err)
	}
}

// SendShareInput – структура для отправки ссылки по почте.
type SendShareInput struct {
	Email string `json:"email" validate:"required,email"`
}

// SendShareLink отправляет действующую публичную ссылку на указанный email.
func SendShareLink(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Нет JWT claims"})
	}

	propertyID := c.Params("id")
	if !validUUID(propertyID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Некорректный идентификатор объекта"})
	}

	property, err := findOwnedProperty(propertyID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Объект не найден"})
	}

	var input SendShareInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невозможно разобрать JSON"})
	}
	if err := validate.Struct(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Укажите корректный email"})
	}

	if !property.IsShared() || property.ShareExpired(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Сначала выпустите действующую ссылку"})
	}

	shareLink := os.Getenv("CLIENT_URL") + "/share/" + *property.ShareToken
	if err := mailer.SendShareLinkMail(input.Email, property.Name, shareLink); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка отправки письма"})
	}

	return c.JSON(fiber.Map{"message": "Ссылка отправлена"})
}
