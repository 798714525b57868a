package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/ralfarishi/fin-track/config"
	"github.com/ralfarishi/fin-track/models"
	"github.com/ralfarishi/fin-track/security"
)

// CreatePropertyInput – структура для создания объекта.
type CreatePropertyInput struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
}

// CreateProperty создает новый объект недвижимости текущего пользователя.
func CreateProperty(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Нет JWT claims"})
	}

	var input CreatePropertyInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невозможно разобрать JSON"})
	}
	if err := validate.Struct(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Название должно быть от 2 до 50 символов"})
	}

	property := models.Property{
		UserID: userID,
		Name:   input.Name,
	}
	if err := config.DB.Create(&property).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка создания объекта"})
	}

	security.Log(security.PropertyCreated, logrus.Fields{"user_id": userID, "property_id": property.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"property": property})
}

// GetProperties возвращает все объекты текущего пользователя.
func GetProperties(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Нет JWT claims"})
	}

	var properties []models.Property
	if err := config.DB.
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&properties).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка загрузки объектов"})
	}

	return c.JSON(properties)
}

// DeleteProperty удаляет объект вместе с его операциями и журналом посещений.
func DeleteProperty(c *fiber.Ctx) error {
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

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", property.ID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", property.ID).Delete(&models.ShareVisit{}).Error; err != nil {
			return err
		}
		return tx.Delete(property).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления объекта"})
	}

	security.Log(security.PropertyDeleted, logrus.Fields{"user_id": userID, "property_id": property.ID})
	return c.JSON(fiber.Map{"message": "Объект удален"})
}
