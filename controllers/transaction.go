package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/ralfarishi/fin-track/config"
	"github.com/ralfarishi/fin-track/live"
	"github.com/ralfarishi/fin-track/models"
	"github.com/ralfarishi/fin-track/report"
)

// CreateTransactionInput – структура для создания операции.
// Сумма приходит строкой и разбирается в decimal, float для денег не используем.
type CreateTransactionInput struct {
	PropertyID  string `json:"property_id" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Description string `json:"description" validate:"required,min=3,max=100"`
	Amount      string `json:"amount" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=income expense"`
}

// CreateTransaction добавляет операцию по объекту и рассылает её
// открытым публичным отчётам.
func CreateTransaction(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Нет JWT claims"})
	}

	var input CreateTransactionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невозможно разобрать JSON"})
	}
	if err := validate.Struct(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Описание от 3 до 100 символов, дата и тип обязательны"})
	}
	if !validUUID(input.PropertyID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Некорректный идентификатор объекта"})
	}

	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Дата должна быть в формате ГГГГ-ММ-ДД"})
	}

	amount, err := decimal.NewFromString(input.Amount)
	if err != nil || !amount.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Сумма должна быть больше нуля"})
	}

	property, err := findOwnedProperty(input.PropertyID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Объект не найден"})
	}

	transaction := models.Transaction{
		PropertyID:  property.ID,
		Date:        date,
		Description: input.Description,
		Amount:      amount,
		Type:        models.TransactionType(input.Type),
	}
	if err := config.DB.Create(&transaction).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения операции"})
	}

	hub.Publish(property.ID, live.Event{Type: live.EventInsert, Transaction: transaction})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"transaction": transaction})
}

// GetTransactions возвращает все операции объекта по дате, от старых к новым.
func GetTransactions(c *fiber.Ctx) error {
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

	var transactions []models.Transaction
	if err := config.DB.
		Where("property_id = ?", property.ID).
		Order("date ASC, created_at ASC").
		Find(&transactions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка загрузки операций"})
	}

	return c.JSON(transactions)
}

// DeleteTransaction удаляет операцию. Обновления не предусмотрены:
// операция либо есть, либо удаляется и вводится заново.
func DeleteTransaction(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Нет JWT claims"})
	}

	transactionID := c.Params("id")
	if !validUUID(transactionID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Некорректный идентификатор операции"})
	}

	var transaction models.Transaction
	if err := config.DB.First(&transaction, "id = ?", transactionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Операция не найдена"})
	}

	// Владение проверяем через объект операции
	property, err := findOwnedProperty(transaction.PropertyID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Операция не найдена"})
	}

	if err := config.DB.Delete(&transaction).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления операции"})
	}

	hub.Publish(property.ID, live.Event{Type: live.EventDelete, Transaction: transaction})
	return c.JSON(fiber.Map{"message": "Операция удалена"})
}

// GetPropertyReport возвращает отчёт с нарастающим остатком за месяц
// (?month=YYYY-MM, по умолчанию текущий).
func GetPropertyReport(c *fiber.Ctx) error {
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

	month := c.Query("month", time.Now().Format("2006-01"))
	month, err = report.ParseMonth(month)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Месяц должен быть в формате ГГГГ-ММ"})
	}

	var transactions []models.Transaction
	if err := config.DB.
		Where("property_id = ?", property.ID).
		Order("date ASC, created_at ASC").
		Find(&transactions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка загрузки операций"})
	}

	return c.JSON(report.Build(transactions, month))
}
