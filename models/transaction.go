package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

type Transaction struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	PropertyID  string          `gorm:"type:uuid;index;not null" json:"property_id"`
	Date        time.Time       `gorm:"type:date;not null;index" json:"date"` // день, без времени
	Description string          `gorm:"size:100;not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"` // всегда > 0, знак задаёт Type
	Type        TransactionType `gorm:"size:10;not null" json:"type"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
