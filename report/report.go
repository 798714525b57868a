// Package report считает помесячный отчёт с нарастающим остатком.
// Чистая функция: вход не мутируется, пересчитывать можно на каждый запрос.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ralfarishi/fin-track/models"
)

// Row — строка отчёта: операция плюс разложенные колонки и остаток после неё.
type Row struct {
	models.Transaction
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

type Report struct {
	Month string          `json:"month"` // формат YYYY-MM
	Rows  []Row           `json:"rows"`
	Total decimal.Decimal `json:"total"` // итоговый остаток за месяц
}

// Build фильтрует операции по месяцу (YYYY-MM), сортирует по дате
// (сортировка стабильная — при равных датах сохраняется исходный порядок)
// и накапливает остаток слева направо, начиная с нуля.
// Пустой месяц — валидный результат с нулевым итогом, не ошибка.
func Build(txs []models.Transaction, month string) Report {
	filtered := make([]models.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Date.Format("2006-01") == month {
			filtered = append(filtered, t)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.Before(filtered[j].Date)
	})

	rows := make([]Row, 0, len(filtered))
	balance := decimal.Zero
	for _, t := range filtered {
		income, expense := decimal.Zero, decimal.Zero
		if t.Type == models.TransactionIncome {
			income = t.Amount
		} else {
			expense = t.Amount
		}
		balance = balance.Add(income).Sub(expense)
		rows = append(rows, Row{Transaction: t, Income: income, Expense: expense, Balance: balance})
	}

	return Report{Month: month, Rows: rows, Total: balance}
}

// ParseMonth проверяет строку YYYY-MM.
func ParseMonth(s string) (string, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01"), nil
}
