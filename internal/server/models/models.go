// Package models содержит серверные модели данных.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// цены отдаём в JSON числами, а не строками
	decimal.MarshalJSONWithoutQuotes = true
}

// Stock — одна историческая запись котировки.
//
// Записи неизменяемы, уникальны по (symbol, timestamp).
type Stock struct {
	Timestamp time.Time       `json:"timestamp"`
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Industry  string          `json:"industry"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volumes   int64           `json:"volumes"`
}

// StockSymbol — элемент списка доступных бумаг (GET /stocks/symbols).
type StockSymbol struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Industry string `json:"industry"`
}

// DateRange — полуинтервал [From, To). Любая из границ может отсутствовать.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// IsSet сообщает, задана ли хотя бы одна граница.
func (r DateRange) IsSet() bool {
	return r.From != nil || r.To != nil
}

// User — учётная запись из таблицы users.
//
// Email хранится как ввёл пользователь, без приведения к нижнему регистру.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // bcrypt или argon2id, наружу не отдаётся
	CreatedAt    time.Time `json:"created_at"`
}
