// Package service содержит бизнес-логику приложения (Stocks API).
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
package service

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . UsersRepo,StocksRepo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/models"
)

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Users  UsersRepo
	Stocks StocksRepo
}

// Deps — зависимости сервисов, не относящиеся к хранилищу.
type Deps struct {
	Hasher   crypto.PasswordHasher
	Tokens   *crypto.TokenManager
	Location *time.Location
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth   *AuthService
	Stocks *StocksService
}

// NewServices собирает все сервисы приложения.
func NewServices(repos Repositories, deps Deps) *Services {
	return &Services{
		Auth:   NewAuthService(repos.Users, deps.Hasher, deps.Tokens),
		Stocks: NewStocksService(repos.Stocks, deps.Location),
	}
}

// UsersRepo — репозиторий пользователей (нужен для register/login).
type UsersRepo interface {
	Create(ctx context.Context, email, passwordHash string) (uuid.UUID, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Exists(ctx context.Context, email string) (bool, error)
}

// StocksRepo — репозиторий котировок (только чтение).
type StocksRepo interface {
	ListSymbols(ctx context.Context, industry string) ([]models.StockSymbol, error)
	Latest(ctx context.Context, symbol string) (models.Stock, error)
	History(ctx context.Context, symbol string, rng models.DateRange) ([]models.Stock, error)
}
