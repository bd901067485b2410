package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/metrics"
	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-stocks-api/internal/shared/errors"
)

// pgUniqueViolation — код ошибки PostgreSQL unique_violation.
const pgUniqueViolation = "23505"

// UsersRepository хранит учётные записи пользователей (таблица users).
type UsersRepository struct {
	base
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{base: base{db: db}}
}

// WithQueryTimeout задаёт таймаут на один запрос к БД.
func (r *UsersRepository) WithQueryTimeout(d time.Duration) *UsersRepository {
	r.timeout = d
	return r
}

// Create добавляет пользователя.
//
// Уникальность email гарантируется ограничением users_email_key, поэтому
// при гонке двух регистраций вторая получит ErrAlreadyExists.
func (r *UsersRepository) Create(ctx context.Context, email, passwordHash string) (uuid.UUID, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()
	defer metrics.ObserveDBQuery("insert", "users", time.Now())

	var id uuid.UUID

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash)
		 VALUES ($1,$2)
		 RETURNING id`,
		email, passwordHash,
	).Scan(&id)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return uuid.Nil, serr.ErrAlreadyExists
		}
		return uuid.Nil, internal("insert user", err)
	}

	return id, nil
}

// GetByEmail возвращает учётную запись по email.
//
// Ошибки:
//   - ErrNotFound, если пользователя нет;
//   - ErrInternal при ошибке БД.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()
	defer metrics.ObserveDBQuery("get_by_email", "users", time.Now())

	var u models.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email=$1`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, serr.ErrNotFound
		}
		return models.User{}, internal("select user", err)
	}

	return u, nil
}

// Exists сообщает, есть ли пользователь с таким email.
func (r *UsersRepository) Exists(ctx context.Context, email string) (bool, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()
	defer metrics.ObserveDBQuery("exists", "users", time.Now())

	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email=$1)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, internal("check user", err)
	}
	return exists, nil
}
