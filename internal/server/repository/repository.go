// Package repository содержит реализации слоя доступа к данным (Repository layer).
//
// Репозитории инкапсулируют работу с БД и не содержат бизнес-логики.
// Все ошибки приводятся к доменным ошибкам из internal/shared/errors;
// причина ошибки БД сохраняется в тексте для логов.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	serr "github.com/IvanChernomyrdin/go-stocks-api/internal/shared/errors"
)

// base — общее для всех репозиториев: пул соединений и таймаут одного запроса.
type base struct {
	db      *sql.DB
	timeout time.Duration
}

// queryCtx ограничивает запрос таймаутом, если он задан.
func (b *base) queryCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, b.timeout)
}

// internal оборачивает ошибку БД в ErrInternal, сохраняя причину для логов.
func internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", serr.ErrInternal, op, err)
}
