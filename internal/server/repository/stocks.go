package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/metrics"
	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-stocks-api/internal/shared/errors"
)

const stockColumns = `"timestamp", symbol, name, industry, open, high, low, close, volumes`

// StocksRepository читает исторические котировки (таблица stocks).
//
// Записи в stocks неизменяемы, поэтому репозиторий только читает.
type StocksRepository struct {
	base
}

func NewStocksRepository(db *sql.DB) *StocksRepository {
	return &StocksRepository{base: base{db: db}}
}

// WithQueryTimeout задаёт таймаут на один запрос к БД.
func (r *StocksRepository) WithQueryTimeout(d time.Duration) *StocksRepository {
	r.timeout = d
	return r
}

// ListSymbols возвращает уникальные (name, symbol, industry), у которых industry
// содержит подстроку industry (с учётом регистра). Пустая подстрока — все бумаги.
func (r *StocksRepository) ListSymbols(ctx context.Context, industry string) ([]models.StockSymbol, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()
	defer metrics.ObserveDBQuery("list_symbols", "stocks", time.Now())

	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT name, symbol, industry
		   FROM stocks
		  WHERE industry LIKE $1 ESCAPE '\'
		  ORDER BY symbol`,
		"%"+escapeLike(industry)+"%",
	)
	if err != nil {
		return nil, internal("select symbols", err)
	}
	defer rows.Close()

	out := make([]models.StockSymbol, 0)
	for rows.Next() {
		var s models.StockSymbol
		if err := rows.Scan(&s.Name, &s.Symbol, &s.Industry); err != nil {
			return nil, internal("scan symbol", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, internal("iterate symbols", err)
	}
	return out, nil
}

// Latest возвращает самую свежую запись по symbol.
//
// Ошибки:
//   - ErrNotFound, если записей нет;
//   - ErrInternal при ошибке БД.
func (r *StocksRepository) Latest(ctx context.Context, symbol string) (models.Stock, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()
	defer metrics.ObserveDBQuery("latest", "stocks", time.Now())

	row := r.db.QueryRowContext(ctx,
		`SELECT `+stockColumns+`
		   FROM stocks
		  WHERE symbol = $1
		  ORDER BY "timestamp" DESC
		  LIMIT 1`,
		symbol,
	)

	s, err := scanStock(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Stock{}, serr.ErrNotFound
		}
		return models.Stock{}, internal("select latest stock", err)
	}
	return s, nil
}

// History возвращает записи по symbol в полуинтервале [rng.From, rng.To),
// от новых к старым. Отсутствующая граница не ограничивает выборку.
func (r *StocksRepository) History(ctx context.Context, symbol string, rng models.DateRange) ([]models.Stock, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()
	defer metrics.ObserveDBQuery("history", "stocks", time.Now())

	var q strings.Builder
	q.WriteString(`SELECT ` + stockColumns + ` FROM stocks WHERE symbol = $1`)
	args := []any{symbol}

	if rng.From != nil {
		args = append(args, *rng.From)
		q.WriteString(` AND "timestamp" >= $` + strconv.Itoa(len(args)))
	}
	if rng.To != nil {
		args = append(args, *rng.To)
		q.WriteString(` AND "timestamp" < $` + strconv.Itoa(len(args)))
	}
	q.WriteString(` ORDER BY "timestamp" DESC`)

	rows, err := r.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, internal("select stock history", err)
	}
	defer rows.Close()

	out := make([]models.Stock, 0)
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, internal("scan stock", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, internal("iterate stock history", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStock(s scanner) (models.Stock, error) {
	var st models.Stock
	err := s.Scan(
		&st.Timestamp,
		&st.Symbol,
		&st.Name,
		&st.Industry,
		&st.Open,
		&st.High,
		&st.Low,
		&st.Close,
		&st.Volumes,
	)
	return st, err
}

// escapeLike экранирует спецсимволы LIKE, чтобы подстрока искалась буквально.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
