package service

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-stocks-api/internal/shared/errors"
)

// StocksService реализует выдачу котировок.
//
// Вся валидация параметров выполняется до обращения к хранилищу.
type StocksService struct {
	repo StocksRepo
	loc  *time.Location
}

// StockQueryResult — ответ авторизованного запроса по тикеру.
//
// Если диапазон дат не задан, заполнен Single, иначе — Range.
// Форма ответа зависит только от того, был ли задан диапазон,
// а не от количества найденных записей.
type StockQueryResult struct {
	Single  *models.Stock
	Range   []models.Stock
	IsRange bool
}

// NewStocksService создаёт StocksService. loc — зона для дат без смещения (nil — UTC).
func NewStocksService(repo StocksRepo, loc *time.Location) *StocksService {
	if loc == nil {
		loc = time.UTC
	}
	return &StocksService{repo: repo, loc: loc}
}

// ListSymbols возвращает бумаги, отфильтрованные по подстроке industry.
//
// Ошибки:
//   - ErrInvalidInput — передан параметр, отличный от industry;
//   - ErrNotFound — ни одна бумага не подошла;
//   - ErrInternal — ошибка хранилища.
func (s *StocksService) ListSymbols(ctx context.Context, q url.Values) ([]models.StockSymbol, error) {
	if len(UnknownParams(q, ParamIndustry)) > 0 {
		return nil, serr.New(serr.ErrInvalidInput, MsgSymbolsParams)
	}

	rows, err := s.repo.ListSymbols(ctx, q.Get(ParamIndustry))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, serr.New(serr.ErrNotFound, MsgIndustryNotFound)
	}
	return rows, nil
}

// GetLatest возвращает последнюю запись по тикеру (публичный маршрут).
//
// Маршрут не принимает параметров вообще.
func (s *StocksService) GetLatest(ctx context.Context, symbol string, q url.Values) (models.Stock, error) {
	if len(q) > 0 {
		return models.Stock{}, serr.New(serr.ErrInvalidInput, MsgUnauthedParams)
	}
	if err := ValidateSymbol(symbol); err != nil {
		return models.Stock{}, err
	}
	return s.latest(ctx, symbol)
}

// GetAuthed возвращает записи по тикеру с необязательным диапазоном дат [from, to).
//
// Порядок проверок: формат тикера, допустимые параметры, from, to.
// Пустой результат при заданном диапазоне — ErrNotFound, а не пустой массив.
func (s *StocksService) GetAuthed(ctx context.Context, symbol string, q url.Values) (StockQueryResult, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return StockQueryResult{}, err
	}
	if len(UnknownParams(q, ParamFrom, ParamTo)) > 0 {
		return StockQueryResult{}, serr.New(serr.ErrInvalidInput, MsgAuthedParams)
	}

	rng, err := ParseDateRange(q.Get(ParamFrom), q.Get(ParamTo), s.loc)
	if err != nil {
		return StockQueryResult{}, err
	}

	if !rng.IsSet() {
		st, err := s.latest(ctx, symbol)
		if err != nil {
			return StockQueryResult{}, err
		}
		return StockQueryResult{Single: &st}, nil
	}

	rows, err := s.repo.History(ctx, symbol, rng)
	if err != nil {
		return StockQueryResult{}, err
	}
	if len(rows) == 0 {
		return StockQueryResult{}, serr.New(serr.ErrNotFound, MsgRangeEmptyResult)
	}
	return StockQueryResult{Range: rows, IsRange: true}, nil
}

func (s *StocksService) latest(ctx context.Context, symbol string) (models.Stock, error) {
	st, err := s.repo.Latest(ctx, symbol)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return models.Stock{}, serr.New(serr.ErrNotFound, MsgSymbolNotFound)
		}
		return models.Stock{}, err
	}
	return st, nil
}
