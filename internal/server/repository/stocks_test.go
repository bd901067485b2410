package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/models"
	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/repository"
	serr "github.com/IvanChernomyrdin/go-stocks-api/internal/shared/errors"
)

var stockCols = []string{"timestamp", "symbol", "name", "industry", "open", "high", "low", "close", "volumes"}

func TestStocksRepository_ListSymbols_EscapesLike(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewStocksRepository(db)

	mock.ExpectQuery(`SELECT DISTINCT name, symbol, industry`).
		WithArgs(`%Health\_Care 100\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "symbol", "industry"}).
			AddRow("Abbott Laboratories", "ABT", "Health_Care 100%"))

	got, err := repo.ListSymbols(context.Background(), "Health_Care 100%")
	require.NoError(t, err)
	require.Equal(t, []models.StockSymbol{{Name: "Abbott Laboratories", Symbol: "ABT", Industry: "Health_Care 100%"}}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStocksRepository_ListSymbols_EmptyIsNotError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT DISTINCT`).
		WithArgs("%%").
		WillReturnRows(sqlmock.NewRows([]string{"name", "symbol", "industry"}))

	got, err := repository.NewStocksRepository(db).ListSymbols(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestStocksRepository_ListSymbols_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT DISTINCT`).WillReturnError(sql.ErrConnDone)

	_, err = repository.NewStocksRepository(db).ListSymbols(context.Background(), "Tech")
	require.True(t, errors.Is(err, serr.ErrInternal), "got %v", err)
}

func TestStocksRepository_Latest_OK(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ts := time.Date(2020, 3, 23, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY "timestamp" DESC`) + `\s+LIMIT 1`).
		WithArgs("AAL").
		WillReturnRows(sqlmock.NewRows(stockCols).
			AddRow(ts, "AAL", "American Airlines Group", "Industrials", "13.34", "13.5", "12.1", "12.62", int64(9231404)))

	got, err := repository.NewStocksRepository(db).Latest(context.Background(), "AAL")
	require.NoError(t, err)
	require.Equal(t, "AAL", got.Symbol)
	require.True(t, got.Timestamp.Equal(ts))
	require.Equal(t, "12.62", got.Close.String())
	require.Equal(t, int64(9231404), got.Volumes)
}

func TestStocksRepository_Latest_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM stocks`).
		WithArgs("ZZZ").
		WillReturnRows(sqlmock.NewRows(stockCols))

	_, err = repository.NewStocksRepository(db).Latest(context.Background(), "ZZZ")
	require.True(t, errors.Is(err, serr.ErrNotFound), "got %v", err)
}

// Отбор строк по границам делает Postgres, поэтому контракт здесь — текст условия:
// from включительно (>=), to исключительно (<), границы передаются параметрами.
func TestStocksRepository_History_BuildsHalfOpenRange(t *testing.T) {
	from := time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2020, 3, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		rng   models.DateRange
		query string
		args  []driver.Value
	}{
		{
			name:  "from only",
			rng:   models.DateRange{From: &from},
			query: `WHERE symbol = \$1 AND "timestamp" >= \$2 ORDER BY`,
			args:  []driver.Value{"AAL", from},
		},
		{
			name:  "to only",
			rng:   models.DateRange{To: &to},
			query: `WHERE symbol = \$1 AND "timestamp" < \$2 ORDER BY`,
			args:  []driver.Value{"AAL", to},
		},
		{
			name:  "both",
			rng:   models.DateRange{From: &from, To: &to},
			query: `WHERE symbol = \$1 AND "timestamp" >= \$2 AND "timestamp" < \$3 ORDER BY`,
			args:  []driver.Value{"AAL", from, to},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(tt.query).
				WithArgs(tt.args...).
				WillReturnRows(sqlmock.NewRows(stockCols).
					AddRow(from.Add(48*time.Hour), "AAL", "American Airlines Group", "Industrials", "1", "2", "0.5", "1.5", int64(10)).
					AddRow(from, "AAL", "American Airlines Group", "Industrials", "1", "2", "0.5", "1.5", int64(20)))

			got, err := repository.NewStocksRepository(db).History(context.Background(), "AAL", tt.rng)
			require.NoError(t, err)
			require.Len(t, got, 2)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStocksRepository_History_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	from := time.Now()
	mock.ExpectQuery(`FROM stocks`).WillReturnError(sql.ErrConnDone)

	_, err = repository.NewStocksRepository(db).History(context.Background(), "AAL", models.DateRange{From: &from})
	require.True(t, errors.Is(err, serr.ErrInternal), "got %v", err)
}

func TestStocksRepository_QueryTimeoutApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM stocks`).
		WillDelayFor(200 * time.Millisecond).
		WillReturnRows(sqlmock.NewRows(stockCols))

	repo := repository.NewStocksRepository(db).WithQueryTimeout(20 * time.Millisecond)

	_, err = repo.Latest(context.Background(), "AAL")
	require.True(t, errors.Is(err, serr.ErrInternal), "got %v", err)
}
