package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/api"
	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/models"
	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/service"
	svcmocks "github.com/IvanChernomyrdin/go-stocks-api/internal/server/service/mocks"
	serr "github.com/IvanChernomyrdin/go-stocks-api/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-stocks-api/internal/shared/logger"
)

const testSigningKey = "supersecretkeysupersecretkey123456"

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

// NewTestHandler создаёт Handler с моками репозиториев и настоящими сервисами
func NewTestHandler(t *testing.T) (*api.Handler, *svcmocks.MockUsersRepo, *svcmocks.MockStocksRepo) {
	t.Helper()

	ctrl := gomock.NewController(t)

	users := svcmocks.NewMockUsersRepo(ctrl)
	stocks := svcmocks.NewMockStocksRepo(ctrl)

	svc := service.NewServices(
		service.Repositories{Users: users, Stocks: stocks},
		service.Deps{
			Hasher:   crypto.NewBcryptHasher(4),
			Tokens:   crypto.NewTokenManager(crypto.JWTConfig{SigningKey: testSigningKey, AccessTTL: 24 * time.Hour}),
			Location: time.UTC,
		},
	)

	return api.NewHandler(svc, logger.NewNop(), fakePinger{}), users, stocks
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()

	var resp api.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v (body=%q)", err, rec.Body.String())
	}
	if !resp.Error {
		t.Fatalf("expected error=true")
	}
	return resp
}

// withSymbol подставляет {symbol} так, как это делает chi
func withSymbol(r *http.Request, symbol string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("symbol", symbol)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestHandler_Register_BadJSON(t *testing.T) {
	h, _, _ := NewTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/user/register", bytes.NewBufferString("{bad json"))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if got := decodeError(t, rec).Message; got != api.MsgBadJSON {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestHandler_Register_BodyTooLarge(t *testing.T) {
	h, _, _ := NewTestHandler(t)
	h.MaxBodyBytes = 16

	body := `{"email":"a@b.com","password":"` + strings.Repeat("x", 64) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/user/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandler_Register_Success(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	email := "test@example.com"

	users.EXPECT().Exists(gomock.Any(), email).Return(false, nil)
	users.EXPECT().
		Create(gomock.Any(), email, gomock.Any()).
		DoAndReturn(func(ctx context.Context, gotEmail, gotHash string) (uuid.UUID, error) {
			if gotHash == "" || gotHash == "StrongPass123" {
				t.Fatalf("expected password hash, got %q", gotHash)
			}
			return uuid.New(), nil
		})

	body, _ := json.Marshal(api.RegisterRequest{Email: email, Password: "StrongPass123"})
	req := httptest.NewRequest(http.MethodPost, "/user/register", bytes.NewReader(body))
	req.Header.Set(api.ContentType, api.JsonContentType)
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected %d, got %d, body=%q", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var resp api.RegisterResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Message != "User created" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestHandler_Register_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(u *svcmocks.MockUsersRepo)
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "missing password",
			body:       `{"email":"a@b.com"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    service.MsgRegisterIncomplete,
		},
		{
			name:       "password too long",
			body:       `{"email":"a@b.com","password":"` + strings.Repeat("x", 73) + `"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    service.MsgRegisterInvalid,
		},
		{
			name: "already exists",
			body: `{"email":"a@b.com","password":"pw"}`,
			setup: func(u *svcmocks.MockUsersRepo) {
				u.EXPECT().Exists(gomock.Any(), "a@b.com").Return(true, nil)
			},
			wantStatus: http.StatusConflict,
			wantMsg:    service.MsgUserExists,
		},
		{
			name: "store error",
			body: `{"email":"a@b.com","password":"pw"}`,
			setup: func(u *svcmocks.MockUsersRepo) {
				u.EXPECT().Exists(gomock.Any(), "a@b.com").Return(false, errors.Join(serr.ErrInternal, errors.New("db down")))
			},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    api.MsgInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, users, _ := NewTestHandler(t)
			if tt.setup != nil {
				tt.setup(users)
			}

			req := httptest.NewRequest(http.MethodPost, "/user/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.Register(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := decodeError(t, rec).Message; got != tt.wantMsg {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, got)
			}
		})
	}
}

func TestHandler_Login_Success(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	hash, err := crypto.NewBcryptHasher(4).Hash("StrongPass123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	users.EXPECT().
		GetByEmail(gomock.Any(), "test@example.com").
		Return(models.User{ID: uuid.New(), Email: "test@example.com", PasswordHash: hash}, nil)

	body, _ := json.Marshal(api.LoginRequest{Email: "test@example.com", Password: "StrongPass123"})
	req := httptest.NewRequest(http.MethodPost, "/user/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d, body=%q", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp api.LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" || resp.TokenType != "Bearer" || resp.ExpiresIn != 86400 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestHandler_Login_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(u *svcmocks.MockUsersRepo)
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "bad json",
			body:       "{bad json",
			wantStatus: http.StatusBadRequest,
			wantMsg:    api.MsgBadJSON,
		},
		{
			name:       "empty email",
			body:       `{"email":"","password":"pw"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    service.MsgLoginIncomplete,
		},
		{
			name: "unknown email",
			body: `{"email":"nobody@b.com","password":"pw"}`,
			setup: func(u *svcmocks.MockUsersRepo) {
				u.EXPECT().GetByEmail(gomock.Any(), "nobody@b.com").Return(models.User{}, serr.ErrNotFound)
			},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    service.MsgLoginFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, users, _ := NewTestHandler(t)
			if tt.setup != nil {
				tt.setup(users)
			}

			req := httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.Login(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := decodeError(t, rec).Message; got != tt.wantMsg {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, got)
			}
		})
	}
}

func TestHandler_ListSymbols(t *testing.T) {
	h, _, stocks := NewTestHandler(t)

	stocks.EXPECT().
		ListSymbols(gomock.Any(), "Health").
		Return([]models.StockSymbol{{Name: "Agilent Technologies Inc", Symbol: "A", Industry: "Health Care"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/stocks/symbols?industry=Health", nil)
	rec := httptest.NewRecorder()

	h.ListSymbols(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, rec.Code)
	}
	want := `[{"name":"Agilent Technologies Inc","symbol":"A","industry":"Health Care"}]`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestHandler_ListSymbols_UnknownParam(t *testing.T) {
	h, _, _ := NewTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/stocks/symbols?industry=tech&foo=1", nil)
	rec := httptest.NewRecorder()

	h.ListSymbols(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if got := decodeError(t, rec).Message; got != service.MsgSymbolsParams {
		t.Fatalf("unexpected message %q", got)
	}
}

func testStock(ts time.Time) models.Stock {
	return models.Stock{
		Timestamp: ts,
		Symbol:    "AAL",
		Name:      "American Airlines Group",
		Industry:  "Industrials",
		Open:      decimal.RequireFromString("13.34"),
		High:      decimal.RequireFromString("13.5"),
		Low:       decimal.RequireFromString("12.1"),
		Close:     decimal.RequireFromString("12.62"),
		Volumes:   9231404,
	}
}

func TestHandler_GetStock(t *testing.T) {
	h, _, stocks := NewTestHandler(t)

	stocks.EXPECT().Latest(gomock.Any(), "AAL").Return(testStock(time.Date(2020, 3, 20, 0, 0, 0, 0, time.UTC)), nil)

	req := withSymbol(httptest.NewRequest(http.MethodGet, "/stocks/AAL", nil), "AAL")
	rec := httptest.NewRecorder()

	h.GetStock(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, rec.Code)
	}

	var got map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// цены — числа, а не строки
	if open, ok := got["open"].(float64); !ok || open != 13.34 {
		t.Fatalf("expected numeric open 13.34, got %#v", got["open"])
	}
	if got["symbol"] != "AAL" || got["volumes"] != float64(9231404) {
		t.Fatalf("unexpected body %v", got)
	}
}

func TestHandler_GetStock_Errors(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		symbol     string
		setup      func(s *svcmocks.MockStocksRepo)
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "query params",
			url:        "/stocks/AAL?from=2020-03-15",
			symbol:     "AAL",
			wantStatus: http.StatusBadRequest,
			wantMsg:    service.MsgUnauthedParams,
		},
		{
			name:       "bad symbol",
			url:        "/stocks/aal",
			symbol:     "aal",
			wantStatus: http.StatusBadRequest,
			wantMsg:    service.MsgSymbolFormat,
		},
		{
			name:   "not found",
			url:    "/stocks/ZZZZ",
			symbol: "ZZZZ",
			setup: func(s *svcmocks.MockStocksRepo) {
				s.EXPECT().Latest(gomock.Any(), "ZZZZ").Return(models.Stock{}, serr.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantMsg:    service.MsgSymbolNotFound,
		},
		{
			name:   "store error",
			url:    "/stocks/AAL",
			symbol: "AAL",
			setup: func(s *svcmocks.MockStocksRepo) {
				s.EXPECT().Latest(gomock.Any(), "AAL").Return(models.Stock{}, errors.Join(serr.ErrInternal, errors.New("timeout")))
			},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    api.MsgInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, stocks := NewTestHandler(t)
			if tt.setup != nil {
				tt.setup(stocks)
			}

			req := withSymbol(httptest.NewRequest(http.MethodGet, tt.url, nil), tt.symbol)
			rec := httptest.NewRecorder()

			h.GetStock(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := decodeError(t, rec).Message; got != tt.wantMsg {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, got)
			}
		})
	}
}

// Форма ответа: без диапазона объект, с диапазоном массив
func TestHandler_GetAuthedStock_Shape(t *testing.T) {
	ts := time.Date(2020, 3, 16, 0, 0, 0, 0, time.UTC)

	t.Run("object", func(t *testing.T) {
		h, _, stocks := NewTestHandler(t)
		stocks.EXPECT().Latest(gomock.Any(), "AAL").Return(testStock(ts), nil)

		req := withSymbol(httptest.NewRequest(http.MethodGet, "/stocks/authed/AAL", nil), "AAL")
		rec := httptest.NewRecorder()
		h.GetAuthedStock(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected %d, got %d", http.StatusOK, rec.Code)
		}
		if !strings.HasPrefix(rec.Body.String(), "{") {
			t.Fatalf("expected object, got %s", rec.Body.String())
		}
	})

	t.Run("array", func(t *testing.T) {
		h, _, stocks := NewTestHandler(t)
		stocks.EXPECT().History(gomock.Any(), "AAL", gomock.Any()).Return([]models.Stock{testStock(ts)}, nil)

		req := withSymbol(httptest.NewRequest(http.MethodGet, "/stocks/authed/AAL?from=2020-03-15", nil), "AAL")
		rec := httptest.NewRecorder()
		h.GetAuthedStock(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected %d, got %d", http.StatusOK, rec.Code)
		}
		var rows []models.Stock
		if err := json.NewDecoder(rec.Body).Decode(&rows); err != nil {
			t.Fatalf("expected array: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("expected 1 row, got %d", len(rows))
		}
	})

	t.Run("empty range", func(t *testing.T) {
		h, _, stocks := NewTestHandler(t)
		stocks.EXPECT().History(gomock.Any(), "AAL", gomock.Any()).Return([]models.Stock{}, nil)

		req := withSymbol(httptest.NewRequest(http.MethodGet, "/stocks/authed/AAL?from=1990-01-01&to=1990-01-02", nil), "AAL")
		rec := httptest.NewRecorder()
		h.GetAuthedStock(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected %d, got %d", http.StatusNotFound, rec.Code)
		}
		if got := decodeError(t, rec).Message; got != service.MsgRangeEmptyResult {
			t.Fatalf("unexpected message %q", got)
		}
	})
}

func TestHandler_Health(t *testing.T) {
	h, _, _ := NewTestHandler(t)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, rec.Code)
	}

	h.DB = fakePinger{err: errors.New("connection refused")}
	rec = httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
}
