// Package api реализует HTTP-слой сервера Stocks API.
//
// Пакет отвечает за:
//   - обработку входящих запросов и формирование ответов (JSON, статусы);
//   - маппинг доменных ошибок (service/repository) в HTTP-коды и сообщения.
//
// Маршруты регистрируются в internal/server/net/http.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-stocks-api/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-stocks-api/internal/shared/logger"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
// Вынес Content-Type и JSON для удобства
const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"
)

// Сообщения, которые не зависят от конкретного хендлера.
const (
	MsgBadJSON  = "Request body is not valid JSON"
	MsgInternal = "Internal server error"
	MsgNotFound = "Not Found"
)

// DefaultMaxBodyBytes — лимит тела запроса, если он не задан в конфиге.
const DefaultMaxBodyBytes int64 = 1 << 20

// ErrorResponse — тело любого ответа с ошибкой.
type ErrorResponse struct {
	Error   bool   `json:"error" example:"true"`
	Message string `json:"message" example:"Not Found"`
}

// Pinger проверяет доступность хранилища (*sql.DB подходит).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи событий и ошибок;
//   - DB: проверка доступности БД для /health (может быть nil).
type Handler struct {
	Svc          *service.Services
	Log          *logger.HTTPLogger
	DB           Pinger
	MaxBodyBytes int64
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
func NewHandler(svc *service.Services, log *logger.HTTPLogger, db Pinger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		Svc:          svc,
		Log:          log,
		DB:           db,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// WriteError пишет ответ {"error": true, "message": msg} со статусом status.
func WriteError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: true, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError выбирает HTTP-статус по категории ошибки.
//
// Сообщение доменной ошибки уходит клиенту как есть; всё, что не удалось
// классифицировать, логируется и отдаётся как 500 без деталей.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, serr.ErrInvalidInput), errors.Is(err, serr.ErrBadJSON):
		WriteError(w, http.StatusBadRequest, serr.Message(err, "Bad Request"))
	case errors.Is(err, serr.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, serr.Message(err, "Unauthorized"))
	case errors.Is(err, serr.ErrNotFound):
		WriteError(w, http.StatusNotFound, serr.Message(err, MsgNotFound))
	case errors.Is(err, serr.ErrAlreadyExists):
		WriteError(w, http.StatusConflict, serr.Message(err, "Conflict"))
	default:
		h.Log.Error(op+" failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
		)
		WriteError(w, http.StatusInternalServerError, MsgInternal)
	}
}

// decodeJSON читает тело запроса в v с ограничением по размеру.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	limit := h.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit)).Decode(v); err != nil {
		return serr.New(serr.ErrBadJSON, MsgBadJSON)
	}
	return nil
}
