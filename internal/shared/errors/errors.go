// Package errors содержит общие доменные ошибки приложения
// и утилиты для error wrapping.
//
// Эти ошибки используются в service и repository слоях
// и маппятся на HTTP-статусы в api слое.
package errors

import "errors"

var (
	// Входные данные невалидны (лишние параметры, неправильный формат и т.п.)
	ErrInvalidInput = errors.New("invalid input")
	// Неверные учётные данные
	ErrInvalidCredentials = errors.New("invalid credentials")
	// Получена непредвиденная ошибка
	ErrInternal = errors.New("internal error")
	// Полученные JSON данные с ошибками
	ErrBadJSON = errors.New("bad json")
	// Ресурс уже существует (например email уже занят)
	ErrAlreadyExists = errors.New("already exists")
	// Ресурс не найден
	ErrNotFound = errors.New("not found")
)

// Error — доменная ошибка с сообщением для клиента.
//
// Kind — одна из ошибок-категорий выше, по ней api слой выбирает HTTP-статус.
// Message отдаётся клиенту как есть, поэтому не должно содержать внутренних деталей.
type Error struct {
	Kind    error
	Message string
}

// New создаёт доменную ошибку категории kind с сообщением для клиента.
func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap позволяет errors.Is(err, ErrNotFound) и т.п.
func (e *Error) Unwrap() error {
	return e.Kind
}

// Message возвращает сообщение для клиента, если err — доменная ошибка,
// иначе fallback.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}
