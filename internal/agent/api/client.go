// Package api содержит HTTP-клиент для взаимодействия с сервером Stocks API.
//
// Клиент инкапсулирует базовый URL сервера и настроенный http.Client,
// предоставляя методы для отправки JSON-запросов (POST/GET)
// с авторизацией через Bearer токен.
//
// Особенности:
//   - baseURL нормализуется (обрезаются завершающие "/").
//   - По умолчанию добавляется заголовок Accept: application/json.
//   - Заголовок Content-Type: application/json добавляется только при наличии тела запроса.
//   - Пустое тело ответа (EOF при декодировании) не считается ошибкой.
//   - При ошибочных ответах (не 2xx) возвращается *Error с сообщением сервера.
package api

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client реализует HTTP-клиент для общения с сервером.
type Client struct {
	baseURL string
	http    *http.Client
}

// Error — ответ сервера с кодом не 2xx.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// NewClient создаёт новый HTTP-клиент для общения с сервером.
//
// insecure отключает проверку TLS-сертификата сервера. Это допустимо только
// для локальной разработки с самоподписанным сертификатом.
func NewClient(baseURL string, insecure bool) *Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if insecure {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // только для dev
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: tr,
		},
	}
}

// readAPIError читает тело ответа с ошибкой.
//
// Сервер отвечает {"error": true, "message": "..."}; если тело в другом
// формате, сообщением становится сам текст тела или res.Status.
func readAPIError(res *http.Response) error {
	raw, _ := io.ReadAll(res.Body)

	var body struct {
		Message string `json:"message"`
	}
	msg := ""
	if json.Unmarshal(raw, &body) == nil {
		msg = body.Message
	}
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	if msg == "" {
		msg = res.Status
	}
	return &Error{Status: res.StatusCode, Message: msg}
}

// decodeJSONOrOK декодирует JSON из r в resp; пустое тело не ошибка.
func decodeJSONOrOK(r io.Reader, resp any) error {
	if resp == nil {
		return nil
	}
	err := json.NewDecoder(r).Decode(resp)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// PostJSON выполняет POST-запрос к серверу, сериализуя req в JSON.
//
// Если resp != nil, JSON-ответ декодируется в него.
func (c *Client) PostJSON(path string, req any, resp any, authToken string) error {
	var buf bytes.Buffer
	if req != nil {
		if err := json.NewEncoder(&buf).Encode(req); err != nil {
			return err
		}
	}

	r, err := http.NewRequest(http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	if req != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	return c.do(r, resp, authToken)
}

// GetJSON выполняет GET-запрос к серверу и декодирует JSON-ответ в resp.
func (c *Client) GetJSON(path string, resp any, authToken string) error {
	r, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(r, resp, authToken)
}

func (c *Client) do(r *http.Request, resp any, authToken string) error {
	r.Header.Set("Accept", "application/json")
	if authToken != "" {
		r.Header.Set("Authorization", "Bearer "+authToken)
	}

	res, err := c.http.Do(r)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return readAPIError(res)
	}
	if res.StatusCode == http.StatusNoContent {
		return nil
	}
	return decodeJSONOrOK(res.Body, resp)
}
