// Package config содержит функции для работы с локальной конфигурацией CLI-клиента.
//
// Конфигурация хранит access-токен и размещается в домашней директории
// пользователя в файле:
//
//	~/.stocksapi/credentials.json
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Credentials содержит учётные данные, используемые CLI-клиентом.
type Credentials struct {
	Email     string    `json:"email,omitempty"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid сообщает, есть ли токен и не истёк ли он к моменту now.
func (c *Credentials) Valid(now time.Time) bool {
	if c == nil || c.Token == "" {
		return false
	}
	return c.ExpiresAt.IsZero() || now.Before(c.ExpiresAt)
}

// DefaultPath возвращает путь к файлу учётных данных в домашней директории пользователя.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".stocksapi", "credentials.json"), nil
}

// Load загружает учётные данные из указанного файла.
//
// Если файл не существует, возвращает пустые данные без ошибки.
func Load(path string) (*Credentials, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Credentials{}, nil
		}
		return nil, err
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save сохраняет учётные данные в JSON.
//
// Каталог создаётся с правами 0700, файл пишется с правами 0600.
func Save(path string, c *Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
