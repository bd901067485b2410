// Package logger содержит общий логгер для сервера и CLI.
//
// Пакет предоставляет Zap-логгер, настроенный на запись в файл с ротацией
// (lumberjack) и удобный метод для логирования HTTP-запросов.
package logger

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultDir — каталог логов по умолчанию (относительно рабочей директории).
var DefaultDir = filepath.Join("runtime", "logs")

// Config описывает параметры логгера.
type Config struct {
	// Dir — каталог для файла http.log. Пусто — DefaultDir.
	Dir string
	// Level — debug|info|warn|error. Пусто — info.
	Level string
	// Format — console|json. Пусто — console.
	Format string
	// Stdout — дублировать записи в stdout.
	Stdout bool
}

// HTTPLogger представляет обёртку над zap.Logger для логирования HTTP-событий.
//
// Встраивание *zap.Logger позволяет использовать все методы zap напрямую.
type HTTPLogger struct {
	*zap.Logger
}

// NewHTTPLogger создаёт файловый zap-логгер для HTTP-логов.
//
// Логи записываются в файл <Dir>/http.log.
// Для файлов включена ротация (MaxSize/MaxBackups/MaxAge) и сжатие архивов.
// Формат времени: "HH:MM:SS DD.MM.YYYY".
func NewHTTPLogger(cfg Config) *HTTPLogger {
	logDir := cfg.Dir
	if logDir == "" {
		logDir = DefaultDir
	}
	_ = os.MkdirAll(logDir, 0755)

	logFile := filepath.Join(logDir, "http.log")

	// lumberjack отвечает за ротацию файлов
	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100, // MB
		MaxBackups: 10,
		MaxAge:     30, // дней
		Compress:   true,
	})
	if cfg.Stdout {
		writer = zapcore.NewMultiWriteSyncer(writer, zapcore.Lock(os.Stdout))
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = customTimeEncoder

	var encoder zapcore.Encoder
	if strings.EqualFold(cfg.Format, "json") {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, writer, parseLevel(cfg.Level))

	return &HTTPLogger{Logger: zap.New(core, zap.AddCaller())}
}

// NewNop возвращает логгер, который ничего не пишет. Удобно в тестах.
func NewNop() *HTTPLogger {
	return &HTTPLogger{Logger: zap.NewNop()}
}

// LogRequest записывает структурированный лог об HTTP-запросе.
//
// method и uri — параметры запроса,
// status — HTTP-статус ответа,
// responseSize — размер ответа в байтах,
// duration — длительность обработки запроса в миллисекундах.
func (logger *HTTPLogger) LogRequest(method, uri string, status, responseSize int, duration float64) {
	logger.Info("HTTP request",
		zap.String("method", method),
		zap.String("uri", uri),
		zap.Int("status", status),
		zap.Int("response_size", responseSize),
		zap.Float64("duration_ms", duration),
	)
}

func parseLevel(level string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zapcore.InfoLevel
	}
	return lvl
}

// customTimeEncoder форматирует время для логов в виде "HH:MM:SS DD.MM.YYYY".
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05 02.01.2006"))
}
