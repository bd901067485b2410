// @title           Stocks API
// @version         1.0
// @description     Historical stock prices with token-gated date range queries.

// @contact.name   Ivan Chernomyrdin
// @contact.url    https://github.com/IvanChernomyrdin

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:3000
// @BasePath  /
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// Package main содержит точку входа серверного приложения Stocks API.
//
// Пакет отвечает за инициализацию и жизненный цикл HTTP(S)-сервера, а именно:
//   - загрузку переменных окружения из файла .env (если он присутствует);
//   - загрузку конфигурации сервера (CONFIG_PATH или ./configs/server.yaml);
//   - подключение к базе данных и применение миграций;
//   - создание репозиториев, сервисов, middleware и HTTP-обработчиков;
//   - запуск HTTPS-сервера и, при необходимости, HTTP-редиректа на него;
//   - обработку системных сигналов завершения (SIGINT, SIGTERM, SIGQUIT);
//   - корректное (graceful) завершение работы сервера с таймаутом.
//
// Пакет не содержит бизнес-логики и не предназначен для unit-тестирования.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/api"
	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/config"
	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/middleware"
	h "github.com/IvanChernomyrdin/go-stocks-api/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/repository"
	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/service"
	"github.com/IvanChernomyrdin/go-stocks-api/internal/shared/logger"

	_ "github.com/IvanChernomyrdin/go-stocks-api/swagger/docs"
)

const defaultConfigPath = "./configs/server.yaml"

func main() {
	envErr := godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	httpLogger := logger.NewHTTPLogger(logger.Config{
		Dir:    cfg.Log.Dir,
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Stdout: cfg.Log.Stdout,
	})
	defer httpLogger.Sync()
	sugar := httpLogger.Sugar()

	if envErr != nil {
		sugar.Warnf("no .env file loaded, error: %v", envErr)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	// подключаем базу данных
	db, err := config.OpenDB(ctx, cfg.DB)
	if err != nil {
		sugar.Fatal(err)
	}
	defer db.Close()

	if cfg.Migrations.Enabled {
		if err := config.Migrate(db, cfg.Migrations.Path); err != nil {
			sugar.Fatal(err)
		}
		sugar.Info("migrations applied")
	}

	// создаём репы
	repos := service.Repositories{
		Users:  repository.NewUsersRepository(db).WithQueryTimeout(cfg.DB.QueryTimeout),
		Stocks: repository.NewStocksRepository(db).WithQueryTimeout(cfg.DB.QueryTimeout),
	}

	tokens := crypto.NewTokenManager(crypto.JWTConfig{
		SigningKey: cfg.Auth.JWT.SigningKey,
		AccessTTL:  cfg.Auth.AccessTTL,
	})

	// создаём сервисы
	svc := service.NewServices(repos, service.Deps{
		Hasher:   newHasher(cfg.Password),
		Tokens:   tokens,
		Location: cfg.Location(),
	})

	handler := api.NewHandler(svc, httpLogger, db)
	handler.MaxBodyBytes = cfg.Server.MaxBodyBytes

	opts := h.Options{
		Log:            httpLogger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		CORSMaxAge:     cfg.CORS.MaxAge,
	}
	if cfg.Observability.Metrics.Enabled {
		opts.MetricsPath = cfg.Observability.Metrics.Path
	}
	router := h.NewRouter(handler, middleware.NewAuthGate(tokens), opts)

	//создаём сервер
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
	}
	if cfg.TLS.Enabled {
		server.TLSConfig = &tls.Config{MinVersion: tlsVersion(cfg.TLS.MinVersion)}
	}

	servers := []*http.Server{server}

	var redirect *http.Server
	if cfg.TLS.RedirectPort != 0 {
		redirect = &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.TLS.RedirectPort),
			Handler:           h.NewRedirectHandler(cfg.Server.Port),
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		}
		servers = append(servers, redirect)
	}

	g, ctx := errgroup.WithContext(ctx)

	// запускаем сервер
	g.Go(func() error {
		var err error
		if cfg.TLS.Enabled {
			sugar.Infof("https server started on %s", addr)
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			sugar.Warnf("tls disabled, http server started on %s", addr)
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if redirect != nil {
		g.Go(func() error {
			sugar.Infof("redirect server started on %s", redirect.Addr)
			if err := redirect.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-ctx.Done()

		sugar.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		var errs []error
		for _, s := range servers {
			if err := s.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	// ожидание и единная обработка ошибок
	if err := g.Wait(); err != nil {
		sugar.Fatalf("server stopped with error: %v", err)
	}
	sugar.Info("server gracefully stopped")
}

// newHasher выбирает алгоритм хэширования новых паролей по конфигу.
// Проверка принимает хэши обоих алгоритмов.
func newHasher(cfg config.PasswordConfig) crypto.PasswordHasher {
	var primary crypto.PasswordHasher = crypto.NewBcryptHasher(cfg.Bcrypt.Cost)
	if strings.EqualFold(cfg.Hasher, "argon2id") {
		primary = crypto.NewArgon2Hasher(crypto.Argon2Params{
			Time:      cfg.Argon2.Time,
			MemoryKiB: cfg.Argon2.MemoryKiB,
			Threads:   cfg.Argon2.Threads,
			KeyLen:    cfg.Argon2.KeyLen,
			SaltLen:   cfg.Argon2.SaltLen,
		})
	}
	return crypto.NewHasher(primary)
}

func tlsVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}
