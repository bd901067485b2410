// Package http реализует маршрутизацию HTTP-слоя сервера Stocks API.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - подключение middleware (CORS, заголовки безопасности, метрики, логирование);
//   - закрытие маршрута /stocks/authed проверкой токена;
//   - редирект plain HTTP на HTTPS.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/api"
	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-stocks-api/internal/shared/logger"
)

// Options — то, что роутеру нужно помимо хендлеров.
type Options struct {
	Log *logger.HTTPLogger

	AllowedOrigins []string
	CORSMaxAge     int

	// MetricsPath — путь для Prometheus. Пусто — метрики не отдаются.
	MetricsPath string
}

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - публичные маршруты /stocks/symbols и /stocks/{symbol};
//   - закрытый маршрут /stocks/authed/{symbol};
//   - /user/login и /user/register;
//   - swagger, /health и метрики.
//
// gate обязателен: без него закрытый маршрут не регистрируется, NewRouter паникует.
//
// Неизвестный путь и неподдерживаемый метод дают одинаковый 404.
func NewRouter(h *api.Handler, gate *middleware.AuthGate, opts Options) http.Handler {
	if gate == nil {
		panic("http: NewRouter requires an auth gate")
	}

	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         opts.CORSMaxAge,
	}))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Metrics)
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware(opts.Log))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusFound)
	})
	// добавляем swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/health", h.Health)
	if opts.MetricsPath != "" {
		r.Method(http.MethodGet, opts.MetricsPath, promhttp.Handler())
	}

	r.Route("/stocks", func(r chi.Router) {
		r.Get("/symbols", h.ListSymbols)
		r.Get("/{symbol}", h.GetStock)

		// защищённый путь
		r.Group(func(r chi.Router) {
			r.Use(gate.Middleware())
			r.Get("/authed/{symbol}", h.GetAuthedStock)
		})
	})

	r.Route("/user", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
	})

	notFound := func(w http.ResponseWriter, r *http.Request) {
		api.WriteError(w, http.StatusNotFound, api.MsgNotFound)
	}
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return r
}
