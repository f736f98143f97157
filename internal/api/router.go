package api

import (
	"net/http"
	"time"

	"github.com/AlexZinkM/seedkeeper/custody"
	_ "github.com/AlexZinkM/seedkeeper/docs"
	"github.com/AlexZinkM/seedkeeper/internal/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(svc *custody.Service, log zerolog.Logger) http.Handler {
	walletHandler := handler.NewWalletHandler(svc, log)

	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Use(requestLogger(log))

	// Swagger UI
	mux.Get("/swagger/*", httpSwagger.WrapHandler)

	mux.Get("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	walletHandler.RegisterRoutes(mux)
	return mux
}

// requestLogger logs method, path, status and duration. Bodies are never
// logged: they carry passwords and mnemonics.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("HTTP request")
		})
	}
}
