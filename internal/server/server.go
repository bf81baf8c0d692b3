package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/IdleRealm_Go/internal/catalog"
	"github.com/osse101/IdleRealm_Go/internal/game"
	"github.com/osse101/IdleRealm_Go/internal/handler"
	"github.com/osse101/IdleRealm_Go/internal/logger"
	"github.com/osse101/IdleRealm_Go/internal/metrics"
	"github.com/osse101/IdleRealm_Go/internal/realtime"
)

// Deps holds everything the HTTP surface needs
type Deps struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	Version        string

	Store    handler.Pinger
	Game     game.Service
	Catalog  *catalog.Catalog
	Presence *realtime.Presence
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(deps Deps) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", deps.Port),
			Handler:           NewRouter(deps),
			ReadHeaderTimeout: ReadHeaderTimeout,
			IdleTimeout:       IdleTimeout,
			// no WriteTimeout: /ws and /events hold the response open
		},
	}
}

// NewRouter builds the chi router with the full middleware stack
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector(RateLimitMaxRequests)

	r.Use(middleware.Recoverer)
	r.Use(SecurityHeadersMiddleware())
	r.Use(RateLimitMiddleware(deps.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.Store))
	r.Get("/version", handler.HandleVersion(deps.Version))
	r.Handle("/metrics", promhttp.Handler())

	// Realtime streams
	r.Handle("/ws", realtime.NewWSHandler(deps.Presence))
	r.Get("/events", realtime.SSEHandler(deps.Presence))

	if deps.APIKey == "" {
		slog.Default().Warn(LogMsgWebhookOpen)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(APIRequestTimeout))

		characters := handler.NewCharacterHandler(deps.Game)
		r.Post("/characters", characters.HandleCreate)
		r.Route("/characters/{owner}", func(r chi.Router) {
			r.Get("/", characters.HandleGet)
			r.Post("/resume", characters.HandleResume)
			r.Post("/disconnect", characters.HandleDisconnect)

			r.Post("/activity", characters.HandleStartActivity)
			r.Delete("/activity", characters.HandleStopActivity)
			r.Post("/combat", characters.HandleStartCombat)
			r.Delete("/combat", characters.HandleFlee)
			r.Post("/dungeon", characters.HandleStartDungeon)
			r.Delete("/dungeon", characters.HandleAbandonDungeon)

			r.Post("/equipment", characters.HandleEquip)
			r.Delete("/equipment/{slot}", characters.HandleUnequip)
			r.Post("/claims/collect", characters.HandleCollectClaims)
			r.Post("/items/send", characters.HandleSendItems)
		})

		catalogHandler := handler.NewCatalogHandler(deps.Catalog)
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/items", catalogHandler.HandleItems)
			r.Get("/monsters", catalogHandler.HandleMonsters)
			r.Get("/dungeons", catalogHandler.HandleDungeons)
		})

		payments := handler.NewPaymentHandler(deps.Game)
		r.With(AuthMiddleware(deps.APIKey, deps.TrustedProxies, detector)).
			Post("/payments/confirm", payments.HandleConfirm)
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New(ErrMsgNoHijack)
	}
	// an upgraded connection answers 101
	rw.statusCode = http.StatusSwitchingProtocols
	rw.written = true
	return h.Hijack()
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func isQuietPath(path string) bool {
	for _, p := range QuietPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if isQuietPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
