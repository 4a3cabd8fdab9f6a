package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nao1215/phishcheck/internal/database"
	"github.com/nao1215/phishcheck/internal/predict"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Default server settings.
const (
	DefaultMaxBodySize     = 64 * 1024
	DefaultHistoryLimit    = 10
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Predictor scores a URL. *predict.Predictor satisfies it.
type Predictor interface {
	Predict(ctx context.Context, rawURL string) (predict.Result, error)
}

// History is the read side of the history store plus Clear.
// *database.HistoryDB satisfies it.
type History interface {
	Recent(ctx context.Context, limit int) ([]database.Entry, error)
	Lookup(ctx context.Context, rawURL string) (*database.Entry, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) (int64, error)
}

// ModelInfo identifies the loaded model in /healthz.
type ModelInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for access and error logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHistory mounts the /history routes and shows the last limit checks
// on the form page.
func WithHistory(h History, limit int) Option {
	return func(s *Server) {
		s.history = h
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

// WithAllowedOrigins sets the CORS allow list. "*" allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.allowedOrigins = append([]string(nil), origins...)
	}
}

// WithMaxBodySize limits request bodies to n bytes.
func WithMaxBodySize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodySize = n
		}
	}
}

// WithTimeouts sets the http.Server read and write timeouts and the grace
// period given to in-flight requests on shutdown.
func WithTimeouts(read, write, shutdown time.Duration) Option {
	return func(s *Server) {
		if read > 0 {
			s.readTimeout = read
		}
		if write > 0 {
			s.writeTimeout = write
		}
		if shutdown > 0 {
			s.shutdownTimeout = shutdown
		}
	}
}

// WithModelInfo reports the model identity on /healthz.
func WithModelInfo(info ModelInfo) Option {
	return func(s *Server) {
		s.modelInfo = info
	}
}

// Server routes HTTP requests to the predictor.
type Server struct {
	predictor       Predictor
	history         History
	historyLimit    int
	logger          *slog.Logger
	allowedOrigins  []string
	maxBodySize     int64
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	modelInfo       ModelInfo

	router chi.Router
}

// New builds a Server around p.
func New(p Predictor, opts ...Option) *Server {
	s := &Server{
		predictor:       p,
		historyLimit:    DefaultHistoryLimit,
		logger:          slog.Default(),
		allowedOrigins:  []string{"*"},
		maxBodySize:     DefaultMaxBodySize,
		readTimeout:     DefaultReadTimeout,
		writeTimeout:    DefaultWriteTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors(s.allowedOrigins))
	r.Use(middleware.RequestSize(s.maxBodySize))

	r.Get("/", s.handleIndex)
	r.Post("/", s.handleForm)
	r.Post("/analyze-url", s.handleAnalyzeURL)
	r.Get("/healthz", s.handleHealthz)

	if s.history != nil {
		r.Get("/history", s.handleHistory)
		r.Delete("/history", s.handleClearHistory)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully, giving in-flight requests the shutdown timeout to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadTimeout:       s.readTimeout,
		ReadHeaderTimeout: s.readTimeout,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("server shutdown failed", "error", err)
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
