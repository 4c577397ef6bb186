package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/funnel/pkg/buildinfo"
	"github.com/matzehuels/funnel/pkg/cache"
	"github.com/matzehuels/funnel/pkg/config"
	ferrors "github.com/matzehuels/funnel/pkg/errors"
	"github.com/matzehuels/funnel/pkg/funnel/sink"
	"github.com/matzehuels/funnel/pkg/funnel/textlabel"
	"github.com/matzehuels/funnel/pkg/funnel/widget"
)

const (
	maxChartBytes   = 1 << 20
	shutdownTimeout = 5 * time.Second
	requestIDHeader = "X-Request-ID"
	cacheHeader     = "X-Cache"
	defaultCacheTTL = 10 * time.Minute
)

// serveCommand serves chart rendering over HTTP. Clients POST a TOML chart
// definition and get SVG, JSON or a hit-test result back.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		cacheDir string
		cacheTTL time.Duration
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve chart rendering over HTTP",
		Long: `Start an HTTP server with the endpoints

  POST /render?format=svg|json   body: chart TOML
  POST /hittest?x=..&y=..        body: chart TOML
  GET  /healthz

Rendered output is cached in memory by default; --cache-dir keeps it on disk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			fonts, err := textlabel.NewGoFonts()
			if err != nil {
				return err
			}

			var store cache.Cache
			switch {
			case noCache:
				store = cache.NewNullCache()
			case cacheDir != "":
				fc, err := cache.NewFileCache(cacheDir)
				if err != nil {
					return err
				}
				store = fc
				logger.Debug("Using file cache", "dir", cacheDir)
			default:
				store = cache.NewMemoryCache(cache.DefaultMemoryEntries)
			}
			defer store.Close()

			return runServer(cmd.Context(), addr, newRouter(logger, fonts, store, cacheTTL))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "store rendered output in this directory")
	cmd.Flags().DurationVar(&cacheTTL, "cache-ttl", defaultCacheTTL, "lifetime of cached output (0 = no expiry)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")
	return cmd
}

func runServer(ctx context.Context, addr string, h http.Handler) error {
	logger := loggerFromContext(ctx)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

// server handles chart requests. The measurer and cache are shared by every
// request.
type server struct {
	measure textlabel.Measurer
	cache   cache.Cache
	ttl     time.Duration
}

// newRouter builds the HTTP routes. Each request gets an ID and a logger
// carrying it.
func newRouter(logger *log.Logger, m textlabel.Measurer, store cache.Cache, ttl time.Duration) http.Handler {
	s := &server{measure: m, cache: store, ttl: ttl}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok "+buildinfo.Short()+"\n")
	})
	r.Post("/render", s.handleRender)
	r.Post("/hittest", s.handleHitTest)
	return r
}

func requestLogger(base *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)

			logger := base.With("request", id)
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(withLogger(r.Context(), logger)))
			logger.Debug("Handled request",
				"method", r.Method, "path", r.URL.Path,
				"status", ww.Status(), "bytes", ww.BytesWritten(),
				"duration", time.Since(start).Round(time.Microsecond))
		})
	}
}

func readChart(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxChartBytes))
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "read chart")
	}
	return data, nil
}

// layoutChart decodes a chart definition and lays it out.
func (s *server) layoutChart(r *http.Request, data []byte) (*widget.Chart, error) {
	cfg, err := config.Parse(data)
	if err != nil {
		return nil, err
	}
	c, err := widget.New(cfg,
		widget.WithLogger(loggerFromContext(r.Context())),
		widget.WithMeasurer(s.measure),
	)
	if err != nil {
		return nil, err
	}
	c.Render()
	return c, nil
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := loggerFromContext(ctx)

	format := r.URL.Query().Get("format")
	if format == "" {
		format = sink.FormatSVG
	}
	if !slices.Contains(sink.Formats, format) {
		writeError(w, r, ferrors.New(ferrors.ErrCodeUnsupported, "unsupported format %q", format))
		return
	}

	data, err := readChart(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	key := cache.Key(format, data)
	out, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("Cache read failed", "err", err)
	}
	if !hit {
		chart, err := s.layoutChart(r, data)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if out, err = sink.Render(ctx, chart, format); err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.cache.Set(ctx, key, out, s.ttl); err != nil {
			logger.Warn("Cache write failed", "err", err)
		}
	}

	contentType := "image/svg+xml"
	if format == sink.FormatJSON {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set(cacheHeader, cacheStatus(hit))
	_, _ = w.Write(out)
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

type hitResponse struct {
	Hit  bool   `json:"hit"`
	ID   int    `json:"id"`
	Type string `json:"type,omitempty"`
}

func (s *server) handleHitTest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		writeError(w, r, ferrors.New(ferrors.ErrCodeInvalidInput, "x and y query parameters must be numbers"))
		return
	}

	data, err := readChart(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	chart, err := s.layoutChart(r, data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var resp hitResponse
	if hit, ok := chart.HitTest(x, y); ok {
		resp = hitResponse{Hit: true, ID: hit.ID, Type: hit.Type}
	}
	writeJSON(w, http.StatusOK, resp)
}

type errorResponse struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		loggerFromContext(r.Context()).Error("Request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{
		Code:    string(ferrors.GetCode(err)),
		Field:   ferrors.Field(err),
		Message: ferrors.UserMessage(err),
	})
}

func statusFor(err error) int {
	if ferrors.IsInvalid(err) {
		return http.StatusBadRequest
	}
	switch ferrors.GetCode(err) {
	case ferrors.ErrCodeUnsupported:
		return http.StatusNotAcceptable
	case ferrors.ErrCodeNotFound, ferrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
