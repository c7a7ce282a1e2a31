// Package friendzone serves the friend zone demo: a page that counts, per
// browser session, how many times "Add friend" was pressed, and a script that
// scatters that many friends over the screen.
//
// The session counter lives on the server behind scs. The marker count is read
// by the browser from the "friends" cookie, which only the cookie variant of
// the page writes. The two numbers are not wired together.
package friendzone

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ryanhamamura/friendzone/h"
	"github.com/ryanhamamura/friendzone/spawner"
)

const (
	defaultDatastarScriptURL  = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"
	defaultMaxFallbackMarkers = 500

	tracerName = "github.com/ryanhamamura/friendzone"
)

// App is the root application.
// It owns routing, the session manager and the friend counter.
type App struct {
	cfg                  Options
	mux                  *http.ServeMux
	server               *http.Server
	logger               zerolog.Logger
	documentHeadIncludes []h.H
	documentFootIncludes []h.H
	sessionManager       *scs.SessionManager
	counter              *CounterService
	pubsub               PubSub
	limiters             *limiterRegistry
	tracer               trace.Tracer
	reaperStop           chan struct{}
	reaperOnce           sync.Once
}

type requestIDKey struct{}

func requestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (a *App) logEvent(evt *zerolog.Event, ctx context.Context) *zerolog.Event {
	if id := requestID(ctx); id != "" {
		evt = evt.Str("fz-req", id)
	}
	return evt
}

func (a *App) logErr(ctx context.Context, format string, args ...any) {
	a.logEvent(a.logger.Error(), ctx).Msgf(format, args...)
}

func (a *App) logWarn(ctx context.Context, format string, args ...any) {
	a.logEvent(a.logger.Warn(), ctx).Msgf(format, args...)
}

func (a *App) logInfo(ctx context.Context, format string, args ...any) {
	a.logEvent(a.logger.Info(), ctx).Msgf(format, args...)
}

func (a *App) logDebug(ctx context.Context, format string, args ...any) {
	a.logEvent(a.logger.Debug(), ctx).Msgf(format, args...)
}

func newConsoleLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger().Level(level)
}

// Config overrides the default configuration with the given options.
func (a *App) Config(cfg Options) {
	if cfg.Logger != nil {
		a.logger = *cfg.Logger
	} else if cfg.LogLevel != nil || cfg.DevMode != a.cfg.DevMode {
		level := zerolog.InfoLevel
		if cfg.LogLevel != nil {
			level = *cfg.LogLevel
		}
		if cfg.DevMode {
			a.logger = newConsoleLogger(level)
		} else {
			a.logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)
		}
	}
	if cfg.DocumentTitle != "" {
		a.cfg.DocumentTitle = cfg.DocumentTitle
	}
	if cfg.DevMode != a.cfg.DevMode {
		a.cfg.DevMode = cfg.DevMode
	}
	if cfg.ServerAddress != "" {
		a.cfg.ServerAddress = cfg.ServerAddress
	}
	if cfg.SessionManager != nil {
		a.sessionManager = cfg.SessionManager
	}
	if cfg.SessionLifetime != 0 && a.sessionManager != nil {
		a.sessionManager.Lifetime = cfg.SessionLifetime
	}
	if cfg.PubSub != nil {
		a.pubsub = cfg.PubSub
	}
	if cfg.AddRateLimit.Rate != 0 || cfg.AddRateLimit.Burst != 0 {
		a.cfg.AddRateLimit = cfg.AddRateLimit
		a.limiters = newLimiterRegistry(cfg.AddRateLimit)
	}
	if cfg.LimiterTTL != 0 {
		a.cfg.LimiterTTL = cfg.LimiterTTL
	}
	if cfg.Screen.Width > 0 && cfg.Screen.Height > 0 {
		a.cfg.Screen = cfg.Screen
	}
	if cfg.MaxFallbackMarkers != 0 {
		a.cfg.MaxFallbackMarkers = cfg.MaxFallbackMarkers
	}
	if cfg.DatastarScriptURL != "" {
		a.cfg.DatastarScriptURL = cfg.DatastarScriptURL
	}
	if cfg.TracerProvider != nil {
		a.tracer = cfg.TracerProvider.Tracer(tracerName)
	}
	for _, plugin := range cfg.Plugins {
		if plugin != nil {
			plugin(a)
		}
	}
}

// Logger returns the application logger.
func (a *App) Logger() zerolog.Logger {
	return a.logger
}

// AppendToHead appends the given nodes to the head of every page.
// Useful for including css stylesheets and JS scripts.
func (a *App) AppendToHead(elements ...h.H) {
	for _, el := range elements {
		if el != nil {
			a.documentHeadIncludes = append(a.documentHeadIncludes, el)
		}
	}
}

// AppendToFoot appends the given nodes to the end of every page body.
func (a *App) AppendToFoot(elements ...h.H) {
	for _, el := range elements {
		if el != nil {
			a.documentFootIncludes = append(a.documentFootIncludes, el)
		}
	}
}

// HTTPServeMux returns the underlying HTTP request multiplexer so plugins can
// register extra routes.
//
// IMPORTANT. The returned *http.ServeMux can only be modified during
// initialization, before calling Run.
func (a *App) HTTPServeMux() *http.ServeMux {
	return a.mux
}

// Handler returns the full handler chain: request ids, then session
// load/save, then the routes.
func (a *App) Handler() http.Handler {
	handler := http.Handler(a.mux)
	if a.sessionManager != nil {
		a.sessionManager.ErrorFunc = a.sessionError
		handler = a.sessionManager.LoadAndSave(handler)
	}
	return a.withRequestID(handler)
}

func (a *App) sessionError(w http.ResponseWriter, r *http.Request, err error) {
	a.logErr(r.Context(), "session store: %v", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (a *App) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		a.logDebug(ctx, "%s %s", r.Method, r.URL.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *App) startReaper() {
	ttl := a.cfg.LimiterTTL
	if ttl < 0 || a.limiters == nil {
		return
	}
	if ttl == 0 {
		ttl = defaultLimiterTTL
	}
	interval := ttl / 3
	if interval < 5*time.Second {
		interval = 5 * time.Second
	}
	a.reaperStop = make(chan struct{})
	go func(stop <-chan struct{}) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				if n := a.limiters.reap(ttl, now); n > 0 {
					a.logDebug(context.Background(), "reaped %d idle session limiter(s)", n)
				}
			}
		}
	}(a.reaperStop)
}

func (a *App) stopReaper() {
	a.reaperOnce.Do(func() {
		if a.reaperStop != nil {
			close(a.reaperStop)
		}
	})
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	a.server = &http.Server{
		Addr:              a.cfg.ServerAddress,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	a.startReaper()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.ListenAndServe()
	}()

	a.logInfo(context.Background(), "friendzone started at [%s]", a.cfg.ServerAddress)

	select {
	case <-ctx.Done():
		a.logInfo(context.Background(), "received %v, shutting down", context.Cause(ctx))
	case err := <-errCh:
		a.stopReaper()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	a.shutdown()
	return nil
}

// Shutdown gracefully shuts down the server and the pubsub backend.
// Safe for programmatic or test use.
func (a *App) Shutdown() {
	a.shutdown()
}

func (a *App) shutdown() {
	a.stopReaper()

	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.server.Shutdown(ctx); err != nil {
			a.logErr(context.Background(), "http server shutdown error: %v", err)
		}
	}

	if a.pubsub != nil {
		if err := a.pubsub.Close(); err != nil {
			a.logErr(context.Background(), "pubsub close error: %v", err)
		}
	}

	a.logInfo(context.Background(), "shutdown complete")
}

// New creates a new *App with default configuration and all routes registered.
func New() *App {
	a := &App{
		mux:            http.NewServeMux(),
		logger:         newConsoleLogger(zerolog.InfoLevel),
		sessionManager: scs.New(),
		counter:        NewCounterService(),
		tracer:         otel.Tracer(tracerName),
		cfg: Options{
			ServerAddress:      ":3000",
			DocumentTitle:      "friends",
			Screen:             spawner.Screen{Width: 1280, Height: 720},
			MaxFallbackMarkers: defaultMaxFallbackMarkers,
			DatastarScriptURL:  defaultDatastarScriptURL,
		},
	}

	a.mux.HandleFunc("GET /{$}", a.handleLanding)
	a.mux.HandleFunc("GET /friend_zone", a.handleCounter)
	a.mux.HandleFunc("POST /friend_zone", a.handleCounter)
	a.mux.HandleFunc("POST /friend_zone/live", a.handleLiveAdd)
	a.mux.HandleFunc("GET /friend_zone/cookie", a.handleCookieCounter)
	a.mux.HandleFunc("POST /friend_zone/cookie", a.handleCookieCounter)
	a.StaticFS("/assets/", assets())

	return a
}
