package friendzone

import (
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/ryanhamamura/friendzone/spawner"
)

func ptr(l zerolog.Level) *zerolog.Level { return &l }

var (
	LogLevelDebug = ptr(zerolog.DebugLevel)
	LogLevelInfo  = ptr(zerolog.InfoLevel)
	LogLevelWarn  = ptr(zerolog.WarnLevel)
	LogLevelError = ptr(zerolog.ErrorLevel)
)

// Plugin is a func that can mutate the given *App. It is useful to add
// stylesheets, scripts or extra routes.
type Plugin func(a *App)

// Options defines configuration options for the friend zone application.
type Options struct {
	// DevMode switches logging to a human readable console writer.
	DevMode bool

	// The http server address. e.g. ':3000'
	ServerAddress string

	// LogLevel sets the minimum log level. nil keeps the default (Info).
	LogLevel *zerolog.Level

	// Logger overrides the default logger entirely. When set, LogLevel and
	// DevMode have no effect on logging.
	Logger *zerolog.Logger

	// The title of the HTML documents.
	DocumentTitle string

	// Plugins to extend the application.
	Plugins []Plugin

	// SessionManager replaces the default in-memory scs session manager.
	// Use NewSQLiteSessionManager for sessions that survive restarts.
	SessionManager *scs.SessionManager

	// SessionLifetime sets the absolute lifetime of a session. Zero keeps the
	// session manager's own setting.
	SessionLifetime time.Duration

	// PubSub receives a FriendAdded event for every counted submission.
	// Use fznats.New() for an embedded NATS backend.
	PubSub PubSub

	// AddRateLimit limits qualifying submissions per session. Limiting is
	// off by default; setting Rate or Burst turns it on, with the other field
	// falling back to its default. A Rate of -1 turns it off again.
	AddRateLimit RateLimitConfig

	// LimiterTTL is how long an idle session limiter is kept. Defaults to 10
	// minutes, a negative value disables reaping.
	LimiterTTL time.Duration

	// Screen is the area used to place the server rendered fallback markers.
	Screen spawner.Screen

	// MaxFallbackMarkers caps the markers rendered on the server. The browser
	// script is not capped.
	MaxFallbackMarkers int

	// DatastarScriptURL is where the Datastar client is loaded from.
	DatastarScriptURL string

	// TracerProvider overrides the global OpenTelemetry tracer provider.
	TracerProvider trace.TracerProvider
}
