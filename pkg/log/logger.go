package log

import (
	"log/slog"
	"os"
)

// New returns the default JSON logger at info level, tagged with the
// service's identity
func New(service, env, version string) *slog.Logger {
	return NewWithLevel(service, env, version, slog.LevelInfo)
}

// NewWithLevel returns a JSON logger writing to stdout at the given level.
// Every record carries service, env, and version attributes so log lines
// from different deployments stay distinguishable when aggregated
func NewWithLevel(
	service, env, version string, level slog.Level,
) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}).WithAttrs([]slog.Attr{
		slog.String("service", service),
		slog.String("env", env),
		slog.String("version", version),
	})
	return slog.New(handler)
}
