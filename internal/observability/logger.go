package observability

import (
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/couchcryptid/usgs-station-index/internal/config"
)

// NewLogger builds the run logger on w using cfg.LogLevel and cfg.LogFormat
// ("json" or "text"). Every entry carries a run_id unique to this process.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var h slog.Handler
	if strings.EqualFold(cfg.LogFormat, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With("run_id", uuid.NewString())
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
