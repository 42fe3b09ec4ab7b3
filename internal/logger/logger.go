package logger

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jwebster45206/ashfall/internal/config"
)

// ToFile builds a logger that appends to the named file, creating its
// directory if needed. Used by the console, where the TUI owns the
// terminal and stdout logging would corrupt the display. The caller
// closes the returned file.
func ToFile(cfg *config.Config, path string) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(newHandler(cfg, f)), f, nil
}

func newHandler(cfg *config.Config, w *os.File) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	if cfg.Environment == "production" {
		// JSON format for production
		return slog.NewJSONHandler(w, opts)
	}
	// Text format for development
	return slog.NewTextHandler(w, opts)
}
