package logging

import (
	"log/slog"
	"os"
)

// Setup initializes the global slog logger with JSON output to stdout,
// fanning out to any extra handlers. Attrs stored with ContextWith are
// added to records logged through the *Context functions.
func Setup(extra ...slog.Handler) {
	stdout := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(NewMultiHandler(append([]slog.Handler{stdout}, extra...)...)))
}
