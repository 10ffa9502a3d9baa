// Package logging builds the file-backed zap logger. The terminal
// belongs to the TUI, so everything goes to a log file instead of
// stdout.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing JSON lines to the given file, creating
// parent directories as needed. An empty path yields a no-op logger.
func New(path string) (*zap.Logger, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return zap.NewNop(), nil
	}

	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{trimmed}
	cfg.ErrorOutputPaths = []string{trimmed}

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log.Named("folio"), nil
}
