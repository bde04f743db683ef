package testutil

import (
	"bytes"
	"io"
	"log/slog"
	"sync"

	"github.com/dtroode/obituary-server/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return &logger.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))}
}

// RecordingLogger captures log output so tests can assert on emitted records.
type RecordingLogger struct {
	*logger.Logger
	mu  sync.Mutex
	buf bytes.Buffer
}

// MakeRecordingLogger returns a debug-level logger that records every line.
func MakeRecordingLogger() *RecordingLogger {
	r := &RecordingLogger{}
	r.Logger = logger.NewWithWriter(lockedWriter{r}, int(slog.LevelDebug))
	return r
}

// Output returns everything logged so far.
func (r *RecordingLogger) Output() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

type lockedWriter struct{ r *RecordingLogger }

func (w lockedWriter) Write(p []byte) (int, error) {
	w.r.mu.Lock()
	defer w.r.mu.Unlock()
	return w.r.buf.Write(p)
}
