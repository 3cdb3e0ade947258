package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

const (
	colReset  = "\033[0m"
	colDim    = "\033[2m"
	colRed    = "\033[31m"
	colGreen  = "\033[32m"
	colYellow = "\033[33m"
)

// terminalHandler formats records as compact coloured lines:
//
//	15:04:05 INF backfill complete embedded=12 skipped=3
type terminalHandler struct {
	writer io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	mu     *sync.Mutex
}

func newTerminalHandler(w io.Writer, level slog.Leveler) *terminalHandler {
	return &terminalHandler{
		writer: w,
		level:  level,
		mu:     &sync.Mutex{},
	}
}

func (h *terminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *terminalHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	fmt.Fprintf(&buf, "%s%s%s ", colDim, ts.Format("15:04:05"), colReset)

	colour, label := levelStyle(r.Level)
	fmt.Fprintf(&buf, "%s%s%s %s", colour, label, colReset, r.Message)

	for _, a := range h.attrs {
		writeAttr(&buf, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&buf, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *terminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	combined := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	combined = append(combined, h.attrs...)
	combined = append(combined, attrs...)
	return &terminalHandler{
		writer: h.writer,
		level:  h.level,
		attrs:  combined,
		mu:     h.mu,
	}
}

// WithGroup is accepted but flattened: the pretty handler prints
// attribute keys without group prefixes.
func (h *terminalHandler) WithGroup(string) slog.Handler { return h }

func writeAttr(buf *bytes.Buffer, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	fmt.Fprintf(buf, " %s%s=%s%v", colDim, a.Key, colReset, a.Value.Resolve())
}

func levelStyle(level slog.Level) (colour, label string) {
	switch {
	case level >= slog.LevelError:
		return colRed, "ERR"
	case level >= slog.LevelWarn:
		return colYellow, "WRN"
	case level >= slog.LevelInfo:
		return colGreen, "INF"
	default:
		return colDim, "DBG"
	}
}
