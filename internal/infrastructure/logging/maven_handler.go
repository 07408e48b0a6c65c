package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

const (
	ansiReset = "\033[0m"
	ansiDim   = "\033[90m"
)

// systemKey is lifted out of the attributes into the line prefix.
const systemKey = "system"

// levelStyles is ordered from most to least severe; a level takes the first
// style whose floor it reaches.
var levelStyles = []struct {
	floor slog.Level
	color string
}{
	{slog.LevelError, "\033[31m"},
	{slog.LevelWarn, "\033[33m"},
	{slog.LevelInfo, "\033[36m"},
	{slog.LevelDebug, ansiDim},
}

func styleFor(level slog.Level) string {
	for _, s := range levelStyles {
		if level >= s.floor {
			return s.color
		}
	}
	return ansiDim
}

// MavenHandler is a slog.Handler that writes one line per record:
//
//	[LEVEL] [SYSTEM] [HH:MM:SS] message key=value key=value
//
// Groups flatten into dotted keys, so an order logged as slog.Any("order", o)
// reads order.apple=2 order.banana=1.
type MavenHandler struct {
	out    *lockedWriter
	level  slog.Leveler
	color  bool
	clock  bool
	system string
	group  string // dotted group path, "" or ends with "."
	preset string // attrs from WithAttrs, already rendered
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) write(s string) error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	_, err := io.WriteString(lw.w, s)
	return err
}

// NewMavenHandler creates a handler writing to w. Colors are used only when
// w is a terminal.
func NewMavenHandler(w io.Writer, opts *slog.HandlerOptions) *MavenHandler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &MavenHandler{
		out:   &lockedWriter{w: w},
		level: level,
		color: isTerminal(w),
		clock: true,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (h *MavenHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle renders r and writes it in a single call.
func (h *MavenHandler) Handle(_ context.Context, r slog.Record) error {
	system := h.system
	var attrs strings.Builder
	attrs.WriteString(h.preset)
	r.Attrs(func(a slog.Attr) bool {
		if h.group == "" && a.Key == systemKey {
			system = a.Value.Resolve().String()
		} else {
			writeAttr(&attrs, h.group, a)
		}
		return true
	})

	var line strings.Builder
	h.paint(&line, styleFor(r.Level), "["+r.Level.String()+"]")
	if system != "" {
		line.WriteString(" [" + system + "]")
	}
	if h.clock && !r.Time.IsZero() {
		line.WriteByte(' ')
		h.paint(&line, ansiDim, "["+r.Time.Format(time.TimeOnly)+"]")
	}
	line.WriteByte(' ')
	line.WriteString(r.Message)
	line.WriteString(attrs.String())
	line.WriteByte('\n')

	return h.out.write(line.String())
}

func (h *MavenHandler) paint(b *strings.Builder, color, s string) {
	if !h.color {
		b.WriteString(s)
		return
	}
	b.WriteString(color + s + ansiReset)
}

// WithAttrs renders attrs once so later records only append them.
func (h *MavenHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	var b strings.Builder
	b.WriteString(h.preset)
	for _, a := range attrs {
		if h.group == "" && a.Key == systemKey {
			clone.system = a.Value.Resolve().String()
			continue
		}
		writeAttr(&b, h.group, a)
	}
	clone.preset = b.String()
	return &clone
}

func (h *MavenHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group += name + "."
	return &clone
}

// writeAttr writes " key=value", recursing into groups. Empty attrs and
// empty groups are dropped.
func writeAttr(b *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			group += a.Key + "."
		}
		for _, member := range a.Value.Group() {
			writeAttr(b, group, member)
		}
		return
	}
	b.WriteString(" " + group + a.Key + "=" + renderValue(a.Value))
}

func renderValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindTime:
		s = v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		s = v.Duration().String()
	default:
		s = fmt.Sprint(v.Any())
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
