package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lockgraph/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Parsed npm lockfile (12ms)"
func (p *progress) done(msg string) {
	p.logger.Debugf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks reports parser and resolver events at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.ParseHooks   = (*logHooks)(nil)
	_ observability.ResolveHooks = (*logHooks)(nil)
)

func (h *logHooks) OnParseStart(_ context.Context, format, lockfile string) {
	h.logger.Debug("Parsing lockfile", "format", format, "file", lockfile)
}

func (h *logHooks) OnParseComplete(_ context.Context, format string, packages, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("Parsing failed", "format", format, "err", err)
		return
	}
	h.logger.Debug("Parsed lockfile", "format", format, "packages", packages, "edges", edges,
		"took", d.Round(time.Millisecond))
}

func (h *logHooks) OnPeerResolved(req observability.Request, rule string) {
	h.logger.Debug("Resolved peer", "from", req.From, "name", req.Name, "specifier", req.Specifier, "rule", rule)
}

func (h *logHooks) OnPeerUnresolved(req observability.Request, candidates int) {
	h.logger.Debug("Peer left unresolved", "from", req.From, "name", req.Name, "specifier", req.Specifier,
		"candidates", candidates)
}

func (h *logHooks) OnOptionalDropped(req observability.Request) {
	h.logger.Debug("Optional dependency not installed", "from", req.From, "name", req.Name, "kind", req.Kind)
}
