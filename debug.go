package pressable

import (
	"log/slog"
	"os"
)

// SetDebugMode enables or disables debug mode. When enabled, gesture
// transitions, timer activity and dropped events are logged at debug level,
// to stderr unless a logger was set with SetLogger.
func (p *Pressable) SetDebugMode(enabled bool) {
	p.debug = enabled
	p.applyLogger()
}

// SetLogger sets the logger used in debug mode. Nil restores the stderr
// default.
func (p *Pressable) SetLogger(l *slog.Logger) {
	p.logger = l
	p.applyLogger()
}

func (p *Pressable) applyLogger() {
	if !p.debug {
		p.gesture.SetLogger(nil)
		return
	}
	l := p.logger
	if l == nil {
		l = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	p.gesture.SetLogger(l.With("pressable", p.Name))
}
