// Package ncshlog provides the shell's structured debug logging.
//
// Mirrors opal-lang-opal's env-gated debug logger (runtime/lexer used
// log/slog behind DEVCMD_DEBUG_LEXER) but upgrades the sink to logrus so
// subsystem-tagged fields (tokenizer/resolver/discovery/setter) survive
// as structured data rather than being baked into a formatted string.
package ncshlog

import (
	"os"

	"github.com/sirupsen/logrus"
)

var base = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	if os.Getenv("NCSH_DEBUG") != "" {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// For returns a logger entry tagged with the given subsystem name, e.g.
// For("tokenizer"), For("resolver"), For("discovery"), For("setter").
func For(subsystem string) *logrus.Entry {
	return base.WithField("subsystem", subsystem)
}
