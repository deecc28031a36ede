package commands

import (
	"io"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sdpower/cchistory/internal/config"
	"github.com/sdpower/cchistory/internal/output"
	"github.com/sirupsen/logrus"
)

func newLogger(w io.Writer, debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// resolveFormat picks the flag over the config value. The interactive
// browser needs a terminal, so it falls back to the table otherwise.
func resolveFormat(flag, configured string, out io.Writer) string {
	format := strings.ToLower(strings.TrimSpace(flag))
	if format == "" {
		format = strings.ToLower(strings.TrimSpace(configured))
	}
	if format == "" {
		format = config.DefaultFormat
	}
	if format == config.DefaultFormat && !isTerminal(out) {
		return output.FormatTable
	}
	return format
}

// writerFd is satisfied by *os.File.
type writerFd interface {
	io.Writer
	Fd() uintptr
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(writerFd)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
