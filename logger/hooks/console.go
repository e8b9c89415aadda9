// Logrus hooks for the sink logger

package hooks

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Writes warnings and errors to stderr, everything else to stdout, so
// stdout stays clean for a consumer piping audio elsewhere
type Console struct {
	stdout    io.Writer
	stderr    io.Writer
	threshold logrus.Level
}

func (hook *Console) Fire(entry *logrus.Entry) error {
	serialized, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return err
	}
	w := hook.stdout
	if entry.Level <= hook.threshold {
		w = hook.stderr
	}
	_, err = w.Write(serialized)
	return err
}

// Returns the log levels support by this hook
func (hook *Console) Levels() []logrus.Level {
	return logrus.AllLevels
}

func newConsole(stdout, stderr io.Writer) *Console {
	return &Console{
		stdout:    stdout,
		stderr:    stderr,
		threshold: logrus.WarnLevel,
	}
}

func NewConsoleHook() *Console {
	return newConsole(os.Stdout, os.Stderr)
}
