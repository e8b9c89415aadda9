package hooks

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// A logrus hook appending every entry to a file
type File struct {
	mu   sync.Mutex
	file *os.File
}

func (hook *File) Fire(entry *logrus.Entry) error {
	serialized, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return err
	}
	hook.mu.Lock()
	defer hook.mu.Unlock()
	_, err = hook.file.Write(serialized)
	return err
}

// Returns the log levels support by this hook
func (hook *File) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Opens path for appending
func NewFileHook(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return &File{file: f}, nil
}
