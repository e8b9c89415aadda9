// Build information set at link time, for example:
//   -ldflags "-X xrdpsink/build.version=abcdefg -X xrdpsink/build.timestamp=1482510310"

package build

import (
	"errors"
	"runtime"
	"strconv"
	"time"
)

var (
	version   string
	timestamp string
)

// Errors returned by Time()
var (
	ErrBlankTimestamp   = errors.New("build timestamp not set")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

// Returns the version string
func Version() string {
	return orNA(version)
}

// Returns the build time, errors when it was not set at link time
func Time() (time.Time, error) {
	if timestamp == "" {
		return time.Time{}, ErrBlankTimestamp
	}
	i, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return time.Time{}, ErrInvalidTimestamp
	}
	return time.Unix(i, 0).UTC(), nil
}

// Returns the build time formatted, or n/a
func TimeStr() string {
	t, err := Time()
	if err != nil {
		return "n/a"
	}
	return t.Format("Monday January 2 2006 at 15:04:05 MST")
}

// Target operating system
func OS() string {
	return runtime.GOOS
}

// Target architecture
func Architecture() string {
	return runtime.GOARCH
}
