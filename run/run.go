// Process lifecycle helpers

package run

import (
	"os"
	"os/signal"
	"syscall"

	"xrdpsink/logger"
)

// Signals that stop the process
var QuitSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
}

// os.Signal channel function, swapped in tests
var SigChanFunc = defaultSigChanFunc

func defaultSigChanFunc() chan os.Signal {
	return make(chan os.Signal, 1)
}

// Blocks until one of the signals is received, returns it
func UntilSignal(signals ...os.Signal) os.Signal {
	ch := SigChanFunc()
	signal.Notify(ch, signals...)
	defer signal.Stop(ch)
	return <-ch
}

// Blocks until a quit signal is received
func UntilQuit() os.Signal {
	return UntilSignal(QuitSignals...)
}

// Returns a channel receiving the first quit signal
func Quit() <-chan os.Signal {
	out := make(chan os.Signal, 1)
	go func() { out <- UntilQuit() }()
	return out
}

// Panic Recover
func Recover() {
	if r := recover(); r != nil {
		logger.Error("panic recovery: %v", r)
	}
}
