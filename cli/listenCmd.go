package cli

import (
	"errors"
	"time"

	"xrdpsink/audio"
	"xrdpsink/buffer"
	"xrdpsink/frame"
	"xrdpsink/logger"
	"xrdpsink/run"
	"xrdpsink/sink"
	"xrdpsink/sockets/unix"

	"github.com/spf13/cobra"
)

var (
	listenCmdOutput string
	listenCmdSpool  int64
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Listen on the sink socket and play received audio, like the channel server",
	Run: func(cmd *cobra.Command, args []string) {
		defer run.Recover()
		log := logger.Component("listen")
		spec, _, err := sink.SpecFrom(sink.NewConfig())
		if err != nil {
			log.WithError(err).Error("invalid sink configuration")
			return
		}
		out, err := audio.OpenOutput(listenCmdOutput, spec)
		if err != nil {
			log.WithError(err).Error("unable to open audio output")
			return
		}
		defer out.Close()
		spool, err := buffer.NewSpool(listenCmdSpool)
		if err != nil {
			log.WithError(err).Error("unable to create spool")
			return
		}
		defer spool.Close()

		player := audio.NewPlayer(spool, out, spec, 10*time.Millisecond)
		player.Play()
		defer player.Close()

		srv := unix.NewServer(unix.NewConfig())
		go func() {
			if err := srv.Listen(); err != nil && !errors.Is(err, unix.ErrServerClosed) {
				log.WithError(err).Error("socket server failed")
			}
		}()

		doneC := make(chan bool)
		go func() {
			defer close(doneC)
			consume(srv.Frames(), spool, player)
		}()
		sig := run.UntilQuit()
		log.WithField("signal", sig.String()).Debug("received quit signal")
		srv.Close()
		<-doneC
	},
}

// Pausable playback
type pauser interface {
	Stop()
	Resume()
}

// Spools received audio until the frame channel closes. Playback pauses on
// a CLOSE frame and resumes with the next DATA frame.
func consume(frames <-chan unix.Frame, spool *buffer.Spool, p pauser) {
	paused := false
	for f := range frames {
		log := logger.Component("listen").WithField("client", f.ClientID)
		switch f.Header.Code {
		case frame.Data:
			spool.Write(f.Payload)
			if paused {
				log.Info("stream resumed by producer")
				p.Resume()
				paused = false
			}
			log.WithField("bytes", len(f.Payload)).Trace("audio received")
		case frame.Close:
			log.WithField("dropped", spool.Dropped()).Info("stream closed by producer")
			spool.Reset()
			if !paused {
				p.Stop()
				paused = true
			}
		}
	}
}

func init() {
	listenCmd.Flags().StringVarP(
		&listenCmdOutput,
		"output",
		"o",
		"discard",
		"Audio output, kind[:target] (file:-, file:/path, discard, pulse, portaudio[:device])")
	listenCmd.Flags().Int64Var(
		&listenCmdSpool,
		"spool",
		1<<20,
		"Spool size in bytes")
}
