package cli

import (
	"context"
	"net/http"
	"time"

	"xrdpsink/audio"
	"xrdpsink/device"
	"xrdpsink/logger"
	"xrdpsink/metrics"
	"xrdpsink/run"
	"xrdpsink/sink"
	"xrdpsink/sockets/unix"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the sink, forwarding audio from a source to the consumer socket",
	Run: func(cmd *cobra.Command, args []string) {
		defer run.Recover()
		log := logger.Component("run")
		sc := sink.NewConfig()
		spec, _, err := sink.SpecFrom(sc)
		if err != nil {
			log.WithError(err).Error("invalid sink configuration")
			return
		}
		dc := device.NewConfig()
		src, err := audio.OpenSource(dc.Source(), spec)
		if err != nil {
			log.WithError(err).Error("unable to open audio source")
			return
		}
		dev := device.New(sc.Name(), spec, src, dc.MaxLatency())
		defer dev.Close()

		var m *metrics.Metrics
		if addr := metrics.Address(); addr != "" {
			reg := prometheus.NewRegistry()
			m = metrics.New(reg)
			srv := serveMetrics(addr, reg)
			defer shutdownMetrics(srv)
		}

		// Cancelled after the engine closed, an earlier cancel would count
		// as a failed wait
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		path := unix.NewConfig().Address()
		engine, err := sink.New(dev, sink.Options{
			Spec:       spec,
			SocketPath: path,
			Metrics:    m,
		})
		if err != nil {
			log.WithError(err).Error("unable to create sink")
			return
		}
		defer engine.Close()
		if err := engine.Start(ctx); err != nil {
			log.WithError(err).Error("unable to start sink")
			return
		}
		if usec := dc.Latency(); usec > 0 {
			dev.SetRequestedLatency(usec)
			engine.UpdateRequestedLatency()
		}
		engine.SetState(sink.Running)
		log.WithFields(logger.F{
			"sink":   sc.Name(),
			"spec":   spec.String(),
			"socket": path,
		}).Info("sink running")

		select {
		case sig := <-run.Quit():
			log.WithField("signal", sig.String()).Debug("received quit signal")
		case <-dev.Unload():
			log.Warn("sink unloaded")
		}
		engine.SetState(sink.Unlinked)
	},
}

func serveMetrics(addr string, g prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(g))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.WithField("address", addr).Info("serving metrics")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("metrics server failed")
		}
	}()
	return srv
}

// Stops the metrics server, waiting up to five seconds for open requests
func shutdownMetrics(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("metrics server shutdown failed")
		return err
	}
	return nil
}

func init() {
	runCmd.Flags().StringP("source", "s", "", "Audio source: silence, tone or a file path")
	viper.BindPFlag("device.source", runCmd.Flags().Lookup("source"))
	runCmd.Flags().String("socket", "", "Consumer socket name inside the socket directory")
	viper.BindPFlag("socket.name", runCmd.Flags().Lookup("socket"))
	runCmd.Flags().String("metrics", "", "Serve Prometheus metrics on this address")
	viper.BindPFlag("metrics.address", runCmd.Flags().Lookup("metrics"))
}
