// Command scsimon opens a Bus in Monitor mode and continuously captures
// samples into a bounded, deduplicated buffer, dumping the result to a
// VCD, JSON trace, or HTML report on exit — optionally serving the
// capture buffer's fill level as Prometheus metrics while it runs.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"devicecode-go/board"
	"devicecode-go/monitor"
	"devicecode-go/scsibus"
)

func main() {
	connType := flag.String("board", "v", "board connection type: a|f|g|s|v (Aibom/Fullspec/Gamernium/Standard/Virtual)")
	vbusName := flag.String("vbus", "", "virtual bus shared-memory segment name (virtual board only)")
	capacity := flag.Int("capacity", 1<<20, "capture buffer capacity, in samples")
	out := flag.String("out", "capture.vcd", "trace output path; extension selects the format (.vcd, .json, .html)")
	metricsAddr := flag.String("metrics", "", "address to serve Prometheus metrics on, e.g. :9400 (disabled if empty)")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	tag := board.Parse(*connType)
	if tag == board.Invalid {
		log.Fatal().Str("board", *connType).Msg("unrecognised board connection type")
	}

	bus, err := scsibus.Open(scsibus.Monitor, tag, *vbusName)
	if err != nil {
		log.Fatal().Err(err).Msg("opening bus in monitor mode")
	}
	defer bus.Cleanup()

	log.Info().Str("board", tag.String()).Int("capacity", *capacity).Str("out", *out).Msg("scsimon starting")

	buf := monitor.NewBuffer(*capacity)

	if *metricsAddr != "" {
		collector := monitor.NewCollector(buf)
		go func() {
			if err := monitor.ServeMetrics(*metricsAddr, collector); err != nil {
				log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
		log.Info().Str("addr", *metricsAddr).Msg("serving Prometheus metrics")
	}

	stop := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGHUP, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("signal received, stopping capture")
		close(stop)
	}()

	if err := monitor.Run(bus, buf, stop); err != nil {
		log.Fatal().Err(err).Msg("capture loop failed")
	}

	if err := writeReport(buf, *out); err != nil {
		log.Fatal().Err(err).Msg("writing report")
	}
	log.Info().Int("samples", buf.Len()).Uint64("dropped", buf.Dropped()).Str("out", *out).Msg("scsimon done")
}

func writeReport(buf *monitor.Buffer, path string) error {
	samples := buf.Samples()

	var body string
	switch ext(path) {
	case "json":
		body = monitor.WriteJSON(samples)
	case "html":
		body = monitor.WriteHTML(samples)
	default:
		body = monitor.WriteVCD(samples, time.Now().Format("Mon Jan 2 15:04:05 2006"))
	}

	return os.WriteFile(path, []byte(body), 0o644)
}

func ext(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[i+1:]
		}
	}
	return ""
}
