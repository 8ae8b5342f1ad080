// Command scsisim is the virtual bus simulator: it is ordinarily the
// first process to bind the named shared-memory segment, making it
// primary, and holds a Target- or Initiator-mode Bus (Target by default)
// open on it so device emulators,
// the monitor, and integration tests can all exercise the same virtual
// bus without real SCSI hardware. It does nothing on its own beyond
// idling the bus at reset and unlinking the segment on shutdown.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"devicecode-go/pinio/vbus"
	"devicecode-go/scsibus"
)

func main() {
	mode := flag.String("mode", "target", "bus mode to hold: target|initiator")
	vbusName := flag.String("vbus", "scsibus-virtual", "virtual bus shared-memory segment name")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	busMode, ok := parseMode(*mode)
	if !ok {
		log.Fatal().Str("mode", *mode).Msg("mode must be target or initiator")
	}

	bus, err := scsibus.OpenVirtual(busMode, *vbusName)
	if err != nil {
		log.Fatal().Err(err).Msg("opening virtual bus")
	}

	log.Info().Str("vbus", *vbusName).Bool("primary", bus.IsPrimary()).Str("mode", *mode).Msg("scsisim starting")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGHUP, syscall.SIGTERM)
	<-sig

	log.Info().Msg("signal received, shutting down")
	bus.Reset()
	bus.Cleanup()

	if bus.IsPrimary() {
		if err := vbus.Unlink(*vbusName); err != nil {
			log.Error().Err(err).Msg("unlinking virtual bus segment")
		}
	}
}

func parseMode(s string) (scsibus.Mode, bool) {
	switch s {
	case "target":
		return scsibus.Target, true
	case "initiator":
		return scsibus.Initiator, true
	default:
		return 0, false
	}
}
