// Command scsiloop drives an external loopback adapter through its known
// pin pairing, checking that the signal wiring and data bus both round-
// trip correctly, and sanity-checks the System Timer against wall time.
// With -interactive it instead hands the bus to an operator console for
// manual pin poking during bring-up.
package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"devicecode-go/board"
	"devicecode-go/loopback"
	"devicecode-go/systimer"
)

func main() {
	connType := flag.String("board", "f", "board connection type: a|f|g|s|v (Aibom/Fullspec/Gamernium/Standard/Virtual)")
	vbusName := flag.String("vbus", "", "virtual bus shared-memory segment name (virtual board only)")
	interactive := flag.Bool("interactive", false, "drop into an interactive console instead of running the automated sweep")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	tag := board.Parse(*connType)
	if tag == board.Invalid {
		log.Fatal().Str("board", *connType).Msg("unrecognised board connection type")
	}

	pins, desc, err := loopback.OpenBackend(tag, *vbusName)
	if err != nil {
		log.Fatal().Err(err).Msg("opening pin backend")
	}

	log.Info().Str("board", tag.String()).Msg("scsiloop starting")

	tester := loopback.NewTester(pins, desc)
	defer tester.Cleanup()

	if *interactive {
		console := loopback.NewConsole(tester, os.Stdout)
		if err := console.Run(os.Stdin); err != nil {
			log.Fatal().Err(err).Msg("console session ended abnormally")
		}
		return
	}

	var failures int

	log.Info().Msg("running loopback connection sweep")
	for _, msg := range tester.RunLoopbackTest() {
		log.Error().Msg(msg)
		failures++
	}

	log.Info().Msg("running data input sweep")
	for _, msg := range tester.RunDataInputTest() {
		log.Error().Msg(msg)
		failures++
	}

	log.Info().Msg("running data output sweep")
	for _, msg := range tester.RunDataOutputTest() {
		log.Error().Msg(msg)
		failures++
	}

	log.Info().Msg("running timer sweep")
	for _, msg := range loopback.RunTimerTest(systimer.NewHostClock()) {
		log.Error().Msg(msg)
		failures++
	}

	if failures > 0 {
		log.Fatal().Int("failures", failures).Msg("scsiloop found faults")
	}
	log.Info().Msg("scsiloop: all tests passed")
}
