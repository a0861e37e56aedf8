// Command rtldavis receives and decodes Davis Instruments ISS
// weather-station transmissions with an RTL-SDR dongle (or a recorded IQ
// file in --replay mode) and publishes decoded readings on an event bus,
// streaming them as JSON over a WebSocket when an HTTP address is set.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/coredavis/rtldavis/internal/config"
	"github.com/coredavis/rtldavis/internal/decode"
	"github.com/coredavis/rtldavis/internal/dsp"
	"github.com/coredavis/rtldavis/internal/events"
	"github.com/coredavis/rtldavis/internal/frame"
	"github.com/coredavis/rtldavis/internal/hop"
	"github.com/coredavis/rtldavis/internal/sdr"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	replayFile := flag.String("replay", "", "replay a recorded IQ file instead of opening an RTL-SDR dongle")
	httpAddr := flag.String("http", "", "serve decoded readings over WebSocket at this address")
	flag.Parse()

	logger := charmlog.New(os.Stderr)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Fatal("load config", "err", err)
		}
		cfg = loaded
	}
	if *replayFile != "" {
		cfg.Device = "replay"
		cfg.ReplayFile = *replayFile
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	logger.SetLevel(parseLevel(cfg.LogLevel))

	driver, err := buildDriver(cfg)
	if err != nil {
		logger.Fatal("build driver", "err", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	if err := run(ctx, cfg, driver, logger); err != nil {
		logger.Fatal("receiver stopped", "err", err)
	}
}

func run(ctx context.Context, cfg config.Config, driver sdr.Driver, logger *charmlog.Logger) error {
	defer driver.Close()

	packetCfg, err := dsp.NewPacketConfig(cfg.SymbolLength)
	if err != nil {
		return fmt.Errorf("packet config: %w", err)
	}

	if err := driver.SetSampleRate(packetCfg.SampleRate); err != nil {
		return fmt.Errorf("set sample rate: %w", err)
	}
	if err := driver.SetGain(cfg.GainTenthDb); err != nil {
		return fmt.Errorf("set gain: %w", err)
	}
	if err := driver.SetFreqCorrection(cfg.FreqCorrectionPPM); err != nil {
		return fmt.Errorf("set freq correction: %w", err)
	}

	demod := dsp.NewDemodulator(packetCfg)
	dispatcher := decode.NewDispatcher()
	bus := events.NewBus(logger)

	freqMem := hop.NewFreqErrorMemory()
	controller := hop.NewController(sdr.TunerAdapter{Driver: driver}, freqMem, logger)
	controller.EarlyDuplicateThreshold = cfg.EarlyDuplicateThreshold

	var srv *httpServer
	if cfg.HTTPAddr != "" {
		srv = startHTTPServer(cfg.HTTPAddr, bus, logger)
		defer srv.Shutdown(ctx)
	}

	if err := driver.StartStream(ctx); err != nil {
		return fmt.Errorf("start stream: %w", err)
	}

	hopErrCh := make(chan error, 1)
	go func() { hopErrCh <- controller.Run(ctx) }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-hopErrCh:
			if err != nil {
				return fmt.Errorf("hop controller: %w", err)
			}
			return nil
		case block, ok := <-driver.Samples():
			if !ok {
				return nil
			}
			indices, err := demod.Process(block)
			if err != nil {
				logger.Warn("demod process", "err", err)
				continue
			}
			for _, d := range frame.Extract(demod, indices, logger) {
				handleFrame(d, cfg, dispatcher, controller, bus, logger)
			}
		}
	}
}

func handleFrame(d frame.Decoded, cfg config.Config, dispatcher *decode.Dispatcher, controller *hop.Controller, bus *events.Bus, logger *charmlog.Logger) {
	var payload [8]byte
	copy(payload[:], d.Data[2:10])

	sensorNibble := payload[0] >> 4
	stationID := int(payload[0] & 0x07)

	controller.NotifyPacket(hop.Event{TransmitterID: stationID, FreqErrHz: d.FreqErrHz})

	if !cfg.StationAllowed(stationID) {
		return
	}

	common := decode.ParseCommon(payload)
	value, _ := dispatcher.Decode(sensorNibble, stationID, payload)

	bus.Publish(events.Reading{
		Time:         time.Now(),
		StationID:    stationID,
		SensorNibble: sensorNibble,
		WindSpeedMPH: common.WindSpeedMPH,
		WindDirDeg:   common.WindDirDeg,
		Value:        value,
		RSSIDb:       d.RSSIDb,
		SNRDb:        d.SNRDb,
		FreqErrHz:    d.FreqErrHz,
	})
}

func buildDriver(cfg config.Config) (sdr.Driver, error) {
	switch cfg.Device {
	case "replay":
		data, err := os.ReadFile(cfg.ReplayFile)
		if err != nil {
			return nil, fmt.Errorf("read replay file: %w", err)
		}
		d := sdr.NewReplayDriver(data)
		d.LoopPlayback = cfg.LoopReplay
		return d, nil
	case "null":
		return sdr.NewNullDriver(), nil
	default:
		return nil, fmt.Errorf("unsupported device %q: the rtl-sdr hardware backend is not wired into this build; use --replay or device: null", cfg.Device)
	}
}

func parseLevel(level string) charmlog.Level {
	switch level {
	case "debug":
		return charmlog.DebugLevel
	case "warn":
		return charmlog.WarnLevel
	case "error":
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}
