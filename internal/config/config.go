// Package config loads the receiver's runtime configuration from YAML
// rather than hand-rolled flag parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the receiver's full runtime configuration. Learned
// frequency-error corrections are intentionally never part of this
// struct or persisted to disk: they live only in the in-memory
// hop.FreqErrorMemory for the lifetime of the process.
type Config struct {
	// SymbolLength is the demodulator symbol-length parameter L.
	SymbolLength int `yaml:"symbolLength"`

	// Device selects how IQ samples are sourced: "rtlsdr", "replay", or
	// "null".
	Device string `yaml:"device"`
	// ReplayFile is the recorded interleaved-IQ file path used when
	// Device == "replay".
	ReplayFile string `yaml:"replayFile"`
	// LoopReplay restarts replay playback when the file is exhausted.
	LoopReplay bool `yaml:"loopReplay"`

	// GainTenthDb is tuner gain in tenths of a dB; negative requests AGC.
	GainTenthDb int `yaml:"gainTenthDb"`
	// FreqCorrectionPPM is the crystal correction applied at the driver.
	FreqCorrectionPPM int `yaml:"freqCorrectionPpm"`

	// StationFilter, when non-empty, restricts decoded readings to these
	// station IDs (0-7). An empty filter accepts every station.
	StationFilter []int `yaml:"stationFilter"`

	// EarlyDuplicateThreshold is how much earlier than the expected hop
	// time a packet may arrive before the cadence loop treats it as a
	// duplicate/glitch rather than a genuine early hop.
	EarlyDuplicateThreshold time.Duration `yaml:"earlyDuplicateThreshold"`

	// HTTPAddr, if set, serves the WebSocket reading stream at /ws.
	HTTPAddr string `yaml:"httpAddr"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"logLevel"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		SymbolLength:            14,
		Device:                  "rtlsdr",
		GainTenthDb:             -1,
		EarlyDuplicateThreshold: -500 * time.Millisecond,
		LogLevel:                "info",
	}
}

// Load reads and parses a YAML configuration file, filling unset fields
// from Default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.SymbolLength <= 0 {
		return Config{}, fmt.Errorf("config: symbolLength must be positive, got %d", cfg.SymbolLength)
	}
	return cfg, nil
}

// StationAllowed reports whether a station ID passes the configured
// filter.
func (c Config) StationAllowed(stationID int) bool {
	if len(c.StationFilter) == 0 {
		return true
	}
	for _, id := range c.StationFilter {
		if id == stationID {
			return true
		}
	}
	return false
}
