// Package events carries decoded sensor readings from the receive pipeline
// to subscribers: a process-local fan-out bus and an optional WebSocket
// broadcast for live dashboards.
package events

import (
	"time"

	"github.com/coredavis/rtldavis/internal/decode"
)

// Reading is one decoded, link-quality-annotated sensor report.
type Reading struct {
	Seq          uint64      `json:"seq"`
	Time         time.Time   `json:"time"`
	StationID    int         `json:"stationId"`
	SensorNibble byte        `json:"sensorNibble"`
	WindSpeedMPH byte        `json:"windSpeedMph"`
	WindDirDeg   int         `json:"windDirDeg"`
	Value        decode.Value `json:"value"`
	RSSIDb       float64     `json:"rssiDb"`
	SNRDb        float64     `json:"snrDb"`
	FreqErrHz    int         `json:"freqErrHz"`
}
