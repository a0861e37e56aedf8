package decode

import "sync"

// rainTotalState tracks the per-(station) rain-bucket click counter across
// frames so the dispatcher can detect and skip wraparounds instead of
// folding a spurious negative delta into the cumulative total.
type rainTotalState struct {
	haveLast  bool
	lastClick byte
	total     float64
}

// clicksToInches is the Davis rain-bucket resolution: 0.01 inch per tip.
const clicksToInches = 0.01

func (s *rainTotalState) update(clicks byte) Value {
	if s.haveLast && clicks < s.lastClick {
		// Rollover: the counter wrapped (128 clicks). The anomalous
		// negative delta is not added to the cumulative total.
		s.lastClick = clicks
		return Value{Kind: KindRainTotal, Float: s.total}
	}
	if s.haveLast {
		s.total += float64(clicks-s.lastClick) * clicksToInches
	}
	s.lastClick = clicks
	s.haveLast = true
	return Value{Kind: KindRainTotal, Float: s.total}
}

// Dispatcher owns the fixed sensor-nibble dispatch table plus the
// per-station stateful rain-total counters. The rest of the table is pure
// functions; Dispatcher itself holds no other mutable state.
type Dispatcher struct {
	mu   sync.Mutex
	rain map[int]*rainTotalState
}

// NewDispatcher returns a ready-to-use Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{rain: make(map[int]*rainTotalState)}
}

// Decode looks up the decoder for sensorNibble and invokes it against
// payload. ok is false for an unrecognised nibble; the caller still counts
// the frame as a sync event and may record the raw nibble.
func (d *Dispatcher) Decode(sensorNibble byte, stationID int, payload [8]byte) (Value, bool) {
	switch sensorNibble {
	case NibbleSupercapVoltage:
		return decodeSupercap(payload), true
	case NibbleUVIndex:
		return decodeUVIndex(payload), true
	case NibbleRainRate:
		return decodeRainRate(payload), true
	case NibbleSolarRadiation:
		return decodeSolarRadiation(payload), true
	case NibbleLight:
		return decodeLight(payload), true
	case NibbleTemperature:
		return decodeTemperature(payload), true
	case NibbleWindGust:
		return decodeWindGust(payload), true
	case NibbleHumidity:
		return decodeHumidity(payload), true
	case NibbleRainTotal:
		return d.decodeRainTotal(stationID, payload), true
	default:
		return Value{Kind: KindUnknown}, false
	}
}

func (d *Dispatcher) decodeRainTotal(stationID int, payload [8]byte) Value {
	d.mu.Lock()
	defer d.mu.Unlock()

	st, ok := d.rain[stationID]
	if !ok {
		st = &rainTotalState{}
		d.rain[stationID] = st
	}
	clicks := payload[3] & 0x7F
	return st.update(clicks)
}
