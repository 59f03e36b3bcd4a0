package pipeline

// AdaptiveWindow is the number of samples averaged by the adaptive mode.
const AdaptiveWindow = 256

// BinarizerState is the running accumulator of the adaptive mode.
type BinarizerState struct {
	Sum   uint32 `json:"sum"`
	Count int    `json:"count"`
	Mean  uint8  `json:"mean"`
}

// Decision is the binarizer result for one sample. Strong and Weak are only
// set in hysteresis mode.
type Decision struct {
	Binary bool
	Strong bool
	Weak   bool
}

// Binarizer thresholds magnitudes in one of three modes fixed at
// construction.
type Binarizer struct {
	mode      BinarizeMode
	threshold int
	low, high int
	offset    int

	state BinarizerState
}

// NewBinarizer builds a binarizer from a validated configuration.
func NewBinarizer(cfg Config) *Binarizer {
	return &Binarizer{
		mode:      cfg.Binarize,
		threshold: cfg.Threshold,
		low:       cfg.LowThreshold,
		high:      cfg.HighThreshold,
		offset:    cfg.AdaptiveOffset,
	}
}

// Apply classifies one valid magnitude.
func (b *Binarizer) Apply(mag uint8) Decision {
	m := int(mag)
	switch b.mode {
	case BinarizeAdaptive:
		// Compare against the mean of the last completed window, then fold
		// this sample into the window in progress.
		d := Decision{Binary: m > int(b.state.Mean)+b.offset}
		b.accumulate(mag)
		return d
	case BinarizeHysteresis:
		strong := m >= b.high
		weak := !strong && m >= b.low
		return Decision{Binary: strong || weak, Strong: strong, Weak: weak}
	default:
		return Decision{Binary: m > b.threshold}
	}
}

func (b *Binarizer) accumulate(mag uint8) {
	b.state.Sum += uint32(mag)
	b.state.Count++
	if b.state.Count == AdaptiveWindow {
		b.state.Mean = uint8(b.state.Sum / AdaptiveWindow)
		b.state.Sum = 0
		b.state.Count = 0
	}
}

// State returns a copy of the adaptive accumulator.
func (b *Binarizer) State() BinarizerState { return b.state }

// Reset clears the adaptive accumulator.
func (b *Binarizer) Reset() {
	b.state = BinarizerState{}
}
