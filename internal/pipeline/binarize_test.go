package pipeline

import "testing"

func binarizer(mode BinarizeMode) *Binarizer {
	cfg := DefaultConfig()
	cfg.Binarize = mode
	return NewBinarizer(cfg)
}

func TestBinarizer_Fixed(t *testing.T) {
	b := binarizer(BinarizeFixed)

	tests := []struct {
		mag  uint8
		want bool
	}{
		{0, false},
		{64, false},
		{65, true},
		{255, true},
	}
	for _, tt := range tests {
		d := b.Apply(tt.mag)
		if d.Binary != tt.want {
			t.Errorf("Apply(%d).Binary = %v, want %v", tt.mag, d.Binary, tt.want)
		}
		if d.Strong || d.Weak {
			t.Errorf("Apply(%d): strong/weak set outside hysteresis mode", tt.mag)
		}
	}
}

func TestBinarizer_Hysteresis(t *testing.T) {
	b := binarizer(BinarizeHysteresis)

	tests := []struct {
		mag  uint8
		want Decision
	}{
		{30, Decision{}},
		{49, Decision{}},
		{50, Decision{Binary: true, Weak: true}},
		{100, Decision{Binary: true, Weak: true}},
		{149, Decision{Binary: true, Weak: true}},
		{150, Decision{Binary: true, Strong: true}},
		{200, Decision{Binary: true, Strong: true}},
	}
	for _, tt := range tests {
		if got := b.Apply(tt.mag); got != tt.want {
			t.Errorf("Apply(%d) = %+v, want %+v", tt.mag, got, tt.want)
		}
	}
}

func TestBinarizer_Adaptive(t *testing.T) {
	b := binarizer(BinarizeAdaptive)

	// Until the first window completes the mean is zero.
	if b.Apply(17).Binary != true {
		t.Error("17 should exceed 0 + 16")
	}
	if b.Apply(16).Binary != false {
		t.Error("16 should not exceed 0 + 16")
	}
	for i := 2; i < AdaptiveWindow; i++ {
		b.Apply(100)
	}

	st := b.State()
	if st.Count != 0 || st.Sum != 0 {
		t.Errorf("accumulator not rolled over: %+v", st)
	}
	wantMean := uint8((17 + 16 + 100*(AdaptiveWindow-2)) / AdaptiveWindow)
	if st.Mean != wantMean {
		t.Fatalf("Mean: got %d, want %d", st.Mean, wantMean)
	}

	limit := int(wantMean) + 16
	if b.Apply(uint8(limit)).Binary {
		t.Errorf("%d should not exceed mean %d + 16", limit, wantMean)
	}
	if !b.Apply(uint8(limit + 1)).Binary {
		t.Errorf("%d should exceed mean %d + 16", limit+1, wantMean)
	}
	if got := b.State().Count; got != 2 {
		t.Errorf("Count: got %d, want 2", got)
	}

	b.Reset()
	if st := b.State(); st != (BinarizerState{}) {
		t.Errorf("after Reset: got %+v, want zero", st)
	}
}
