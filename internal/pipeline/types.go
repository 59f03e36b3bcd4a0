package pipeline

// PixelSample is one intensity sample travelling down the pipeline together
// with the raster position it was accepted at.
type PixelSample struct {
	Intensity uint8  `json:"intensity"`
	Row       uint16 `json:"row"`
	Col       uint16 `json:"col"`
	Valid     bool   `json:"valid"`
}

// Window is a 3x3 neighborhood. P is indexed row-major: P[0..2] is the top
// row, P[4] the center, P[6..8] the bottom row.
type Window struct {
	P     [9]uint8
	Row   uint16
	Col   uint16
	Valid bool
}

// Center returns the middle sample of the window.
func (w Window) Center() uint8 { return w.P[4] }

// Gradient is the signed Sobel response of one window. For 8-bit input each
// component lies in [-1020, 1020].
type Gradient struct {
	Gx, Gy int16
}

// Input is what the capture side presents on one tick.
type Input struct {
	Color      RGB
	LineValid  bool
	FrameStart bool
}

// Output is what the pipeline presents on one tick.
//
// Magnitude and Valid form the magnitude-mode contract; Binary, Valid, Strong
// and Weak form the binary-mode contract. Row and Col are the coordinates of
// the sample that completed the window, i.e. the window center is at
// (Row-1, Col-1).
type Output struct {
	Magnitude uint8  `json:"magnitude"`
	Binary    bool   `json:"binary"`
	Strong    bool   `json:"strong"`
	Weak      bool   `json:"weak"`
	Valid     bool   `json:"valid"`
	Row       uint16 `json:"row"`
	Col       uint16 `json:"col"`
}

// token is the per-tick register content passed from stage to stage. Fields
// are filled in as the token moves down the chain.
type token struct {
	valid bool
	row   uint16
	col   uint16

	// intake
	color      RGB
	lineValid  bool
	frameStart bool

	gray     uint8
	window   Window
	gradient Gradient
	mag      uint8

	binary bool
	strong bool
	weak   bool
}

func (t token) output() Output {
	return Output{
		Magnitude: t.mag,
		Binary:    t.binary,
		Strong:    t.strong,
		Weak:      t.weak,
		Valid:     t.valid,
		Row:       t.row,
		Col:       t.col,
	}
}
