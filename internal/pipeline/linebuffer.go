package pipeline

// WindowExtractor is the line buffer. It keeps the arriving row and the two
// rows before it, and assembles a 3x3 window for every accepted sample.
//
// rows[0] holds the newest row, rows[2] the oldest. Writing column c moves
// rows[1][c] into rows[2][c] and rows[0][c] into rows[1][c] before storing
// the new sample in rows[0][c].
type WindowExtractor struct {
	width   int
	rows    [3][]uint8
	prefill int
	warmup  int
}

// NewWindowExtractor allocates the three row buffers for the given width.
func NewWindowExtractor(width int) *WindowExtractor {
	e := &WindowExtractor{
		width:  width,
		warmup: WarmupSamples(width),
	}
	for i := range e.rows {
		e.rows[i] = make([]uint8, width)
	}
	return e
}

// WarmupSamples is the number of accepted samples after a reset during which
// no window is valid.
func WarmupSamples(width int) int {
	return 2*width + 1
}

// WarmedUp reports whether the warm-up period has elapsed.
func (e *WindowExtractor) WarmedUp() bool {
	return e.prefill >= e.warmup
}

// Prefill returns how many samples have been accepted since the last reset,
// saturated at the warm-up threshold.
func (e *WindowExtractor) Prefill() int { return e.prefill }

// Push accepts one sample and returns the window that ends at it. Samples
// with Valid unset are ignored and yield an invalid window.
func (e *WindowExtractor) Push(s PixelSample) Window {
	if !s.Valid {
		return Window{}
	}
	c := int(s.Col) % e.width
	warm := e.WarmedUp()

	// Until a row buffer has been written since reset its contents are not
	// trusted, so the cascade stores zero instead of copying it.
	switch {
	case warm || e.prefill >= 2*e.width:
		e.rows[2][c] = e.rows[1][c]
		e.rows[1][c] = e.rows[0][c]
	case e.prefill >= e.width:
		e.rows[2][c] = 0
		e.rows[1][c] = e.rows[0][c]
	default:
		e.rows[2][c] = 0
		e.rows[1][c] = 0
	}
	e.rows[0][c] = s.Intensity

	w := Window{
		Row:   s.Row,
		Col:   s.Col,
		Valid: warm && s.Row >= 2 && s.Col >= 1,
	}
	left := e.wrap(c - 2)
	mid := e.wrap(c - 1)
	for i, r := range [3]int{2, 1, 0} {
		w.P[3*i] = e.rows[r][left]
		w.P[3*i+1] = e.rows[r][mid]
		w.P[3*i+2] = e.rows[r][c]
	}

	if !warm {
		e.prefill++
	}
	return w
}

func (e *WindowExtractor) wrap(c int) int {
	if c < 0 {
		return c + e.width
	}
	return c
}

// Reset clears all three rows and the warm-up counter.
func (e *WindowExtractor) Reset() {
	for _, row := range e.rows {
		clear(row)
	}
	e.prefill = 0
}
