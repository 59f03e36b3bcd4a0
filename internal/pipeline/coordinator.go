package pipeline

// MaxRowCount is the saturation point of the row counter.
const MaxRowCount = 1<<16 - 1

// StreamPosition is the raster position state owned by a Coordinator.
type StreamPosition struct {
	ColAddr  uint16 `json:"col_addr"`
	RowCount uint16 `json:"row_count"`
}

// Coordinator tracks where in the raster the next accepted sample lands.
type Coordinator struct {
	width uint16
	pos   StreamPosition
}

// NewCoordinator returns a coordinator for rows of the given width.
func NewCoordinator(width int) *Coordinator {
	return &Coordinator{width: uint16(width)}
}

// Position returns the position the next accepted sample will be given.
func (c *Coordinator) Position() StreamPosition { return c.pos }

// Accept stamps the current position on an accepted sample and advances the
// counters. frameStart rewinds the counters before stamping, so the pulse
// marks the first sample of a frame.
func (c *Coordinator) Accept(frameStart bool) (row, col uint16) {
	if frameStart {
		c.FrameStart()
	}
	row, col = c.pos.RowCount, c.pos.ColAddr

	if c.pos.ColAddr == c.width-1 {
		c.pos.ColAddr = 0
		if c.pos.RowCount < MaxRowCount {
			c.pos.RowCount++
		}
	} else {
		c.pos.ColAddr++
	}
	return row, col
}

// FrameStart rewinds the position counters only.
func (c *Coordinator) FrameStart() {
	c.pos = StreamPosition{}
}

// Reset is the asynchronous reset.
func (c *Coordinator) Reset() {
	c.pos = StreamPosition{}
}
