package pipeline

import "testing"

// pushRaster feeds a width x height raster to e, where sample (r,c) has
// intensity value(r,c), and returns every window.
func pushRaster(e *WindowExtractor, width, height int, value func(r, c int) uint8) []Window {
	var ws []Window
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			ws = append(ws, e.Push(PixelSample{
				Intensity: value(r, c),
				Row:       uint16(r),
				Col:       uint16(c),
				Valid:     true,
			}))
		}
	}
	return ws
}

func rasterValue(r, c int) uint8 { return uint8(r*10 + c + 1) }

func TestWarmupSamples(t *testing.T) {
	tests := []struct {
		width, want int
	}{
		{3, 7},
		{640, 1281},
		{MaxWidth, 2*MaxWidth + 1},
	}
	for _, tt := range tests {
		if got := WarmupSamples(tt.width); got != tt.want {
			t.Errorf("WarmupSamples(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestWindowExtractor_Validity(t *testing.T) {
	const w, h = 5, 6
	e := NewWindowExtractor(w)

	ws := pushRaster(e, w, h, rasterValue)

	valid, first := 0, -1
	for i, win := range ws {
		if !win.Valid {
			continue
		}
		valid++
		if first < 0 {
			first = i
		}
		if win.Row < 2 || win.Col < 1 {
			t.Errorf("valid window at (%d,%d)", win.Row, win.Col)
		}
	}
	if want := (h - 2) * (w - 1); valid != want {
		t.Errorf("valid windows: got %d, want %d", valid, want)
	}
	if first != WarmupSamples(w) {
		t.Errorf("first valid window at sample %d, want %d", first, WarmupSamples(w))
	}
	if !e.WarmedUp() {
		t.Error("extractor not warmed up after a full frame")
	}
}

func TestWindowExtractor_Contents(t *testing.T) {
	const w, h = 4, 4
	e := NewWindowExtractor(w)
	ws := pushRaster(e, w, h, rasterValue)
	v := func(r, c int) uint8 { return rasterValue(r, c) }

	tests := []struct {
		name     string
		row, col int
		want     [9]uint8
	}{
		{
			"interior",
			3, 2,
			[9]uint8{
				v(1, 0), v(1, 1), v(1, 2),
				v(2, 0), v(2, 1), v(2, 2),
				v(3, 0), v(3, 1), v(3, 2),
			},
		},
		{
			// The left column wraps to the last column of the line above.
			"wrapped left column",
			3, 1,
			[9]uint8{
				v(0, 3), v(1, 0), v(1, 1),
				v(1, 3), v(2, 0), v(2, 1),
				v(2, 3), v(3, 0), v(3, 1),
			},
		},
		{
			// Column 3 of the line two rows up was never copied after reset.
			"first valid window",
			2, 1,
			[9]uint8{
				0, v(0, 0), v(0, 1),
				v(0, 3), v(1, 0), v(1, 1),
				v(1, 3), v(2, 0), v(2, 1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win := ws[tt.row*w+tt.col]
			if !win.Valid {
				t.Fatal("window not valid")
			}
			if int(win.Row) != tt.row || int(win.Col) != tt.col {
				t.Errorf("position: got (%d,%d), want (%d,%d)", win.Row, win.Col, tt.row, tt.col)
			}
			if win.P != tt.want {
				t.Errorf("window: got %v, want %v", win.P, tt.want)
			}
			if win.Center() != tt.want[4] {
				t.Errorf("Center: got %d, want %d", win.Center(), tt.want[4])
			}
		})
	}
}

func TestWindowExtractor_InvalidSampleIgnored(t *testing.T) {
	e := NewWindowExtractor(4)
	if w := e.Push(PixelSample{Intensity: 9, Valid: false}); w.Valid {
		t.Error("invalid sample produced a valid window")
	}
	if e.Prefill() != 0 {
		t.Errorf("Prefill: got %d, want 0", e.Prefill())
	}
}

func TestWindowExtractor_Reset(t *testing.T) {
	const w, h = 4, 4
	e := NewWindowExtractor(w)
	pushRaster(e, w, h, func(r, c int) uint8 { return 200 })

	e.Reset()
	if e.WarmedUp() || e.Prefill() != 0 {
		t.Fatalf("after Reset: warmed=%v prefill=%d", e.WarmedUp(), e.Prefill())
	}

	// After reset the extractor must behave exactly like a new one.
	got := pushRaster(e, w, h, rasterValue)
	want := pushRaster(NewWindowExtractor(w), w, h, rasterValue)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("window %d after reset: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestWindowExtractor_SecondFrameNeedsNoWarmup(t *testing.T) {
	const w, h = 4, 5
	e := NewWindowExtractor(w)
	pushRaster(e, w, h, rasterValue)

	ws := pushRaster(e, w, h, rasterValue)
	valid := 0
	for _, win := range ws {
		if win.Valid {
			valid++
		}
	}
	if want := (h - 2) * (w - 1); valid != want {
		t.Errorf("second frame valid windows: got %d, want %d", valid, want)
	}
}
