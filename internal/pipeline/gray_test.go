package pipeline

import "testing"

func TestLuma(t *testing.T) {
	tests := []struct {
		name string
		in   RGB
		want uint8
	}{
		{"black", RGB{}, 0},
		{"white", RGB{255, 255, 255}, 255},
		{"red", RGB{R: 255}, 76},
		{"green", RGB{G: 255}, 150},
		{"blue", RGB{B: 255}, 27},
		{"mixed", RGB{R: 100, G: 50, B: 200}, 81},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Luma(tt.in); got != tt.want {
				t.Errorf("Luma(%+v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestLuma_GrayIsIdentity(t *testing.T) {
	for v := 0; v < 256; v++ {
		if got := Luma(Gray(uint8(v))); got != uint8(v) {
			t.Fatalf("Luma(Gray(%d)) = %d", v, got)
		}
	}
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name string
		fn   func(uint8) uint8
		in   uint8
		want uint8
	}{
		{"5-bit zero", Expand5, 0, 0},
		{"5-bit max", Expand5, 31, 255},
		{"5-bit mid", Expand5, 16, 132},
		{"5-bit ignores high bits", Expand5, 0xE0 | 31, 255},
		{"6-bit zero", Expand6, 0, 0},
		{"6-bit max", Expand6, 63, 255},
		{"6-bit mid", Expand6, 32, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRGB565(t *testing.T) {
	tests := []struct {
		name string
		p    uint16
		want RGB
	}{
		{"red", 0xF800, RGB{R: 255}},
		{"green", 0x07E0, RGB{G: 255}},
		{"blue", 0x001F, RGB{B: 255}},
		{"white", 0xFFFF, RGB{255, 255, 255}},
		{"black", 0x0000, RGB{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromRGB565(tt.p); got != tt.want {
				t.Errorf("FromRGB565(%04x) = %+v, want %+v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRGB565_RoundTrip(t *testing.T) {
	for p := 0; p <= 0xFFFF; p++ {
		if got := ToRGB565(FromRGB565(uint16(p))); got != uint16(p) {
			t.Fatalf("round trip of %04x gave %04x", p, got)
		}
	}
}

func TestPackEdge565(t *testing.T) {
	tests := []struct {
		e    uint8
		want uint16
	}{
		{0, 0x0000},
		{255, 0xFFFF},
		{128, 0x8410},
	}

	for _, tt := range tests {
		if got := PackEdge565(tt.e); got != tt.want {
			t.Errorf("PackEdge565(%d) = %04x, want %04x", tt.e, got, tt.want)
		}
	}
}
