package imaging

import (
	"image/color"
	"testing"
)

func TestCrop(t *testing.T) {
	img := createPatternImage(100, 100)

	result, err := Crop(img, Region{X1: 0, Y1: 0, X2: 50, Y2: 40})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	b := result.Bounds()
	if b.Min.X != 0 || b.Min.Y != 0 {
		t.Errorf("origin: got (%d,%d), want (0,0)", b.Min.X, b.Min.Y)
	}
	if b.Dx() != 50 || b.Dy() != 40 {
		t.Errorf("dimensions: got %dx%d, want 50x40", b.Dx(), b.Dy())
	}
}

func TestCrop_VerifyContent(t *testing.T) {
	img := createPatternImage(100, 100)

	// Bottom-right quadrant is white.
	result, err := Crop(img, Region{X1: 50, Y1: 50, X2: 100, Y2: 100})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	r, g, b, _ := result.At(25, 25).RGBA()
	r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
	if r8 != 255 || g8 != 255 || b8 != 255 {
		t.Errorf("cropped image color: got (%d,%d,%d), want (255,255,255)", r8, g8, b8)
	}
}

func TestCrop_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name string
		r    Region
	}{
		{"x1 negative", Region{-1, 0, 50, 50}},
		{"y1 negative", Region{0, -1, 50, 50}},
		{"x2 too large", Region{0, 0, 101, 50}},
		{"y2 too large", Region{0, 0, 50, 101}},
		{"all out of bounds", Region{-1, -1, 200, 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Crop(img, tt.r); err == nil {
				t.Error("Crop should fail for out-of-bounds coordinates")
			}
		})
	}
}

func TestCrop_InvalidRegion(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name string
		r    Region
	}{
		{"x1 >= x2", Region{50, 0, 50, 50}},
		{"x1 > x2", Region{60, 0, 50, 50}},
		{"y1 >= y2", Region{0, 50, 50, 50}},
		{"y1 > y2", Region{0, 60, 50, 50}},
		{"zero area", Region{50, 50, 50, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Crop(img, tt.r); err == nil {
				t.Error("Crop should fail for invalid region")
			}
		})
	}
}
