package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	"github.com/ironsheep/edge-stream/internal/pipeline"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrFrameSize is returned when a frame cannot take the requested geometry.
var ErrFrameSize = errors.New("invalid frame size")

// ToFrame rasterizes img into a pipeline frame of the given size. Images of
// a different size are resampled with linear interpolation, the same
// preparation a capture front end applies before streaming.
//
// Fully transparent pixels become black.
func ToFrame(img image.Image, width, height int) (pipeline.Frame, error) {
	if width < 3 || height < 3 {
		return pipeline.Frame{}, fmt.Errorf("%w: %dx%d", ErrFrameSize, width, height)
	}

	img = fit(img, width, height)
	b := img.Bounds()

	pix := make([]pipeline.RGB, 0, width*height)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			pix = append(pix, sampleRGB(img, x, y))
		}
	}
	return pipeline.Frame{Width: width, Height: height, Pix: pix}, nil
}

func sampleRGB(img image.Image, x, y int) pipeline.RGB {
	c, ok := colorful.MakeColor(img.At(x, y))
	if !ok {
		return pipeline.RGB{}
	}
	r, g, b := c.RGB255()
	return pipeline.RGB{R: r, G: g, B: b}
}

// ToGray returns the luma image the pipeline sees for frame f.
func ToGray(f pipeline.Frame) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	for i, c := range f.Pix {
		img.Pix[i] = pipeline.Luma(c)
	}
	return img
}

func fit(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return imaging.Resize(img, width, height, imaging.Linear)
	}
	return img
}

// LumaDeviation compares the fixed-point luma of frame f with a
// floating-point grayscale rendering of img at the same geometry and returns
// the largest per-pixel difference.
func LumaDeviation(img image.Image, f pipeline.Frame) (int, error) {
	if f.Width < 3 || f.Height < 3 || len(f.Pix) != f.Width*f.Height {
		return 0, fmt.Errorf("%w: %dx%d", ErrFrameSize, f.Width, f.Height)
	}
	ref := effect.Grayscale(fit(img, f.Width, f.Height))
	rb := ref.Bounds()

	worst := 0
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			d := int(pipeline.Luma(f.Pix[y*f.Width+x])) - int(ref.RGBAAt(rb.Min.X+x, rb.Min.Y+y).R)
			if d < 0 {
				d = -d
			}
			worst = max(worst, d)
		}
	}
	return worst, nil
}
