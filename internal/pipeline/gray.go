package pipeline

// RGB is an 8-bit-per-channel color sample.
type RGB struct {
	R, G, B uint8
}

// Luma weights: 77 + 151 + 28 = 256, so a neutral gray maps to itself.
const (
	lumaR = 77
	lumaG = 151
	lumaB = 28
)

// Luma converts an RGB sample to 8-bit intensity with the fixed-point
// approximation (77R + 151G + 28B) >> 8 of 0.299R + 0.587G + 0.114B.
func Luma(c RGB) uint8 {
	w := lumaR*uint32(c.R) + lumaG*uint32(c.G) + lumaB*uint32(c.B)
	return uint8(w >> 8)
}

// Gray returns the RGB sample that converts back to exactly v.
func Gray(v uint8) RGB {
	return RGB{R: v, G: v, B: v}
}

// Expand5 widens a 5-bit channel to 8 bits by replicating its high bits.
func Expand5(v uint8) uint8 {
	v &= 0x1F
	return v<<3 | v>>2
}

// Expand6 widens a 6-bit channel to 8 bits by replicating its high bits.
func Expand6(v uint8) uint8 {
	v &= 0x3F
	return v<<2 | v>>4
}

// FromRGB565 unpacks a 5:6:5 pixel into 8-bit components.
func FromRGB565(p uint16) RGB {
	return RGB{
		R: Expand5(uint8(p >> 11)),
		G: Expand6(uint8(p >> 5)),
		B: Expand5(uint8(p)),
	}
}

// ToRGB565 truncates an 8-bit color to 5:6:5.
func ToRGB565(c RGB) uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}

// PackEdge565 renders an 8-bit edge value as a gray 5:6:5 display pixel.
func PackEdge565(e uint8) uint16 {
	return ToRGB565(Gray(e))
}
