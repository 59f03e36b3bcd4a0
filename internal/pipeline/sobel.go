package pipeline

// Sobel kernels, row-major over Window.P.
var (
	sobelX = [9]int{
		-1, 0, 1,
		-2, 0, 2,
		-1, 0, 1,
	}
	sobelY = [9]int{
		-1, -2, -1,
		0, 0, 0,
		1, 2, 1,
	}
)

// MaxMagnitude is the saturation value of the magnitude stage.
const MaxMagnitude = 255

// Sobel convolves a window with both Sobel kernels. No saturation is
// applied; int16 holds the full range for 8-bit input.
func Sobel(w Window) Gradient {
	var gx, gy int
	for i, p := range w.P {
		gx += sobelX[i] * int(p)
		gy += sobelY[i] * int(p)
	}
	return Gradient{Gx: int16(gx), Gy: int16(gy)}
}

// Magnitude approximates the gradient length as (|Gx| + |Gy|) / 2,
// saturated at MaxMagnitude.
func Magnitude(g Gradient) uint8 {
	s := (abs(int(g.Gx)) + abs(int(g.Gy))) >> 1
	if s > MaxMagnitude {
		return MaxMagnitude
	}
	return uint8(s)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
