package pipeline

// ClassificationState is the one-sample history kept by the rejector.
type ClassificationState struct {
	Prev    Gradient `json:"prev"`
	PrevMag uint8    `json:"prev_mag"`
}

// ShadowRejector suppresses edges that look like shadows or blobs: a sample
// survives only when its gradient direction agrees with the previous one,
// its magnitude has not jumped, and it is strong enough.
type ShadowRejector struct {
	StabilityThreshold int
	StrengthThreshold  int

	state ClassificationState
}

// NewShadowRejector returns a rejector with zeroed history.
func NewShadowRejector(stability, strength int) *ShadowRejector {
	return &ShadowRejector{
		StabilityThreshold: stability,
		StrengthThreshold:  strength,
	}
}

// Apply classifies one valid sample and returns the magnitude to forward:
// mag itself when accepted, zero when rejected. The history is updated with
// g and mag either way.
func (r *ShadowRejector) Apply(g Gradient, mag uint8) uint8 {
	accept := r.Consistent(g) && r.Stable(mag) && int(mag) > r.StrengthThreshold
	r.state = ClassificationState{Prev: g, PrevMag: mag}
	if !accept {
		return 0
	}
	return mag
}

// Consistent reports whether dot(g, prev) > |g|^2 / 2. For gradients of
// equal length that is an angle below 60 degrees.
func (r *ShadowRejector) Consistent(g Gradient) bool {
	gx, gy := int64(g.Gx), int64(g.Gy)
	px, py := int64(r.state.Prev.Gx), int64(r.state.Prev.Gy)
	return 2*(gx*px+gy*py) > gx*gx+gy*gy
}

// Stable reports whether mag is within the stability threshold of the
// previous magnitude.
func (r *ShadowRejector) Stable(mag uint8) bool {
	return abs(int(mag)-int(r.state.PrevMag)) < r.StabilityThreshold
}

// State returns a copy of the history register.
func (r *ShadowRejector) State() ClassificationState { return r.state }

// Reset clears the history.
func (r *ShadowRejector) Reset() {
	r.state = ClassificationState{}
}
