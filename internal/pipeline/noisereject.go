package pipeline

// NoiseRejector drops isolated "on" samples from the binary stream.
//
// It keeps a three-sample horizontal shift register and its own last two
// decisions. The middle sample of the register survives when it is on and
// either horizontal neighbor is on, or one of the two previous decisions was
// on. Because the middle sample needs its right neighbor, each decision is
// made one tick late: Push at tick k returns the decision for tick k-1.
//
// The register shifts on every tick. Ticks without a valid sample shift in
// off, so a row boundary or an idle tick ends horizontal adjacency. The
// decision history only records valid samples.
//
// This is a causal 1-D heuristic, not a morphological operator.
type NoiseRejector struct {
	sr   [3]bool // sr[0] left, sr[1] center, sr[2] right
	hist [2]bool // hist[0] most recent decision

	centerValid, rightValid bool
}

// Push shifts one tick in and returns the decision for the tick before it.
// The decision is false when that tick carried no valid sample.
func (n *NoiseRejector) Push(on, valid bool) bool {
	n.sr[0], n.sr[1], n.sr[2] = n.sr[1], n.sr[2], on && valid
	n.centerValid, n.rightValid = n.rightValid, valid

	keep := n.sr[1] && (n.sr[0] || n.sr[2] || n.hist[0] || n.hist[1])
	if n.centerValid {
		n.hist[1], n.hist[0] = n.hist[0], keep
	}
	return keep
}

// Reset clears the shift register and decision history.
func (n *NoiseRejector) Reset() {
	*n = NoiseRejector{}
}
