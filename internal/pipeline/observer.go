package pipeline

import "fmt"

// Stage identifies a pipeline stage in observer events.
type Stage int

const (
	StageGray Stage = iota
	StageWindow
	StageFilter
	StageGradient
	StageMagnitude
	StageReject
	StageBinarize
	StageNoiseReject

	numStages
)

var stageNames = [numStages]string{
	"gray", "window", "filter", "gradient", "magnitude", "reject", "binarize", "noise_reject",
}

func (s Stage) String() string {
	if s >= 0 && s < numStages {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Event is the intermediate state of one valid sample as it leaves a stage.
type Event struct {
	Stage     Stage
	Row       uint16
	Col       uint16
	Gray      uint8
	Window    Window
	Gradient  Gradient
	Magnitude uint8
	Binary    bool
}

// Observer receives stage events. It runs synchronously inside Tick and must
// not call back into the pipeline.
type Observer func(Event)

// Option configures optional pipeline behavior.
type Option func(*Pipeline)

// WithObserver installs an observer. It is only invoked when Config.Debug is
// set.
func WithObserver(fn Observer) Option {
	return func(p *Pipeline) {
		p.observer = fn
	}
}

func (p *Pipeline) emit(s Stage, t *token) {
	if p.observer == nil || !t.valid {
		return
	}
	p.observer(Event{
		Stage:     s,
		Row:       t.row,
		Col:       t.col,
		Gray:      t.gray,
		Window:    t.window,
		Gradient:  t.gradient,
		Magnitude: t.mag,
		Binary:    t.binary,
	})
}
