package pipeline

import "fmt"

// Stats counts pipeline activity since construction or the last Reset.
type Stats struct {
	Ticks    uint64 `json:"ticks"`
	Accepted uint64 `json:"accepted"`
	Windows  uint64 `json:"windows"`
	Emitted  uint64 `json:"emitted"`
	Edges    uint64 `json:"edges"`
}

// Pipeline is one streaming edge-detection instance. Each call to Tick is one
// clock of the pipeline: every stage consumes its predecessor's register and
// refreshes its own.
type Pipeline struct {
	cfg Config

	coord    *Coordinator
	lines    *WindowExtractor
	filter   Filter
	rejector *ShadowRejector
	bin      *Binarizer
	noise    NoiseRejector

	// regs[i] is the output register of stage i.
	regs [numStages]token
	// held is the look-ahead register of the noise-reject stage: the token
	// waiting one tick for its right neighbor.
	held token

	observer Observer
	stats    Stats
}

// New validates cfg and builds a pipeline with all state zeroed.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}
	p := &Pipeline{
		cfg:      cfg,
		coord:    NewCoordinator(cfg.Width),
		lines:    NewWindowExtractor(cfg.Width),
		filter:   NewFilter(cfg),
		rejector: NewShadowRejector(cfg.StabilityThreshold, cfg.StrengthThreshold),
		bin:      NewBinarizer(cfg),
	}
	for _, opt := range opts {
		opt(p)
	}
	if !cfg.Debug {
		p.observer = nil
	}
	return p, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() Config { return p.cfg }

// Latency is the number of ticks between accepting a sample and presenting
// its result. The noise-reject stage needs one tick of look-ahead for the
// right neighbor, so enabling it adds one.
func (p *Pipeline) Latency() int {
	if p.cfg.NoiseReject {
		return int(numStages) + 1
	}
	return int(numStages)
}

// Stats returns the activity counters.
func (p *Pipeline) Stats() Stats { return p.stats }

// Position returns the raster position the next accepted sample will get.
func (p *Pipeline) Position() StreamPosition { return p.coord.Position() }

// WarmedUp reports whether the line buffer has finished its warm-up.
func (p *Pipeline) WarmedUp() bool { return p.lines.WarmedUp() }

// Tick advances the pipeline by one clock. The returned output belongs to
// the input accepted Latency() ticks earlier; Valid is false on ticks with
// no result.
func (p *Pipeline) Tick(in Input) Output {
	out := p.regs[StageNoiseReject]
	p.stats.Ticks++

	// Stages update from the back so each reads its predecessor's register
	// as it was at the start of the tick.
	p.regs[StageNoiseReject] = p.noiseReject(p.regs[StageBinarize])
	p.regs[StageBinarize] = p.binarize(p.regs[StageReject])
	p.regs[StageReject] = p.reject(p.regs[StageMagnitude])
	p.regs[StageMagnitude] = p.magnitude(p.regs[StageGradient])
	p.regs[StageGradient] = p.gradient(p.regs[StageFilter])
	p.regs[StageFilter] = p.smooth(p.regs[StageWindow])
	p.regs[StageWindow] = p.extract(p.regs[StageGray])
	p.regs[StageGray] = p.intake(in)

	if out.valid {
		p.stats.Emitted++
		if out.binary {
			p.stats.Edges++
		}
	}
	return out.output()
}

// Reset is the asynchronous reset: buffers, history, counters and every
// in-flight sample are discarded.
func (p *Pipeline) Reset() {
	p.coord.Reset()
	p.lines.Reset()
	p.rejector.Reset()
	p.bin.Reset()
	p.noise.Reset()
	p.regs = [numStages]token{}
	p.held = token{}
	p.stats = Stats{}
}

func (p *Pipeline) intake(in Input) token {
	if !in.LineValid {
		if in.FrameStart {
			p.coord.FrameStart()
		}
		return token{}
	}
	row, col := p.coord.Accept(in.FrameStart)
	p.stats.Accepted++
	t := token{
		valid: true,
		row:   row,
		col:   col,
		gray:  Luma(in.Color),
	}
	p.emit(StageGray, &t)
	return t
}

func (p *Pipeline) extract(t token) token {
	if !t.valid {
		return token{}
	}
	w := p.lines.Push(PixelSample{Intensity: t.gray, Row: t.row, Col: t.col, Valid: true})
	if !w.Valid {
		return token{}
	}
	p.stats.Windows++
	t.window = w
	p.emit(StageWindow, &t)
	return t
}

func (p *Pipeline) smooth(t token) token {
	if !t.valid {
		return t
	}
	t.window = p.filter.Apply(t.window)
	p.emit(StageFilter, &t)
	return t
}

func (p *Pipeline) gradient(t token) token {
	if !t.valid {
		return t
	}
	t.gradient = Sobel(t.window)
	p.emit(StageGradient, &t)
	return t
}

func (p *Pipeline) magnitude(t token) token {
	if !t.valid {
		return t
	}
	t.mag = Magnitude(t.gradient)
	p.emit(StageMagnitude, &t)
	return t
}

func (p *Pipeline) reject(t token) token {
	if !t.valid || !p.cfg.ShadowReject {
		return t
	}
	t.mag = p.rejector.Apply(t.gradient, t.mag)
	p.emit(StageReject, &t)
	return t
}

func (p *Pipeline) binarize(t token) token {
	if !t.valid {
		return t
	}
	d := p.bin.Apply(t.mag)
	t.binary, t.strong, t.weak = d.Binary, d.Strong, d.Weak
	p.emit(StageBinarize, &t)
	return t
}

func (p *Pipeline) noiseReject(t token) token {
	if !p.cfg.NoiseReject {
		return t
	}
	keep := p.noise.Push(t.binary, t.valid)
	out := p.held
	p.held = t
	if !out.valid {
		return token{}
	}
	out.binary = keep
	out.strong = out.strong && keep
	out.weak = out.weak && keep
	p.emit(StageNoiseReject, &out)
	return out
}
