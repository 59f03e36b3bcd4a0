package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/ironsheep/edge-stream/internal/pipeline"
)

// ErrStreamNotFound is returned for an unknown stream id.
var ErrStreamNotFound = errors.New("stream not found")

// stream is one isolated pipeline. Its mutex serializes ticks from
// concurrent tool calls; pipelines never share state.
type stream struct {
	mu sync.Mutex
	p  *pipeline.Pipeline
}

// StreamRegistry owns the open streams, keyed by a generated id.
type StreamRegistry struct {
	mu      sync.RWMutex
	streams map[string]*stream
}

// NewStreamRegistry creates an empty registry.
func NewStreamRegistry() *StreamRegistry {
	return &StreamRegistry{streams: make(map[string]*stream)}
}

// Open builds a pipeline for cfg and returns its id and latency.
func (r *StreamRegistry) Open(cfg pipeline.Config, opts ...pipeline.Option) (id string, latency int, err error) {
	p, err := pipeline.New(cfg, opts...)
	if err != nil {
		return "", 0, err
	}
	id = uuid.NewString()

	r.mu.Lock()
	r.streams[id] = &stream{p: p}
	r.mu.Unlock()
	return id, p.Latency(), nil
}

// With runs fn with exclusive access to the stream's pipeline.
func (r *StreamRegistry) With(id string, fn func(p *pipeline.Pipeline) error) error {
	r.mu.RLock()
	s, ok := r.streams[id]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrStreamNotFound, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.p)
}

// Close discards a stream.
func (r *StreamRegistry) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.streams[id]; !ok {
		return fmt.Errorf("%w: %s", ErrStreamNotFound, id)
	}
	delete(r.streams, id)
	return nil
}

// Len returns the number of open streams.
func (r *StreamRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.streams)
}
