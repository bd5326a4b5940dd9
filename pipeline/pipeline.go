// Package pipeline chains vision-core operations into an ordered list of
// stages applied to a buffer.
//
// A Pipeline owns no pixel data: every stage consumes the previous
// stage's output and allocates its own, so intermediate buffers are never
// shared and a pipeline value can be reused across images and goroutines.
package pipeline

import (
	"fmt"

	"github.com/ironsheep/vision-core/pixel"
)

// Stage transforms a buffer into a new buffer.
type Stage[T pixel.Sample] interface {
	// Name identifies the stage in error messages.
	Name() string
	// Apply runs the stage. It must not mutate src.
	Apply(src *pixel.Buffer[T]) (*pixel.Buffer[T], error)
}

// StageFunc adapts a function to the Stage interface.
type StageFunc[T pixel.Sample] struct {
	StageName string
	Fn        func(src *pixel.Buffer[T]) (*pixel.Buffer[T], error)
}

// Name implements Stage.
func (s StageFunc[T]) Name() string { return s.StageName }

// Apply implements Stage.
func (s StageFunc[T]) Apply(src *pixel.Buffer[T]) (*pixel.Buffer[T], error) {
	return s.Fn(src)
}

// Pipeline is an ordered list of stages.
type Pipeline[T pixel.Sample] struct {
	stages []Stage[T]
}

// New creates a pipeline from the given stages, applied in order.
func New[T pixel.Sample](stages ...Stage[T]) *Pipeline[T] {
	return &Pipeline[T]{stages: stages}
}

// Add appends stages to the pipeline and returns it for chaining.
func (p *Pipeline[T]) Add(stages ...Stage[T]) *Pipeline[T] {
	p.stages = append(p.stages, stages...)
	return p
}

// Len returns the number of stages.
func (p *Pipeline[T]) Len() int { return len(p.stages) }

// Run applies every stage in order and returns the final buffer. With no
// stages it returns a clone of src. The first failing stage aborts the
// run; its error is wrapped with the stage name and position.
func (p *Pipeline[T]) Run(src *pixel.Buffer[T]) (*pixel.Buffer[T], error) {
	if len(p.stages) == 0 {
		return src.Clone(), nil
	}
	cur := src
	for i, s := range p.stages {
		next, err := s.Apply(cur)
		if err != nil {
			return nil, fmt.Errorf("stage %d (%s): %w", i, s.Name(), err)
		}
		cur = next
	}
	return cur, nil
}
