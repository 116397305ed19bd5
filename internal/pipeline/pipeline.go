// Package pipeline provides composable, pure transformation steps over
// document.Document values and an immutable Pipeline that chains them.
//
// Steps are configured once and hold no mutable state, so a Pipeline can be
// declared at package level and run from any number of goroutines.
//
//	p := pipeline.New(
//		pipeline.RemoveXMLNoise(),
//		pipeline.ReplaceString("YES", document.Bool(true)),
//		pipeline.SnakeCaseKeys(),
//	)
//	clean, err := p.Run(raw)
//
// Composition concatenates step sequences, so it is associative:
// p.Then(q).Then(r) and p.Then(q.Then(r)) run the same steps in the same order.
package pipeline

import (
	"fmt"

	"idcheck/internal/document"
)

// Step is one pure transformation. Apply must not mutate its input and must
// return a value derived from it.
type Step interface {
	Name() string
	Apply(in document.Document) (document.Document, error)
}

// Pipeline is an ordered, immutable chain of steps. The zero value is the
// identity pipeline.
type Pipeline struct {
	steps []Step
}

// New builds a pipeline from steps. Nested pipelines are flattened.
func New(steps ...Step) Pipeline {
	return Pipeline{}.Then(steps...)
}

// Compose concatenates pipelines in order.
func Compose(pipelines ...Pipeline) Pipeline {
	var out []Step
	for _, p := range pipelines {
		out = append(out, p.steps...)
	}
	return Pipeline{steps: out}
}

// Then returns a new pipeline running p's steps followed by steps.
// Pipelines passed as steps contribute their own steps.
func (p Pipeline) Then(steps ...Step) Pipeline {
	out := make([]Step, 0, len(p.steps)+len(steps))
	out = append(out, p.steps...)
	for _, s := range steps {
		if nested, ok := s.(Pipeline); ok {
			out = append(out, nested.steps...)
			continue
		}
		out = append(out, s)
	}
	return Pipeline{steps: out}
}

// Steps returns the pipeline's steps in execution order.
func (p Pipeline) Steps() []Step {
	return append([]Step{}, p.steps...)
}

// Len returns the number of steps.
func (p Pipeline) Len() int { return len(p.steps) }

// Run applies every step to the output of the previous one. The first
// failing step aborts the run.
func (p Pipeline) Run(in document.Document) (document.Document, error) {
	out := in
	for i, s := range p.steps {
		next, err := s.Apply(out)
		if err != nil {
			return document.Document{}, fmt.Errorf("pipeline step %d (%s): %w", i, s.Name(), err)
		}
		out = next
	}
	return out, nil
}

// Name implements Step so a pipeline can be nested in another.
func (p Pipeline) Name() string { return "pipeline" }

// Apply implements Step.
func (p Pipeline) Apply(in document.Document) (document.Document, error) {
	return p.Run(in)
}

func fieldSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// mapFields rebuilds a mapping applying fn to each value whose key is in set.
func mapFields(m document.Document, set map[string]struct{}, fn func(document.Document) document.Document) (document.Document, error) {
	fields := m.Fields()
	for i, f := range fields {
		if _, ok := set[f.Key]; ok {
			fields[i].Value = fn(f.Value)
		}
	}
	return document.NewMapping(fields...)
}
