// Package registry resolves configured stage names into pipeline stages.
//
// A Registry is assembled once through a Builder and is read-only after
// Build, so it can be shared freely.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cognicore/bitext/pkg/bitext/pipeline"
)

// Factory builds a stage from its parameters.
type Factory func(p *Params) (pipeline.Stage, error)

// StageSpec names a stage and the parameters to build it with.
type StageSpec struct {
	Name   string            `yaml:"name"`
	Params map[string]string `yaml:"params,omitempty"`
}

// Registry maps stage names to factories.
type Registry struct {
	factories map[string]Factory
}

// Builder collects factories before a Registry is built.
type Builder struct {
	factories map[string]Factory
	err       error
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{factories: make(map[string]Factory)}
}

// Register adds a factory under name. Registering a name twice, or an
// empty name or nil factory, makes Build fail.
func (b *Builder) Register(name string, f Factory) *Builder {
	switch {
	case b.err != nil:
	case name == "":
		b.err = errors.New("registry: empty stage name")
	case f == nil:
		b.err = fmt.Errorf("registry: nil factory for %q", name)
	default:
		if _, dup := b.factories[name]; dup {
			b.err = fmt.Errorf("registry: stage %q registered twice", name)
			break
		}
		b.factories[name] = f
	}
	return b
}

// Build freezes the collected factories into a Registry.
func (b *Builder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	factories := make(map[string]Factory, len(b.factories))
	for k, v := range b.factories {
		factories[k] = v
	}
	return &Registry{factories: factories}, nil
}

// Names lists registered stages, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// Stage builds a single stage. Unknown names, missing or malformed
// parameters and parameters the stage does not take all fail with a
// *ConfigError.
func (r *Registry) Stage(spec StageSpec) (pipeline.Stage, error) {
	f, ok := r.factories[spec.Name]
	if !ok {
		return pipeline.Stage{}, &ConfigError{Stage: spec.Name, Err: ErrUnknownStage}
	}

	p := newParams(spec.Name, spec.Params)
	stage, err := f(p)
	if err != nil {
		var cerr *ConfigError
		if errors.As(err, &cerr) {
			return pipeline.Stage{}, err
		}
		return pipeline.Stage{}, &ConfigError{Stage: spec.Name, Err: fmt.Errorf("%w: %v", ErrInvalidParam, err)}
	}
	if extra := p.unused(); len(extra) > 0 {
		sort.Strings(extra)
		return pipeline.Stage{}, &ConfigError{Stage: spec.Name, Param: extra[0], Err: fmt.Errorf("%w: not accepted by this stage", ErrInvalidParam)}
	}

	if stage.Name == "" {
		stage.Name = spec.Name
	}
	return stage.WithParams(spec.Params), nil
}

// Resolve builds every stage in order. It stops at the first error, so no
// pipeline is ever built from a partly valid configuration.
func (r *Registry) Resolve(specs []StageSpec) ([]pipeline.Stage, error) {
	stages := make([]pipeline.Stage, 0, len(specs))
	for _, spec := range specs {
		s, err := r.Stage(spec)
		if err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, nil
}
