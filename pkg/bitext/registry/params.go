package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cognicore/bitext/pkg/bitext/filter"
)

// Params holds the raw string parameters of one stage. Accessors return a
// *ConfigError naming the stage and key when a value is missing or cannot
// be parsed; nothing is silently replaced.
type Params struct {
	stage  string
	values map[string]string
	used   map[string]bool
}

func newParams(stage string, values map[string]string) *Params {
	return &Params{stage: stage, values: values, used: make(map[string]bool, len(values))}
}

// Stage returns the name of the stage being built.
func (p *Params) Stage() string { return p.stage }

// Raw returns the parameters as given.
func (p *Params) Raw() map[string]string { return p.values }

func (p *Params) lookup(key string) (string, bool) {
	v, ok := p.values[key]
	if ok {
		p.used[key] = true
	}
	return strings.TrimSpace(v), ok
}

func (p *Params) missing(key string) error {
	return &ConfigError{Stage: p.stage, Param: key, Err: ErrMissingParam}
}

func (p *Params) invalid(key string, err error) error {
	return &ConfigError{Stage: p.stage, Param: key, Err: fmt.Errorf("%w: %v", ErrInvalidParam, err)}
}

// String returns a required string parameter.
func (p *Params) String(key string) (string, error) {
	v, ok := p.lookup(key)
	if !ok || v == "" {
		return "", p.missing(key)
	}
	return v, nil
}

// StringOr returns a string parameter or def when absent. A key given
// with an empty value is a missing parameter, as for IntOr.
func (p *Params) StringOr(key, def string) (string, error) {
	if _, ok := p.values[key]; !ok {
		return def, nil
	}
	return p.String(key)
}

// Int returns a required integer parameter.
func (p *Params) Int(key string) (int, error) {
	v, ok := p.lookup(key)
	if !ok || v == "" {
		return 0, p.missing(key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, p.invalid(key, err)
	}
	return n, nil
}

// IntOr returns an integer parameter or def when absent.
func (p *Params) IntOr(key string, def int) (int, error) {
	if _, ok := p.values[key]; !ok {
		return def, nil
	}
	return p.Int(key)
}

// Float returns a required floating point parameter.
func (p *Params) Float(key string) (float64, error) {
	v, ok := p.lookup(key)
	if !ok || v == "" {
		return 0, p.missing(key)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, p.invalid(key, err)
	}
	return f, nil
}

// FloatOr returns a floating point parameter or def when absent.
func (p *Params) FloatOr(key string, def float64) (float64, error) {
	if _, ok := p.values[key]; !ok {
		return def, nil
	}
	return p.Float(key)
}

// BoolOr returns a boolean parameter or def when absent.
func (p *Params) BoolOr(key string, def bool) (bool, error) {
	v, ok := p.lookup(key)
	if !ok {
		return def, nil
	}
	if v == "" {
		return false, p.missing(key)
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, p.invalid(key, err)
	}
	return b, nil
}

// UnitOr returns a length unit parameter or def when absent.
func (p *Params) UnitOr(key string, def filter.Unit) (filter.Unit, error) {
	v, ok := p.lookup(key)
	if !ok {
		return def, nil
	}
	if v == "" {
		return 0, p.missing(key)
	}
	u, err := filter.ParseUnit(v)
	if err != nil {
		return 0, p.invalid(key, err)
	}
	return u, nil
}

// List returns a comma separated parameter as a slice; nil when absent.
func (p *Params) List(key string) []string {
	v, ok := p.lookup(key)
	if !ok || v == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// unused returns keys no accessor asked for.
func (p *Params) unused() []string {
	var out []string
	for k := range p.values {
		if !p.used[k] {
			out = append(out, k)
		}
	}
	return out
}
