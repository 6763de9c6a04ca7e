package registry

import (
	"errors"
	"fmt"

	"github.com/cognicore/bitext/internal/bitexterr"
)

var (
	ErrUnknownStage = errors.New("unknown stage")
	ErrMissingParam = errors.New("missing parameter")
	ErrInvalidParam = errors.New("invalid parameter")
)

// ConfigError reports a stage that could not be built. It matches
// bitexterr.ErrInvalidConfig as well as the wrapped cause.
type ConfigError struct {
	Stage string
	Param string // empty when the error concerns the stage itself
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("stage %q: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("stage %q, parameter %q: %v", e.Stage, e.Param, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool {
	return target == bitexterr.ErrInvalidConfig
}
