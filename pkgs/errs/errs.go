// Package errs defines the error taxonomy shared by the recipe components.
//
// Every failure surfaced to a caller belongs to exactly one class:
//
//   - ConfigurationError: malformed, duplicate or missing settings and
//     requirements, detected locally before any resolver runs.
//   - ResolutionError: a failure reported by an external resolver, wrapped
//     verbatim.
//   - GenerationError: a failure while invoking a generator.
//
// Each class records the component it originated from. Use errors.Is with
// the sentinels below to test for a specific cause.
package errs

import (
	"errors"
)

var (
	ErrMissingSetting       = errors.New("missing setting")
	ErrInvalidSetting       = errors.New("invalid setting")
	ErrUnknownSetting       = errors.New("unknown setting")
	ErrDuplicateRequirement = errors.New("duplicate requirement")
	ErrInvalidRequirement   = errors.New("invalid requirement")
	ErrUnknownOption        = errors.New("unknown option")
	ErrInvalidOption        = errors.New("invalid option")
	ErrGeneratorUnavailable = errors.New("generator unavailable")
	ErrOutputConflict       = errors.New("output conflict")
	ErrMissingInput         = errors.New("missing generator input")
)

// ConfigurationError reports an invalid recipe or settings matrix.
type ConfigurationError struct {
	Component string
	Err       error
}

func (e *ConfigurationError) Error() string {
	return e.Component + ": configuration error: " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ResolutionError carries an error returned by a resolver unchanged.
type ResolutionError struct {
	Component string
	Err       error
}

func (e *ResolutionError) Error() string {
	return e.Component + ": resolution error: " + e.Err.Error()
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// GenerationError reports a failed generator invocation.
type GenerationError struct {
	Component string
	Err       error
}

func (e *GenerationError) Error() string {
	return e.Component + ": generation error: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Config wraps err as a ConfigurationError of component.
func Config(component string, err error) error {
	return &ConfigurationError{Component: component, Err: err}
}

// Resolution wraps err as a ResolutionError of component.
func Resolution(component string, err error) error {
	return &ResolutionError{Component: component, Err: err}
}

// Generation wraps err as a GenerationError of component.
func Generation(component string, err error) error {
	return &GenerationError{Component: component, Err: err}
}

// Component returns the component recorded on the outermost classified
// error in err's chain, or "" when err is not classified.
func Component(err error) string {
	var (
		ce *ConfigurationError
		re *ResolutionError
		ge *GenerationError
	)
	switch {
	case errors.As(err, &ce):
		return ce.Component
	case errors.As(err, &re):
		return re.Component
	case errors.As(err, &ge):
		return ge.Component
	}
	return ""
}
