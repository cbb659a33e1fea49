package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassification(t *testing.T) {
	cause := errors.New("index unreachable")
	tests := []struct {
		name      string
		err       error
		sentinel  error
		component string
	}{
		{"config", Config("recipe", fmt.Errorf("catch2: %w", ErrDuplicateRequirement)), ErrDuplicateRequirement, "recipe"},
		{"resolution", Resolution("prefix", cause), cause, "prefix"},
		{"generation", Generation("cmake_deps", ErrMissingInput), ErrMissingInput, "cmake_deps"},
		{"wrapped", fmt.Errorf("failed to generate: %w", Generation("cmake_toolchain", ErrOutputConflict)), ErrOutputConflict, "cmake_toolchain"},
		{"plain", cause, cause, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.sentinel)
			}
			if got := Component(tt.err); got != tt.component {
				t.Errorf("Component() = %q, want %q", got, tt.component)
			}
		})
	}
}

func TestResolutionVerbatim(t *testing.T) {
	cause := errors.New("unable to find 'catch2/9.9.9' in remotes")
	err := Resolution("file", cause)
	var re *ResolutionError
	if !errors.As(err, &re) {
		t.Fatalf("errors.As ResolutionError failed for %v", err)
	}
	if re.Err != cause {
		t.Errorf("Err = %v, want original %v", re.Err, cause)
	}
	if got, want := err.Error(), "file: resolution error: "+cause.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
