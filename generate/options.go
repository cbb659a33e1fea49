package generate

import (
	"fmt"
	"strconv"

	"github.com/goplus/recipe/pkgs/errs"
)

// OptionType is the value type of an option.
type OptionType int

const (
	TypeString OptionType = iota
	TypeBool
)

func (t OptionType) String() string {
	if t == TypeBool {
		return "bool"
	}
	return "string"
}

// Option declares one recognized option key.
type Option struct {
	Name    string
	Type    OptionType
	Default string
	Doc     string
}

// Bool declares a boolean option.
func Bool(name string, def bool, doc string) Option {
	return Option{Name: name, Type: TypeBool, Default: strconv.FormatBool(def), Doc: doc}
}

// String declares a string option.
func String(name, def, doc string) Option {
	return Option{Name: name, Type: TypeString, Default: def, Doc: doc}
}

// OptionSet is the closed set of options a generator accepts.
type OptionSet []Option

func (s OptionSet) lookup(name string) (Option, bool) {
	for _, o := range s {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

// Parse checks raw against s and fills in defaults. Unknown keys fail with
// errs.ErrUnknownOption, malformed values with errs.ErrInvalidOption.
func (s OptionSet) Parse(raw map[string]string) (Options, error) {
	for k := range raw {
		if _, ok := s.lookup(k); !ok {
			return nil, fmt.Errorf("%w: %q", errs.ErrUnknownOption, k)
		}
	}
	opts := make(Options, len(s))
	for _, o := range s {
		v, ok := raw[o.Name]
		if !ok {
			v = o.Default
		}
		if o.Type == TypeBool {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %s=%q is not a bool", errs.ErrInvalidOption, o.Name, v)
			}
			v = strconv.FormatBool(b)
		}
		opts[o.Name] = v
	}
	return opts, nil
}

// Options holds parsed option values, defaults included.
type Options map[string]string

// Bool returns the value of a bool option.
func (o Options) Bool(name string) bool {
	b, _ := strconv.ParseBool(o[name])
	return b
}

// String returns the value of a string option.
func (o Options) String(name string) string {
	return o[name]
}
