package recipe

import (
	"maps"
	"slices"
	"strings"

	"github.com/goplus/recipe/settings"
)

// Matrix lists several values for some settings axes. Each combination is
// one complete build configuration once merged with fixed base values.
type Matrix struct {
	Require map[string][]string
}

// points returns the cartesian product of m.Require as value maps. Keys are
// sorted alphabetically and the first key varies slowest.
func (m *Matrix) points() []map[string]string {
	if len(m.Require) == 0 {
		return nil
	}
	keys := slices.Sorted(maps.Keys(m.Require))

	result := []map[string]string{{}}
	for _, k := range keys {
		values := m.Require[k]
		next := make([]map[string]string, 0, len(result)*len(values))
		for _, prev := range result {
			for _, v := range values {
				p := maps.Clone(prev)
				p[k] = v
				next = append(next, p)
			}
		}
		result = next
	}
	return result
}

// Combinations returns all cartesian product combinations of the matrix.
// Keys are sorted alphabetically and values are joined with "-", which is
// the same form as settings.Settings.Key.
func (m *Matrix) Combinations() []string {
	points := m.points()
	if len(points) == 0 {
		return nil
	}
	keys := slices.Sorted(maps.Keys(m.Require))
	result := make([]string, len(points))
	for i, p := range points {
		vals := make([]string, len(keys))
		for j, k := range keys {
			vals[j] = p[k]
		}
		result[i] = strings.Join(vals, "-")
	}
	return result
}

// CombinationCount returns the total number of cartesian product combinations.
func (m *Matrix) CombinationCount() int {
	if len(m.Require) == 0 {
		return 0
	}
	count := 1
	for _, v := range m.Require {
		count *= len(v)
	}
	return count
}

// Expand merges every combination over base and parses the result. base
// supplies the axes the matrix does not vary; matrix values win. An empty
// matrix expands to base alone.
func (m *Matrix) Expand(base map[string]string) ([]settings.Settings, error) {
	points := m.points()
	if len(points) == 0 {
		s, err := settings.Parse(base)
		if err != nil {
			return nil, err
		}
		return []settings.Settings{s}, nil
	}
	out := make([]settings.Settings, 0, len(points))
	for _, p := range points {
		vals := maps.Clone(base)
		if vals == nil {
			vals = make(map[string]string)
		}
		maps.Copy(vals, p)
		s, err := settings.Parse(vals)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
