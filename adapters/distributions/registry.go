package distributions

import (
	"fmt"
	"sort"

	"climattr/internal/errors"
	"climattr/ports"
)

// registry maps CLI/API fit-function names (scipy-compatible aliases
// included) to their adapters
var registry = map[string]ports.Distribution{
	"norm":       NewNormal(),
	"normal":     NewNormal(),
	"gumbel_r":   NewGumbel(),
	"gumbel":     NewGumbel(),
	"gev":        NewGEV(),
	"genextreme": NewGEV(),
	"lognorm":    NewLogNormal(),
	"lognormal":  NewLogNormal(),
	"gamma":      NewGamma(),
}

// ByName resolves a fit-function name to a distribution adapter
func ByName(name string) (ports.Distribution, error) {
	dist, ok := registry[name]
	if !ok {
		return nil, errors.ValidationError(fmt.Sprintf("unknown fit function %q (supported: %v)", name, Names()))
	}
	return dist, nil
}

// Names lists the supported fit-function names in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
