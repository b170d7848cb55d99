package generalize

import (
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// TNorm aggregates two proximity degrees. Implementations must be
// monotone, commutative and associative, have 1 as identity and map
// [0,1]² into [0,1].
type TNorm func(a, b float64) float64

// Minimum is the Gödel t-norm and the default.
func Minimum(a, b float64) float64 { return math.Min(a, b) }

// Product is the product t-norm.
func Product(a, b float64) float64 { return a * b }

// Lukasiewicz is the Łukasiewicz t-norm max(0, a+b-1).
func Lukasiewicz(a, b float64) float64 { return math.Max(0, a+b-1) }

// Drastic returns the other argument when one of them is 1 and 0
// otherwise.
func Drastic(a, b float64) float64 {
	switch {
	case a == 1:
		return b
	case b == 1:
		return a
	default:
		return 0
	}
}

// NilpotentMinimum returns min(a,b) when a+b > 1 and 0 otherwise.
func NilpotentMinimum(a, b float64) float64 {
	if a+b > 1 {
		return math.Min(a, b)
	}
	return 0
}

// HamacherProduct is ab/(a+b-ab), with 0 at the origin.
func HamacherProduct(a, b float64) float64 {
	if a == 0 && b == 0 {
		return 0
	}
	return a * b / (a + b - a*b)
}

var tnorms = map[string]TNorm{
	"min":         Minimum,
	"minimum":     Minimum,
	"godel":       Minimum,
	"product":     Product,
	"prod":        Product,
	"lukasiewicz": Lukasiewicz,
	"luk":         Lukasiewicz,
	"drastic":     Drastic,
	"nilmin":      NilpotentMinimum,
	"hamacher":    HamacherProduct,
}

// TNormByName looks up a t-norm by its configuration name. The empty
// name selects Minimum.
func TNormByName(name string) (TNorm, error) {
	if name == "" {
		return Minimum, nil
	}
	if tn, ok := tnorms[strings.ToLower(name)]; ok {
		return tn, nil
	}
	return nil, errors.Wrapf(ErrInvalidArgument, "unknown t-norm %q (known: %s)", name, strings.Join(TNormNames(), ", "))
}

// TNormNames lists the accepted t-norm names.
func TNormNames() []string {
	names := make([]string, 0, len(tnorms))
	for n := range tnorms {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
