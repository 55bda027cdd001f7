package gas

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats/scalar"
)

// Entry is a commercial pipe size: actual inside diameter and the nominal
// size it is sold as, both in inches.
type Entry struct {
	InnerIn   float64 `json:"inner_in"`
	NominalIn float64 `json:"nominal_in"`
}

func (e Entry) NominalFeet() float64 {
	return e.NominalIn / 12.0
}

// Empty reports whether e is the zero Entry returned when nothing needed sizing.
func (e Entry) Empty() bool {
	return e == Entry{}
}

var catalog = [...]Entry{
	{InnerIn: 0.824, NominalIn: 0.75},
	{InnerIn: 1.049, NominalIn: 1.00},
	{InnerIn: 1.380, NominalIn: 1.25},
	{InnerIn: 1.610, NominalIn: 1.50},
	{InnerIn: 2.067, NominalIn: 2.00},
	{InnerIn: 2.469, NominalIn: 2.50},
	{InnerIn: 3.068, NominalIn: 3.00},
	{InnerIn: 4.026, NominalIn: 4.00},
	{InnerIn: 6.065, NominalIn: 6.00},
	{InnerIn: 7.981, NominalIn: 8.00},
}

var catalogInner = func() []float64 {
	inner := make([]float64, len(catalog))
	nominal := make([]float64, len(catalog))
	for i, e := range catalog {
		inner[i] = e.InnerIn
		nominal[i] = e.NominalIn
	}
	if !strictlyIncreasing(inner) || !strictlyIncreasing(nominal) {
		panic("gas: pipe catalog is not strictly increasing")
	}
	return inner
}()

func strictlyIncreasing(s []float64) bool {
	if !sort.Float64sAreSorted(s) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if scalar.EqualWithinAbs(s[i], s[i-1], 0) {
			return false
		}
	}
	return true
}

// Catalog returns a copy of the pipe catalog in ascending order.
func Catalog() []Entry {
	out := make([]Entry, len(catalog))
	copy(out, catalog[:])
	return out
}

// MaxInnerIn is the largest inside diameter the catalog can serve.
func MaxInnerIn() float64 {
	return catalog[len(catalog)-1].InnerIn
}

// RoundUp maps a theoretical diameter in inches to the first catalog entry
// whose inside diameter is strictly larger. A diameter equal to a catalog
// inside diameter therefore gets the next size up.
//
// A zero diameter needs no sizing: RoundUp returns the zero Entry and no error.
func RoundUp(diameterIn float64) (Entry, error) {
	if math.IsNaN(diameterIn) || diameterIn < 0 {
		return Entry{}, ErrDomain.Here().Appendf("diameter %v in", diameterIn)
	}
	if diameterIn == 0 {
		return Entry{}, nil
	}
	i := sort.Search(len(catalogInner), func(i int) bool {
		return catalogInner[i] > diameterIn
	})
	if i == len(catalogInner) {
		return Entry{}, ErrNoMatch.Here().Appendf("%.3f in exceeds %.3f in", diameterIn, MaxInnerIn())
	}
	return catalog[i], nil
}
