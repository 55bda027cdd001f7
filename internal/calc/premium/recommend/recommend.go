package recommend

import (
	"Gaspipe/internal/calc/gas"
)

type CapacityInput struct {
	DevelopedLengthFt float64    `json:"developed_length_ft"`
	Regime            gas.Regime `json:"regime"`
	Fuel              gas.Fuel   `json:"fuel"`
	LoadMBH           float64    `json:"load_mbh,omitempty"`
}

type CapacityRow struct {
	NominalIn  float64 `json:"nominal_in"`
	InnerIn    float64 `json:"inner_in"`
	MaxLoadMBH float64 `json:"max_load_mbh"`
}

type CapacityResult struct {
	Profile     gas.Profile   `json:"profile"`
	Rows        []CapacityRow `json:"rows"`
	Recommended *CapacityRow  `json:"recommended,omitempty"`
	Notes       string        `json:"notes"`
}

// Capacities lists, for every catalog size, the gas load at which the
// theoretical diameter reaches the pipe's inside diameter. Loads at or above
// that value are sized to the next pipe up.
func Capacities(in CapacityInput) (CapacityResult, error) {
	profile, err := gas.Resolve(in.Regime, in.Fuel)
	if err != nil {
		return CapacityResult{}, err
	}
	catalog := gas.Catalog()
	out := CapacityResult{
		Profile: profile,
		Rows:    make([]CapacityRow, 0, len(catalog)),
		Notes:   "Maximum gas load per pipe size at the given developed length.",
	}
	for _, e := range catalog {
		q, err := gas.Capacity(e.InnerIn, in.DevelopedLengthFt, profile)
		if err != nil {
			return CapacityResult{}, err
		}
		out.Rows = append(out.Rows, CapacityRow{NominalIn: e.NominalIn, InnerIn: e.InnerIn, MaxLoadMBH: q})
	}
	if in.LoadMBH > 0 {
		if row, ok := out.Smallest(in.LoadMBH); ok {
			out.Recommended = &row
		} else {
			out.Notes = "Load exceeds the capacity of the largest catalog size."
		}
	}
	return out, nil
}

// Smallest returns the smallest catalog size whose capacity exceeds loadMBH.
func (r CapacityResult) Smallest(loadMBH float64) (CapacityRow, bool) {
	for _, row := range r.Rows {
		if row.MaxLoadMBH > loadMBH {
			return row, true
		}
	}
	return CapacityRow{}, false
}
