package gas

import (
	"math"
	"strings"

	"github.com/ansel1/merry"
	"gonum.org/v1/gonum/floats/scalar"
)

// ToleranceFt is how far a computed size may differ from the recorded one
// and still count as unchanged.
const ToleranceFt = 1e-4

type Outcome string

const (
	OutcomeUnchanged         Outcome = "unchanged"
	OutcomeResized           Outcome = "resized"
	OutcomeOutOfCatalogRange Outcome = "out_of_catalog_range"
	OutcomeInvalidInput      Outcome = "invalid_input"
)

// Segment is one pipe as read from the host model.
type Segment struct {
	ID         int64   `json:"id" yaml:"id"`
	SystemType string  `json:"system_type,omitempty" yaml:"system_type,omitempty"`
	FlowMBH    float64 `json:"flow_mbh" yaml:"flow_mbh"`
	DiameterFt float64 `json:"diameter_ft" yaml:"diameter_ft"`
}

// IsGas reports whether the segment belongs to a gas piping system.
func (s Segment) IsGas() bool {
	return strings.Contains(strings.ToLower(s.SystemType), "gas")
}

// Request holds everything the user chooses once for a whole sizing run.
type Request struct {
	DevelopedLengthFt float64 `json:"developed_length_ft" yaml:"developed_length_ft"`
	Regime            Regime  `json:"regime" yaml:"regime"`
	Fuel              Fuel    `json:"fuel" yaml:"fuel"`
	ApplyChanges      bool    `json:"apply_changes" yaml:"apply_changes"`
	CloseAfterRun     bool    `json:"close_after_run" yaml:"close_after_run"`
}

func (r Request) Validate() error {
	if !positive(r.DevelopedLengthFt) {
		return ErrInvalidRequest.Here().Appendf("developed length %v ft", r.DevelopedLengthFt)
	}
	if _, err := Resolve(r.Regime, r.Fuel); err != nil {
		return merry.Prepend(err, ErrInvalidRequest.Error())
	}
	return nil
}

type Input struct {
	GasLoadMBH        float64 `json:"gas_load_mbh"`
	DevelopedLengthFt float64 `json:"developed_length_ft"`
	CurrentDiameterFt float64 `json:"current_diameter_ft"`
	Regime            Regime  `json:"regime"`
	Fuel              Fuel    `json:"fuel"`
}

type Result struct {
	SegmentID  int64   `json:"segment_id,omitempty"`
	DiameterIn float64 `json:"diameter_in"`
	NominalFt  float64 `json:"nominal_ft"`
	PreviousFt float64 `json:"previous_ft"`
	Changed    bool    `json:"changed"`
	Outcome    Outcome `json:"outcome"`
	Profile    Profile `json:"profile"`
	Notes      string  `json:"notes,omitempty"`
}

// NominalIn is the selected nominal size in inches.
func (r Result) NominalIn() float64 {
	return r.NominalFt * 12.0
}

// PreviousIn is the recorded size in inches before sizing.
func (r Result) PreviousIn() float64 {
	return r.PreviousFt * 12.0
}

// roundRecorded trims float noise from a diameter read from the host model.
func roundRecorded(ft float64) float64 {
	const scale = 1e11
	return math.Round(ft*scale) / scale
}

// Calculate sizes a single segment. The returned Result is filled in as far
// as the computation got, so an ErrNoMatch result still carries the
// theoretical diameter.
func Calculate(in Input) (Result, error) {
	res := Result{
		PreviousFt: roundRecorded(in.CurrentDiameterFt),
		Outcome:    OutcomeInvalidInput,
	}

	profile, err := Resolve(in.Regime, in.Fuel)
	if err != nil {
		return res, err
	}
	res.Profile = profile

	d, err := Diameter(in.GasLoadMBH, in.DevelopedLengthFt, profile)
	if err != nil {
		return res, err
	}
	res.DiameterIn = d

	size, err := RoundUp(d)
	if err != nil {
		if merry.Is(err, ErrNoMatch) {
			res.Outcome = OutcomeOutOfCatalogRange
			res.Notes = "Cannot size within catalog range; segment left as is."
		}
		return res, err
	}
	if size.Empty() {
		res.NominalFt = res.PreviousFt
		res.Outcome = OutcomeUnchanged
		res.Notes = "No sizing needed."
		return res, nil
	}

	res.NominalFt = size.NominalFeet()
	if scalar.EqualWithinAbs(res.NominalFt, res.PreviousFt, ToleranceFt) {
		res.Outcome = OutcomeUnchanged
		res.Notes = "Segment already at required size."
		return res, nil
	}
	res.Changed = true
	res.Outcome = OutcomeResized
	res.Notes = "IFGC " + string(profile.Mode) + "-pressure sizing."
	return res, nil
}

// Evaluate sizes a host segment under a run request. Sizing errors are
// folded into the result outcome.
func Evaluate(seg Segment, req Request) Result {
	res, err := Calculate(Input{
		GasLoadMBH:        seg.FlowMBH,
		DevelopedLengthFt: req.DevelopedLengthFt,
		CurrentDiameterFt: seg.DiameterFt,
		Regime:            req.Regime,
		Fuel:              req.Fuel,
	})
	res.SegmentID = seg.ID
	if err != nil && res.Outcome == OutcomeInvalidInput {
		res.Notes = err.Error()
	}
	return res
}
