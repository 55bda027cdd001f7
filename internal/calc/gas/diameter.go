package gas

import "math"

const (
	// MBH to cfh factor used by the sizing equations.
	loadFactor = 448.833

	loadExponent     = 0.381
	pressureExponent = 0.206

	highPressureConstant = 18.93
	lowPressureConstant  = 19.17
)

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Diameter returns the theoretical inside diameter in inches for a gas load
// in MBH carried over a developed length in feet.
//
// High pressure:
//
//	D = (Q*448.833)^0.381 / (18.93 * (|P2^2 - P1^2| * Y / (Cr * L))^0.206)
//
// Low pressure:
//
//	D = (Q*448.833)^0.381 / (19.17 * (dH / (Cr * L))^0.206)
func Diameter(loadMBH, lengthFt float64, p Profile) (float64, error) {
	if !positive(loadMBH) {
		return 0, ErrDomain.Here().Appendf("gas load %v MBH", loadMBH)
	}
	if !positive(lengthFt) {
		return 0, ErrDomain.Here().Appendf("developed length %v ft", lengthFt)
	}
	if p.Coefficients.Cr <= 0 {
		return 0, ErrDomain.Here().Append("unresolved pressure profile")
	}

	c, bracket, err := bracketTerm(lengthFt, p)
	if err != nil {
		return 0, err
	}
	return math.Pow(loadMBH*loadFactor, loadExponent) / (c * bracket), nil
}

func bracketTerm(lengthFt float64, p Profile) (constant, bracket float64, err error) {
	friction := p.Coefficients.Cr * lengthFt
	switch p.Mode {
	case ModeHigh:
		dp := math.Abs(p.P2*p.P2 - p.P1*p.P1)
		return highPressureConstant, math.Pow(dp*p.Coefficients.Y/friction, pressureExponent), nil
	case ModeLow:
		return lowPressureConstant, math.Pow(p.DropMagnitude/friction, pressureExponent), nil
	}
	return 0, 0, ErrInvalidRegime.Here().Appendf("unknown mode %q", p.Mode)
}

// Capacity inverts Diameter: the gas load in MBH whose theoretical diameter
// equals diameterIn over lengthFt.
func Capacity(diameterIn, lengthFt float64, p Profile) (float64, error) {
	if !positive(diameterIn) {
		return 0, ErrDomain.Here().Appendf("diameter %v in", diameterIn)
	}
	if !positive(lengthFt) {
		return 0, ErrDomain.Here().Appendf("developed length %v ft", lengthFt)
	}
	if p.Coefficients.Cr <= 0 {
		return 0, ErrDomain.Here().Append("unresolved pressure profile")
	}
	c, bracket, err := bracketTerm(lengthFt, p)
	if err != nil {
		return 0, err
	}
	return math.Pow(diameterIn*c*bracket, 1/loadExponent) / loadFactor, nil
}
