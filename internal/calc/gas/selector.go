package gas

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseInletSelector reads an inlet pressure label such as "5 psi". Only the
// leading digit is significant, matching the labels of the pressure classes.
func ParseInletSelector(label string) (int, error) {
	label = strings.TrimSpace(label)
	if label == "" || !unicode.IsDigit(rune(label[0])) {
		return 0, ErrInvalidRegime.Here().Appendf("inlet selector %q", label)
	}
	psi := int(label[0] - '0')
	if _, err := HighPressureDrop(psi); err != nil {
		return 0, err
	}
	return psi, nil
}

// ParseDropSelector reads a pressure drop label such as "0.5 in. w.c.".
func ParseDropSelector(label string) (float64, error) {
	label = strings.TrimSpace(label)
	end := strings.IndexFunc(label, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	if end < 0 {
		end = len(label)
	}
	drop, err := strconv.ParseFloat(label[:end], 64)
	if err != nil {
		return 0, ErrInvalidRegime.Here().Appendf("pressure drop selector %q", label)
	}
	if !validLowPressureDrop(drop) {
		return 0, ErrInvalidRegime.Here().Appendf("pressure drop %v is not a selectable value", drop)
	}
	return drop, nil
}

// ParseFuel accepts the stored fuel names and the common labels.
func ParseFuel(label string) (Fuel, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "natural_gas", "natural gas", "ng", "natural":
		return FuelNaturalGas, nil
	case "propane", "lp", "lpg":
		return FuelPropane, nil
	}
	return "", ErrInvalidFuel.Here().Appendf("%q", label)
}

// ParseRegime builds a regime from a mode name and the matching selector label.
func ParseRegime(mode, selector string) (Regime, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(mode))) {
	case ModeHigh:
		psi, err := ParseInletSelector(selector)
		if err != nil {
			return Regime{}, err
		}
		return HighPressure(psi), nil
	case ModeLow:
		drop, err := ParseDropSelector(selector)
		if err != nil {
			return Regime{}, err
		}
		return LowPressure(drop), nil
	}
	return Regime{}, ErrInvalidRegime.Here().Appendf("unknown mode %q", mode)
}
