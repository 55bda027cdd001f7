package gas

import "math"

type Mode string

const (
	ModeLow  Mode = "low"
	ModeHigh Mode = "high"
)

type Fuel string

const (
	FuelNaturalGas Fuel = "natural_gas"
	FuelPropane    Fuel = "propane"
)

// Atmospheric pressure added to gauge readings, psi.
const atmospherePSI = 14.7

// LowPressureDrops lists the selectable low-pressure drops, inches w.c.
var LowPressureDrops = []float64{0.3, 0.5, 1.0, 2.0, 3.0, 6.0}

// High-pressure drop allowed for each inlet class, psi.
var highPressureDrops = map[int]float64{
	2: 1,
	3: 2,
	5: 3.5,
}

type Coefficients struct {
	Cr float64 `json:"cr"`
	Y  float64 `json:"y"`
}

var fuelCoefficients = map[Fuel]Coefficients{
	FuelNaturalGas: {Cr: 0.6094, Y: 0.9992},
	FuelPropane:    {Cr: 1.2462, Y: 0.9910},
}

// Regime selects which IFGC equation applies. InletPSI is read only in
// high-pressure mode, PressureDrop only in low-pressure mode.
type Regime struct {
	Mode         Mode    `json:"mode" yaml:"mode"`
	InletPSI     int     `json:"inlet_psi,omitempty" yaml:"inlet_psi,omitempty"`
	PressureDrop float64 `json:"pressure_drop,omitempty" yaml:"pressure_drop,omitempty"`
}

func LowPressure(drop float64) Regime {
	return Regime{Mode: ModeLow, PressureDrop: drop}
}

func HighPressure(inletPSI int) Regime {
	return Regime{Mode: ModeHigh, InletPSI: inletPSI}
}

// Profile is the resolved pressure terms and fuel coefficients for one regime.
// P1 and P2 are absolute pressures and are zero in low-pressure mode.
type Profile struct {
	Mode          Mode         `json:"mode"`
	DropMagnitude float64      `json:"drop_magnitude"`
	P1            float64      `json:"p1_psia,omitempty"`
	P2            float64      `json:"p2_psia,omitempty"`
	Coefficients  Coefficients `json:"coefficients"`
}

func CoefficientsFor(fuel Fuel) (Coefficients, error) {
	c, ok := fuelCoefficients[fuel]
	if !ok {
		return Coefficients{}, ErrInvalidFuel.Here().Appendf("%q", fuel)
	}
	return c, nil
}

// HighPressureDrop returns the allowed drop for an inlet pressure class.
func HighPressureDrop(inletPSI int) (float64, error) {
	drop, ok := highPressureDrops[inletPSI]
	if !ok {
		return 0, ErrInvalidRegime.Here().Appendf("inlet pressure %d psi is not one of 2, 3, 5", inletPSI)
	}
	return drop, nil
}

func validLowPressureDrop(drop float64) bool {
	for _, d := range LowPressureDrops {
		if d == drop {
			return true
		}
	}
	return false
}

func Resolve(regime Regime, fuel Fuel) (Profile, error) {
	coef, err := CoefficientsFor(fuel)
	if err != nil {
		return Profile{}, err
	}

	switch regime.Mode {
	case ModeHigh:
		drop, err := HighPressureDrop(regime.InletPSI)
		if err != nil {
			return Profile{}, err
		}
		inlet := float64(regime.InletPSI)
		return Profile{
			Mode:          ModeHigh,
			DropMagnitude: drop,
			P1:            inlet + atmospherePSI,
			P2:            (inlet - drop) + atmospherePSI,
			Coefficients:  coef,
		}, nil
	case ModeLow:
		if math.IsNaN(regime.PressureDrop) || !validLowPressureDrop(regime.PressureDrop) {
			return Profile{}, ErrInvalidRegime.Here().Appendf("pressure drop %v is not a selectable value", regime.PressureDrop)
		}
		return Profile{
			Mode:          ModeLow,
			DropMagnitude: regime.PressureDrop,
			Coefficients:  coef,
		}, nil
	default:
		return Profile{}, ErrInvalidRegime.Here().Appendf("unknown mode %q", regime.Mode)
	}
}
