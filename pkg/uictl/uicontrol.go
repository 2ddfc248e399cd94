// Package uictl defines the small read/write controls a TUI uses to observe
// and steer long-running work such as a microphone recording.
package uictl

import "golang.org/x/exp/constraints"

// Number is any integer or float type.
type Number interface {
	constraints.Integer | constraints.Float
}

// Knob is an on/off toggle.
type Knob interface {
	Read() bool
	On()
	Off()
	Toggle()
}

// Dial reads a single value.
type Dial[N Number] interface {
	Read() N
}

// CappedDial is a Dial with a maximum. A zero maximum means unbounded.
type CappedDial[N Number] interface {
	Dial[N]
	Cap() (num, max N)
}

// Levels reads a window of samples.
type Levels[N Number] interface {
	Read() []N
}

// Fraction returns how full d is, clamped to [0,1]. Unbounded dials report 0.
func Fraction[N Number](d CappedDial[N]) float64 {
	num, maxValue := d.Cap()
	if maxValue <= 0 {
		return 0
	}

	f := float64(num) / float64(maxValue)

	return min(max(f, 0), 1)
}
