package uictl_test

import (
	"testing"

	"github.com/alkime/englishpro/pkg/uictl"
	"github.com/stretchr/testify/assert"
)

type fixed struct{ num, max int64 }

func (f fixed) Read() int64         { return f.num }
func (f fixed) Cap() (int64, int64) { return f.num, f.max }

type fixedFloat struct{ num, max float32 }

func (f fixedFloat) Read() float32           { return f.num }
func (f fixedFloat) Cap() (float32, float32) { return f.num, f.max }

func TestFraction(t *testing.T) {
	assert.InDelta(t, 0.25, uictl.Fraction[int64](fixed{num: 25, max: 100}), 1e-9)
	assert.InDelta(t, 1.0, uictl.Fraction[int64](fixed{num: 150, max: 100}), 1e-9)
	assert.InDelta(t, 0.0, uictl.Fraction[int64](fixed{num: 10, max: 0}), 1e-9, "unbounded")
	assert.InDelta(t, 0.5, uictl.Fraction[float32](fixedFloat{num: 1.5, max: 3}), 1e-6)
}
