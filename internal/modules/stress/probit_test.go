package stress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prudentia/risk-engine/pkg/formulas"
)

func TestProbitShiftZeroShockIsIdentity(t *testing.T) {
	for _, pd := range []float64{1e-6, 0.001, 0.01, 0.5, 0.99, 1 - 1e-6} {
		for _, sensitivity := range []float64{0.0, 0.5, 1.0, 2.0} {
			assert.Equal(t, pd, ProbitShift(pd, sensitivity, 0, DefaultPDEpsilon),
				"pd=%v sensitivity=%v", pd, sensitivity)
		}
		// Zero sensitivity neutralizes any shock.
		assert.Equal(t, pd, ProbitShift(pd, 0, 3.0, DefaultPDEpsilon))
	}
}

// Worked example from the stress methodology: PD=1%, sensitivity=0.5, Z=3
// shifts the default threshold by 1.5 standard deviations.
func TestProbitShiftWorkedExample(t *testing.T) {
	stressed := ProbitShift(0.01, 0.5, 3.0, DefaultPDEpsilon)

	expected := formulas.NormCDF(formulas.NormInvCDF(0.01) + 1.5)
	assert.InDelta(t, expected, stressed, 1e-15)
	assert.InDelta(t, 0.2043034, stressed, 1e-6)
}

func TestProbitShiftMonotoneInZ(t *testing.T) {
	prev := 0.0
	for _, z := range []float64{0, 0.5, 1.0, 1.5, 2.0, 3.0, 5.0} {
		stressed := ProbitShift(0.01, 0.5, z, DefaultPDEpsilon)
		assert.GreaterOrEqual(t, stressed, prev, "z=%v", z)
		prev = stressed
	}
}

func TestProbitShiftClampsAtBounds(t *testing.T) {
	epsilon := DefaultPDEpsilon

	// A massive adverse shock saturates at 1-epsilon, never at 1.
	up := ProbitShift(0.5, 1.0, 50.0, epsilon)
	assert.Equal(t, 1-epsilon, up)

	// A massive benign shock saturates at epsilon, never at 0.
	down := ProbitShift(0.5, 1.0, -50.0, epsilon)
	assert.Equal(t, epsilon, down)
}

func TestProbitShiftHonorsConfiguredEpsilon(t *testing.T) {
	epsilon := 1e-4
	up := ProbitShift(0.9, 1.0, 40.0, epsilon)
	assert.Equal(t, 1-epsilon, up)
}

func TestProbitShiftNegativeShockReducesPD(t *testing.T) {
	stressed := ProbitShift(0.05, 1.0, -1.0, DefaultPDEpsilon)
	assert.Less(t, stressed, 0.05)
	assert.Greater(t, stressed, 0.0)
}
