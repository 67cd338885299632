package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversions(t *testing.T) {
	assert.InDelta(t, math.Pi/3, Radians(NominalWedgeAngle), 1e-12)
	assert.Equal(t, 1500.0, KPa(1.5))
	assert.InDelta(t, 26.487, UnitWeight(2700), 1e-9)
}
