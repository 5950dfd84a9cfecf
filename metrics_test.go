package ridemetrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAveragePower(t *testing.T) {
	assert.Equal(t, 0.0, averagePower(nil))
	assert.InDelta(t, 150.0, averagePower([]float64{100, 150, 200}), 1e-9)
}

func TestNormalizedPowerFallbackUnderWindow(t *testing.T) {
	powers := []float64{100, 210, 130, 90, 0, 305, 180, 220, 145, 160}
	require.Less(t, len(powers), npWindow)
	assert.InDelta(t, averagePower(powers), normalizedPower(powers), 1e-9)
}

func TestNormalizedPowerConstantSequence(t *testing.T) {
	powers := make([]float64, 45)
	for i := range powers {
		powers[i] = 200
	}
	assert.InDelta(t, 200.0, normalizedPower(powers), 1e-9)
}

func TestNormalizedPowerWeightsSurges(t *testing.T) {
	// 30 samples at 100 W followed by 30 at 300 W: the fourth-power mean
	// must exceed the arithmetic mean.
	powers := make([]float64, 0, 60)
	for i := 0; i < 30; i++ {
		powers = append(powers, 100)
	}
	for i := 0; i < 30; i++ {
		powers = append(powers, 300)
	}
	np := normalizedPower(powers)
	assert.Greater(t, np, averagePower(powers))
	assert.Less(t, np, 300.0)
}

func TestNormalizedPowerEmpty(t *testing.T) {
	assert.Equal(t, 0.0, normalizedPower(nil))
}

func TestNonCoastingAverage(t *testing.T) {
	assert.InDelta(t, 200.0, nonCoastingAverage([]float64{0, 150, 0, 250, 0}), 1e-9)
	assert.Equal(t, 0.0, nonCoastingAverage([]float64{0, 0, 0}))
	assert.Equal(t, 0.0, nonCoastingAverage(nil))
}

func TestRideEnergyKJLeftHold(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	samples := []Sample{
		{Timestamp: t0, PowerW: 100},
		{Timestamp: t0.Add(1 * time.Second), PowerW: 150},
		{Timestamp: t0.Add(3 * time.Second), PowerW: 200},
	}
	// 100*1 + 150*2 joules; the last sample has no forward delta.
	assert.InDelta(t, 0.4, rideEnergyKJ(samples), 1e-9)
}

func TestRideEnergyKJSkipsNonPositiveDeltas(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	samples := []Sample{
		{Timestamp: t0, PowerW: 100},
		{Timestamp: t0.Add(1 * time.Second), PowerW: 150},
		{Timestamp: t0.Add(1 * time.Second), PowerW: 150},
		{Timestamp: t0.Add(2 * time.Second), PowerW: 200},
	}
	// The duplicate timestamp contributes zero energy.
	assert.InDelta(t, 0.25, rideEnergyKJ(samples), 1e-9)
}

func TestRideEnergyKJTooFewSamples(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 0.0, rideEnergyKJ(nil))
	assert.Equal(t, 0.0, rideEnergyKJ([]Sample{{Timestamp: t0, PowerW: 250}}))
}
