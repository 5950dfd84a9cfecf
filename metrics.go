package ridemetrics

import "math"

// npWindow is the rolling-average span used for normalized power. The
// window is a literal sample count assuming roughly 1 Hz recording, not a
// timestamp-aware 30 second span.
const npWindow = 30

func averagePower(powers []float64) float64 {
	if len(powers) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range powers {
		sum += p
	}
	return sum / float64(len(powers))
}

// normalizedPower is the fourth root of the mean of fourth powers of the
// 30-sample rolling average. Only full windows count; sequences shorter
// than the window fall back to the plain average.
func normalizedPower(powers []float64) float64 {
	if len(powers) == 0 {
		return 0
	}
	if len(powers) < npWindow {
		return averagePower(powers)
	}

	sum := 0.0
	for i := 0; i < npWindow; i++ {
		sum += powers[i]
	}

	fourthPowerTotal := 0.0
	count := 0
	for i := npWindow - 1; i < len(powers); i++ {
		if i >= npWindow {
			sum += powers[i] - powers[i-npWindow]
		}
		rolling := sum / float64(npWindow)
		fourthPowerTotal += math.Pow(rolling, 4)
		count++
	}
	return math.Pow(fourthPowerTotal/float64(count), 0.25)
}

// nonCoastingAverage averages the samples with power strictly above zero,
// returning 0 when the whole ride was coasting.
func nonCoastingAverage(powers []float64) float64 {
	sum := 0.0
	count := 0
	for _, p := range powers {
		if p > 0 {
			sum += p
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// rideEnergyKJ integrates power over time holding each interval's leading
// sample value. Non-positive deltas (duplicate or out-of-order timestamps)
// contribute nothing.
func rideEnergyKJ(samples []Sample) float64 {
	if len(samples) < 2 {
		return 0
	}
	joules := 0.0
	for i := 1; i < len(samples); i++ {
		delta := samples[i].Timestamp.Sub(samples[i-1].Timestamp).Seconds()
		if delta <= 0 {
			continue
		}
		joules += samples[i-1].PowerW * delta
	}
	return joules / 1000.0
}
