package calculator

// Spike detection parameters: the latest bar is compared against the mean of
// the 20 bars preceding the most recent 5.
const (
	spikeLookback  = 25
	spikeExcluded  = 5
	spikeThreshold = 2.0
)

// DetectVolumeSpike checks whether the latest bar's volume is abnormally high
// relative to the recent baseline. Returns (ratio, latestVolume, true) when the
// latest volume is at least 2x the baseline. Needs at least 25 bars.
func DetectVolumeSpike(volumes []float64) (ratio, current float64, ok bool) {
	n := len(volumes)
	if n < spikeLookback {
		return 0, 0, false
	}
	var baseline float64
	for _, v := range volumes[n-spikeLookback : n-spikeExcluded] {
		baseline += v
	}
	baseline /= float64(spikeLookback - spikeExcluded)
	if baseline <= 0 {
		return 0, 0, false
	}
	current = volumes[n-1]
	ratio = current / baseline
	if ratio < spikeThreshold {
		return 0, 0, false
	}
	return ratio, current, true
}
