package pipeline

// Milestone progress values of the four-phase job scale
const (
	progressRunning     = 5
	progressNormalized  = 15
	progressEngineReady = 25
	progressStreamCap   = 95
	progressDone        = 100
)

// progressTracker computes monotonic, bounded progress percentages from
// elapsed-segment-time over total-duration ratios. With an unknown total
// duration the tracker never advances; progress then moves only on the
// fixed phase milestones.
type progressTracker struct {
	total float64
	last  int
}

func newProgressTracker(totalSecs float64) *progressTracker {
	return &progressTracker{
		total: totalSecs,
		last:  progressEngineReady,
	}
}

// Advance reports the progress for a segment ending at endSecs. The
// second return is true only when the value strictly exceeds the last
// reported one, so callers write no redundant or regressing updates.
func (t *progressTracker) Advance(endSecs float64) (int, bool) {
	if t.total <= 0 {
		return 0, false
	}

	cur := progressEngineReady + int(endSecs/t.total*70)
	if cur > progressStreamCap {
		cur = progressStreamCap
	}

	if cur <= t.last {
		return 0, false
	}
	t.last = cur
	return cur, true
}
