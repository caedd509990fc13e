package corpus

// Transitions holds the boundary labels for one meeting, aligned one-to-one
// with the flattened utterance sequence. Raw has a 1 on the first utterance
// of every leaf change; Smoothed additionally enforces the minimum segment
// size.
type Transitions struct {
	Raw      []int
	Smoothed []int
}

// Smooth enforces the minimum segment size m over a copy of raw, scanning
// left to right. Suppression mutates the working copy in place and the
// window check reads that same copy, so suppression cascades: a cluster of
// boundaries closer together than m collapses to its first member.
//
// The window at position i covers the m-1 prior positions, lower bound
// clamped to 0, so two surviving boundaries may sit exactly m apart.
func Smooth(raw []int, m int) []int {
	out := make([]int, len(raw))
	copy(out, raw)

	for i := range out {
		if out[i] == 0 {
			continue
		}
		lo := i - m + 1
		if lo < 0 {
			lo = 0
		}
		for j := lo; j < i; j++ {
			if out[j] == 1 {
				out[i] = 0
				break
			}
		}
	}
	return out
}
