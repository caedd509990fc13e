// Package eval implements the window-based disagreement metric used to
// compare predicted boundary sequences against the ground truth.
package eval

import (
	"fmt"
	"strings"
)

// LabelString renders a boundary vector as a '0'/'1' string for
// window-based comparison.
func LabelString(labels []int) string {
	var b strings.Builder
	b.Grow(len(labels))
	for _, lab := range labels {
		if lab == 1 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// WindowDiff slides a window of size k over two equal-length boundary
// strings and returns the fraction of windows whose boundary counts
// disagree.
func WindowDiff(ref, hyp string, k int) (float64, error) {
	if len(ref) != len(hyp) {
		return 0, fmt.Errorf("label sequences differ in length: %d vs %d", len(ref), len(hyp))
	}
	if k < 1 || k > len(ref) {
		return 0, fmt.Errorf("window size %d out of range for %d labels", k, len(ref))
	}

	windows := len(ref) - k + 1
	disagree := 0
	for i := 0; i < windows; i++ {
		if countBoundaries(ref[i:i+k]) != countBoundaries(hyp[i:i+k]) {
			disagree++
		}
	}
	return float64(disagree) / float64(windows), nil
}

func countBoundaries(s string) int {
	return strings.Count(s, "1")
}
