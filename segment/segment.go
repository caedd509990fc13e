package segment

import (
	"context"
	"fmt"
)

// Entry is the utterance view a segmenter sees: who spoke when, and what.
type Entry struct {
	Speaker string
	Start   float64
	End     float64
	Text    string
}

// Model segments one meeting into k topic segments. The returned labels
// must be one per entry, binary, with exactly k-1 ones; Validate enforces
// this on the caller side.
type Model interface {
	SegmentMeeting(ctx context.Context, k int) ([]int, error)
}

// Validate enforces the model output contract against n entries and k
// segments.
func Validate(labels []int, n, k int) error {
	if len(labels) != n {
		return fmt.Errorf("model returned %d labels for %d utterances", len(labels), n)
	}
	ones := 0
	for _, lab := range labels {
		switch lab {
		case 0:
		case 1:
			ones++
		default:
			return fmt.Errorf("model returned non-binary label %d", lab)
		}
	}
	if ones != k-1 {
		return fmt.Errorf("model returned %d boundaries, want %d", ones, k-1)
	}
	return nil
}
