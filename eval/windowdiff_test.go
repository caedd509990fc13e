package eval

import (
	"math"
	"testing"
)

func TestLabelString(t *testing.T) {
	if got := LabelString([]int{0, 1, 1, 0}); got != "0110" {
		t.Fatalf("got %q", got)
	}
	if got := LabelString(nil); got != "" {
		t.Fatalf("empty labels: %q", got)
	}
}

func TestWindowDiffIdenticalSequences(t *testing.T) {
	got, err := WindowDiff("010010", "010010", 3)
	if err != nil {
		t.Fatalf("WindowDiff: %v", err)
	}
	if got != 0 {
		t.Fatalf("identical sequences must score 0, got %v", got)
	}
}

func TestWindowDiffShiftedBoundary(t *testing.T) {
	// Windows of size 2: (01,00) differ, (10,01) agree, (00,10) differ.
	got, err := WindowDiff("0100", "0010", 2)
	if err != nil {
		t.Fatalf("WindowDiff: %v", err)
	}
	if math.Abs(got-2.0/3.0) > 1e-12 {
		t.Fatalf("got %v want 2/3", got)
	}
}

func TestWindowDiffFullWindow(t *testing.T) {
	// k equal to the sequence length leaves a single window.
	got, err := WindowDiff("0101", "1010", 4)
	if err != nil {
		t.Fatalf("WindowDiff: %v", err)
	}
	if got != 0 {
		t.Fatalf("equal boundary counts in the only window: got %v", got)
	}
}

func TestWindowDiffErrors(t *testing.T) {
	if _, err := WindowDiff("010", "0100", 2); err == nil {
		t.Fatal("expected error for length mismatch")
	}
	if _, err := WindowDiff("010", "010", 0); err == nil {
		t.Fatal("expected error for window size 0")
	}
	if _, err := WindowDiff("010", "010", 4); err == nil {
		t.Fatal("expected error for window larger than sequence")
	}
}
