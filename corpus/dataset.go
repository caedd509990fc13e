package corpus

import (
	"fmt"
	"math"
)

// Dataset is the loaded, read-only view of one corpus: annotation trees and
// indices per meeting, plus the flattened notes and ground-truth boundary
// labels once ComposeNotes has run. A changed corpus requires a fresh load;
// there is no update path.
type Dataset struct {
	Name     string
	Meetings []string
	Speakers []string

	MinSegmentSize  int
	TimedUtterances bool

	Annos       map[string]*Node
	AnnoIndices map[string]Index

	Notes       map[string][]*Utterance
	Transitions map[string]Transitions
}

// ComposeNotes flattens every meeting's leaves into the document-order
// utterance sequence, attaches composite display strings and derives the
// raw and smoothed boundary labels.
func (d *Dataset) ComposeNotes() {
	d.Notes = map[string][]*Utterance{}
	d.Transitions = map[string]Transitions{}

	for _, meeting := range d.Meetings {
		var notes []*Utterance
		var raw []int

		prevLeaf := 0
		for leafID, leaf := range Leaves(d.Annos[meeting]) {
			for _, utt := range leaf.Convo {
				if leafID != prevLeaf {
					raw = append(raw, 1)
					prevLeaf = leafID
				} else {
					raw = append(raw, 0)
				}
				utt.Composite = d.composeUtterance(utt)
				notes = append(notes, utt)
			}
		}

		d.Notes[meeting] = notes
		d.Transitions[meeting] = Transitions{
			Raw:      raw,
			Smoothed: Smooth(raw, d.MinSegmentSize),
		}
	}
}

func (d *Dataset) composeUtterance(u *Utterance) string {
	if !d.TimedUtterances {
		return "-" + u.Text
	}
	return fmt.Sprintf("[%s-%s] Speaker %s: %s",
		toHHMMSS(u.Start-u.SOT), toHHMMSS(u.End-u.SOT), u.Speaker, u.Text)
}

// toHHMMSS renders seconds as hh:mm:ss.mmm.
func toHHMMSS(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	ms := int(math.Round(sec * 1000))
	return fmt.Sprintf("%02d:%02d:%02d.%03d",
		ms/3600000, ms%3600000/60000, ms%60000/1000, ms%1000)
}
