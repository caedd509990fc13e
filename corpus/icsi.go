package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path/filepath"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// ICSI directory layout inside the corpus root.
const (
	icsiMetaFile = "ICSI-metadata.xml"
	icsiAnnoDir  = "Contributions/TopicSegmentation"
	icsiSegDir   = "Segments"
	icsiWordDir  = "Words"
)

type icsiLoader struct {
	root     string
	meetings []string
	speakers []string

	// meeting -> speaker -> token stream
	words map[string]map[string]*TokenIndex
	// meeting -> speaker -> segment key -> utterance
	index map[string]map[string]map[string]*Utterance
}

// LoadICSI loads the ICSI corpus under root: per-speaker word streams, the
// segment files that group them into utterances, and the topic annotation
// trees. Restricted mode keeps the first five meetings only.
func LoadICSI(root string, minSegmentSize int, timed, restricted bool) (*Dataset, error) {
	l := &icsiLoader{root: root}

	speakers, err := loadSpeakers(filepath.Join(root, icsiMetaFile))
	if err != nil {
		return nil, err
	}
	l.speakers = speakers

	meetings, err := listMeetings(filepath.Join(root, icsiAnnoDir))
	if err != nil {
		return nil, err
	}
	if restricted && len(meetings) > 5 {
		meetings = meetings[:5]
	}
	l.meetings = meetings

	if err := l.loadWords(); err != nil {
		return nil, err
	}
	if err := l.loadUtterances(); err != nil {
		return nil, err
	}

	ds := &Dataset{
		Name:            "icsi",
		Meetings:        meetings,
		Speakers:        speakers,
		MinSegmentSize:  minSegmentSize,
		TimedUtterances: timed,
		Annos:           map[string]*Node{},
		AnnoIndices:     map[string]Index{},
	}
	if err := l.loadAnnoTrees(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

func (l *icsiLoader) loadWords() error {
	l.words = map[string]map[string]*TokenIndex{}
	for _, meeting := range l.meetings {
		byspk, err := l.loadMeetingWords(meeting)
		if err != nil {
			return err
		}
		l.words[meeting] = byspk
	}
	return nil
}

// loadMeetingWords builds one TokenIndex per speaker present in the
// meeting. A missing words file just means the speaker was absent.
func (l *icsiLoader) loadMeetingWords(meeting string) (map[string]*TokenIndex, error) {
	out := map[string]*TokenIndex{}

	for _, speaker := range l.speakers {
		fnm := filepath.Join(l.root, icsiWordDir, fmt.Sprintf("%s.%s.words.xml", meeting, speaker))
		root, err := parseMarkup(fnm)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.WithField("file", fnm).Warn("words file not found, skipping speaker")
				continue
			}
			return nil, err
		}

		ix := NewTokenIndex()
		var quotes QuoteStack

		for i := range root.Nodes {
			child := &root.Nodes[i]
			key, ok := child.attr("id")
			if !ok {
				return nil, fmt.Errorf("%s: token element without id", fnm)
			}
			// No "c" attribute means a comment or other non-spoken entry;
			// Classify turns those into gap placeholders.
			tag, _ := child.attr("c")

			tok, next, err := Classify(tag, child.Text, quotes)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", fnm, err)
			}
			quotes = next
			ix.Append(key, tok)
		}
		out[speaker] = ix
	}
	return out, nil
}

func (l *icsiLoader) loadUtterances() error {
	l.index = map[string]map[string]map[string]*Utterance{}

	for _, meeting := range l.meetings {
		byspk, err := l.loadMeetingUtterances(meeting)
		if err != nil {
			return err
		}

		// Start-of-transcript: earliest utterance start across all
		// speakers, used for relative display times.
		sot := math.Inf(1)
		for _, utts := range byspk {
			for _, u := range utts {
				if u.Start < sot {
					sot = u.Start
				}
			}
		}
		if math.IsInf(sot, 1) {
			sot = 0
		}

		l.index[meeting] = map[string]map[string]*Utterance{}
		for speaker, utts := range byspk {
			keyed := map[string]*Utterance{}
			for _, u := range utts {
				u.SOT = sot
				keyed[u.Key] = u
			}
			l.index[meeting][speaker] = keyed
		}
	}
	return nil
}

// loadMeetingUtterances walks each speaker's segment file and absorbs the
// referenced word range into one utterance per segment.
func (l *icsiLoader) loadMeetingUtterances(meeting string) (map[string][]*Utterance, error) {
	out := map[string][]*Utterance{}

	for speaker, ix := range l.words[meeting] {
		fnm := filepath.Join(l.root, icsiSegDir, fmt.Sprintf("%s.%s.segs.xml", meeting, speaker))
		root, err := parseMarkup(fnm)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.WithField("file", fnm).Error("segment file missing while words file exists")
				continue
			}
			return nil, err
		}

		// Supersegments are flattened into their member segments.
		var segs []*element
		for i := range root.Nodes {
			child := &root.Nodes[i]
			if typ, _ := child.attr("type"); typ == "supersegment" {
				for j := range child.Nodes {
					segs = append(segs, &child.Nodes[j])
				}
			} else {
				segs = append(segs, child)
			}
		}

		for _, seg := range segs {
			if len(seg.Nodes) == 0 {
				continue
			}

			segID, _ := seg.attr("id")
			href, ok := seg.Nodes[0].attr("href")
			if !ok {
				return nil, fmt.Errorf("%s segment %s: child reference without href", fnm, segID)
			}
			_, content, err := splitHref(href)
			if err != nil {
				return nil, fmt.Errorf("%s segment %s: %w", fnm, segID, err)
			}
			startKey, endKey := keyRange(content)
			lo, hi, err := ix.Span(startKey, endKey)
			if err != nil {
				return nil, fmt.Errorf("%s segment %s: %w", fnm, segID, err)
			}

			text, ok := absorbAll(ix.Tokens, lo, hi)
			if !ok {
				// Every token in the range was a gap; nothing spoken.
				continue
			}

			u := &Utterance{Key: segID, Speaker: speaker, Meeting: meeting, Text: text}
			if s, _ := seg.attr("starttime"); s != "" {
				if u.Start, err = strconv.ParseFloat(s, 64); err != nil {
					return nil, fmt.Errorf("%s segment %s: bad starttime: %w", fnm, segID, err)
				}
			}
			if e, _ := seg.attr("endtime"); e != "" {
				if u.End, err = strconv.ParseFloat(e, 64); err != nil {
					return nil, fmt.Errorf("%s segment %s: bad endtime: %w", fnm, segID, err)
				}
			} else {
				// A handful of segments in the corpus miss an end time;
				// one second is a tolerated approximation.
				u.End = u.Start + 1.0
			}
			out[speaker] = append(out[speaker], u)
		}
	}
	return out, nil
}

// loadAnnoTrees parses each meeting's topic annotation, normalizes it into
// the canonical shape, resolves utterance keys and prunes empty leaves.
// A missing annotation file is fatal.
func (l *icsiLoader) loadAnnoTrees(ds *Dataset) error {
	for _, meeting := range l.meetings {
		fnm := filepath.Join(l.root, icsiAnnoDir, meeting+".topic.xml")
		root, err := parseMarkup(fnm)
		if err != nil {
			return fmt.Errorf("annotation file for meeting %s: %w", meeting, err)
		}

		tree, err := buildPlaceholderTree(root)
		if err != nil {
			return fmt.Errorf("%s: %w", fnm, err)
		}

		ix := Index{}
		tree, err = Normalize("*", tree, ix)
		if err != nil {
			return fmt.Errorf("%s: %w", fnm, err)
		}

		resolveLeaves(tree, l.index[meeting])
		Finalize(ix, tree)

		ds.Annos[meeting] = tree
		ds.AnnoIndices[meeting] = ix
	}
	return nil
}

// buildPlaceholderTree builds the ICSI-dialect intermediate tree: topic
// elements recurse, segment references expand into unresolved utterance
// placeholders. Resolution happens later, in Normalize and resolveLeaves,
// because ICSI references point at whole utterances one level above the
// word streams.
func buildPlaceholderTree(node *element) (*Node, error) {
	anno := &Node{Tag: NodeTopic}
	if node.XMLName.Local == "root" {
		anno.Tag = NodeRoot
	}

	for i := range node.Nodes {
		entry := &node.Nodes[i]

		switch entry.XMLName.Local {
		case "pointer":
			continue
		case "topic":
			if len(entry.Nodes) == 0 {
				continue
			}
			child, err := buildPlaceholderTree(entry)
			if err != nil {
				return nil, err
			}
			anno.Children = append(anno.Children, child)
			continue
		}

		href, ok := entry.attr("href")
		if !ok {
			return nil, fmt.Errorf("unsupported annotation node type %q", entry.XMLName.Local)
		}
		meta, content, err := splitHref(href)
		if err != nil {
			return nil, err
		}
		keys, err := expandUtteranceKeys(content, hrefSpeaker(meta))
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			anno.Children = append(anno.Children, &Node{Tag: NodeUtterance, Key: key})
		}
	}
	return anno, nil
}
