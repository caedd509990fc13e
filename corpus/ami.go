package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// AMI directory layout inside the corpus root.
const (
	amiMetaFile = "AMI-metadata.xml"
	amiAnnoDir  = "topics"
	amiWordDir  = "words"
)

type amiLoader struct {
	root     string
	meetings []string
	speakers []string

	// meeting -> speaker -> token stream
	words map[string]map[string]*TokenIndex
}

// LoadAMI loads the AMI corpus under root. AMI has no segment files: the
// topic annotations reference word ranges directly and utterances are cut
// at sentence-final punctuation while the tree is built.
func LoadAMI(root string, minSegmentSize int, timed, restricted bool) (*Dataset, error) {
	l := &amiLoader{root: root}

	speakers, err := loadSpeakers(filepath.Join(root, amiMetaFile))
	if err != nil {
		return nil, err
	}
	l.speakers = speakers

	meetings, err := listMeetings(filepath.Join(root, amiAnnoDir))
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

	ds := &Dataset{
		Name:            "ami",
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

func (l *amiLoader) loadWords() error {
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

// loadMeetingWords builds the per-speaker token streams. AMI words carry
// explicit text and timestamps, so spacing is resolved at load time and no
// type state machine is needed: punctuation gets no left space and
// sentence-final detection happens on the stored text.
func (l *amiLoader) loadMeetingWords(meeting string) (map[string]*TokenIndex, error) {
	out := map[string]*TokenIndex{}

	for _, speaker := range l.speakers {
		fnm := filepath.Join(l.root, amiWordDir, fmt.Sprintf("%s.%s.words.xml", meeting, speaker))
		root, err := parseMarkup(fnm)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.WithField("file", fnm).Warn("words file not found, skipping speaker")
				continue
			}
			return nil, err
		}

		ix := NewTokenIndex()
		for i := range root.Nodes {
			child := &root.Nodes[i]
			key, ok := child.attr("id")
			if !ok {
				return nil, fmt.Errorf("%s: token element without id", fnm)
			}

			text := strings.TrimSpace(child.Text)
			if text == "" {
				// Vocal sounds, gaps and other non-spoken entries.
				ix.Append(key, gapToken())
				continue
			}

			tok := Token{Tag: TagWord, Text: text, LSpace: true, RSpace: true}
			switch text {
			case ".", ",", "?", "!":
				tok.LSpace = false
			}
			if s, ok := child.attr("starttime"); ok {
				if tok.Start, err = strconv.ParseFloat(s, 64); err != nil {
					return nil, fmt.Errorf("%s token %s: bad starttime: %w", fnm, key, err)
				}
				tok.End = tok.Start
				tok.Timed = true
			}
			if e, ok := child.attr("endtime"); ok {
				if tok.End, err = strconv.ParseFloat(e, 64); err != nil {
					return nil, fmt.Errorf("%s token %s: bad endtime: %w", fnm, key, err)
				}
			}
			ix.Append(key, tok)
		}
		out[speaker] = ix
	}
	return out, nil
}

// loadAnnoTrees parses each meeting's topic annotation into the canonical
// tree shape, resolving word ranges as it goes. A missing annotation file
// is fatal.
func (l *amiLoader) loadAnnoTrees(ds *Dataset) error {
	for _, meeting := range l.meetings {
		fnm := filepath.Join(l.root, amiAnnoDir, meeting+".topic.xml")
		root, err := parseMarkup(fnm)
		if err != nil {
			return fmt.Errorf("annotation file for meeting %s: %w", meeting, err)
		}

		ix := Index{}
		tree, err := l.buildResolvedTree(ix, "*", root)
		if err != nil {
			return fmt.Errorf("%s: %w", fnm, err)
		}

		ds.Annos[meeting] = tree
		ds.AnnoIndices[meeting] = ix
	}
	return nil
}

// buildResolvedTree builds the AMI-dialect tree by recursive descent,
// consuming ordered children from the front. Word-range references resolve
// immediately; a maximal run of references under an interior node becomes a
// synthetic leaf child, while a run inside a leaf becomes the leaf's own
// payload. A leaf that ends with no resolved keys is fatal.
func (l *amiLoader) buildResolvedTree(ix Index, path string, node *element) (*Node, error) {
	anno := &Node{Path: path}
	if err := ix.Register(anno); err != nil {
		return nil, err
	}

	children := make([]*element, 0, len(node.Nodes))
	for i := range node.Nodes {
		children = append(children, &node.Nodes[i])
	}

	anno.IsLeaf = true
	for _, child := range children {
		if child.XMLName.Local == "topic" {
			anno.IsLeaf = false
			break
		}
	}
	switch {
	case node.XMLName.Local == "root":
		anno.Tag = NodeRoot
	case anno.IsLeaf:
		anno.Tag = NodeLeaf
	default:
		anno.Tag = NodeTopic
	}

	branch := 0

build:
	for len(children) > 0 {
		head := children[0]

		switch head.XMLName.Local {
		case "pointer":
			children = children[1:]

		case "topic":
			children = children[1:]
			child, err := l.buildResolvedTree(ix, fmt.Sprintf("%s.%d", path, branch), head)
			if err != nil {
				return nil, err
			}
			anno.Children = append(anno.Children, child)
			branch++

		case "child":
			var refs []*element
			for len(children) > 0 && children[0].XMLName.Local == "child" {
				refs = append(refs, children[0])
				children = children[1:]
			}

			keys, convo, err := l.resolveSegments(refs)
			if err != nil {
				return nil, err
			}
			if len(keys) == 0 {
				return nil, fmt.Errorf("annotation node %q: %w", node.XMLName.Local, ErrNoResolvedKeys)
			}

			if anno.IsLeaf {
				// A leaf has exactly one payload run.
				anno.Keys = keys
				anno.Convo = convo
				break build
			}

			leaf := &Node{
				Tag:      NodeLeaf,
				Path:     fmt.Sprintf("%s.%d", path, branch),
				IsLeaf:   true,
				Composed: true,
				Keys:     keys,
				Convo:    convo,
			}
			if err := ix.Register(leaf); err != nil {
				return nil, err
			}
			anno.Children = append(anno.Children, leaf)
			branch++

		default:
			return nil, fmt.Errorf("unsupported annotation node type %q", head.XMLName.Local)
		}
	}

	if anno.IsLeaf && len(anno.Keys) == 0 {
		return nil, fmt.Errorf("annotation node %q: %w", node.XMLName.Local, ErrNoResolvedKeys)
	}
	return anno, nil
}

// resolveSegments resolves a run of word-range references into utterances.
// Ranges split at sentence-final punctuation; single-word references become
// one utterance. References into an absent speaker stream are dropped with
// a warning.
func (l *amiLoader) resolveSegments(refs []*element) ([]string, []*Utterance, error) {
	var utterances []*Utterance

	for _, ref := range refs {
		href, ok := ref.attr("href")
		if !ok {
			return nil, nil, fmt.Errorf("child reference without href")
		}
		meta, content, err := splitHref(href)
		if err != nil {
			return nil, nil, err
		}
		parts := strings.Split(meta, ".")
		if len(parts) < 2 {
			return nil, nil, fmt.Errorf("malformed href target %q", meta)
		}
		meeting, speaker := parts[0], parts[1]

		ix := l.words[meeting][speaker]
		if ix == nil {
			log.WithFields(log.Fields{
				"meeting": meeting,
				"speaker": speaker,
				"href":    href,
			}).Warn("reference into absent word stream")
			continue
		}

		if first, last, ranged := strings.Cut(content, ".."); ranged {
			lo, hi, err := ix.Span(stripKey(first), stripKey(last))
			if err != nil {
				return nil, nil, fmt.Errorf("href %q: %w", href, err)
			}
			utterances = append(utterances, splitSentences(ix.Tokens, lo, hi, content, speaker, meeting)...)
			continue
		}

		pos, ok := ix.Pos[stripKey(content)]
		if !ok {
			return nil, nil, fmt.Errorf("href %q: unknown token key", href)
		}
		word := ix.Tokens[pos]
		if word.Gap {
			continue
		}
		utterances = append(utterances, &Utterance{
			Key:     content,
			Speaker: speaker,
			Meeting: meeting,
			Start:   word.Start,
			End:     word.End,
			Text:    word.Text,
		})
	}

	keys := make([]string, 0, len(utterances))
	for _, u := range utterances {
		keys = append(keys, u.Key)
	}
	return keys, utterances, nil
}
