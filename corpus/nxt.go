package corpus

import (
	"encoding/xml"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// element is a generic ordered view of one NXT markup element. The ",any"
// rules preserve child order and collect namespaced attributes, which the
// annotation trees depend on.
type element struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Nodes   []element  `xml:",any"`
	Text    string     `xml:",chardata"`
}

// parseMarkup decodes one markup document. A missing file surfaces as the
// underlying open error so callers can distinguish absence from corruption.
func parseMarkup(path string) (*element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var root element
	if err := xml.NewDecoder(f).Decode(&root); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &root, nil
}

// attr returns the attribute with the given local name, namespaced or not.
func (e *element) attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// stripKey unwraps the id(...) form used inside href fragments.
func stripKey(ref string) string {
	if strings.HasPrefix(ref, "id(") && strings.HasSuffix(ref, ")") {
		return ref[3 : len(ref)-1]
	}
	return ref
}

// splitHref splits a cross-reference into its file part and key part:
// "Bmr001.A.segs.xml#id(k1)..id(k2)" -> ("Bmr001.A.segs.xml",
// "id(k1)..id(k2)").
func splitHref(href string) (string, string, error) {
	meta, content, ok := strings.Cut(href, "#")
	if !ok {
		return "", "", fmt.Errorf("malformed href %q", href)
	}
	return meta, content, nil
}

// keyRange resolves the key part of an href to inclusive start and end
// keys. A single key denotes a range of one.
func keyRange(content string) (string, string) {
	if first, last, ok := strings.Cut(content, ".."); ok {
		return stripKey(first), stripKey(last)
	}
	k := stripKey(content)
	return k, k
}

// hrefSpeaker pulls the speaker out of the file part of an href
// ("Bmr001.A.segs.xml" -> "A").
func hrefSpeaker(meta string) string {
	parts := strings.Split(meta, ".")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// expandUtteranceKeys expands an utterance reference into speaker-prefixed
// keys. Ranges run numerically over the trailing dot component of the key;
// ordinals of 1000 and above carry the corpus's comma formatting
// ("Bmr001.seg.A.1,023").
func expandUtteranceKeys(content, speaker string) ([]string, error) {
	first, last, ok := strings.Cut(content, "..")
	if !ok {
		return []string{speaker + ":" + stripKey(content)}, nil
	}

	stem, startOrd, err := splitOrdinal(stripKey(first))
	if err != nil {
		return nil, err
	}
	_, endOrd, err := splitOrdinal(stripKey(last))
	if err != nil {
		return nil, err
	}

	var keys []string
	for i := startOrd; i <= endOrd; i++ {
		keys = append(keys, fmt.Sprintf("%s:%s.%s", speaker, stem, formatOrdinal(i)))
	}
	return keys, nil
}

func splitOrdinal(key string) (string, int, error) {
	i := strings.LastIndex(key, ".")
	if i < 0 {
		return "", 0, fmt.Errorf("utterance key %q has no ordinal component", key)
	}
	ord, err := strconv.Atoi(strings.ReplaceAll(key[i+1:], ",", ""))
	if err != nil {
		return "", 0, fmt.Errorf("utterance key %q: %w", key, err)
	}
	return key[:i], ord, nil
}

func formatOrdinal(i int) string {
	s := strconv.Itoa(i)
	if i >= 1000 {
		return s[:len(s)-3] + "," + s[len(s)-3:]
	}
	return s
}

// listMeetings derives the sorted meeting roster from the annotation
// directory listing ("<meeting>.topic.xml").
func listMeetings(annoDir string) ([]string, error) {
	entries, err := os.ReadDir(annoDir)
	if err != nil {
		return nil, err
	}

	var meetings []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ".xml") {
			continue
		}
		meetings = append(meetings, strings.SplitN(name, ".", 2)[0])
	}
	sort.Strings(meetings)
	return meetings, nil
}

// loadSpeakers reads the agent roster from a corpus metadata file.
func loadSpeakers(metaFile string) ([]string, error) {
	root, err := parseMarkup(metaFile)
	if err != nil {
		return nil, err
	}

	for i := range root.Nodes {
		child := &root.Nodes[i]
		if child.XMLName.Local != "agents" {
			continue
		}
		var speakers []string
		for j := range child.Nodes {
			if name, ok := child.Nodes[j].attr("name"); ok {
				speakers = append(speakers, name)
			}
		}
		return speakers, nil
	}
	return nil, fmt.Errorf("no agents element in %s", metaFile)
}
