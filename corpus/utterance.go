package corpus

// Utterance is one spoken unit of a meeting, composed from a span of
// tokens. Immutable once created; Composite is a display rendering attached
// during note composition and does not alter identity.
type Utterance struct {
	Key       string
	Speaker   string
	Meeting   string
	Start     float64
	End       float64
	Text      string
	Composite string

	// SOT is the meeting's start-of-transcript, used to render relative
	// display times. Zero for corpora whose times are already relative.
	SOT float64
}

// absorbAll merges every non-gap token in tokens[lo..hi] into a single
// text, inserting one space wherever the previous token's right-space flag
// and the current token's left-space flag are both set. The second return
// is false when the whole range was gaps.
func absorbAll(tokens []Token, lo, hi int) (string, bool) {
	text := ""
	started := false
	rspace := true

	for t := lo; t <= hi; t++ {
		tok := tokens[t]
		if tok.Gap {
			continue
		}
		if started && rspace && tok.LSpace {
			text += " "
		}
		text += tok.Text
		rspace = tok.RSpace
		started = true
	}
	return text, started
}

// splitSentences walks tokens[lo..hi] and closes an utterance at every
// token whose text ends in sentence-final punctuation; a trailing partial
// run is emitted as a final utterance. Start and end times come from the
// first and last constituent token.
func splitSentences(tokens []Token, lo, hi int, key, speaker, meeting string) []*Utterance {
	var out []*Utterance
	var run []Token

	for t := lo; t <= hi; t++ {
		tok := tokens[t]
		if tok.Gap {
			continue
		}
		run = append(run, tok)
		if endsSentence(tok.Text) {
			out = append(out, mintUtterance(key, speaker, meeting, run))
			run = nil
		}
	}
	if len(run) > 0 {
		out = append(out, mintUtterance(key, speaker, meeting, run))
	}
	return out
}

func endsSentence(text string) bool {
	if text == "" {
		return false
	}
	switch text[len(text)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

// mintUtterance composes one utterance from a non-empty token run.
func mintUtterance(key, speaker, meeting string, toks []Token) *Utterance {
	text := ""
	rspace := false
	for _, w := range toks {
		if w.LSpace && rspace {
			text += " "
		}
		rspace = w.RSpace
		text += w.Text
	}

	u := &Utterance{
		Key:     key,
		Speaker: speaker,
		Meeting: meeting,
		Text:    text,
	}
	for _, w := range toks {
		if w.Timed {
			u.Start = w.Start
			break
		}
	}
	for i := len(toks) - 1; i >= 0; i-- {
		if toks[i].Timed {
			u.End = toks[i].End
			break
		}
	}
	return u
}
