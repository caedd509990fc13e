package corpus

import "testing"

func classifyAll(t *testing.T, pairs [][2]string) []Token {
	t.Helper()
	var quotes QuoteStack
	var toks []Token
	for _, p := range pairs {
		tok, next, err := Classify(p[0], p[1], quotes)
		if err != nil {
			t.Fatalf("Classify(%q,%q): %v", p[0], p[1], err)
		}
		quotes = next
		toks = append(toks, tok)
	}
	return toks
}

func TestAbsorbAllHyphenJoins(t *testing.T) {
	toks := classifyAll(t, [][2]string{
		{TagWord, "flag"},
		{TagHyphen, "-"},
		{TagWord, "sign"},
	})

	text, ok := absorbAll(toks, 0, len(toks)-1)
	if !ok {
		t.Fatal("expected a composed utterance")
	}
	if text != "flag-sign" {
		t.Fatalf("got %q want %q", text, "flag-sign")
	}
}

func TestAbsorbAllSingleTokenRoundTrip(t *testing.T) {
	toks := classifyAll(t, [][2]string{{TagWord, "flag"}})
	text, ok := absorbAll(toks, 0, 0)
	if !ok || text != "flag" {
		t.Fatalf("got (%q,%v) want (\"flag\",true)", text, ok)
	}
}

func TestAbsorbAllSkipsGapsAndSpaces(t *testing.T) {
	toks := classifyAll(t, [][2]string{
		{TagWord, "so"},
		{TagComma, ","},
		{"", ""},
		{TagWord, "that"},
		{TagApos, "'s"},
		{TagWord, "it"},
		{TagStop, "."},
	})

	text, ok := absorbAll(toks, 0, len(toks)-1)
	if !ok {
		t.Fatal("expected a composed utterance")
	}
	if text != "so, that's it." {
		t.Fatalf("got %q", text)
	}
}

func TestAbsorbAllGapOnlyRange(t *testing.T) {
	toks := []Token{gapToken(), gapToken()}
	if _, ok := absorbAll(toks, 0, 1); ok {
		t.Fatal("gap-only range must not compose")
	}
}

func TestSplitSentences(t *testing.T) {
	toks := []Token{
		{Tag: TagWord, Text: "Hello", LSpace: true, RSpace: true, Start: 0.5, End: 1.0, Timed: true},
		{Tag: TagWord, Text: ".", LSpace: false, RSpace: true, Start: 1.0, End: 1.1, Timed: true},
		{Gap: true},
		{Tag: TagWord, Text: "see", LSpace: true, RSpace: true, Start: 1.2, End: 1.5, Timed: true},
		{Tag: TagWord, Text: "you", LSpace: true, RSpace: true, Start: 1.5, End: 1.8, Timed: true},
	}

	utts := splitSentences(toks, 0, len(toks)-1, "range", "A", "ES1")
	if len(utts) != 2 {
		t.Fatalf("got %d utterances, want 2", len(utts))
	}

	first, second := utts[0], utts[1]
	if first.Text != "Hello." {
		t.Fatalf("first text: %q", first.Text)
	}
	if first.Start != 0.5 || first.End != 1.1 {
		t.Fatalf("first times: (%v,%v)", first.Start, first.End)
	}
	if second.Text != "see you" {
		t.Fatalf("second text: %q", second.Text)
	}
	if second.Start != 1.2 || second.End != 1.8 {
		t.Fatalf("second times: (%v,%v)", second.Start, second.End)
	}
	if first.Key != "range" || second.Key != "range" {
		t.Fatal("split parts must share the range key")
	}
}

func TestSplitSentencesAllGaps(t *testing.T) {
	toks := []Token{{Gap: true}, {Gap: true}}
	if utts := splitSentences(toks, 0, 1, "k", "A", "M"); len(utts) != 0 {
		t.Fatalf("expected no utterances, got %d", len(utts))
	}
}
