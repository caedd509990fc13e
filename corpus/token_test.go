package corpus

import "testing"

func TestClassifyWords(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		text    string
		wantTag string
		lspace  bool
		rspace  bool
	}{
		{"plain word", TagWord, "flag", TagWord, true, true},
		{"truncated word", TagTrunc, "th-", TagTrunc, true, true},
		{"abbreviation", TagAbbr, "TV", TagAbbr, true, true},
		{"spelled letter", TagLetter, "O", TagLetter, true, true},
		{"digit", TagDigit, "seven", TagDigit, true, true},
		{"hyphen", TagHyphen, "-", TagHyphen, false, false},
		{"comma", TagComma, ",", TagComma, false, true},
		{"sentence end", TagStop, ".", TagStop, false, true},
		{"apostrophe suffix", TagApos, "'s", TagApos, false, true},
		{"word starting with apostrophe", TagWord, "'em", TagApos, false, true},
		{"symbol hyphen", TagSymbol, "-", TagHyphen, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, quotes, err := Classify(tt.tag, tt.text, nil)
			if err != nil {
				t.Fatalf("Classify returned error: %v", err)
			}
			if tok.Gap {
				t.Fatal("unexpected gap token")
			}
			if tok.Tag != tt.wantTag {
				t.Fatalf("tag: got %q want %q", tok.Tag, tt.wantTag)
			}
			if tok.LSpace != tt.lspace || tok.RSpace != tt.rspace {
				t.Fatalf("spacing: got (%v,%v) want (%v,%v)", tok.LSpace, tok.RSpace, tt.lspace, tt.rspace)
			}
			if len(quotes) != 0 {
				t.Fatalf("quote stack changed: %v", quotes)
			}
		})
	}
}

func TestClassifyGaps(t *testing.T) {
	tok, _, err := Classify("", "", nil)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if !tok.Gap {
		t.Fatal("expected gap for non-verbal entry")
	}

	tok, _, err = Classify(TagSymbol, "@", nil)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if !tok.Gap {
		t.Fatal("expected gap for @ symbol")
	}
}

func TestClassifyQuoteNesting(t *testing.T) {
	// An ambiguous double quote opens when the stack is empty...
	tok, quotes, err := Classify(TagQuote, "\"", nil)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("expected one open quote on the stack, got %d", len(quotes))
	}
	if tok.RSpace || !tok.LSpace {
		t.Fatalf("opening quote spacing wrong: (%v,%v)", tok.LSpace, tok.RSpace)
	}

	// ...and closes when it is not.
	tok, quotes, err = Classify(TagQuote, "\"", quotes)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if len(quotes) != 0 {
		t.Fatalf("expected empty stack after closing quote, got %d", len(quotes))
	}
	if tok.LSpace || !tok.RSpace {
		t.Fatalf("closing quote spacing wrong: (%v,%v)", tok.LSpace, tok.RSpace)
	}
}

func TestClassifyUnmatchedClosingQuoteIsRecoverable(t *testing.T) {
	tok, quotes, err := Classify(TagRQuote, "\"", nil)
	if err != nil {
		t.Fatalf("unmatched closing quote must not be fatal: %v", err)
	}
	if tok.Gap || tok.LSpace {
		t.Fatal("closing quote should be kept with no left space")
	}
	if len(quotes) != 0 {
		t.Fatalf("stack should stay empty, got %d", len(quotes))
	}
}

func TestClassifyLoneApostropheQuote(t *testing.T) {
	for _, tag := range []string{TagQuote, TagLQuote, TagRQuote} {
		stack := QuoteStack{quoteOpen}
		tok, quotes, err := Classify(tag, "'", stack)
		if err != nil {
			t.Fatalf("Classify(%s) returned error: %v", tag, err)
		}
		if tok.Tag != TagApos || tok.LSpace || tok.RSpace {
			t.Fatalf("lone apostrophe %s not reclassified: %+v", tag, tok)
		}
		if len(quotes) != 1 {
			t.Fatalf("lone apostrophe must not touch the stack, got depth %d", len(quotes))
		}
	}
}

func TestClassifyUnknownTypeIsFatal(t *testing.T) {
	if _, _, err := Classify("XYZ", "x", nil); err == nil {
		t.Fatal("expected error for unknown token type")
	}
}

func TestClassifyDeterministic(t *testing.T) {
	stack := QuoteStack{quoteOpen}
	a, qa, err := Classify(TagQuote, "\"", stack)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	b, qb, err := Classify(TagQuote, "\"", stack)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if a != b || len(qa) != len(qb) {
		t.Fatalf("classification not deterministic: %+v vs %+v", a, b)
	}
}

func TestTokenIndexSpan(t *testing.T) {
	ix := NewTokenIndex()
	ix.Append("k1", Token{Tag: TagWord, Text: "a", LSpace: true, RSpace: true})
	ix.Append("k2", gapToken())
	ix.Append("k3", Token{Tag: TagWord, Text: "b", LSpace: true, RSpace: true})

	lo, hi, err := ix.Span("k1", "k3")
	if err != nil {
		t.Fatalf("Span returned error: %v", err)
	}
	if lo != 0 || hi != 2 {
		t.Fatalf("Span: got (%d,%d) want (0,2)", lo, hi)
	}

	if _, _, err := ix.Span("k1", "missing"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}
