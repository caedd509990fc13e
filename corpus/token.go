package corpus

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Token type codes as they appear in the ICSI word files (the "c"
// attribute). AMI word files carry no type codes; their tokens are built
// pre-resolved in the AMI loader.
const (
	TagWord   = "W"
	TagTrunc  = "TRUNCW"
	TagAbbr   = "ABBR"
	TagLetter = "LET"
	TagDigit  = "CD"
	TagSymbol = "SYM"
	TagHyphen = "HYPH"
	TagComma  = "CM"
	TagStop   = "."
	TagApos   = "APOSS"
	TagLQuote = "LQUOTE"
	TagRQuote = "RQUOTE"
	TagQuote  = "QUOTE"
)

// Token is one entry of a per-speaker token stream. A Gap token is a
// non-verbal placeholder (breath, laugh, comment): it is skipped during
// composition but still occupies one slot so key ranges stay
// index-addressable.
type Token struct {
	Tag    string
	Text   string
	LSpace bool
	RSpace bool
	Start  float64
	End    float64
	Timed  bool
	Gap    bool
}

// TokenIndex is one speaker's ordered token stream for one meeting plus the
// corpus-native key to position mapping. Built once, read-only afterwards.
type TokenIndex struct {
	Tokens []Token
	Pos    map[string]int
}

func NewTokenIndex() *TokenIndex {
	return &TokenIndex{Pos: map[string]int{}}
}

func (ix *TokenIndex) Append(key string, tok Token) {
	ix.Tokens = append(ix.Tokens, tok)
	ix.Pos[key] = len(ix.Tokens) - 1
}

// Span resolves an inclusive key range to index bounds.
func (ix *TokenIndex) Span(startKey, endKey string) (int, int, error) {
	lo, ok := ix.Pos[startKey]
	if !ok {
		return 0, 0, fmt.Errorf("unknown token key %q", startKey)
	}
	hi, ok := ix.Pos[endKey]
	if !ok {
		return 0, 0, fmt.Errorf("unknown token key %q", endKey)
	}
	return lo, hi, nil
}

// QuoteStack tracks unbalanced opening quotes while classifying one
// speaker's token stream. It is threaded through Classify by value so that
// classification is a pure function of (tag, text, stack).
type QuoteStack []quoteMark

type quoteMark int

const quoteOpen quoteMark = iota

func gapToken() Token { return Token{Gap: true} }

// Classify maps one raw ICSI token onto its composed form: which text it
// contributes and whether it wants spacing on either side. An empty tag
// marks a non-verbal entry and yields a gap placeholder. Unknown tags are a
// configuration error since the corpus format is closed.
func Classify(tag, text string, quotes QuoteStack) (Token, QuoteStack, error) {
	tok := Token{Tag: tag, Text: text, LSpace: true, RSpace: true}

	switch tag {
	case "":
		return gapToken(), quotes, nil

	case TagWord, TagTrunc:
		// Words that start with ' ("'s", "'em") are apostrophe suffixes.
		if len(text) > 0 && text[0] == '\'' {
			return Classify(TagApos, text, quotes)
		}
		return tok, quotes, nil

	case TagAbbr, TagLetter, TagDigit:
		return tok, quotes, nil

	case TagSymbol:
		// The corpus only carries "-" and "@" here. "@" has no linguistic
		// content and becomes a gap.
		if text == "-" {
			return Classify(TagHyphen, text, quotes)
		}
		return gapToken(), quotes, nil

	case TagHyphen:
		tok.LSpace = false
		tok.RSpace = false
		return tok, quotes, nil

	case TagComma, TagStop:
		tok.LSpace = false
		return tok, quotes, nil

	case TagApos:
		tok.Tag = TagApos
		tok.LSpace = false
		return tok, quotes, nil

	case TagLQuote:
		if text == "'" {
			return loneApostrophe(text), quotes, nil
		}
		tok.RSpace = false
		return tok, append(quotes, quoteOpen), nil

	case TagRQuote:
		if text == "'" {
			return loneApostrophe(text), quotes, nil
		}
		tok.LSpace = false
		if len(quotes) == 0 {
			log.Warn("mismatched quotes: closing quote with no opening quote")
			return tok, quotes, nil
		}
		return tok, quotes[:len(quotes)-1], nil

	case TagQuote:
		if text == "'" {
			return loneApostrophe(text), quotes, nil
		}
		if len(quotes) == 0 {
			return Classify(TagLQuote, text, quotes)
		}
		return Classify(TagRQuote, text, quotes)
	}

	return Token{}, quotes, fmt.Errorf("unsupported token type %q", tag)
}

// loneApostrophe is a single ' tagged as a quote; it always composes as an
// apostrophe suffix regardless of quote-nesting state.
func loneApostrophe(text string) Token {
	return Token{Tag: TagApos, Text: text, LSpace: false, RSpace: false}
}
