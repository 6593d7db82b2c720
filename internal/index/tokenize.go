package index

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// minTokenRunes is the shortest token kept.
const minTokenRunes = 2

// tokenizer splits text into folded word tokens. Not safe for concurrent use.
type tokenizer struct {
	folder    cases.Caser
	stopWords map[string]struct{}
}

func newTokenizer(stopWords map[string]struct{}) *tokenizer {
	return &tokenizer{folder: cases.Fold(), stopWords: stopWords}
}

// Tokens returns runs of at least two letter, mark, digit or underscore runes.
// Thai vowels and tone marks are combining marks and stay inside their word.
func (t *tokenizer) Tokens(text string) []string {
	text = t.folder.String(norm.NFC.String(text))

	var out []string
	start, n := -1, 0
	flush := func(end int) {
		if start >= 0 && n >= minTokenRunes {
			tok := text[start:end]
			if _, stop := t.stopWords[tok]; !stop {
				out = append(out, tok)
			}
		}
		start, n = -1, 0
	}
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			n++
			continue
		}
		flush(i)
	}
	flush(len(text))
	return out
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.M, r)
}
