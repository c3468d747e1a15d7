package search

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Token string

type TokenList []Token

func (t *TokenList) AddToken(token Token) {
	if !slices.Contains(*t, token) {
		*t = append(*t, token)
	}
}

// Letters that do not decompose into a base letter and a mark.
var foldLetters = map[rune]rune{
	'ß': 's',
	'æ': 'a',
	'ø': 'o',
	'đ': 'd',
	'ł': 'l',
}

// foldWord strips combining marks so "é" and "e" end up as the same token.
// Transformers keep state, so each call builds its own chain.
func foldWord(word string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, word)
	if err != nil {
		return word
	}
	return folded
}

// NormalizeWord lower-cases word, folds diacritics and drops everything that
// is not a letter or a digit.
func NormalizeWord(word string) Token {
	var b strings.Builder
	b.Grow(len(word))
	for _, r := range foldWord(strings.ToLower(word)) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		if replacement, ok := foldLetters[r]; ok {
			r = replacement
		}
		b.WriteRune(r)
	}
	return Token(b.String())
}

func isSeparator(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// Tokenizer splits text into normalized tokens. MaxTokens <= 0 means no
// limit.
type Tokenizer struct {
	MaxTokens int
}

// Tokenize returns the unique tokens of text in order of appearance.
func (t *Tokenizer) Tokenize(text string) TokenList {
	ret := TokenList{}
	for _, word := range strings.FieldsFunc(text, isSeparator) {
		if t.MaxTokens > 0 && len(ret) >= t.MaxTokens {
			break
		}
		if token := NormalizeWord(word); token != "" {
			ret.AddToken(token)
		}
	}
	return ret
}
