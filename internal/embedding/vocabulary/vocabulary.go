// Package vocabulary builds the token to column mapping shared by every
// document vector of a ranking run.
//
// Tokenization is fixed so that fitted vocabularies are reproducible: text is
// lower-cased with strings.ToLower and split into maximal runs of Unicode
// letters and digits. There is no stop-word filtering and no stemming.
package vocabulary

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"resumerank/internal/domain"
)

// Tokenizer names the tokenization rule. It is stored in snapshots so a
// vocabulary is never reapplied with a different rule.
const Tokenizer = `lower/[\p{L}\p{N}]+`

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Tokenize applies the fixed tokenization rule to text.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// Vocabulary maps tokens to dense column indices starting at 0.
// It is never modified after construction.
type Vocabulary struct {
	index  map[string]int
	tokens []string
}

// Build fits a vocabulary over the corpus. Indices are assigned in first-seen
// order during a single left-to-right scan of the documents.
func Build(corpus []domain.Document) (*Vocabulary, error) {
	if len(corpus) == 0 {
		return nil, domain.ErrEmptyCorpus
	}
	v := &Vocabulary{index: make(map[string]int)}
	for _, doc := range corpus {
		for _, tok := range Tokenize(doc.Text) {
			if _, ok := v.index[tok]; ok {
				continue
			}
			v.index[tok] = len(v.tokens)
			v.tokens = append(v.tokens, tok)
		}
	}
	return v, nil
}

// FromTokens rebuilds a vocabulary from tokens listed in index order.
func FromTokens(tokens []string) (*Vocabulary, error) {
	v := &Vocabulary{
		index:  make(map[string]int, len(tokens)),
		tokens: make([]string, 0, len(tokens)),
	}
	for i, tok := range tokens {
		if tok == "" {
			return nil, fmt.Errorf("token %d is empty", i)
		}
		if j, ok := v.index[tok]; ok {
			return nil, fmt.Errorf("token %q appears at %d and %d", tok, j, i)
		}
		v.index[tok] = i
		v.tokens = append(v.tokens, tok)
	}
	return v, nil
}

// Len returns the number of distinct tokens.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.tokens)
}

// Index returns the column of token and whether it is known.
func (v *Vocabulary) Index(token string) (int, bool) {
	if v == nil {
		return 0, false
	}
	i, ok := v.index[token]
	return i, ok
}

// Tokens returns a copy of the tokens in index order.
func (v *Vocabulary) Tokens() []string {
	if v == nil {
		return nil
	}
	return slices.Clone(v.tokens)
}

// Equal reports whether both vocabularies have an identical token to index mapping.
func (v *Vocabulary) Equal(other *Vocabulary) bool {
	return slices.Equal(v.Tokens(), other.Tokens())
}

// ErrNilVocabulary is returned by operations that require a fitted vocabulary.
var ErrNilVocabulary = errors.New("vocabulary is nil")
