package vectorizer

import (
	"resumerank/internal/domain"
	"resumerank/internal/embedding/vocabulary"
)

// Transform counts the tokens of doc into a vector of length v.Len().
// Tokens missing from v are ignored, which lets a vocabulary loaded from a
// snapshot be reused on text it has never seen.
func Transform(doc domain.Document, v *vocabulary.Vocabulary) domain.DocumentVector {
	vec := make(domain.DocumentVector, v.Len())
	for _, tok := range vocabulary.Tokenize(doc.Text) {
		if idx, ok := v.Index(tok); ok {
			vec[idx]++
		}
	}
	return vec
}

// Vectorizer is a fitted term-count vectorizer.
type Vectorizer struct {
	vocab *vocabulary.Vocabulary
}

// New wraps a fitted vocabulary.
func New(v *vocabulary.Vocabulary) (*Vectorizer, error) {
	if v == nil {
		return nil, vocabulary.ErrNilVocabulary
	}
	return &Vectorizer{vocab: v}, nil
}

// Fit builds the vocabulary from corpus and returns a vectorizer over it.
func Fit(corpus []domain.Document) (*Vectorizer, error) {
	v, err := vocabulary.Build(corpus)
	if err != nil {
		return nil, err
	}
	return &Vectorizer{vocab: v}, nil
}

// Name returns the identifier of this vectorizer implementation.
func (z *Vectorizer) Name() string { return "count" }

// Dimension returns the length of every vector this vectorizer produces.
func (z *Vectorizer) Dimension() int { return z.vocab.Len() }

// Vocabulary returns the fitted vocabulary.
func (z *Vectorizer) Vocabulary() *vocabulary.Vocabulary { return z.vocab }

// Transform converts doc into a term-count vector.
func (z *Vectorizer) Transform(doc domain.Document) domain.DocumentVector {
	return Transform(doc, z.vocab)
}

// TransformAll converts each document in order.
func (z *Vectorizer) TransformAll(docs []domain.Document) []domain.DocumentVector {
	out := make([]domain.DocumentVector, len(docs))
	for i, d := range docs {
		out[i] = z.Transform(d)
	}
	return out
}
