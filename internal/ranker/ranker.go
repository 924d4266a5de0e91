// Package ranker orders candidates by their similarity to a reference vector.
package ranker

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"resumerank/internal/domain"
	"resumerank/internal/similarity"
)

// Candidate pairs a candidate ID with its vector.
type Candidate struct {
	ID     string
	Vector domain.DocumentVector
}

// Rank scores every candidate against reference and sorts the matches by
// score, highest first. Candidates with equal scores keep their input order.
func Rank(candidates []Candidate, reference domain.DocumentVector) (domain.RankedResult, error) {
	out := make(domain.RankedResult, 0, len(candidates))
	for _, c := range candidates {
		score, err := similarity.Cosine(c.Vector, reference)
		if err != nil {
			return nil, fmt.Errorf("score %s: %w", c.ID, err)
		}
		out = append(out, domain.Match{ID: c.ID, Score: score, Percentage: Percentage(score)})
	}
	slices.SortStableFunc(out, func(a, b domain.Match) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out, nil
}

// Percentage formats a score as a percentage with two decimals, without the % sign.
func Percentage(score float64) string {
	return fmt.Sprintf("%.2f", score*100)
}

// Summary renders the human readable block for one match.
func Summary(m domain.Match) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Resume: %s\n", m.ID)
	fmt.Fprintf(&b, "Similarity score: %s%%\n", m.Percentage)
	fmt.Fprintf(&b, "Your Resume is %s%% match to the job description!\n\n", m.Percentage)
	return b.String()
}

// Summaries renders Summary for every match in order.
func Summaries(r domain.RankedResult) []string {
	out := make([]string, len(r))
	for i, m := range r {
		out[i] = Summary(m)
	}
	return out
}
