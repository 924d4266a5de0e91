package domain

// Document is a single piece of decoded text taking part in a ranking run.
// ID is usually the original file name and must be unique within a run.
type Document struct {
	ID   string
	Text string
}

// DocumentVector holds term counts over a shared vocabulary. Its length always
// equals the size of the vocabulary it was built from.
type DocumentVector []int

// IsZero reports whether every component of the vector is zero.
func (v DocumentVector) IsZero() bool {
	for _, c := range v {
		if c != 0 {
			return false
		}
	}
	return true
}

// Match is the similarity of one candidate to the reference document.
type Match struct {
	ID         string  `json:"id"`
	Score      float64 `json:"score"`
	Percentage string  `json:"percentage"`
}

// RankedResult is a list of matches ordered by score, highest first.
type RankedResult []Match
