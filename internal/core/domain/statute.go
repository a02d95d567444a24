package domain

// StatuteSection is one row of the raw statute table the index builder
// consumes: a section identifier plus its legal description.
type StatuteSection struct {
	SectionID   string `json:"section_id"`
	Description string `json:"description"`
}

// CorpusEntry is a searchable statute record with its precomputed
// embedding. Entries are produced only by the offline index builder and
// are read-only for the lifetime of a loaded corpus. Section identifiers
// need not be unique; every row is an independently rankable unit.
type CorpusEntry struct {
	SectionID   string
	Description string
	Embedding   []float32
}

// NormalizedQuery is the normalizer's output for one raw narrative.
// CleanedText is the composite query handed to the embedding provider:
// a crime-category preamble when keywords matched, followed by the
// noise-stripped narrative. MatchedKeywords follows catalog order.
type NormalizedQuery struct {
	CleanedText     string
	MatchedKeywords []string
}

// VectorHit is one nearest-neighbor match: the corpus row index and the
// squared Euclidean distance to the query vector.
type VectorHit struct {
	Row      int
	Distance float64
}

// RankedResult is the caller-facing unit of a statute search. Rank is
// the 1-based position in the distance-ordered result sequence; the
// distance is raw (squared L2), not normalized to a bounded score.
type RankedResult struct {
	Rank        int     `json:"rank"`
	SectionID   string  `json:"section_id"`
	Description string  `json:"description"`
	Distance    float64 `json:"distance"`
}
