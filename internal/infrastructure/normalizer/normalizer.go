package normalizer

import (
	"regexp"
	"strings"

	"github.com/kirillkom/fir-intake/internal/core/domain"
)

var (
	datePattern = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)
	timePattern = regexp.MustCompile(`\d{1,2}:\d{2}\s*(?:[AaPp][Mm])?`)

	// Administrative boilerplate stripped from narratives before
	// embedding. Stripping order matters: dates and times go first so
	// phrase removal never reintroduces digit runs around them.
	noisePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)to the station house officer`),
		regexp.MustCompile(`(?i)subject:`),
		regexp.MustCompile(`(?i)respeceted sir`),
		regexp.MustCompile(`(?i)i am writing to report`),
		regexp.MustCompile(`(?i)located at`),
		regexp.MustCompile(`(?i)a case has been registered`),
	}

	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalizer converts raw incident narratives into search-optimized
// queries: it detects crime-category keywords against the full raw text
// and strips administrative noise from the copy handed to the embedder.
type Normalizer struct {
	catalog *Catalog
}

func New(catalog *Catalog) *Normalizer {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Normalizer{catalog: catalog}
}

// Normalize never fails; empty input yields an empty query.
//
// Keywords are matched against the raw text rather than the stripped
// one: noise removal can only lose matches, never add them. The matched
// categories are then prefixed to the cleaned narrative so the embedding
// leans toward the explicit legal category even when the phrasing of the
// narrative is oblique.
func (n *Normalizer) Normalize(text string) domain.NormalizedQuery {
	if strings.TrimSpace(text) == "" {
		return domain.NormalizedQuery{}
	}

	lower := strings.ToLower(text)
	var matched []string
	for _, term := range n.catalog.Terms() {
		if strings.Contains(lower, term) {
			matched = append(matched, term)
		}
	}

	clean := datePattern.ReplaceAllString(text, "")
	clean = timePattern.ReplaceAllString(clean, "")
	for _, pattern := range noisePatterns {
		clean = pattern.ReplaceAllString(clean, "")
	}
	clean = strings.TrimSpace(whitespacePattern.ReplaceAllString(clean, " "))

	composite := clean
	if len(matched) > 0 {
		composite = "Crime Categories: " + strings.Join(matched, ", ") + ". Context: " + clean
	}

	return domain.NormalizedQuery{
		CleanedText:     composite,
		MatchedKeywords: matched,
	}
}
