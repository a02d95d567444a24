package normalizer

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultKeywords is the built-in crime-category vocabulary tested by
// containment against raw narratives. Entries are lower-cased on load.
var defaultKeywords = []string{
	"abducting", "abduction", "abetment", "abetment to suicide", "abetting", "abetting mutiny",
	"abuse", "acid attack", "adminstration", "adulteration", "aggravated assault", "arson",
	"arsonist", "assault", "attempt to murder", "attempted murder", "battery", "bigamy",
	"blackmail", "bomb", "bombing", "breach of contract", "bribery", "bribing", "burglary",
	"causing miscarriage", "cheating", "child abuse", "child pornography", "concealment",
	"confinement", "conspiracy", "corruption", "counterfeit", "counterfeiting",
	"criminal breach of trust", "criminal intimidation", "criminal trespass", "cruelty",
	"culpable homicide", "cyber fraud", "cybercrime", "cyberstalking", "dacoity", "damage",
	"data breach", "death by negligence", "defamation", "defiling", "defiling place worship",
	"desertion", "disappearance of evidence", "dishonestly", "domestic violence", "dowry",
	"dowry death", "drug trafficking", "drunk driving", "embezzlement", "eve teasing", "exciting",
	"extorting", "extortion", "fabricating false evidence", "false charge", "false claim",
	"false evidence", "false personation", "false statement", "forgery", "fornication",
	"fraud", "gambling", "grievous hurt", "harassment", "hijacking", "hit and run", "homicide", "hostage",
	"housebreaking", "human trafficking", "hurt", "identity fraud", "identity theft", "illegal weapon",
	"impersonation", "imputation", "indecent", "intimidation", "kidnap for ransom", "kidnapping",
	"larceny", "liquor", "manslaughter", "mischief", "molestation", "money", "money laundering", "murder",
	"mutilating", "mutilation", "mutiny", "narcotics", "narcotics possession", "obscene", "obstructing public servant",
	"obstruction", "organized crime", "perjury", "phishing", "piratical", "poisoning", "prostitution",
	"public nuisance", "rape", "rash driving", "receiving", "receiving stolen property", "restraint",
	"rioting", "ritualism", "robbery", "sedition", "seducing", "sexual assault", "sexual harassment", "shoplifting",
	"smuggling", "snatching", "stalking", "stole", "tampering with evidence", "terrorism", "theft",
	"threats", "torture", "trafficking", "trespass", "unauthorized access", "unlawful assembly",
	"unnatural", "uttering", "vandalism", "vehicle theft", "voyeurism", "violence", "weapon", "weapons",
	"wildlife crimes", "wrongful", "wrongful confinement", "wrongful restraint",
}

// Catalog is an immutable, sorted set of crime-category terms.
type Catalog struct {
	terms []string
}

// NewCatalog lower-cases, deduplicates and sorts the given terms,
// dropping empties. Sorted order gives reproducible keyword iteration.
func NewCatalog(terms []string) *Catalog {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	sort.Strings(out)
	return &Catalog{terms: out}
}

func DefaultCatalog() *Catalog {
	return NewCatalog(defaultKeywords)
}

// LoadCatalog merges extra terms from a YAML file into the default
// vocabulary. An empty path yields the default catalog unchanged.
func LoadCatalog(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultCatalog(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var doc struct {
		Keywords []string `yaml:"keywords"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}

	merged := make([]string, 0, len(defaultKeywords)+len(doc.Keywords))
	merged = append(merged, defaultKeywords...)
	merged = append(merged, doc.Keywords...)
	return NewCatalog(merged), nil
}

func (c *Catalog) Size() int { return len(c.terms) }

// Terms returns the catalog entries in sorted order. The returned slice
// must not be mutated.
func (c *Catalog) Terms() []string { return c.terms }

func (c *Catalog) Contains(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	i := sort.SearchStrings(c.terms, term)
	return i < len(c.terms) && c.terms[i] == term
}
