package normalizer

import (
	"strings"
	"testing"
)

func TestNormalizeDetectsKeywordsDespiteNoise(t *testing.T) {
	n := New(DefaultCatalog())
	raw := "Subject: complaint. On 12/03/2024 at 10:45 PM my bicycle was stolen and I suffered an assault near the market."

	query := n.Normalize(raw)

	wantKeywords := map[string]bool{"stole": false, "assault": false}
	for _, kw := range query.MatchedKeywords {
		if _, ok := wantKeywords[kw]; ok {
			wantKeywords[kw] = true
		}
	}
	for kw, found := range wantKeywords {
		if !found {
			t.Errorf("expected keyword %q in %v", kw, query.MatchedKeywords)
		}
	}
}

func TestNormalizeKeywordMatchingIsCaseInsensitive(t *testing.T) {
	n := New(DefaultCatalog())
	query := n.Normalize("THEFT of my vehicle was reported, also KIDNAPPING attempt")
	joined := strings.Join(query.MatchedKeywords, ",")
	if !strings.Contains(joined, "theft") || !strings.Contains(joined, "kidnapping") {
		t.Fatalf("expected theft and kidnapping, got %v", query.MatchedKeywords)
	}
}

func TestNormalizeStripsDateAndTimeTokens(t *testing.T) {
	n := New(DefaultCatalog())
	cases := []string{
		"incident on 1/2/24 around noon",
		"incident on 12-31-2024 in the evening",
		"it happened at 9:05 near the bridge",
		"it happened at 11:45 PM outside",
		"between 08/15/23 and 3:30am things were taken",
	}
	for _, raw := range cases {
		query := n.Normalize(raw)
		if datePattern.MatchString(query.CleanedText) {
			t.Errorf("cleaned text %q still contains a date token (input %q)", query.CleanedText, raw)
		}
		if timePattern.MatchString(query.CleanedText) {
			t.Errorf("cleaned text %q still contains a time token (input %q)", query.CleanedText, raw)
		}
	}
}

func TestNormalizeStripsBoilerplateAndCollapsesWhitespace(t *testing.T) {
	n := New(DefaultCatalog())
	query := n.Normalize("To The Station House Officer   Subject:   I am writing to report a   robbery located at the bank")

	if strings.Contains(strings.ToLower(query.CleanedText), "station house officer") {
		t.Fatalf("boilerplate not stripped: %q", query.CleanedText)
	}
	if strings.Contains(query.CleanedText, "  ") {
		t.Fatalf("whitespace not collapsed: %q", query.CleanedText)
	}
}

func TestNormalizeBuildsCompositeQueryWithCategoryPreamble(t *testing.T) {
	n := New(DefaultCatalog())
	query := n.Normalize("my wallet was stolen, clear case of theft")

	if !strings.HasPrefix(query.CleanedText, "Crime Categories: ") {
		t.Fatalf("expected category preamble, got %q", query.CleanedText)
	}
	if !strings.Contains(query.CleanedText, ". Context: ") {
		t.Fatalf("expected context separator, got %q", query.CleanedText)
	}
	if !strings.Contains(query.CleanedText, "theft") {
		t.Fatalf("expected matched category in preamble, got %q", query.CleanedText)
	}
}

func TestNormalizeWithoutKeywordsReturnsStrippedNarrativeOnly(t *testing.T) {
	n := New(DefaultCatalog())
	query := n.Normalize("my neighbour plays loud classical records every sunday")

	if len(query.MatchedKeywords) != 0 {
		t.Fatalf("unexpected keywords: %v", query.MatchedKeywords)
	}
	if strings.HasPrefix(query.CleanedText, "Crime Categories:") {
		t.Fatalf("unexpected preamble without matches: %q", query.CleanedText)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	n := New(DefaultCatalog())
	for _, raw := range []string{"", "   ", "\n\t"} {
		query := n.Normalize(raw)
		if query.CleanedText != "" || len(query.MatchedKeywords) != 0 {
			t.Fatalf("expected empty query for %q, got %+v", raw, query)
		}
	}
}

func TestNormalizeKeywordOrderIsStable(t *testing.T) {
	n := New(DefaultCatalog())
	raw := "theft and assault and arson happened"
	first := n.Normalize(raw)
	for i := 0; i < 5; i++ {
		again := n.Normalize(raw)
		if strings.Join(again.MatchedKeywords, "|") != strings.Join(first.MatchedKeywords, "|") {
			t.Fatalf("keyword order not reproducible: %v vs %v", first.MatchedKeywords, again.MatchedKeywords)
		}
	}
}
