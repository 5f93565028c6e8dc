// Package keywords ranks the salient terms of a job description.
//
// Scoring is term frequency weighted by a static inverse-document-frequency
// prior: the corpus here is a single document, so true IDF is not defined and
// a fixed reference table of common-English term counts (corpus_freq.txt,
// embedded at build time) stands in for it. A term missing from the table is
// treated as maximally rare. The result is deterministic for a given input.
package keywords

import (
	_ "embed"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

//go:embed corpus_freq.txt
var corpusData string

// DefaultTopN bounds the ranked list when the caller does not pick a size.
const DefaultTopN = 10

// Keyword is one ranked term: its lowercased form, its relevance weight
// (always >= 0) and its raw occurrence count in the source text.
type Keyword struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
	Count  int     `json:"count"`
}

// Config carries the extraction tables. Tables are data, not code: tests
// substitute small fixtures, production uses DefaultConfig.
type Config struct {
	Stopwords   map[string]struct{}
	MinTokenLen int
}

var defaultStopwords = []string{
	"the", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with",
	"by", "is", "are", "was", "were", "be", "been", "have", "has", "had",
	"do", "does", "did", "will", "would", "could", "should", "may", "might",
	"can", "this", "that", "these", "those", "a", "an", "as", "from", "not",
	"all", "any", "each", "every", "no", "some", "such", "than", "too", "very",
}

// DefaultConfig returns the production extraction tables.
func DefaultConfig() Config {
	stop := make(map[string]struct{}, len(defaultStopwords))
	for _, w := range defaultStopwords {
		stop[w] = struct{}{}
	}
	return Config{Stopwords: stop, MinTokenLen: 3}
}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Extract tokenizes text on non-alphanumeric boundaries, lowercases, drops
// stopwords, tokens shorter than cfg.MinTokenLen and tokens without a letter,
// then returns at most topN keywords ordered by descending weight. Equal
// weights order by first occurrence in the text. Empty or all-stopword text
// yields an empty list, never an error.
func Extract(cfg Config, text string, topN int) []Keyword {
	if topN <= 0 {
		topN = DefaultTopN
	}
	minLen := cfg.MinTokenLen
	if minLen <= 0 {
		minLen = 3
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	eligible := 0
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if utf8.RuneCountInString(tok) < minLen {
			continue
		}
		if _, stop := cfg.Stopwords[tok]; stop {
			continue
		}
		if !hasLetter(tok) {
			continue
		}
		if _, seen := counts[tok]; !seen {
			firstSeen[tok] = eligible
		}
		counts[tok]++
		eligible++
	}
	if eligible == 0 {
		return nil
	}

	kws := make([]Keyword, 0, len(counts))
	for term, n := range counts {
		tf := float64(n) / float64(eligible)
		kws = append(kws, Keyword{Term: term, Weight: tf * inverseDocFreq(term), Count: n})
	}
	sort.Slice(kws, func(i, j int) bool {
		if kws[i].Weight != kws[j].Weight {
			return kws[i].Weight > kws[j].Weight
		}
		return firstSeen[kws[i].Term] < firstSeen[kws[j].Term]
	})
	if len(kws) > topN {
		kws = kws[:topN]
	}
	return kws
}

// Terms returns just the ordered term strings, for prompt building and logs.
func Terms(kws []Keyword) []string {
	out := make([]string, len(kws))
	for i, kw := range kws {
		out[i] = kw.Term
	}
	return out
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

var (
	corpusOnce  sync.Once
	corpusFreq  map[string]float64
	corpusTotal float64
)

// inverseDocFreq looks the term up in the embedded reference table. Known
// terms get log(total/(1+count)); unknown terms get the maximum log(total).
// Never negative, so keyword weights stay >= 0.
func inverseDocFreq(term string) float64 {
	corpusOnce.Do(loadCorpus)
	idf := math.Log(corpusTotal)
	if n, ok := corpusFreq[term]; ok {
		idf = math.Log(corpusTotal / (1 + n))
	}
	return math.Max(0, idf)
}

// loadCorpus parses corpus_freq.txt: comment lines start with '#', the first
// bare number is the corpus token total, every other line is "term count".
func loadCorpus() {
	corpusFreq = make(map[string]float64)
	for _, line := range strings.Split(corpusData, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 1 && corpusTotal == 0 {
			if v, err := strconv.ParseFloat(fields[0], 64); err == nil && v > 0 {
				corpusTotal = v
			}
			continue
		}
		if len(fields) != 2 {
			continue
		}
		if v, err := strconv.ParseFloat(fields[1], 64); err == nil && v >= 0 {
			corpusFreq[fields[0]] = v
		}
	}
	if corpusTotal <= 1 {
		corpusTotal = math.E // degenerate table still yields idf > 0
	}
}
