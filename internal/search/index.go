// Package search provides a small, deterministic, concurrency-safe in-memory
// index over the exercise catalog:
//
//   - No logging in the library (callers decide how/what to log)
//   - Functional options for stop words and the resolve threshold
//   - Unicode-aware tokenization with light plural folding
//   - Immutable after construction (safe for concurrent use)
//   - Deterministic scoring and sorting (stable order for ties)
//
// Scoring uses Jaccard similarity between the query token set and each
// exercise's token set: score = |Q ∩ E| / |Q ∪ E|.
package search

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tbourn/go-training-planner/internal/domain"
)

// Result is a ranked catalog entry with its similarity score.
type Result struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Index is the minimal interface implemented by all search indices.
type Index interface {
	TopK(query string, k int) []Result
}

// ----------------------------------------------------------------------------
// Options

type Option func(*config)

type config struct {
	stopwords map[string]struct{}
	minScore  float64
}

func defaultConfig() config {
	return config{
		stopwords: nil,
		minScore:  0.2,
	}
}

// WithStopwords drops the given words from both queries and documents.
func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				m[fold(w)] = struct{}{}
			}
		}
		if len(m) > 0 {
			c.stopwords = m
		}
	}
}

// WithMinScore sets the lowest name score Resolve accepts, in (0, 1].
func WithMinScore(s float64) Option {
	return func(c *config) {
		if s > 0 && s <= 1 {
			c.minScore = s
		}
	}
}

// ----------------------------------------------------------------------------
// Implementation

type doc struct {
	name       string
	nameTokens map[string]struct{}
	tokens     map[string]struct{}
}

// CatalogIndex ranks catalog exercises against free text.
type CatalogIndex struct {
	cfg    config
	docs   []doc
	byName map[string]string
}

var _ Index = (*CatalogIndex)(nil)

// NewCatalogIndex indexes each exercise by its name, category, equipment,
// muscle group and goal tag.
func NewCatalogIndex(exercises []domain.Exercise, opts ...Option) *CatalogIndex {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	idx := &CatalogIndex{
		cfg:    cfg,
		docs:   make([]doc, 0, len(exercises)),
		byName: make(map[string]string, len(exercises)),
	}
	for _, e := range exercises {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		if _, dup := idx.byName[strings.ToLower(name)]; dup {
			continue
		}
		nameToks := tokenize(name, cfg.stopwords)
		all := tokenize(strings.Join([]string{name, e.Category, e.Equipment, e.MuscleGroup, e.GoalTag}, " "), cfg.stopwords)
		if len(all) == 0 {
			continue
		}
		idx.docs = append(idx.docs, doc{name: name, nameTokens: nameToks, tokens: all})
		idx.byName[strings.ToLower(name)] = name
	}
	return idx
}

// Len reports the number of indexed exercises.
func (i *CatalogIndex) Len() int { return len(i.docs) }

// TopK returns up to k best-matching exercises by Jaccard similarity over
// all indexed fields.
func (i *CatalogIndex) TopK(q string, k int) []Result {
	return i.rank(q, k, func(d doc) map[string]struct{} { return d.tokens })
}

// Resolve maps a free-text phrase (for example "the squats") to the catalog
// exercise whose name matches it best. An exact case-insensitive name match
// always wins. It reports false when nothing scores at least the configured
// minimum.
func (i *CatalogIndex) Resolve(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	if name, ok := i.byName[strings.ToLower(text)]; ok {
		return name, true
	}
	res := i.rank(text, 1, func(d doc) map[string]struct{} { return d.nameTokens })
	if len(res) == 0 || res[0].Score < i.cfg.minScore {
		return "", false
	}
	return res[0].Name, true
}

func (i *CatalogIndex) rank(q string, k int, field func(doc) map[string]struct{}) []Result {
	if len(i.docs) == 0 || strings.TrimSpace(q) == "" {
		return nil
	}
	if k <= 0 {
		k = 3
	}
	qTokens := tokenize(q, i.cfg.stopwords)
	if len(qTokens) == 0 {
		return nil
	}
	qLen := len(qTokens)

	buf := make([]Result, 0, min(k*4, len(i.docs)))
	for _, d := range i.docs {
		toks := field(d)
		over := overlap(qTokens, toks)
		if over == 0 {
			continue
		}
		union := float64(qLen + len(toks) - over)
		if union <= 0 {
			continue
		}
		buf = append(buf, Result{Name: d.name, Score: float64(over) / union})
	}
	if len(buf) == 0 {
		return nil
	}

	sort.SliceStable(buf, func(a, b int) bool {
		if buf[a].Score != buf[b].Score {
			return buf[a].Score > buf[b].Score
		}
		if len(buf[a].Name) != len(buf[b].Name) {
			return len(buf[a].Name) < len(buf[b].Name)
		}
		return buf[a].Name < buf[b].Name
	})

	if k > len(buf) {
		k = len(buf)
	}
	return buf[:k]
}

// ----------------------------------------------------------------------------
// Helpers

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*`)

func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	words := wordRE.FindAllString(strings.ToLower(s), -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = fold(w)
		if stop != nil {
			if _, skip := stop[w]; skip {
				continue
			}
		}
		out[w] = struct{}{}
	}
	return out
}

// fold strips a plural "s" so "squats" and "squat" share a token.
func fold(w string) string {
	if len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") {
		return w[:len(w)-1]
	}
	return w
}

func overlap(a, b map[string]struct{}) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := 0
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
