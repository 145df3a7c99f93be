package search

import (
	"sort"
	"strings"
	"sync"
	"time"

	"anipet/internal"
	"anipet/internal/index"
	"anipet/internal/util"
)

// MinQueryRunes is the hard floor on query length. Shorter fragments match
// far too broadly to be useful.
const MinQueryRunes = 3

// DefaultQueryCacheTTL bounds how long a ranked result is reused for the
// same normalized query.
const DefaultQueryCacheTTL = 5 * time.Minute

const maxShortcuts = 5

// Engine answers free-text queries against one immutable SearchIndex and the
// record array it was built from. A dataset change means a new Engine, which
// also starts with an empty query cache. When idx is nil the engine runs in
// degraded substring-scan mode (index build failed); Degraded reports it so
// callers can warn that search will be slower.
type Engine struct {
	idx      *index.SearchIndex
	records  []internal.ProductRecord
	policy   RankingPolicy
	cacheTTL time.Duration
	now      func() time.Time

	mu    sync.Mutex
	cache map[string]cachedResult
}

type cachedResult struct {
	at      time.Time
	results []internal.RankedCandidate
}

// NewEngine builds a search engine over a built index. idx may be nil for
// degraded mode.
func NewEngine(idx *index.SearchIndex, records []internal.ProductRecord, policy RankingPolicy, cacheTTL time.Duration) *Engine {
	if cacheTTL <= 0 {
		cacheTTL = DefaultQueryCacheTTL
	}
	return &Engine{
		idx:      idx,
		records:  records,
		policy:   policy,
		cacheTTL: cacheTTL,
		now:      time.Now,
		cache:    map[string]cachedResult{},
	}
}

// Degraded reports whether the engine serves queries without an index.
func (e *Engine) Degraded() bool {
	return e.idx == nil
}

// Search returns ranked candidates for a free-text query. Queries shorter
// than three runes return nil. Multi-word queries require every word to
// match (AND).
func (e *Engine) Search(query string) []internal.RankedCandidate {
	q := util.Normalize(query)
	if len([]rune(q)) < MinQueryRunes {
		return nil
	}

	if hit, ok := e.cached(q); ok {
		return hit
	}

	words := strings.Fields(q)
	ids := e.candidates(words)

	ranked := make([]internal.RankedCandidate, 0, len(ids))
	for _, id := range ids {
		ranked = append(ranked, internal.RankedCandidate{
			ID:    id,
			Score: e.relevance(e.records[id], q, words),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	e.store(q, ranked)
	return ranked
}

// candidates returns the sorted record ids matching every query word.
func (e *Engine) candidates(words []string) []int {
	if e.idx == nil {
		return e.scanCandidates(words)
	}

	var acc map[int]struct{}
	for _, w := range words {
		set := e.wordMatches(w)
		if acc == nil {
			acc = set
			continue
		}
		for id := range acc {
			if _, ok := set[id]; !ok {
				delete(acc, id)
			}
		}
	}
	if len(acc) == 0 {
		// The prefix index is deliberately bounded and misses some
		// substrings; fall back to containment over the indexed vocabulary.
		acc = e.substringFallback(words)
	}
	return sortedIDs(acc)
}

// wordMatches gathers the ids whose indexed tokens match one query word,
// exact lookup first, then prefix lookup.
func (e *Engine) wordMatches(w string) map[int]struct{} {
	set := map[int]struct{}{}
	for _, id := range e.idx.Lookup(w) {
		set[id] = struct{}{}
	}
	if len([]rune(w)) >= MinQueryRunes {
		for _, id := range e.idx.LookupPrefix(w) {
			// A prefix entry longer than the indexed cap returns a superset;
			// verify against the record before keeping it.
			if _, ok := set[id]; ok {
				continue
			}
			if e.recordContainsWord(e.records[id], w) {
				set[id] = struct{}{}
			}
		}
	}
	return set
}

func (e *Engine) recordContainsWord(p internal.ProductRecord, w string) bool {
	for _, f := range []string{p.ProductName, p.Brand, p.OriginalWeight, p.AnimalType, p.InternalCategory, p.MainIngredient, p.SKU, p.Barcode} {
		if util.ContainsFold(f, w) {
			return true
		}
	}
	return false
}

// substringFallback matches each word by containment in either direction
// against the indexed vocabulary, then intersects across words.
func (e *Engine) substringFallback(words []string) map[int]struct{} {
	var acc map[int]struct{}
	for _, w := range words {
		set := map[int]struct{}{}
		for token, posting := range e.idx.Tokens {
			if strings.Contains(token, w) || strings.Contains(w, token) {
				for _, id := range posting {
					set[id] = struct{}{}
				}
			}
		}
		if acc == nil {
			acc = set
			continue
		}
		for id := range acc {
			if _, ok := set[id]; !ok {
				delete(acc, id)
			}
		}
	}
	return acc
}

// scanCandidates is the degraded no-index path: a linear containment scan.
func (e *Engine) scanCandidates(words []string) []int {
	var out []int
	for _, p := range e.records {
		all := true
		for _, w := range words {
			if !e.recordContainsWord(p, w) {
				all = false
				break
			}
		}
		if all {
			out = append(out, p.ID)
		}
	}
	return out
}

// relevance computes the composite ranking score for one record.
func (e *Engine) relevance(p internal.ProductRecord, q string, words []string) float64 {
	name := util.Normalize(p.ProductName)
	brand := util.Normalize(p.Brand)
	score := 0.0

	switch {
	case brand != "" && brand == q:
		score += e.policy.BrandExact
	case brand != "" && strings.Contains(brand, q):
		score += e.policy.BrandContains
	}
	switch {
	case name == q:
		score += e.policy.NameExact
	case strings.Contains(name, q):
		score += e.policy.NameContains
	}
	if util.ContainsFold(p.OriginalWeight, q) {
		score += e.policy.WeightText
	}
	if util.ContainsFold(p.SKU, q) {
		score += e.policy.SKUSubstring
	}
	if util.ContainsFold(p.Barcode, q) {
		score += e.policy.BarcodeSubstring
	}

	matched := 0
	for _, w := range words {
		if strings.Contains(name, w) || strings.Contains(brand, w) {
			matched++
		}
	}
	score += float64(matched) * e.policy.WordMatchBonus
	if matched == len(words) {
		score += e.policy.AllWordsBonus
	}

	if p.ParticipatesInVariety {
		score += e.policy.VarietyBonus
	}
	score += e.policy.CategoryPriority[util.Normalize(p.InternalCategory)]

	if e.policy.InactiveMarker != "" && strings.Contains(name, util.Normalize(e.policy.InactiveMarker)) {
		score -= e.policy.InactivePenalty
	}
	return score
}

// FacetShortcuts returns up to five facet values containing the query,
// exact matches first, then by descending occurrence count.
func (e *Engine) FacetShortcuts(query string) []internal.FacetShortcut {
	q := util.Normalize(query)
	if len([]rune(q)) < MinQueryRunes || e.idx == nil {
		return nil
	}

	var out []internal.FacetShortcut
	for facet, byValue := range e.idx.Facets {
		for value, entry := range byValue {
			if !strings.Contains(value, q) {
				continue
			}
			out = append(out, internal.FacetShortcut{
				Type:    facet,
				Value:   value,
				Display: entry.Display,
				Count:   entry.Count,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		iExact, jExact := out[i].Value == q, out[j].Value == q
		if iExact != jExact {
			return iExact
		}
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > maxShortcuts {
		out = out[:maxShortcuts]
	}
	return out
}

func (e *Engine) cached(q string) ([]internal.RankedCandidate, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	hit, ok := e.cache[q]
	if !ok {
		return nil, false
	}
	if e.now().Sub(hit.at) > e.cacheTTL {
		delete(e.cache, q)
		return nil, false
	}
	return hit.results, true
}

func (e *Engine) store(q string, results []internal.RankedCandidate) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache[q] = cachedResult{at: e.now(), results: results}
}

func sortedIDs(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
