package index

import (
	"strings"

	"anipet/internal"
	"anipet/internal/util"
)

const (
	minTokenRunes  = 2
	minPrefixRunes = 3
	maxPrefixRunes = 6
)

// FacetEntry is one facet value with its original-case display form and the
// number of records carrying it.
type FacetEntry struct {
	Display string `json:"display"`
	Count   int    `json:"count"`
}

// SearchIndex is the derived, rebuildable search structure: normalized token
// and prefix postings plus the facet map. It is immutable once built; a
// dataset change means a rebuild, not a mutation.
type SearchIndex struct {
	Tokens   map[string][]int                            `json:"tokens"`
	Prefixes map[string][]int                            `json:"prefixes"`
	Facets   map[internal.FacetType]map[string]FacetEntry `json:"facets"`
	DocCount int                                         `json:"docCount"`
}

// Build constructs the index over the given records. onProgress, when non-nil,
// receives coarse stage events so a caller can render a progress indicator.
// Building is idempotent: the same records always yield a structurally equal
// index.
func Build(records []internal.ProductRecord, onProgress func(internal.Progress)) *SearchIndex {
	idx := &SearchIndex{
		Tokens:   map[string][]int{},
		Prefixes: map[string][]int{},
		Facets:   map[internal.FacetType]map[string]FacetEntry{},
		DocCount: len(records),
	}

	report := func(stage string, current int) {
		if onProgress != nil {
			onProgress(internal.Progress{Stage: stage, Current: current, Total: len(records)})
		}
	}

	report("tokenize", 0)
	for i, p := range records {
		seen := map[string]struct{}{}
		for _, token := range util.Tokenize(searchableText(p)) {
			if _, dup := seen[token]; dup {
				continue
			}
			seen[token] = struct{}{}
			idx.Tokens[token] = append(idx.Tokens[token], p.ID)
			addPrefixes(idx.Prefixes, token, p.ID)
		}
		if (i+1)%1000 == 0 {
			report("tokenize", i+1)
		}
	}
	report("tokenize", len(records))

	report("facets", 0)
	for i, p := range records {
		for _, facet := range internal.AllFacetTypes {
			value := strings.TrimSpace(p.Facet(facet))
			if value == "" {
				continue
			}
			byValue, ok := idx.Facets[facet]
			if !ok {
				byValue = map[string]FacetEntry{}
				idx.Facets[facet] = byValue
			}
			key := util.Normalize(value)
			entry := byValue[key]
			if entry.Display == "" {
				entry.Display = value
			}
			entry.Count++
			byValue[key] = entry
		}
		if (i+1)%1000 == 0 {
			report("facets", i+1)
		}
	}
	report("facets", len(records))

	return idx
}

// searchableText concatenates the indexed fields of a record, skipping
// empties.
func searchableText(p internal.ProductRecord) string {
	fields := []string{
		p.ProductName,
		p.Brand,
		p.OriginalWeight,
		p.AnimalType,
		p.InternalCategory,
		p.MainIngredient,
		p.SKU,
		p.Barcode,
	}
	parts := fields[:0]
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}

// addPrefixes indexes prefixes of length 3..min(len,6) for tokens of at
// least three runes. The cap keeps prefix expansion a small constant factor
// over the token volume.
func addPrefixes(prefixes map[string][]int, token string, id int) {
	r := []rune(token)
	if len(r) < minPrefixRunes {
		return
	}
	max := len(r)
	if max > maxPrefixRunes {
		max = maxPrefixRunes
	}
	for n := minPrefixRunes; n <= max; n++ {
		p := string(r[:n])
		posting := prefixes[p]
		if len(posting) > 0 && posting[len(posting)-1] == id {
			continue
		}
		prefixes[p] = append(posting, id)
	}
}

// Lookup returns the postings for an exactly matching token.
func (idx *SearchIndex) Lookup(token string) []int {
	return idx.Tokens[token]
}

// LookupPrefix returns the postings for a prefix entry. Prefixes longer than
// the indexed cap fall back to the capped entry; callers must verify the full
// prefix against record text themselves (the fuzzy engine's substring
// fallback covers what this misses).
func (idx *SearchIndex) LookupPrefix(prefix string) []int {
	r := []rune(prefix)
	if len(r) > maxPrefixRunes {
		prefix = string(r[:maxPrefixRunes])
	}
	return idx.Prefixes[prefix]
}
