package search

// RankingPolicy holds the relevance-scoring parameters. The variety bonus,
// the inactive marker and the category priorities encode business rules that
// change independently of the search algorithm, so they are configuration,
// not constants.
type RankingPolicy struct {
	BrandExact       float64
	BrandContains    float64
	NameExact        float64
	NameContains     float64
	WeightText       float64
	SKUSubstring     float64
	BarcodeSubstring float64

	// Per distinct query word found across name+brand, plus a flat bonus
	// when every word was found.
	WordMatchBonus float64
	AllWordsBonus  float64

	VarietyBonus     float64
	InactiveMarker   string
	InactivePenalty  float64
	CategoryPriority map[string]float64
}

// DefaultRankingPolicy returns the reference weights.
func DefaultRankingPolicy() RankingPolicy {
	return RankingPolicy{
		BrandExact:       100,
		BrandContains:    80,
		NameExact:        60,
		NameContains:     40,
		WeightText:       20,
		SKUSubstring:     15,
		BarcodeSubstring: 10,
		WordMatchBonus:   10,
		AllWordsBonus:    25,
		VarietyBonus:     15,
		InactiveMarker:   "לא פעיל",
		InactivePenalty:  200,
		CategoryPriority: map[string]float64{
			"מזון יבש":  5,
			"מזון רטוב": 4,
			"חטיפים":    3,
		},
	}
}
