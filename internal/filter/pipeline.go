package filter

import (
	"sort"
	"strings"

	"anipet/internal"
	"anipet/internal/catalog"
	"anipet/internal/similarity"
	"anipet/internal/util"
)

// FacetFilter is one multi-select categorical filter. Enabled with an empty
// selection is a no-op.
type FacetFilter struct {
	Enabled  bool
	Selected map[string]struct{}
}

func (f FacetFilter) active() bool {
	return f.Enabled && len(f.Selected) > 0
}

// RangeFilter is an inclusive [Min, Max] numeric filter.
type RangeFilter struct {
	Enabled bool
	Min     float64
	Max     float64
}

func (r RangeFilter) contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// FilterState is one user session's filter configuration. It is ephemeral;
// Reset clears everything including the reference product.
type FilterState struct {
	Facets      map[internal.FacetType]FacetFilter
	PriceRange  RangeFilter
	WeightRange RangeFilter
	VarietyOnly bool
	ResultsText string
	Reference   *internal.ProductRecord
}

// NewFilterState returns an all-defaults state: nothing enabled, no
// reference product.
func NewFilterState() *FilterState {
	return &FilterState{Facets: map[internal.FacetType]FacetFilter{}}
}

// Reset restores defaults in place.
func (s *FilterState) Reset() {
	*s = *NewFilterState()
}

// SelectFacet enables a facet filter and adds a value to its selection.
func (s *FilterState) SelectFacet(t internal.FacetType, value string) {
	f := s.Facets[t]
	f.Enabled = true
	if f.Selected == nil {
		f.Selected = map[string]struct{}{}
	}
	f.Selected[value] = struct{}{}
	s.Facets[t] = f
}

func (s *FilterState) anyEnabled() bool {
	for _, f := range s.Facets {
		if f.active() {
			return true
		}
	}
	return s.PriceRange.Enabled || s.WeightRange.Enabled || s.VarietyOnly ||
		strings.TrimSpace(s.ResultsText) != ""
}

// Result pairs a surviving record with its similarity score against the
// reference product. Score is nil when no reference is selected.
type Result struct {
	Product internal.ProductRecord
	Score   *similarity.Score
}

// Apply runs the ordered filter stages over the records, then scores, sorts
// and pins when a reference product is selected. With no reference and no
// enabled filter the result is empty: "nothing to show", not "show
// everything".
func Apply(records []internal.ProductRecord, state *FilterState) []Result {
	if state == nil || (!state.anyEnabled() && state.Reference == nil) {
		return []Result{}
	}

	survivors := make([]internal.ProductRecord, 0, len(records))
	for _, p := range records {
		if passes(p, state) {
			survivors = append(survivors, p)
		}
	}

	if state.Reference == nil {
		out := make([]Result, 0, len(survivors))
		for _, p := range survivors {
			out = append(out, Result{Product: p})
		}
		return out
	}

	ref := *state.Reference

	// Facet filters must never hide the product everything is compared
	// against.
	present := false
	for _, p := range survivors {
		if catalog.SameProduct(ref, p) {
			present = true
			break
		}
	}
	if !present {
		survivors = append(survivors, ref)
	}

	dims := ActiveDimensions(state)
	out := make([]Result, 0, len(survivors))
	for _, p := range survivors {
		score := similarity.Compute(ref, p, dims)
		out = append(out, Result{Product: p, Score: &score})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score.Total > out[j].Score.Total })

	// Re-pin the reference at position 0 regardless of its own score.
	for i, r := range out {
		if catalog.SameProduct(ref, r.Product) {
			pinned := out[i]
			copy(out[1:i+1], out[:i])
			out[0] = pinned
			break
		}
	}
	return out
}

// passes runs the per-record stages in order: price range, weight range,
// each categorical facet, variety flag, then the free-text results filter.
func passes(p internal.ProductRecord, state *FilterState) bool {
	if state.PriceRange.Enabled && !state.PriceRange.contains(p.SalePrice) {
		return false
	}
	// Weight ranges are compared in the caller's active unit; no conversion
	// happens here.
	if state.WeightRange.Enabled && !state.WeightRange.contains(p.Weight) {
		return false
	}
	for _, facet := range internal.AllFacetTypes {
		f := state.Facets[facet]
		if !f.active() {
			continue
		}
		if _, ok := f.Selected[p.Facet(facet)]; !ok {
			return false
		}
	}
	if state.VarietyOnly && !p.ParticipatesInVariety {
		return false
	}
	if text := strings.TrimSpace(state.ResultsText); text != "" && !matchesText(p, text) {
		return false
	}
	return true
}

func matchesText(p internal.ProductRecord, text string) bool {
	for _, f := range []string{
		p.ProductName, p.Brand, p.AnimalType, p.InternalCategory,
		p.MainIngredient, p.MedicalIssue, p.QualityLevel, p.SupplierName,
	} {
		if util.ContainsFold(f, text) {
			return true
		}
	}
	return false
}

// ActiveDimensions derives the similarity dimensions to score from the
// enabled filters; with nothing enabled every dimension participates.
func ActiveDimensions(state *FilterState) []similarity.Dimension {
	var dims []similarity.Dimension
	facetDims := map[internal.FacetType]similarity.Dimension{
		internal.FacetBrand:            similarity.DimBrand,
		internal.FacetAnimalType:       similarity.DimAnimalType,
		internal.FacetLifeStage:        similarity.DimLifeStage,
		internal.FacetInternalCategory: similarity.DimInternalCategory,
		internal.FacetMainIngredient:   similarity.DimMainIngredient,
		internal.FacetMedicalIssue:     similarity.DimMedicalIssue,
		internal.FacetQualityLevel:     similarity.DimQualityLevel,
		internal.FacetSupplierName:     similarity.DimSupplier,
	}
	for _, facet := range internal.AllFacetTypes {
		if state.Facets[facet].active() {
			dims = append(dims, facetDims[facet])
		}
	}
	if state.PriceRange.Enabled {
		dims = append(dims, similarity.DimPrice)
	}
	if state.WeightRange.Enabled {
		dims = append(dims, similarity.DimWeight)
	}
	if len(dims) == 0 {
		return similarity.AllDimensions
	}
	return dims
}
