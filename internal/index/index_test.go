package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anipet/internal"
)

func sampleRecords() []internal.ProductRecord {
	return []internal.ProductRecord{
		{ID: 0, ProductName: "פריסקיז מזון לכלב", Brand: "פריסקיז", SKU: "1001", Barcode: "7290001", OriginalWeight: "10 קילו", AnimalType: "כלב", InternalCategory: "מזון יבש"},
		{ID: 1, ProductName: "רויאל קנין מיני אדלט", Brand: "רויאל קנין", SKU: "1002", Barcode: "7290002", AnimalType: "כלב", InternalCategory: "מזון יבש"},
		{ID: 2, ProductName: "חול מתגבש", Brand: "סנדי", SKU: "1003", Barcode: "7290003", AnimalType: "חתול", InternalCategory: "חול"},
	}
}

func TestBuildTokens(t *testing.T) {
	idx := Build(sampleRecords(), nil)

	assert.Equal(t, 3, idx.DocCount)
	assert.Equal(t, []int{0}, idx.Lookup("פריסקיז"))
	// Both dog-food records share the animal-type token.
	assert.Equal(t, []int{0, 1}, idx.Lookup("כלב"))
	// Weight text is indexed from its raw form.
	assert.Equal(t, []int{0}, idx.Lookup("קילו"))
	// SKU and barcode are searchable.
	assert.Equal(t, []int{1}, idx.Lookup("1002"))
	assert.Equal(t, []int{2}, idx.Lookup("7290003"))
}

func TestBuildPrefixBounds(t *testing.T) {
	idx := Build(sampleRecords(), nil)

	// Prefixes 3..6 of פריסקיז (7 runes) exist.
	assert.Equal(t, []int{0}, idx.LookupPrefix("פרי"))
	assert.Equal(t, []int{0}, idx.LookupPrefix("פריסקי"))
	// The 7-rune lookup is served by the capped 6-rune entry.
	assert.Equal(t, []int{0}, idx.LookupPrefix("פריסקיז"))
	// Two-rune tokens produce no prefix entries.
	assert.Nil(t, idx.Prefixes["חו"])
}

func TestBuildFacets(t *testing.T) {
	idx := Build(sampleRecords(), nil)

	brands := idx.Facets[internal.FacetBrand]
	require.NotNil(t, brands)
	assert.Equal(t, FacetEntry{Display: "רויאל קנין", Count: 1}, brands["רויאל קנין"])

	categories := idx.Facets[internal.FacetInternalCategory]
	assert.Equal(t, 2, categories["מזון יבש"].Count)
}

func TestBuildIdempotent(t *testing.T) {
	a := Build(sampleRecords(), nil)
	b := Build(sampleRecords(), nil)
	assert.Equal(t, a, b)
}

func TestBuildReportsProgress(t *testing.T) {
	var stages []string
	Build(sampleRecords(), func(p internal.Progress) {
		stages = append(stages, p.Stage)
		assert.Equal(t, 3, p.Total)
	})
	assert.Contains(t, stages, "tokenize")
	assert.Contains(t, stages, "facets")
}
