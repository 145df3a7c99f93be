package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"anipet/internal"
)

func product(mutate func(*internal.ProductRecord)) internal.ProductRecord {
	p := internal.ProductRecord{
		ID:               1,
		SKU:              "1001",
		Barcode:          "7290000000001",
		ProductName:      "רויאל קנין מיני אדלט",
		Brand:            "רויאל קנין",
		AnimalType:       "כלב",
		LifeStage:        "בוגר",
		InternalCategory: "מזון יבש",
		MainIngredient:   "עוף",
		QualityLevel:     "פרימיום",
		SupplierName:     "אניפט",
		SalePrice:        100,
		Weight:           4,
		WeightUnit:       internal.UnitKilogram,
	}
	if mutate != nil {
		mutate(&p)
	}
	return p
}

func TestIdentityScoresHundred(t *testing.T) {
	p := product(nil)
	for _, dims := range [][]Dimension{AllDimensions, {DimPrice}, {DimBrand, DimWeight}} {
		s := Compute(p, p, dims)
		assert.Equal(t, 100.0, s.Total)
	}
}

func TestIdentityViaBarcodeOnly(t *testing.T) {
	a := product(nil)
	b := product(func(p *internal.ProductRecord) {
		p.SKU = "other-sku"
		p.Brand = "אחר"
		p.SalePrice = 900
	})
	// Differing SKU, identical non-empty barcode: still the same product.
	assert.Equal(t, 100.0, Compute(a, b, AllDimensions).Total)
}

func TestCategoricalSymmetry(t *testing.T) {
	a := product(func(p *internal.ProductRecord) { p.SKU = "1"; p.Barcode = "b1" })
	b := product(func(p *internal.ProductRecord) { p.SKU = "2"; p.Barcode = "b2" })

	ab := Compute(a, b, []Dimension{DimAnimalType})
	ba := Compute(b, a, []Dimension{DimAnimalType})
	assert.Equal(t, Weights[DimAnimalType], ab.Breakdown[DimAnimalType])
	assert.Equal(t, Weights[DimAnimalType], ba.Breakdown[DimAnimalType])
}

func TestDenominatorScalesWithActiveDimensions(t *testing.T) {
	ref := product(func(p *internal.ProductRecord) { p.SKU = "1"; p.Barcode = "b1" })
	cand := product(func(p *internal.ProductRecord) {
		p.SKU = "2"
		p.Barcode = "b2"
		p.Brand = "מותג אחר"
	})

	// Brand mismatch only: [brand] gives 0/20, [brand, animalType] gives 30/50.
	one := Compute(ref, cand, []Dimension{DimBrand})
	two := Compute(ref, cand, []Dimension{DimBrand, DimAnimalType})
	assert.Equal(t, 0.0, one.Total)
	assert.Equal(t, 60.0, two.Total)
}

func TestPriceTiers(t *testing.T) {
	ref := product(func(p *internal.ProductRecord) { p.SKU = "1"; p.Barcode = "b1" })

	cases := []struct {
		price float64
		want  float64
	}{
		{100, 20},
		{105, 15},
		{110, 10},
		{120, 5},
		{130, 0},
	}
	for _, tc := range cases {
		cand := product(func(p *internal.ProductRecord) {
			p.SKU = "2"
			p.Barcode = "b2"
			p.SalePrice = tc.price
		})
		s := Compute(ref, cand, []Dimension{DimPrice})
		assert.Equal(t, tc.want, s.Breakdown[DimPrice], "price %v", tc.price)
	}
}

func TestWeightTiers(t *testing.T) {
	ref := product(func(p *internal.ProductRecord) { p.SKU = "1"; p.Barcode = "b1"; p.Weight = 10 })
	cases := []struct {
		weight float64
		want   float64
	}{
		{10, 25},
		{10.5, 20},
		{11, 15},
		{12, 10},
		{15, 5},
		{20, 0},
	}
	for _, tc := range cases {
		cand := product(func(p *internal.ProductRecord) {
			p.SKU = "2"
			p.Barcode = "b2"
			p.Weight = tc.weight
		})
		s := Compute(ref, cand, []Dimension{DimWeight})
		assert.Equal(t, tc.want, s.Breakdown[DimWeight], "weight %v", tc.weight)
	}
}

func TestWeightUnitMismatchSkipsDimension(t *testing.T) {
	ref := product(func(p *internal.ProductRecord) { p.SKU = "1"; p.Barcode = "b1" })
	cand := product(func(p *internal.ProductRecord) {
		p.SKU = "2"
		p.Barcode = "b2"
		p.Weight = 4
		p.WeightUnit = internal.UnitLiter
	})

	s := Compute(ref, cand, []Dimension{DimWeight, DimBrand})
	_, hasWeight := s.Breakdown[DimWeight]
	assert.False(t, hasWeight)
	// Denominator shrinks to brand's 20, which matches fully.
	assert.Equal(t, 100.0, s.Total)
}

func TestSupplierComparisonIgnoresInternalWhitespace(t *testing.T) {
	ref := product(func(p *internal.ProductRecord) { p.SKU = "1"; p.Barcode = "b1"; p.SupplierName = "אני פט" })
	cand := product(func(p *internal.ProductRecord) { p.SKU = "2"; p.Barcode = "b2"; p.SupplierName = "אניפט" })
	s := Compute(ref, cand, []Dimension{DimSupplier})
	assert.Equal(t, Weights[DimSupplier], s.Breakdown[DimSupplier])
}

func TestEmptyCategoricalNeverMatches(t *testing.T) {
	ref := product(func(p *internal.ProductRecord) { p.SKU = "1"; p.Barcode = "b1"; p.MedicalIssue = "" })
	cand := product(func(p *internal.ProductRecord) { p.SKU = "2"; p.Barcode = "b2"; p.MedicalIssue = "" })
	s := Compute(ref, cand, []Dimension{DimMedicalIssue})
	assert.Equal(t, 0.0, s.Breakdown[DimMedicalIssue])
}

func TestContributions(t *testing.T) {
	ref := product(func(p *internal.ProductRecord) { p.SKU = "1"; p.Barcode = "b1" })
	cand := product(func(p *internal.ProductRecord) {
		p.SKU = "2"
		p.Barcode = "b2"
		p.Brand = "אחר" // brand earns 0
	})
	s := Compute(ref, cand, []Dimension{DimBrand, DimAnimalType, DimLifeStage})
	contrib := s.Contributions()
	// animalType 30 + lifeStage 15 earned; shares are of earned points.
	assert.InDelta(t, 66.67, contrib[DimAnimalType], 0.01)
	assert.InDelta(t, 33.33, contrib[DimLifeStage], 0.01)
	assert.Equal(t, 0.0, contrib[DimBrand])
}
