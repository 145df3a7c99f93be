package similarity

import (
	"math"

	"anipet/internal"
	"anipet/internal/catalog"
	"anipet/internal/util"
)

// Dimension identifies one comparison axis between a reference product and a
// candidate.
type Dimension string

const (
	DimAnimalType       Dimension = "animalType"
	DimInternalCategory Dimension = "internalCategory"
	DimBrand            Dimension = "brand"
	DimLifeStage        Dimension = "lifeStage"
	DimMainIngredient   Dimension = "mainIngredient"
	DimPrice            Dimension = "price"
	DimWeight           Dimension = "weight"
	DimSupplier         Dimension = "supplier"
	DimMedicalIssue     Dimension = "medicalIssue"
	DimQualityLevel     Dimension = "qualityLevel"
)

// Weights holds each dimension's maximum point value.
var Weights = map[Dimension]float64{
	DimAnimalType:       30,
	DimInternalCategory: 25,
	DimBrand:            20,
	DimLifeStage:        15,
	DimMainIngredient:   10,
	DimPrice:            20,
	DimWeight:           25,
	DimSupplier:         10,
	DimMedicalIssue:     10,
	DimQualityLevel:     10,
}

// AllDimensions lists every dimension in a stable order.
var AllDimensions = []Dimension{
	DimAnimalType,
	DimInternalCategory,
	DimBrand,
	DimLifeStage,
	DimMainIngredient,
	DimPrice,
	DimWeight,
	DimSupplier,
	DimMedicalIssue,
	DimQualityLevel,
}

var priceTiers = []tier{{0, 20}, {5, 15}, {10, 10}, {20, 5}}
var weightTiers = []tier{{0, 25}, {5, 20}, {10, 15}, {20, 10}, {50, 5}}

type tier struct {
	maxDiffPct float64
	points     float64
}

// Score is the result of comparing one candidate against the reference.
type Score struct {
	Total     float64               `json:"total"`
	Breakdown map[Dimension]float64 `json:"breakdown"`
}

// Contributions returns each dimension's earned points as a percentage of the
// candidate's total earned points. Display-only; ranking uses Total.
func (s Score) Contributions() map[Dimension]float64 {
	earned := 0.0
	for _, pts := range s.Breakdown {
		earned += pts
	}
	out := make(map[Dimension]float64, len(s.Breakdown))
	if earned == 0 {
		return out
	}
	for dim, pts := range s.Breakdown {
		out[dim] = pts / earned * 100
	}
	return out
}

// Compute scores candidate against reference over the active dimensions. The
// denominator is the sum of the active dimensions' maxima, so the total is a
// percentage relative to what is being compared. Identical products (same
// normalized SKU or barcode) always score 100.
func Compute(reference, candidate internal.ProductRecord, active []Dimension) Score {
	breakdown := make(map[Dimension]float64, len(active))
	maxScore := 0.0
	earned := 0.0

	for _, dim := range active {
		if dim == DimWeight && unitMismatch(reference, candidate) {
			// No cross-unit conversion happens at scoring time; comparing a
			// liter magnitude against a kilogram magnitude is meaningless, so
			// the dimension drops out of the denominator entirely.
			continue
		}
		pts := dimensionPoints(dim, reference, candidate)
		breakdown[dim] = pts
		maxScore += Weights[dim]
		earned += pts
	}

	score := Score{Breakdown: breakdown}
	if catalog.SameProduct(reference, candidate) {
		score.Total = 100
		return score
	}
	if maxScore > 0 {
		score.Total = math.Round(earned/maxScore*10000) / 100
	}
	return score
}

func unitMismatch(a, b internal.ProductRecord) bool {
	return a.Weight > 0 && b.Weight > 0 &&
		a.WeightUnit != internal.UnitNone && b.WeightUnit != internal.UnitNone &&
		a.WeightUnit != b.WeightUnit
}

func dimensionPoints(dim Dimension, ref, cand internal.ProductRecord) float64 {
	full := Weights[dim]
	switch dim {
	case DimAnimalType:
		return exactMatch(ref.AnimalType, cand.AnimalType, full)
	case DimInternalCategory:
		return exactMatch(ref.InternalCategory, cand.InternalCategory, full)
	case DimBrand:
		return exactMatch(ref.Brand, cand.Brand, full)
	case DimLifeStage:
		return exactMatch(ref.LifeStage, cand.LifeStage, full)
	case DimMainIngredient:
		return exactMatch(ref.MainIngredient, cand.MainIngredient, full)
	case DimMedicalIssue:
		return exactMatch(ref.MedicalIssue, cand.MedicalIssue, full)
	case DimQualityLevel:
		if ref.QualityLevel != "" && cand.QualityLevel != "" && util.EqualFold(ref.QualityLevel, cand.QualityLevel) {
			return full
		}
		return 0
	case DimSupplier:
		if ref.SupplierName != "" && cand.SupplierName != "" && util.EqualCompact(ref.SupplierName, cand.SupplierName) {
			return full
		}
		return 0
	case DimPrice:
		return tieredPoints(ref.SalePrice, cand.SalePrice, priceTiers)
	case DimWeight:
		return tieredPoints(ref.Weight, cand.Weight, weightTiers)
	default:
		return 0
	}
}

func exactMatch(a, b string, full float64) float64 {
	if a != "" && a == b {
		return full
	}
	return 0
}

// tieredPoints awards partial credit by the candidate's relative difference
// from the reference magnitude.
func tieredPoints(ref, cand float64, tiers []tier) float64 {
	var diffPct float64
	switch {
	case ref == 0 && cand == 0:
		diffPct = 0
	case ref == 0:
		return 0
	default:
		diffPct = math.Abs(ref-cand) / ref * 100
	}
	for _, t := range tiers {
		if diffPct <= t.maxDiffPct {
			return t.points
		}
	}
	return 0
}
