package internal

// WeightUnit is the closed set of unit labels a catalog row can carry.
type WeightUnit string

const (
	UnitKilogram   WeightUnit = "kg"
	UnitGram       WeightUnit = "g"
	UnitLiter      WeightUnit = "l"
	UnitMilliliter WeightUnit = "ml"
	UnitMilligram  WeightUnit = "mg"
	UnitNone       WeightUnit = ""
)

// FacetType names a categorical field usable both as a filter and as an
// autocomplete shortcut source.
type FacetType string

const (
	FacetBrand            FacetType = "brand"
	FacetAnimalType       FacetType = "animalType"
	FacetLifeStage        FacetType = "lifeStage"
	FacetInternalCategory FacetType = "internalCategory"
	FacetMainIngredient   FacetType = "mainIngredient"
	FacetMedicalIssue     FacetType = "medicalIssue"
	FacetQualityLevel     FacetType = "qualityLevel"
	FacetSupplierName     FacetType = "supplierName"
)

// AllFacetTypes lists every facet in pipeline order.
var AllFacetTypes = []FacetType{
	FacetBrand,
	FacetAnimalType,
	FacetLifeStage,
	FacetInternalCategory,
	FacetMainIngredient,
	FacetMedicalIssue,
	FacetSupplierName,
	FacetQualityLevel,
}

// ProductRecord is one normalized catalog row. ID is a dense 0-based index
// into the in-memory array for the lifetime of one load; it is not a durable
// key (SKU/barcode serve that role).
type ProductRecord struct {
	ID                    int        `json:"id"`
	SKU                   string     `json:"sku"`
	Barcode               string     `json:"barcode"`
	ProductName           string     `json:"productName"`
	Brand                 string     `json:"brand"`
	AnimalType            string     `json:"animalType"`
	LifeStage             string     `json:"lifeStage"`
	InternalCategory      string     `json:"internalCategory"`
	MainIngredient        string     `json:"mainIngredient"`
	MedicalIssue          string     `json:"medicalIssue"`
	QualityLevel          string     `json:"qualityLevel"`
	SupplierName          string     `json:"supplierName"`
	SalePrice             float64    `json:"salePrice"`
	Weight                float64    `json:"weight"`
	WeightUnit            WeightUnit `json:"weightUnit"`
	OriginalWeight        string     `json:"originalWeight"`
	ParticipatesInVariety bool       `json:"participatesInVariety"`
	ImageURL              string     `json:"imageUrl"`
	ProductURL            string     `json:"productUrl"`
}

// Facet returns the record's value for the given facet type.
func (p ProductRecord) Facet(t FacetType) string {
	switch t {
	case FacetBrand:
		return p.Brand
	case FacetAnimalType:
		return p.AnimalType
	case FacetLifeStage:
		return p.LifeStage
	case FacetInternalCategory:
		return p.InternalCategory
	case FacetMainIngredient:
		return p.MainIngredient
	case FacetMedicalIssue:
		return p.MedicalIssue
	case FacetQualityLevel:
		return p.QualityLevel
	case FacetSupplierName:
		return p.SupplierName
	default:
		return ""
	}
}

// RankedCandidate is one fuzzy-search hit with its composite relevance score.
type RankedCandidate struct {
	ID    int     `json:"id"`
	Score float64 `json:"score"`
}

// FacetShortcut is an autocomplete suggestion pointing at a facet value
// rather than a single product.
type FacetShortcut struct {
	Type    FacetType `json:"type"`
	Value   string    `json:"value"`
	Display string    `json:"display"`
	Count   int       `json:"count"`
}

// Progress is a coarse-grained build progress event.
type Progress struct {
	Stage   string `json:"stage"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
}
