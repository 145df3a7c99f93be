package catalog

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"anipet/internal"
	"anipet/internal/util"
)

// fieldAliases maps each target field to the ordered list of source-row keys
// it may arrive under. Catalog exports changed column headers more than once;
// the first present alias wins.
var fieldAliases = map[string][]string{
	"productName":           {"שם פריט", "שם מוצר", "productName", "name"},
	"sku":                   {"מק\"ט", "מקט", "sku"},
	"barcode":               {"ברקוד", "barcode"},
	"brand":                 {"מותג", "brand"},
	"animalType":            {"סוג בעל חיים", "סוג חיה", "animalType"},
	"lifeStage":             {"שלב חיים", "גיל", "lifeStage"},
	"internalCategory":      {"קטגוריה פנימית", "קטגוריה", "internalCategory"},
	"mainIngredient":        {"מרכיב עיקרי", "mainIngredient"},
	"medicalIssue":          {"בעיה רפואית", "medicalIssue"},
	"qualityLevel":          {"רמת איכות", "איכות", "qualityLevel"},
	"supplierName":          {"שם ספק", "ספק", "supplierName"},
	"salePrice":             {"מחיר מכירה", "מחיר", "salePrice", "price"},
	"weight":                {"משקל", "weight"},
	"participatesInVariety": {"משתתף במגוון", "מגוון", "participatesInVariety"},
	"imageUrl":              {"תמונה", "imageUrl"},
	"productUrl":            {"קישור", "productUrl"},
}

// Load converts raw catalog rows into ProductRecords. It is a pure transform:
// a malformed row yields default field values instead of being dropped, and
// IDs are dense 0-based positions valid only for this load.
func Load(rows []map[string]any) []internal.ProductRecord {
	out := make([]internal.ProductRecord, 0, len(rows))
	for i, row := range rows {
		p := internal.ProductRecord{
			ID:                    i,
			SKU:                   stringField(row, "sku"),
			Barcode:               stringField(row, "barcode"),
			ProductName:           stringField(row, "productName"),
			Brand:                 stringField(row, "brand"),
			AnimalType:            stringField(row, "animalType"),
			LifeStage:             stringField(row, "lifeStage"),
			InternalCategory:      stringField(row, "internalCategory"),
			MainIngredient:        stringField(row, "mainIngredient"),
			MedicalIssue:          stringField(row, "medicalIssue"),
			QualityLevel:          stringField(row, "qualityLevel"),
			SupplierName:          stringField(row, "supplierName"),
			SalePrice:             priceField(row, "salePrice"),
			ParticipatesInVariety: boolField(row, "participatesInVariety"),
			ImageURL:              stringField(row, "imageUrl"),
			ProductURL:            stringField(row, "productUrl"),
		}
		p.Weight, p.WeightUnit, p.OriginalWeight = ParseWeight(stringField(row, "weight"), p.ProductName)
		out = append(out, p)
	}
	return out
}

// SameProduct reports whether two records are the same catalog product:
// normalized SKUs match, or normalized barcodes match, either non-empty.
func SameProduct(a, b internal.ProductRecord) bool {
	if sku := util.NormalizeCode(a.SKU); sku != "" && sku == util.NormalizeCode(b.SKU) {
		return true
	}
	if bc := util.NormalizeCode(a.Barcode); bc != "" && bc == util.NormalizeCode(b.Barcode) {
		return true
	}
	return false
}

func rawField(row map[string]any, target string) (any, bool) {
	for _, alias := range fieldAliases[target] {
		if v, ok := row[alias]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringField(row map[string]any, target string) string {
	v, ok := rawField(row, target)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func priceField(row map[string]any, target string) float64 {
	v, ok := rawField(row, target)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		if t < 0 {
			return 0
		}
		return t
	case int:
		if t < 0 {
			return 0
		}
		return float64(t)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, "₪", ""))
		s = strings.ReplaceAll(s, ",", "")
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil || parsed < 0 {
			logrus.WithFields(logrus.Fields{"field": target, "value": t}).Debug("unparseable numeric field, defaulting to 0")
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func boolField(row map[string]any, target string) bool {
	v, ok := rawField(row, target)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "כן", "true", "yes", "1":
			return true
		}
	}
	return false
}
