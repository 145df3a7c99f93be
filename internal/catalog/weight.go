package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"anipet/internal"
)

// unitMatcher binds one weight unit to the regex that extracts a magnitude
// followed by any of the unit's Hebrew or Latin spellings.
type unitMatcher struct {
	unit internal.WeightUnit
	re   *regexp.Regexp
}

// Ordered so that units whose spelling contains another unit's spelling are
// tried first (קילוגרם and מיליגרם both contain גרם, מיליליטר contains ליטר).
var unitMatchers = []unitMatcher{
	{internal.UnitKilogram, weightRe(`קילוגרם|קילו|ק"ג|קג`, `kg`)},
	{internal.UnitMilligram, weightRe(`מיליגרם|מ"ג`, `mg`)},
	{internal.UnitMilliliter, weightRe(`מיליליטר|מ"ל`, `ml`)},
	{internal.UnitLiter, weightRe(`ליטר|ל'`, `liter|ltr|l`)},
	{internal.UnitGram, weightRe(`גרם|גר'`, `gr|g`)},
}

func weightRe(hebrew, latin string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:` + hebrew + `|(?:` + latin + `)\b)`)
}

// ParseWeight extracts a weight magnitude and unit using the fallback chain:
// explicit weight field first, then the product name, otherwise zero. The
// third return value is the raw matched text, kept for indexing.
func ParseWeight(explicit, productName string) (float64, internal.WeightUnit, string) {
	for _, src := range []string{explicit, productName} {
		if strings.TrimSpace(src) == "" {
			continue
		}
		for _, m := range unitMatchers {
			match := m.re.FindStringSubmatch(src)
			if match == nil {
				continue
			}
			value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
			if err != nil || value < 0 {
				continue
			}
			return value, m.unit, strings.TrimSpace(match[0])
		}
	}
	return 0, internal.UnitNone, ""
}
