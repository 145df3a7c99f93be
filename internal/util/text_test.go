package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStripsNiqqudAndSpaces(t *testing.T) {
	// כֶּלֶב carries niqqud; normalized form is bare כלב.
	assert.Equal(t, "כלב", Normalize("  כֶּלֶב "))
	assert.Equal(t, "מזון לחתול", Normalize("מזון   לחתול"))
	assert.Equal(t, "royal canin", Normalize("Royal  Canin"))
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "123456", NormalizeCode(" 123456.0 "))
	assert.Equal(t, "abc123", NormalizeCode("ABC 123"))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestTokenizeDropsShortTokens(t *testing.T) {
	tokens := Tokenize("פריסקיז 10 קילו מ")
	assert.Equal(t, []string{"פריסקיז", "10", "קילו"}, tokens)
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("רויאל קנין לכלבים", "קנין"))
	assert.False(t, ContainsFold("רויאל קנין", ""))
	assert.True(t, ContainsFold("Royal Canin", "royal"))
}

func TestEqualCompact(t *testing.T) {
	assert.True(t, EqualCompact("שופרסל בע\"מ", "שופרסל  בע\"מ"))
	assert.True(t, EqualCompact("Acme Ltd", "acme ltd"))
	assert.False(t, EqualCompact("Acme", "Acme Ltd"))
}
