package server

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anipet/internal/catalog"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	records := catalog.Load([]map[string]any{
		{"שם פריט": "פריסקיז מזון לכלב 10 קילו", "מותג": "פריסקיז", "מק\"ט": "1001"},
		{"שם פריט": "רויאל קנין מיני אדלט 4 קילו", "מותג": "רויאל קנין", "מק\"ט": "1002"},
		{"שם פריט": "פריסקיז מזון לחתול 3 קילו", "מותג": "פריסקיז", "מק\"ט": "1003"},
	})
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(records, 2, logrus.NewEntry(logger))
}

func get(t *testing.T, s *Server, url string) pageResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", url, nil))
	require.Equal(t, 200, rec.Code)
	var resp pageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestProductsPagination(t *testing.T) {
	s := testServer(t)

	first := get(t, s, "/products")
	assert.Equal(t, 3, first.Total)
	assert.Len(t, first.Products, 2)

	second := get(t, s, "/products?page=1")
	assert.Len(t, second.Products, 1)

	past := get(t, s, "/products?page=9")
	assert.Empty(t, past.Products)
	assert.Equal(t, 3, past.Total)
}

func TestSearchMatchesNameAndBrand(t *testing.T) {
	s := testServer(t)

	resp := get(t, s, "/search?q="+"%D7%A4%D7%A8%D7%99%D7%A1%D7%A7%D7%99%D7%96") // פריסקיז
	assert.Equal(t, 2, resp.Total)

	short := get(t, s, "/search?q=%D7%9B%D7%9C") // two runes, below the floor
	assert.Empty(t, short.Products)
}

func TestFiltersCountsFacetValues(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/filters", nil))
	require.Equal(t, 200, rec.Code)

	var resp filtersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	brands := resp.Facets["brand"]
	require.NotEmpty(t, brands)
	assert.Equal(t, "פריסקיז", brands[0].Value)
	assert.Equal(t, 2, brands[0].Count)
}
