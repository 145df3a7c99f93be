package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"anipet/internal"
	"anipet/internal/search"
	"anipet/internal/util"
)

// Server exposes the naive linear-scan catalog views. The interactive client
// supersedes this path with its in-memory engine; these endpoints only share
// the field vocabulary, not the ranking.
type Server struct {
	records  []internal.ProductRecord
	pageSize int
	logger   *logrus.Entry
	router   *http.ServeMux
}

func New(records []internal.ProductRecord, pageSize int, logger *logrus.Entry) *Server {
	if pageSize <= 0 {
		pageSize = 50
	}
	s := &Server{
		records:  records,
		pageSize: pageSize,
		logger:   logger,
		router:   http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/search", s.handleSearch)
	s.router.HandleFunc("/products", s.handleProducts)
	s.router.HandleFunc("/filters", s.handleFilters)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(addr string) error {
	s.logger.Infof("catalog server listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

type pageResponse struct {
	Total    int                      `json:"total"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"pageSize"`
	Products []internal.ProductRecord `json:"products"`
}

type filtersResponse struct {
	Facets map[internal.FacetType][]facetOption `json:"facets"`
}

type facetOption struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	node := search.ParseQuery(query)
	if node == nil {
		writeJSON(w, http.StatusOK, pageResponse{Products: []internal.ProductRecord{}})
		return
	}

	var matched []internal.ProductRecord
	for _, id := range search.Match(node, s.records) {
		matched = append(matched, s.records[id])
	}

	s.logger.WithFields(logrus.Fields{"q": query, "hits": len(matched)}).Debug("search")
	s.writePage(w, r, matched)
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, s.records)
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	resp := filtersResponse{Facets: map[internal.FacetType][]facetOption{}}
	for _, facet := range internal.AllFacetTypes {
		counts := map[string]int{}
		for _, p := range s.records {
			if v := strings.TrimSpace(p.Facet(facet)); v != "" {
				counts[v]++
			}
		}
		options := make([]facetOption, 0, len(counts))
		for v, c := range counts {
			options = append(options, facetOption{Value: v, Count: c})
		}
		sortOptions(options)
		resp.Facets[facet] = options
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, all []internal.ProductRecord) {
	page := queryInt(r, "page", 0)
	size := queryInt(r, "pageSize", s.pageSize)
	if size <= 0 {
		size = s.pageSize
	}

	start := page * size
	if start > len(all) {
		start = len(all)
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}

	writeJSON(w, http.StatusOK, pageResponse{
		Total:    len(all),
		Page:     page,
		PageSize: size,
		Products: append([]internal.ProductRecord{}, all[start:end]...),
	})
}

func sortOptions(options []facetOption) {
	for i := 1; i < len(options); i++ {
		for j := i; j > 0 && less(options[j], options[j-1]); j-- {
			options[j], options[j-1] = options[j-1], options[j]
		}
	}
}

func less(a, b facetOption) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return util.Normalize(a.Value) < util.Normalize(b.Value)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
