package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"anipet/internal"
	"anipet/internal/catalog"
	"anipet/internal/config"
	"anipet/internal/index"
	"anipet/internal/ingest"
	"anipet/internal/search"
	"anipet/internal/server"
	"anipet/internal/similarity"
	"anipet/internal/storage"
	"anipet/internal/util"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if cfg.LogJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "index:build":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		catalogPath := fs.String("catalog", cfg.CatalogPath, "catalog file path")
		force := fs.Bool("force", false, "rebuild even if the cached index is fresh")
		_ = fs.Parse(os.Args[2:])

		if *force {
			must(db.Delete(index.CacheKey))
		}
		records := loadCatalog(*catalogPath)
		idx, fromCache := index.BuildOrLoad(records, db, cfg.IndexTTL, nil)
		fmt.Printf("index ready docs=%d tokens=%d fromCache=%v\n", idx.DocCount, len(idx.Tokens), fromCache)
	case "search":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		query := fs.String("q", "", "search query")
		catalogPath := fs.String("catalog", cfg.CatalogPath, "catalog file path")
		limit := fs.Int("limit", 10, "max results")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*query) == "" {
			must(fmt.Errorf("--q is required"))
		}

		records := loadCatalog(*catalogPath)
		engine := makeEngine(cfg, db, records)

		results := engine.Search(*query)
		if len(results) > *limit {
			results = results[:*limit]
		}
		for _, r := range results {
			p := records[r.ID]
			fmt.Printf("%6.1f  %-10s %s\n", r.Score, p.SKU, p.ProductName)
		}
		for _, sc := range engine.FacetShortcuts(*query) {
			fmt.Printf("shortcut: %s = %s (%d)\n", sc.Type, sc.Display, sc.Count)
		}
	case "similar":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		sku := fs.String("sku", "", "reference product sku")
		catalogPath := fs.String("catalog", cfg.CatalogPath, "catalog file path")
		limit := fs.Int("limit", 10, "max results")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*sku) == "" {
			must(fmt.Errorf("--sku is required"))
		}

		records := loadCatalog(*catalogPath)
		ref := findBySKU(records, *sku)
		if ref == nil {
			must(fmt.Errorf("no product with sku %s", *sku))
		}

		type scored struct {
			id    int
			score similarity.Score
		}
		ranked := make([]scored, 0, len(records))
		for i := range records {
			if catalog.SameProduct(*ref, records[i]) {
				continue
			}
			ranked = append(ranked, scored{i, similarity.Compute(*ref, records[i], similarity.AllDimensions)})
		}
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score.Total > ranked[j].score.Total })
		if len(ranked) > *limit {
			ranked = ranked[:*limit]
		}

		fmt.Printf("reference: %s %s\n", ref.SKU, ref.ProductName)
		for _, r := range ranked {
			p := records[r.id]
			fmt.Printf("%6.2f  %-10s %s\n", r.score.Total, p.SKU, p.ProductName)
		}
	case "serve":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		addr := fs.String("addr", cfg.ServerAddr, "listen address")
		catalogPath := fs.String("catalog", cfg.CatalogPath, "catalog file path")
		_ = fs.Parse(os.Args[2:])

		records := loadCatalog(*catalogPath)
		s := server.New(records, cfg.PageSize, logrus.WithField("component", "server"))
		must(s.Start(*addr))
	default:
		usage()
		os.Exit(1)
	}
}

func loadCatalog(path string) []internal.ProductRecord {
	result, err := ingest.LoadRows(path)
	must(err)
	return catalog.Load(result.Rows)
}

func makeEngine(cfg config.Config, db *storage.DB, records []internal.ProductRecord) *search.Engine {
	idx, _ := index.BuildOrLoad(records, db, cfg.IndexTTL, nil)
	policy := search.DefaultRankingPolicy()
	policy.VarietyBonus = cfg.VarietyBonus
	policy.InactiveMarker = cfg.InactiveMarker
	policy.InactivePenalty = cfg.InactivePenalty
	return search.NewEngine(idx, records, policy, cfg.QueryCacheTTL)
}

func findBySKU(records []internal.ProductRecord, sku string) *internal.ProductRecord {
	want := util.NormalizeCode(sku)
	for i := range records {
		if util.NormalizeCode(records[i].SKU) == want {
			return &records[i]
		}
	}
	return nil
}

func usage() {
	fmt.Println("usage: anipet <command>")
	fmt.Println("commands:")
	fmt.Println("  index:build [--catalog=...] [--force]")
	fmt.Println("  search --q=... [--catalog=...] [--limit=10]")
	fmt.Println("  similar --sku=... [--catalog=...] [--limit=10]")
	fmt.Println("  serve [--addr=:8080] [--catalog=...]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
