package worker

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"anipet/internal"
	"anipet/internal/config"
	"anipet/internal/filter"
	"anipet/internal/index"
	"anipet/internal/search"
	"anipet/internal/similarity"
)

const (
	TypeBuild     = "build"
	TypeSearch    = "search"
	TypeShortcuts = "shortcuts"
	TypeScore     = "score"
	TypeFilter    = "filter"
	TypeError     = "error"
)

// Request is one message into the worker. Only one request is expected in
// flight at a time; correlation is by Type, not by id. A caller superseding
// an in-flight build simply discards late responses using its own
// generation token.
type Request struct {
	Type string

	Query   string
	Records []internal.ProductRecord

	Reference  *internal.ProductRecord
	Candidate  *internal.ProductRecord
	Dimensions []similarity.Dimension

	State *filter.FilterState
}

// Response is one message out of the worker. Failures cross the boundary as
// a tagged error message, never as a panic.
type Response struct {
	Type  string
	Error string

	Results   []internal.RankedCandidate
	Shortcuts []internal.FacetShortcut
	Score     *similarity.Score
	Filtered  []filter.Result

	FromCache bool
	Degraded  bool
	DocCount  int
}

// Worker owns one engine instance and serializes index builds against
// searches: a build replaces the engine wholesale, and in-flight requests
// are naturally ordered by the single request loop.
type Worker struct {
	cfg   config.Config
	store index.Store

	requests  chan Request
	responses chan Response
	progress  chan internal.Progress

	records []internal.ProductRecord
	engine  *search.Engine
}

func New(cfg config.Config, store index.Store) *Worker {
	return &Worker{
		cfg:       cfg,
		store:     store,
		requests:  make(chan Request),
		responses: make(chan Response),
		progress:  make(chan internal.Progress, 16),
	}
}

func (w *Worker) Requests() chan<- Request           { return w.requests }
func (w *Worker) Responses() <-chan Response         { return w.responses }
func (w *Worker) Progress() <-chan internal.Progress { return w.progress }

// Run processes requests until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-w.requests:
			resp := w.handle(req)
			select {
			case <-ctx.Done():
				return
			case w.responses <- resp:
			}
		}
	}
}

func (w *Worker) handle(req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("type", req.Type).Errorf("worker panic: %v", r)
			resp = Response{Type: TypeError, Error: fmt.Sprintf("%s: %v", req.Type, r)}
		}
	}()

	switch req.Type {
	case TypeBuild:
		return w.handleBuild(req)
	case TypeSearch:
		return w.handleSearch(req)
	case TypeShortcuts:
		return w.handleShortcuts(req)
	case TypeScore:
		return w.handleScore(req)
	case TypeFilter:
		return w.handleFilter(req)
	default:
		return Response{Type: TypeError, Error: fmt.Sprintf("unknown request type: %q", req.Type)}
	}
}

func (w *Worker) handleBuild(req Request) Response {
	idx, fromCache := index.BuildOrLoad(req.Records, w.store, w.cfg.IndexTTL, func(p internal.Progress) {
		select {
		case w.progress <- p:
		default:
			// A slow consumer must not stall the build.
		}
	})

	w.records = req.Records
	w.engine = search.NewEngine(idx, req.Records, w.policy(), w.cfg.QueryCacheTTL)

	return Response{
		Type:      TypeBuild,
		FromCache: fromCache,
		Degraded:  w.engine.Degraded(),
		DocCount:  len(req.Records),
	}
}

func (w *Worker) handleSearch(req Request) Response {
	if w.engine == nil {
		return Response{Type: TypeError, Error: "search before index build"}
	}
	return Response{
		Type:     TypeSearch,
		Results:  w.engine.Search(req.Query),
		Degraded: w.engine.Degraded(),
	}
}

func (w *Worker) handleShortcuts(req Request) Response {
	if w.engine == nil {
		return Response{Type: TypeError, Error: "shortcuts before index build"}
	}
	return Response{Type: TypeShortcuts, Shortcuts: w.engine.FacetShortcuts(req.Query)}
}

func (w *Worker) handleScore(req Request) Response {
	if req.Reference == nil || req.Candidate == nil {
		return Response{Type: TypeError, Error: "score requires reference and candidate"}
	}
	dims := req.Dimensions
	if len(dims) == 0 {
		dims = similarity.AllDimensions
	}
	score := similarity.Compute(*req.Reference, *req.Candidate, dims)
	return Response{Type: TypeScore, Score: &score}
}

func (w *Worker) handleFilter(req Request) Response {
	records := req.Records
	if records == nil {
		records = w.records
	}
	return Response{Type: TypeFilter, Filtered: filter.Apply(records, req.State)}
}

func (w *Worker) policy() search.RankingPolicy {
	policy := search.DefaultRankingPolicy()
	policy.VarietyBonus = w.cfg.VarietyBonus
	policy.InactiveMarker = w.cfg.InactiveMarker
	policy.InactivePenalty = w.cfg.InactivePenalty
	return policy
}
