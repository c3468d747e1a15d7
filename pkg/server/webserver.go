package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/matst80/laser-finder/pkg/common"
	"github.com/matst80/laser-finder/pkg/common/jsoncompat"
	"github.com/matst80/laser-finder/pkg/config"
	"github.com/matst80/laser-finder/pkg/facet"
	"github.com/matst80/laser-finder/pkg/pipeline"
	"github.com/matst80/laser-finder/pkg/search"
	"github.com/matst80/laser-finder/pkg/storage"
	"github.com/matst80/laser-finder/pkg/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Searcher runs free text queries over the current record set.
type Searcher interface {
	Search(query string) []*types.Machine
	Suggest(query string, limit int) []search.Suggestion
}

type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

type WebServer struct {
	Store       *storage.RecordStore
	Search      Searcher
	Pipeline    *pipeline.Pipeline
	Preferences storage.PreferenceStore
	Refresher   Refresher
	Tracking    types.Tracking
	Logger      *zap.Logger
	JwtSecret   []byte
}

type MachinesResponse struct {
	Data []types.RawMachine `json:"data"`
}

type CompareResponse struct {
	pipeline.Result
	Query string `json:"query,omitempty"`
}

type RefreshResponse struct {
	Machines int `json:"machines"`
}

type HealthResponse struct {
	State    types.LoadState `json:"state"`
	Machines int             `json:"machines"`
}

func (ws *WebServer) logger() *zap.Logger {
	if ws.Logger == nil {
		return zap.NewNop()
	}
	return ws.Logger
}

func (ws *WebServer) json(fn common.JsonHandlerFunc) http.HandlerFunc {
	return common.JsonHandler(ws.Tracking, ws.logger(), fn)
}

func (ws *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", ws.Health)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/machines", ws.json(ws.Machines))
	mux.HandleFunc("GET /api/compare", ws.json(ws.Compare))
	mux.HandleFunc("GET /api/facets", ws.json(ws.Facets))
	mux.HandleFunc("GET /api/suggest", ws.json(ws.Suggest))
	mux.HandleFunc("GET /api/preferences", ws.json(ws.GetPreferences))
	mux.HandleFunc("PUT /api/preferences", ws.json(ws.SetPreferences))
	mux.HandleFunc("POST /api/refresh", ws.AuthMiddleware(ws.json(ws.Refresh)))
	for _, path := range []string{"/api/machines", "/api/compare", "/api/facets", "/api/suggest", "/api/preferences", "/api/refresh"} {
		mux.HandleFunc("OPTIONS "+path, common.RespondToOptions)
	}
	return mux
}

func (ws *WebServer) Health(w http.ResponseWriter, r *http.Request) {
	snap := ws.Store.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	if snap.State == types.LoadStateFailed {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	jsoncompat.NewEncoder(w).Encode(HealthResponse{State: snap.State, Machines: len(snap.Machines)})
}

func notLoaded(snap types.Snapshot) error {
	switch snap.State {
	case types.LoadStateLoaded:
		return nil
	case types.LoadStateFailed:
		return common.NewHttpError(http.StatusServiceUnavailable, fmt.Errorf("machines failed to load: %w", snap.Err))
	}
	return common.NewHttpError(http.StatusServiceUnavailable, errors.New("machines are loading"))
}

// Machines serves the raw records, at most limit of them.
func (ws *WebServer) Machines(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			return common.NewHttpError(http.StatusBadRequest, fmt.Errorf("invalid limit %q", l))
		}
		limit = n
	}
	limit = config.ClampLimit(limit)

	snap := ws.Store.Snapshot()
	if err := notLoaded(snap); err != nil {
		return err
	}
	ret := make([]types.RawMachine, 0, min(limit, len(snap.Machines)))
	for _, m := range snap.Machines[:min(limit, len(snap.Machines))] {
		ret = append(ret, m.Raw)
	}
	w.Header().Set("Cache-Control", "private, stale-while-revalidate=60")
	return enc.Encode(MachinesResponse{Data: ret})
}

func (ws *WebServer) sortFor(ctx context.Context, req *CompareRequest, sessionId string) types.SortKey {
	if req.Sort != "" {
		return types.ParseSortKey(req.Sort)
	}
	if ws.Preferences == nil {
		return types.DefaultSortKey
	}
	prefs, err := ws.Preferences.Get(ctx, sessionId)
	if err != nil {
		ws.logger().Warn("failed to load preferences", zap.String("session", sessionId), zap.Error(err))
		return types.DefaultSortKey
	}
	return prefs.Sort
}

// search runs the free text search. The flag reports whether a search ran,
// so an unmatched query can be told apart from no query.
func (ws *WebServer) search(query string) ([]*types.Machine, bool) {
	if strings.TrimSpace(query) == "" || ws.Search == nil {
		return nil, false
	}
	return ws.Search.Search(query), true
}

// Compare runs the filter and sort pipeline. A failed load is a 503 with
// the same body so clients can tell it apart from an empty result.
func (ws *WebServer) Compare(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	req, err := DecodeCompareRequest(r.URL.Query())
	if err != nil {
		return common.NewHttpError(http.StatusBadRequest, err)
	}
	criteria, err := req.Criteria()
	if err != nil {
		return common.NewHttpError(http.StatusBadRequest, err)
	}
	sort := ws.sortFor(r.Context(), req, sessionId)
	results, searched := ws.search(req.Query)

	res := ws.Pipeline.Run(pipeline.Input{
		Snapshot: ws.Store.Snapshot(),
		Criteria: criteria,
		Sort:     sort,
		Search:   results,
		Searched: searched,
	})
	if ws.Tracking != nil {
		go ws.Tracking.TrackCompare(sessionId, criteria, res.Sort, req.Query, res.Matched, r)
	}

	w.Header().Set("Cache-Control", "private, stale-while-revalidate=60")
	if res.Status == types.StatusError {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return enc.Encode(CompareResponse{Result: res, Query: req.Query})
}

// Facets summarizes the machines matching the request, so the filter
// controls reflect the current selection.
func (ws *WebServer) Facets(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	req, err := DecodeCompareRequest(r.URL.Query())
	if err != nil {
		return common.NewHttpError(http.StatusBadRequest, err)
	}
	criteria, err := req.Criteria()
	if err != nil {
		return common.NewHttpError(http.StatusBadRequest, err)
	}
	snap := ws.Store.Snapshot()
	if err := notLoaded(snap); err != nil {
		return err
	}
	results, searched := ws.search(req.Query)
	matching := search.NarrowBySearch(snap.Machines, criteria, results, searched)
	w.Header().Set("Cache-Control", "private, stale-while-revalidate=60")
	return enc.Encode(facet.Summarize(matching))
}

const suggestLimit = 10

func (ws *WebServer) Suggest(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	if ws.Search == nil {
		return enc.Encode([]search.Suggestion{})
	}
	w.Header().Set("Cache-Control", "private, stale-while-revalidate=60")
	return enc.Encode(ws.Search.Suggest(r.URL.Query().Get("q"), suggestLimit))
}

func (ws *WebServer) GetPreferences(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	if ws.Preferences == nil {
		return enc.Encode(types.DefaultPreferences())
	}
	prefs, err := ws.Preferences.Get(r.Context(), sessionId)
	if err != nil {
		return err
	}
	return enc.Encode(prefs)
}

func (ws *WebServer) SetPreferences(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	prefs := types.DefaultPreferences()
	if err := jsoncompat.NewDecoder(r.Body).Decode(&prefs); err != nil {
		return common.NewHttpError(http.StatusBadRequest, err)
	}
	prefs.Sanitize()
	if ws.Preferences != nil {
		if err := ws.Preferences.Set(r.Context(), sessionId, prefs); err != nil {
			return err
		}
	}
	return enc.Encode(prefs)
}

// Refresh reloads the machines. A refresh that was overtaken by a newer one
// answers 409.
func (ws *WebServer) Refresh(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	if ws.Refresher == nil {
		return common.NewHttpError(http.StatusNotImplemented, errors.New("refresh is not configured"))
	}
	n, err := ws.Refresher.Refresh(r.Context())
	if errors.Is(err, storage.ErrSuperseded) {
		return common.NewHttpError(http.StatusConflict, err)
	}
	if err != nil {
		return common.NewHttpError(http.StatusBadGateway, err)
	}
	return enc.Encode(RefreshResponse{Machines: n})
}
