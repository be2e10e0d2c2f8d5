package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/threadtree/pkg/digraph"
	"github.com/matzehuels/threadtree/pkg/errors"
	graphio "github.com/matzehuels/threadtree/pkg/io"
	"github.com/matzehuels/threadtree/pkg/pipeline"
	"github.com/matzehuels/threadtree/pkg/store"
)

// graphRequest is the body of POST /v1/validate, /v1/traverse and /v1/render.
type graphRequest struct {
	Graph   json.RawMessage  `json:"graph"`
	Options pipeline.Options `json:"options"`
}

// putGraphRequest is the body of POST /v1/graphs.
type putGraphRequest struct {
	Name  string          `json:"name"`
	Graph json.RawMessage `json:"graph"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type validateResponse struct {
	Valid bool   `json:"valid"`
	Root  string `json:"root"`
	Nodes int    `json:"nodes"`
}

type renderResponse struct {
	Artifacts map[string][]byte `json:"artifacts"`
	CacheHit  bool              `json:"cache_hit"`
}

type recordResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"created_at"`
	Nodes     int             `json:"nodes"`
	Edges     int             `json:"edges"`
	Graph     json.RawMessage `json:"graph,omitempty"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPNG: "image/png",
	pipeline.FormatPDF: "application/pdf",
	pipeline.FormatDOT: "text/vnd.graphviz",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: s.cfg.Version})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	_, g, err := decodeGraphRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	root, err := s.cfg.Runner.Validate(r.Context(), g)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: true, Root: root, Nodes: g.NodeCount()})
}

func (s *Server) handleTraverse(w http.ResponseWriter, r *http.Request) {
	req, g, err := decodeGraphRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.cfg.Runner.Traverse(r.Context(), g, req.Options)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleRender writes a single requested format as the raw response body and
// several formats as a JSON object of base64 artifacts.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, g, err := decodeGraphRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	artifacts, hit, err := s.cfg.Runner.Render(r.Context(), g, req.Options)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("X-Cache", cacheHeader(hit))
	if len(artifacts) == 1 {
		for format, data := range artifacts {
			w.Header().Set("Content-Type", contentTypes[format])
			w.Header().Set("Content-Length", strconv.Itoa(len(data)))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(data)
		}
		return
	}
	writeJSON(w, http.StatusOK, renderResponse{Artifacts: artifacts, CacheHit: hit})
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	records, err := s.cfg.Store.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]recordResponse, len(records))
	for i, rec := range records {
		out[i] = toRecordResponse(rec, nil)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePutGraph(w http.ResponseWriter, r *http.Request) {
	var req putGraphRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := parseGraph(req.Graph)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := s.cfg.Store.Put(r.Context(), req.Name, g)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/graphs/"+rec.ID)
	writeJSON(w, http.StatusCreated, toRecordResponse(rec, nil))
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	rec, err := s.loadRecord(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := graphio.WriteJSON(rec.Graph, &buf); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec, buf.Bytes()))
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.cfg.Store.Delete(r.Context(), id); err != nil {
		writeError(w, r, storeError(err, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTraverseStored(w http.ResponseWriter, r *http.Request) {
	rec, err := s.loadRecord(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	opts := pipeline.Options{
		Order:   q.Get("order"),
		OrderBy: q.Get("order_by"),
	}
	if v := q.Get("thread"); v != "" {
		threaded, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid thread parameter %q", v))
			return
		}
		opts.Threaded = threaded
	}

	res, err := s.cfg.Runner.Traverse(r.Context(), rec.Graph, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) loadRecord(r *http.Request) (*store.Record, error) {
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		return nil, errNotFound("graph %q not found", id)
	}
	rec, err := s.cfg.Store.Get(r.Context(), id)
	if err != nil {
		return nil, storeError(err, id)
	}
	return rec, nil
}

func storeError(err error, id string) error {
	if stderrors.Is(err, store.ErrNotFound) {
		return errors.Wrap(errors.ErrCodeNotFound, err, "graph %q", id)
	}
	return err
}

func toRecordResponse(rec *store.Record, graph []byte) recordResponse {
	return recordResponse{
		ID:        rec.ID,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
		Nodes:     rec.NodeCount,
		Edges:     rec.EdgeCount,
		Graph:     graph,
	}
}

func decodeGraphRequest(r *http.Request) (*graphRequest, *digraph.Graph, error) {
	var req graphRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, nil, err
	}
	g, err := parseGraph(req.Graph)
	if err != nil {
		return nil, nil, err
	}
	return &req, g, nil
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func parseGraph(raw json.RawMessage) (*digraph.Graph, error) {
	if len(raw) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "graph is required")
	}
	g, err := graphio.ReadJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid graph")
	}
	return g, nil
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func errNotFound(format string, args ...any) error {
	return errors.New(errors.ErrCodeNotFound, "%s", fmt.Sprintf(format, args...))
}
