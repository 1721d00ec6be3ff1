package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Way/highcharts-utils/pkg/buildinfo"
	"github.com/Way/highcharts-utils/pkg/errors"
	pkgio "github.com/Way/highcharts-utils/pkg/io"
	"github.com/Way/highcharts-utils/pkg/pipeline"
	"github.com/Way/highcharts-utils/pkg/series"
	"github.com/Way/highcharts-utils/pkg/store"
)

// ExpandRequest is the body of POST /v1/expand.
type ExpandRequest struct {
	Dataset pkgio.Dataset `json:"dataset"`
	Delta   float64       `json:"delta,omitempty"`
	Policy  string        `json:"policy,omitempty"`
	Formats []string      `json:"formats,omitempty"`
	Title   string        `json:"title,omitempty"`
	Colors  []string      `json:"colors,omitempty"`
	Refresh bool          `json:"refresh,omitempty"`
}

// ExpandResponse is the body of a successful expansion.
type ExpandResponse struct {
	DatasetHash string                     `json:"dataset_hash"`
	Stats       StatsResponse              `json:"stats"`
	Cached      CacheResponse              `json:"cached"`
	Artifacts   map[string]json.RawMessage `json:"artifacts"`
}

// StatsResponse summarizes a pipeline run.
type StatsResponse struct {
	SeriesCount int `json:"series_count"`
	PointCount  int `json:"point_count"`
	GapCount    int `json:"gap_count"`
	FixCount    int `json:"fix_count"`
}

// CacheResponse reports which stages were served from cache.
type CacheResponse struct {
	Expand bool `json:"expand"`
	Render bool `json:"render"`
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	var req ExpandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	data, err := json.Marshal(req.Dataset)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid dataset"))
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Data:    data,
		Delta:   req.Delta,
		Policy:  req.Policy,
		Formats: req.Formats,
		Title:   req.Title,
		Colors:  req.Colors,
		Refresh: req.Refresh,
		Logger:  s.logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	resp := ExpandResponse{
		DatasetHash: result.DatasetHash,
		Stats: StatsResponse{
			SeriesCount: result.Stats.SeriesCount,
			PointCount:  result.Stats.PointCount,
			GapCount:    result.Stats.GapCount,
			FixCount:    result.Stats.FixCount,
		},
		Cached: CacheResponse{
			Expand: result.CacheInfo.ExpandHit,
			Render: result.CacheInfo.RenderHit,
		},
		Artifacts: make(map[string]json.RawMessage, len(result.Artifacts)),
	}
	for format, data := range result.Artifacts {
		resp.Artifacts[format] = json.RawMessage(data)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSaveDataset(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, errNoStore())
		return
	}
	name := chi.URLParam(r, "name")

	var ds pkgio.Dataset
	if err := json.NewDecoder(r.Body).Decode(&ds); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid dataset body"))
		return
	}

	// Reject datasets that could never feed the pipeline.
	list, err := ds.ToSeries()
	if err != nil {
		writeError(w, err)
		return
	}
	if err := series.ValidateAligned(list); err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.Save(r.Context(), name, ds); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": name})
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, errNoStore())
		return
	}
	infos, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if infos == nil {
		infos = []store.Info{}
	}
	writeJSON(w, http.StatusOK, map[string][]store.Info{"datasets": infos})
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, errNoStore())
		return
	}
	ds, err := s.store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func (s *Server) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, errNoStore())
		return
	}
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDatasetChart renders a stored dataset as chart options.
// Expansion options come from query parameters.
func (s *Server) handleDatasetChart(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, errNoStore())
		return
	}
	ds, err := s.store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := json.Marshal(ds)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "failed to serialize dataset"))
		return
	}

	opts := pipeline.Options{
		Data:    data,
		Policy:  r.URL.Query().Get("policy"),
		Title:   r.URL.Query().Get("title"),
		Formats: []string{pipeline.FormatHighcharts},
		Logger:  s.logger,
	}
	if raw := r.URL.Query().Get("delta"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts.Delta); err != nil {
			writeError(w, errors.New(errors.ErrCodeInvalidOptions, "invalid delta: %q", raw))
			return
		}
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[pipeline.FormatHighcharts])
}

func errNoStore() error {
	return errors.New(errors.ErrCodeUnavailable, "dataset persistence is not configured")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error codes to HTTP statuses and writes the error
// envelope.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSeries, errors.ErrCodeMisaligned,
		errors.ErrCodeInvalidOptions, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidDataset,
		errors.ErrCodeUnsupported:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeDatasetNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeUnavailable:
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:    string(code),
		Message: errors.UserMessage(err),
	}})
}
