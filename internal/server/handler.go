package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kbellanger/salescope/internal/analytics"
	"github.com/kbellanger/salescope/internal/chart"
	"github.com/kbellanger/salescope/internal/classify"
	"github.com/kbellanger/salescope/internal/filter"
	"github.com/kbellanger/salescope/internal/loader"
	"github.com/kbellanger/salescope/internal/report"
	"github.com/kbellanger/salescope/internal/session"
)

type handler struct {
	store  *session.Store
	config Config
}

func newHandler(store *session.Store, config Config) *handler {
	return &handler{store: store, config: config}
}

type columnInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type sessionResponse struct {
	SessionID   string              `json:"session_id"`
	Filename    string              `json:"filename"`
	Rows        int                 `json:"rows"`
	Columns     []columnInfo        `json:"columns"`
	Preview     [][]string          `json:"preview"`
	Candidates  classify.Candidates `json:"candidates"`
	Roles       classify.Assignment `json:"roles"`
	Diagnostics *loader.Diagnostics `json:"diagnostics,omitempty"`
}

type analyzeRequest struct {
	Roles    classify.Overrides `json:"roles"`
	From     string             `json:"from"`
	To       string             `json:"to"`
	Regions  []string           `json:"regions"`
	Products []string           `json:"products"`
}

type analyzeResponse struct {
	KPIs   analytics.KPIs   `json:"kpis"`
	Charts []analytics.Spec `json:"charts"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// CreateSession ingests an uploaded file: load, clean, classify. A file that
// cannot be parsed as its declared format yields 422 and no stored session.
func (h *handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	maxBytes := h.config.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = 32 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, logger, http.StatusBadRequest, fmt.Sprintf("missing upload: %v", err))
		return
	}
	defer file.Close()

	raw, err := loader.Load(file, header.Filename)
	if err != nil {
		var loadErr *loader.LoadError
		if errors.As(err, &loadErr) {
			respondError(w, logger, http.StatusUnprocessableEntity, loadErr.Error())
			return
		}
		respondError(w, logger, http.StatusInternalServerError, err.Error())
		return
	}

	cleaned, diag := loader.Clean(raw)
	candidates := classify.Detect(cleaned)
	roles, err := classify.Resolve(cleaned, candidates, classify.Overrides{})
	if err != nil {
		respondError(w, logger, http.StatusUnprocessableEntity, err.Error())
		return
	}

	sess := h.store.Create(header.Filename, cleaned, diag, candidates, roles)
	logger.Info().
		Str("session", sess.ID).
		Str("filename", header.Filename).
		Int("rows", cleaned.NumRows()).
		Int("dropped", diag.RowsDropped).
		Msg("session created")

	respondJSON(w, logger, http.StatusCreated, h.sessionResponse(sess))
}

func (h *handler) GetSession(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	sess, ok := h.store.Get(chi.URLParam(r, "session"))
	if !ok {
		respondError(w, logger, http.StatusNotFound, "session not found")
		return
	}
	respondJSON(w, logger, http.StatusOK, h.sessionResponse(sess))
}

// Analyze applies role overrides and filter criteria, recomputes aggregates,
// and replaces the session's stored result.
func (h *handler) Analyze(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	id := chi.URLParam(r, "session")
	sess, ok := h.store.Get(id)
	if !ok {
		respondError(w, logger, http.StatusNotFound, "session not found")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, logger, http.StatusBadRequest, fmt.Sprintf("decode request: %v", err))
		return
	}

	criteria, err := parseCriteria(req)
	if err != nil {
		respondError(w, logger, http.StatusBadRequest, err.Error())
		return
	}

	roles, err := classify.Resolve(sess.Table, sess.Candidates, req.Roles)
	if err != nil {
		respondError(w, logger, http.StatusUnprocessableEntity, err.Error())
		return
	}

	filtered := filter.Apply(sess.Table, roles, criteria)
	result := analytics.Aggregate(filtered, roles, h.config.TopProducts)

	h.store.Update(id, func(s *session.Session) {
		s.Roles = roles
		s.Criteria = criteria
		s.Result = &result
	})

	respondJSON(w, logger, http.StatusOK, analyzeResponse{
		KPIs:   result.KPIs,
		Charts: analytics.Charts(result),
	})
}

// DownloadReport renders the charts of the latest analysis and streams the
// assembled PDF with a timestamped attachment filename.
func (h *handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	sess, ok := h.store.Get(chi.URLParam(r, "session"))
	if !ok {
		respondError(w, logger, http.StatusNotFound, "session not found")
		return
	}
	if sess.Result == nil {
		respondError(w, logger, http.StatusConflict, "no analysis to report; run analyze first")
		return
	}

	renderer := chart.NewRenderer(h.config.ChartWidth, h.config.ChartHeight)
	images, err := report.RenderCharts(renderer, analytics.Charts(*sess.Result))
	if err != nil {
		respondError(w, logger, http.StatusInternalServerError, fmt.Sprintf("render charts: %v", err))
		return
	}

	now := time.Now()
	doc, err := report.Build(report.Summary{
		Period:      periodLabel(sess),
		Total:       sess.Result.KPIs.Total,
		Count:       sess.Result.KPIs.Count,
		Mean:        sess.Result.KPIs.Mean,
		GeneratedAt: now,
	}, images)
	if err != nil {
		respondError(w, logger, http.StatusInternalServerError, fmt.Sprintf("assemble report: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(now)))
	if _, err := w.Write(doc); err != nil {
		logger.Error().Err(err).Msg("failed to stream report")
	}
}

func (h *handler) sessionResponse(sess session.Session) sessionResponse {
	previewRows := h.config.PreviewRows
	if previewRows <= 0 {
		previewRows = 5
	}
	cols := make([]columnInfo, 0, sess.Table.NumCols())
	for _, c := range sess.Table.Columns {
		cols = append(cols, columnInfo{Name: c.Name, Kind: c.Kind.String()})
	}
	return sessionResponse{
		SessionID:   sess.ID,
		Filename:    sess.Filename,
		Rows:        sess.Table.NumRows(),
		Columns:     cols,
		Preview:     sess.Table.Head(previewRows),
		Candidates:  sess.Candidates,
		Roles:       sess.Roles,
		Diagnostics: sess.Diagnostics,
	}
}

func parseCriteria(req analyzeRequest) (filter.Criteria, error) {
	c := filter.Criteria{Regions: req.Regions, Products: req.Products}
	if req.From != "" {
		t, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			return c, fmt.Errorf("bad from date %q: use YYYY-MM-DD", req.From)
		}
		c.From = t
	}
	if req.To != "" {
		t, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			return c, fmt.Errorf("bad to date %q: use YYYY-MM-DD", req.To)
		}
		c.To = t
	}
	return c, nil
}

// periodLabel describes the analyzed period: the filter range when set,
// otherwise the full extent of the date column.
func periodLabel(sess session.Session) string {
	if !sess.Criteria.From.IsZero() && !sess.Criteria.To.IsZero() {
		return fmt.Sprintf("%s au %s",
			sess.Criteria.From.Format("02/01/2006"), sess.Criteria.To.Format("02/01/2006"))
	}
	if min, max, ok := sess.Table.DateRange(sess.Roles.Date); ok {
		return fmt.Sprintf("%s au %s", min.Format("02/01/2006"), max.Format("02/01/2006"))
	}
	return "toutes dates"
}

func respondJSON(w http.ResponseWriter, logger *zerolog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, logger *zerolog.Logger, status int, msg string) {
	// the middleware's completion line carries the status
	logger.Warn().Str("error", msg).Msg("request failed")
	respondJSON(w, logger, status, errorResponse{Error: msg})
}
