package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Simplici0/cabkit/internal/cabinet"
	"github.com/Simplici0/cabkit/internal/configurator"
	"github.com/Simplici0/cabkit/internal/designs"
	"github.com/Simplici0/cabkit/internal/logger"
	"github.com/Simplici0/cabkit/internal/metrics"
	"github.com/Simplici0/cabkit/internal/pricing"
)

const maxBodyBytes = 1 << 20

type server struct {
	catalog       pricing.Catalog
	store         *configurator.Store
	designs       *designs.Repository
	defaultPreset string
	now           func() time.Time
}

func newServer(catalog pricing.Catalog, store *configurator.Store, repo *designs.Repository, defaultPreset string) *server {
	if !catalog.Has(defaultPreset) {
		defaultPreset = pricing.DefaultPresetID
	}
	return &server{
		catalog:       catalog,
		store:         store,
		designs:       repo,
		defaultPreset: defaultPreset,
		now:           time.Now,
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/pricing-presets", s.handlePricingPresets)
		r.Get("/materials", s.handleMaterials)

		r.Post("/evaluate", s.handleEvaluate)
		r.Post("/bom.csv", s.handleBOMCSV)
		r.Post("/export", s.handleExport)
		r.Post("/package.zip", s.handlePackage)

		r.Get("/share", s.handleShareDecode)
		r.Post("/share", s.handleShareEncode)

		r.Route("/state", func(r chi.Router) {
			r.Get("/", s.handleStateGet)
			r.Get("/evaluate", s.handleStateEvaluate)
			r.Patch("/params", s.handleStatePatchParams)
			r.Put("/explode", s.handleStateExplode)
			r.Put("/view", s.handleStateView)
			r.Post("/reset", s.handleStateReset)
			r.Post("/fixes/{id}", s.handleStateApplyFix)
			r.Get("/presets", s.handlePresetsList)
			r.Put("/presets/{name}", s.handlePresetSave)
			r.Post("/presets/{name}/load", s.handlePresetLoad)
			r.Delete("/presets/{name}", s.handlePresetDelete)
		})

		r.Post("/quotes", s.handleQuoteCreate)
		r.Get("/quotes", s.handleQuotesList)
		r.Get("/quotes/{id}", s.handleQuoteDetail)
		r.Get("/quotes/{id}/text", s.handleQuoteText)
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readRawParams reads loosely typed parameters from a JSON object body or
// from form values. Requests that do not name a pricing preset get the
// configured default.
func (s *server) readRawParams(r *http.Request) (map[string]any, error) {
	raw, err := decodeRawParams(r)
	if err != nil {
		return nil, err
	}
	if _, ok := raw["pricingPreset"]; !ok {
		raw["pricingPreset"] = s.defaultPreset
	}
	return raw, nil
}

func (s *server) readParams(r *http.Request) (cabinet.Params, error) {
	raw, err := s.readRawParams(r)
	if err != nil {
		return cabinet.Params{}, err
	}
	return cabinet.ParseRaw(raw), nil
}

func decodeRawParams(r *http.Request) (map[string]any, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data" {
		return parseParamsForm(r)
	}

	raw := map[string]any{}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if strings.TrimSpace(string(body)) == "" {
		return raw, nil
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("body must be a JSON object: %w", err)
	}
	// a null body decodes to a nil map and means no parameters
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// parseParamsForm maps form fields to raw parameters; the first value of
// each field wins and numeric coercion is left to cabinet.ParseRaw.
func parseParamsForm(r *http.Request) (map[string]any, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	raw := make(map[string]any, len(r.Form))
	for key, values := range r.Form {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}
	return raw, nil
}

func parseExplode(r *http.Request) float64 {
	v, err := strconv.ParseFloat(r.URL.Query().Get("explode"), 64)
	if err != nil {
		return 0
	}
	return cabinet.ClampExplode(v)
}

func (s *server) evaluate(source string, p cabinet.Params, explode float64) configurator.Snapshot {
	start := time.Now()
	snap := configurator.Evaluate(p, explode, s.catalog)
	metrics.RecordEvaluation(source, snap.Findings, snap.Blocked, time.Since(start))
	return snap
}

type errorResponse struct {
	Error string `json:"error"`
}

type blockedResponse struct {
	Error    string `json:"error"`
	SKU      string `json:"sku"`
	Findings any    `json:"findings"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error(r.Context(), "request failed", logger.String("path", r.URL.Path), logger.ErrorF(err))
		writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeBlocked refuses an export whose configuration has error findings.
func writeBlocked(w http.ResponseWriter, snap configurator.Snapshot) {
	writeJSON(w, http.StatusConflict, blockedResponse{
		Error:    "configuration has blocking validation errors",
		SKU:      snap.SKU,
		Findings: snap.Findings,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, designs.ErrNotFound),
		errors.Is(err, configurator.ErrUnknownPreset),
		errors.Is(err, configurator.ErrUnknownFix):
		return http.StatusNotFound
	case errors.Is(err, configurator.ErrEmptyName):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
