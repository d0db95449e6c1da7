package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Simplici0/cabkit/internal/bom"
	"github.com/Simplici0/cabkit/internal/cabinet"
	"github.com/Simplici0/cabkit/internal/metrics"
	"github.com/Simplici0/cabkit/internal/pricing"
	"github.com/Simplici0/cabkit/internal/sharelink"
	"github.com/Simplici0/cabkit/internal/validation"
)

type materialInfo struct {
	Code      cabinet.Material    `json:"code"`
	RatePerM2 float64             `json:"ratePerM2"`
	LoadSpec  validation.LoadSpec `json:"loadSpec"`
}

type handleInfo struct {
	Code        cabinet.Handle `json:"code"`
	CostPerDoor float64        `json:"costPerDoor"`
}

type catalogResponse struct {
	Materials []materialInfo `json:"materials"`
	Handles   []handleInfo   `json:"handles"`
}

func (s *server) handlePricingPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.List())
}

func (s *server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	resp := catalogResponse{
		Materials: make([]materialInfo, 0, len(cabinet.Materials)),
		Handles:   make([]handleInfo, 0, len(cabinet.Handles)),
	}
	for _, m := range cabinet.Materials {
		resp.Materials = append(resp.Materials, materialInfo{
			Code:      m,
			RatePerM2: pricing.MaterialRate(m),
			LoadSpec:  validation.LoadSpecFor(m),
		})
	}
	for _, h := range cabinet.Handles {
		resp.Handles = append(resp.Handles, handleInfo{Code: h, CostPerDoor: pricing.HandleCost(h)})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	p, err := s.readParams(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.evaluate("api", p, parseExplode(r)))
}

func (s *server) handleBOMCSV(w http.ResponseWriter, r *http.Request) {
	p, err := s.readParams(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	snap := s.evaluate("export", p, 0)
	if snap.Blocked {
		metrics.RecordExport("csv", metrics.OutcomeBlocked)
		writeBlocked(w, snap)
		return
	}

	metrics.RecordExport("csv", metrics.OutcomeOK)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment(snap.SKU+"-bom.csv"))
	_, _ = w.Write([]byte(snap.CSV()))
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	p, err := s.readParams(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	snap := s.evaluate("export", p, 0)
	if snap.Blocked {
		metrics.RecordExport("json", metrics.OutcomeBlocked)
		writeBlocked(w, snap)
		return
	}

	metrics.RecordExport("json", metrics.OutcomeOK)
	w.Header().Set("Content-Disposition", attachment(snap.SKU+".json"))
	writeJSON(w, http.StatusOK, snap.Export(s.now()))
}

func (s *server) handlePackage(w http.ResponseWriter, r *http.Request) {
	p, err := s.readParams(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	snap := s.evaluate("export", p, 0)
	if snap.Blocked {
		metrics.RecordExport("zip", metrics.OutcomeBlocked)
		writeBlocked(w, snap)
		return
	}

	exportJSON, err := json.MarshalIndent(snap.Export(s.now()), "", "  ")
	if err != nil {
		metrics.RecordExport("zip", metrics.OutcomeFailed)
		s.writeError(w, r, http.StatusInternalServerError, fmt.Errorf("encode export: %w", err))
		return
	}

	var buf bytes.Buffer
	if err := bom.WritePackage(&buf, snap.SKU, snap.CSV(), exportJSON, s.now()); err != nil {
		metrics.RecordExport("zip", metrics.OutcomeFailed)
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	metrics.RecordExport("zip", metrics.OutcomeOK)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", attachment(snap.SKU+"-package.zip"))
	_, _ = w.Write(buf.Bytes())
}

type shareResponse struct {
	Token  string         `json:"token"`
	URL    string         `json:"url"`
	Params cabinet.Params `json:"params"`
}

// handleShareDecode turns a share token back into normalized parameters.
func (s *server) handleShareDecode(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get(sharelink.QueryKey)
	raw, err := sharelink.Decode(token)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, sharelink.ErrInvalidToken) {
			status = http.StatusBadRequest
		}
		s.writeError(w, r, status, err)
		return
	}
	p := cabinet.Normalize(cabinet.ParseRaw(raw), s.catalog.Has)
	writeJSON(w, http.StatusOK, shareResponse{Token: token, Params: p})
}

// handleShareEncode returns a token for the posted parameters. The optional
// "base" query value is the page the link should open.
func (s *server) handleShareEncode(w http.ResponseWriter, r *http.Request) {
	p, err := s.readParams(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	p = cabinet.Normalize(p, s.catalog.Has)

	base := strings.TrimSpace(r.URL.Query().Get("base"))
	if base == "" {
		base = "/"
	}
	link, err := sharelink.BuildURL(base, p)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	token, err := sharelink.Encode(p)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, shareResponse{Token: token, URL: link, Params: p})
}

func attachment(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}
