package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *server) handleStateGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *server) handleStateEvaluate(w http.ResponseWriter, r *http.Request) {
	st := s.store.Snapshot()
	writeJSON(w, http.StatusOK, s.evaluate("state", st.Params, st.Exploded))
}

func (s *server) handleStatePatchParams(w http.ResponseWriter, r *http.Request) {
	patch, err := decodeRawParams(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.SetParams(r.Context(), patch))
}

type explodeRequest struct {
	Value float64 `json:"value"`
}

func (s *server) handleStateExplode(w http.ResponseWriter, r *http.Request) {
	var req explodeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("decode explode: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, s.store.SetExploded(req.Value))
}

// Absent fields leave the corresponding flag unchanged.
type viewRequest struct {
	Turntable *bool `json:"turntable"`
	Blueprint *bool `json:"blueprintMode"`
	LowPower  *bool `json:"lowPowerMode"`
}

func (s *server) handleStateView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("decode view flags: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, s.store.SetView(req.Turntable, req.Blueprint, req.LowPower))
}

func (s *server) handleStateReset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Reset(r.Context()))
}

func (s *server) handleStateApplyFix(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.ApplyFix(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type presetsResponse struct {
	Names   []string `json:"names"`
	Presets any      `json:"presets"`
}

func (s *server) handlePresetsList(w http.ResponseWriter, r *http.Request) {
	st := s.store.Snapshot()
	writeJSON(w, http.StatusOK, presetsResponse{Names: st.PresetNames(), Presets: st.Presets})
}

func (s *server) handlePresetSave(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.SavePreset(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *server) handlePresetLoad(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.LoadPreset(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *server) handlePresetDelete(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.DeletePreset(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
