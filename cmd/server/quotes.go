package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/cabkit/internal/metrics"
	"github.com/Simplici0/cabkit/internal/sku"
)

type quotesResponse struct {
	Query  string `json:"query"`
	Quotes any    `json:"quotes"`
}

// handleQuoteCreate evaluates the posted parameters and stores the export
// document. Blocked configurations are refused.
func (s *server) handleQuoteCreate(w http.ResponseWriter, r *http.Request) {
	p, err := s.readParams(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	snap := s.evaluate("export", p, 0)
	if snap.Blocked {
		metrics.RecordExport("quote", metrics.OutcomeBlocked)
		writeBlocked(w, snap)
		return
	}

	summary, err := s.designs.SaveQuote(r.Context(), snap.Export(s.now()))
	if err != nil {
		metrics.RecordExport("quote", metrics.OutcomeFailed)
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	metrics.RecordExport("quote", metrics.OutcomeOK)
	writeJSON(w, http.StatusCreated, summary)
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	quotes, err := s.designs.ListQuotes(r.Context(), query)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, fmt.Errorf("failed to load quotes: %w", err))
		return
	}

	writeJSON(w, http.StatusOK, quotesResponse{
		Query:  query,
		Quotes: quotes,
	})
}

func (s *server) handleQuoteDetail(w http.ResponseWriter, r *http.Request) {
	exp, err := s.designs.GetQuote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

// handleQuoteText renders a saved quote as plain text from the stored
// document, without recalculating.
func (s *server) handleQuoteText(w http.ResponseWriter, r *http.Request) {
	exp, err := s.designs.GetQuote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(quoteText(exp)))
}

func quoteText(exp sku.Export) string {
	var b strings.Builder
	p := exp.Params

	fmt.Fprintf(&b, "Quote %s\n", exp.ID)
	fmt.Fprintf(&b, "SKU: %s\n", exp.SKU)
	fmt.Fprintf(&b, "Date: %s\n\n", exp.Timestamp.Format("2006-01-02 15:04 MST"))

	b.WriteString("Cabinet:\n")
	fmt.Fprintf(&b, "- Size: %g x %g x %g mm\n", p.Width, p.Height, p.Depth)
	fmt.Fprintf(&b, "- Material: %s, panels %g mm, back %g mm\n", p.Material, p.Thickness, p.BackThickness)
	fmt.Fprintf(&b, "- Doors: %d (%g mm, gap %g mm), hinge %s\n", p.DoorCount, p.DoorThickness, p.Gap, p.HingeSide)
	fmt.Fprintf(&b, "- Handle: %s, %s, %s\n", p.Handle, p.HandlePosition, p.HandleOrientation)
	fmt.Fprintf(&b, "- Shelves: %d\n\n", p.ShelfCount)

	b.WriteString("Breakdown:\n")
	for _, l := range exp.Breakdown.Lines() {
		if l.Amount == 0 {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", l.Name, money(l.Amount, exp.Currency))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", money(exp.Price, exp.Currency))
	fmt.Fprintf(&b, "BOM lines: %d\n", len(exp.BOM))
	return b.String()
}

func money(v float64, currency string) string {
	return fmt.Sprintf("%.2f %s", v, currency)
}
