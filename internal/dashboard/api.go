package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Sander124/pvs-tracker/internal/supply"
)

type seriesPoint struct {
	ObservedAt  string  `json:"observed_at"`
	TotalSupply float64 `json:"total_supply"`
}

type seriesResponse struct {
	Asset  string        `json:"asset"`
	Count  int           `json:"count"`
	Points []seriesPoint `json:"points"`
}

func (s *Server) handleAPISeries(w http.ResponseWriter, r *http.Request) {
	series, storeWarning := s.loadSeries(r.Context())
	if storeWarning {
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}

	from, to, err := parseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !from.IsZero() || !to.IsZero() {
		series = series.FilterRange(from, to)
	}

	points := series.Points()
	out := seriesResponse{
		Asset:  s.dash.AssetName,
		Count:  len(points),
		Points: make([]seriesPoint, 0, len(points)),
	}
	for _, p := range points {
		out.Points = append(out.Points, seriesPoint{
			ObservedAt:  p.ObservedAt.Format(time.RFC3339),
			TotalSupply: p.TotalSupply,
		})
	}

	s.writeJSON(w, out)
}

type metricsResponse struct {
	Asset         string          `json:"asset"`
	Observations  int             `json:"observations"`
	CurrentSupply float64         `json:"current_supply"`
	Metrics       supply.Snapshot `json:"metrics"`
}

func (s *Server) handleAPIMetrics(w http.ResponseWriter, r *http.Request) {
	series, storeWarning := s.loadSeries(r.Context())
	if storeWarning {
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}

	out := metricsResponse{
		Asset:        s.dash.AssetName,
		Observations: series.Len(),
		Metrics:      supply.Compute(series),
	}
	if latest, ok := series.Latest(); ok {
		out.CurrentSupply = latest.TotalSupply
	}

	s.writeJSON(w, out)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	storeStatus := "ok"
	if hc, ok := s.store.(healthChecker); ok && !hc.IsHealthy(r.Context()) {
		storeStatus = "unreachable"
	}

	s.writeJSON(w, struct {
		Status string `json:"status"`
		Store  string `json:"store"`
		Time   string `json:"time"`
	}{"ok", storeStatus, time.Now().UTC().Format(time.RFC3339)})
}

func (s *Server) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
