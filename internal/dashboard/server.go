package dashboard

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Sander124/pvs-tracker/config"
	"github.com/Sander124/pvs-tracker/internal/supply"
	"github.com/Sander124/pvs-tracker/pkg/storage"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
	tsLayout   = "2006-01-02 15:04:05"
)

// healthChecker is implemented by stores that can report connectivity.
type healthChecker interface {
	IsHealthy(ctx context.Context) bool
}

// Server exposes the supply dashboard over HTTP: overview with metric
// tiles and the external price chart, filterable history, and the
// add-observation form. Every request is one full read-compute-render
// cycle against the store.
type Server struct {
	cfg       config.ServerConfig
	dash      config.DashboardConfig
	store     storage.Store
	logger    *zap.Logger
	metrics   *serverMetrics
	templates *template.Template
	mux       *http.ServeMux
}

// NewServer creates a new dashboard server instance.
func NewServer(cfg config.ServerConfig, dash config.DashboardConfig, store storage.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:     cfg,
		dash:    dash,
		store:   store,
		logger:  logger,
		metrics: newServerMetrics(),
		templates: template.Must(
			template.ParseFS(templatesFS, "templates/*.html"),
		),
		mux: http.NewServeMux(),
	}

	s.mux.HandleFunc("/", s.handleOverview)
	s.mux.HandleFunc("/history", s.handleHistory)
	s.mux.HandleFunc("/add", s.handleAdd)
	s.mux.HandleFunc("/api/series", s.handleAPISeries)
	s.mux.HandleFunc("/api/metrics", s.handleAPIMetrics)
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.Handle("/metrics", s.metrics.handler())

	return s
}

// Handler returns the server's routing handler, mostly for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("dashboard listening", zap.String("addr", s.cfg.Addr))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// loadSeries performs the read half of the render cycle. A store failure
// degrades to an empty series plus a warning flag, never a failed render.
func (s *Server) loadSeries(ctx context.Context) (supply.Series, bool) {
	observations, err := s.store.FetchAll(ctx)
	if err != nil {
		s.metrics.storeReadFailures.Inc()
		s.logger.Warn("failed to fetch observations", zap.Error(err))
		return supply.NewSeries(nil), true
	}
	return supply.NewSeries(observations), false
}

func (s *Server) embedURL() template.URL {
	u := fmt.Sprintf("https://dexscreener.com/%s/%s", s.dash.Chain, s.dash.PairID)
	if s.dash.EmbedParams != "" {
		u += "?" + s.dash.EmbedParams
	}
	return template.URL(u)
}

type metricTile struct {
	Label    string
	Value    string
	Negative bool
}

type overviewData struct {
	Asset         string
	EmbedURL      template.URL
	EmbedHeight   int
	HasData       bool
	StoreWarning  bool
	Tiles         []metricTile
	CurrentSupply string
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.metrics.pageRenders.WithLabelValues("overview").Inc()

	series, storeWarning := s.loadSeries(r.Context())
	snap := supply.Compute(series)

	data := overviewData{
		Asset:        s.dash.AssetName,
		EmbedURL:     s.embedURL(),
		EmbedHeight:  s.dash.EmbedHeight,
		HasData:      series.Len() > 0,
		StoreWarning: storeWarning,
		Tiles: []metricTile{
			{Label: "24h Supply Change", Value: formatPercent(snap.Change24h), Negative: snap.Change24h < 0},
			{Label: "7d Supply Change", Value: formatPercent(snap.Change7d), Negative: snap.Change7d < 0},
			{Label: "30d Supply Change", Value: formatPercent(snap.Change30d), Negative: snap.Change30d < 0},
			{Label: "Total Supply Change", Value: formatPercent(snap.ChangeTotal), Negative: snap.ChangeTotal < 0},
		},
	}
	if latest, ok := series.Latest(); ok {
		data.CurrentSupply = humanize.Commaf(latest.TotalSupply)
	}

	s.render(w, "overview.html", data)
}

type historyRow struct {
	Time   string
	Supply string
}

type historyData struct {
	Asset        string
	HasData      bool
	StoreWarning bool
	From         string
	To           string
	FilterError  string
	Polyline     string
	ChartWidth   float64
	ChartHeight  float64
	Rows         []historyRow
	Shown        int
	Total        int
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.metrics.pageRenders.WithLabelValues("history").Inc()

	series, storeWarning := s.loadSeries(r.Context())

	data := historyData{
		Asset:        s.dash.AssetName,
		StoreWarning: storeWarning,
		From:         r.URL.Query().Get("from"),
		To:           r.URL.Query().Get("to"),
		ChartWidth:   chartWidth,
		ChartHeight:  chartHeight,
		Total:        series.Len(),
	}

	shown := series
	from, to, err := parseDateRange(data.From, data.To)
	if err != nil {
		data.FilterError = err.Error()
	} else if !from.IsZero() || !to.IsZero() {
		// The filter only narrows this view; metrics always use the
		// full series.
		shown = series.FilterRange(from, to)
	}

	data.HasData = shown.Len() > 0
	data.Shown = shown.Len()
	data.Polyline = chartPolyline(shown)

	points := shown.Points()
	for i := len(points) - 1; i >= 0; i-- {
		data.Rows = append(data.Rows, historyRow{
			Time:   points[i].ObservedAt.Format(tsLayout),
			Supply: humanize.Commaf(points[i].TotalSupply),
		})
	}

	s.render(w, "history.html", data)
}

type addData struct {
	Asset   string
	Date    string
	Time    string
	Amount  string
	Error   string
	Success string
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.metrics.pageRenders.WithLabelValues("add").Inc()
		now := time.Now().UTC()
		data := addData{
			Asset: s.dash.AssetName,
			Date:  now.Format(dateLayout),
			Time:  now.Format(timeLayout),
		}
		if r.URL.Query().Get("ok") == "1" {
			data.Success = fmt.Sprintf("Added supply observation %s at %s",
				r.URL.Query().Get("amount"), r.URL.Query().Get("at"))
		}
		s.render(w, "add.html", data)

	case http.MethodPost:
		s.handleAddSubmit(w, r)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAddSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	data := addData{
		Asset:  s.dash.AssetName,
		Date:   r.PostFormValue("date"),
		Time:   r.PostFormValue("time"),
		Amount: r.PostFormValue("amount"),
	}

	obs, err := parseObservationForm(data.Date, data.Time, data.Amount)
	if err != nil {
		s.metrics.appends.WithLabelValues("invalid").Inc()
		data.Error = err.Error()
		s.render(w, "add.html", data)
		return
	}

	if err := s.store.Append(r.Context(), obs); err != nil {
		s.metrics.appends.WithLabelValues("error").Inc()
		s.logger.Error("failed to append observation", zap.Error(err))
		data.Error = "Failed to store the observation. Please try again."
		s.render(w, "add.html", data)
		return
	}

	s.metrics.appends.WithLabelValues("ok").Inc()
	s.logger.Info("observation added",
		zap.Time("observed_at", obs.ObservedAt),
		zap.Float64("total_supply", obs.TotalSupply))

	// Redirect so the follow-up GET re-reads the store and every view
	// picks up the new point.
	q := url.Values{
		"ok":     {"1"},
		"amount": {data.Amount},
		"at":     {obs.ObservedAt.Format(tsLayout)},
	}
	http.Redirect(w, r, "/add?"+q.Encode(), http.StatusSeeOther)
}

// parseObservationForm converts the raw form fields into a validated
// observation. Time accepts HH:MM and HH:MM:SS.
func parseObservationForm(dateStr, timeStr, amountStr string) (supply.Observation, error) {
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return supply.Observation{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", dateStr)
	}

	t, err := time.Parse("15:04:05", timeStr)
	if err != nil {
		t, err = time.Parse(timeLayout, timeStr)
		if err != nil {
			return supply.Observation{}, fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
		}
	}

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return supply.Observation{}, fmt.Errorf("invalid amount %q", amountStr)
	}

	at := time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, time.UTC)

	return supply.NewObservation(at, amount)
}

// parseDateRange interprets the inclusive [from, to] filter of the
// history view. The upper date extends to the end of its day.
func parseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	var from, to time.Time

	if fromStr != "" {
		d, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return from, to, fmt.Errorf("invalid from date %q", fromStr)
		}
		from = d.UTC()
	}
	if toStr != "" {
		d, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return from, to, fmt.Errorf("invalid to date %q", toStr)
		}
		to = d.UTC().Add(24*time.Hour - time.Second)
	}
	return from, to, nil
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template render failed", zap.String("template", name), zap.Error(err))
	}
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}
