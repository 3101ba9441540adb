// Package preview serves the study charts and tables from a local HTTP
// server so they can be viewed in a browser.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/chrissnell/plantclimate/internal/catalog"
	"github.com/chrissnell/plantclimate/internal/charts"
	"github.com/chrissnell/plantclimate/internal/climate"
	"github.com/chrissnell/plantclimate/internal/log"
	"github.com/chrissnell/plantclimate/internal/tabular"
	"github.com/chrissnell/plantclimate/pkg/responseformat"
)

const shutdownTimeout = 5 * time.Second

// Server displays one generated dataset. The dataset is never modified after
// the server is created.
type Server struct {
	addr    string
	plants  []catalog.PlantRecord
	dataset *climate.Dataset
	logger  *zap.SugaredLogger
	router  *mux.Router
	format  *responseformat.Formatter
}

// SeriesSummary is the wire form of climate.Summary
type SeriesSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// ClimateSummary summarizes every series of one climate
type ClimateSummary struct {
	Name        string        `json:"name"`
	Temperature SeriesSummary `json:"temperature"`
	Rainfall    SeriesSummary `json:"rainfall"`
	Sunlight    SeriesSummary `json:"sunlight"`
}

// DatasetSummary is served from /data/summary
type DatasetSummary struct {
	DaysPerSeason int              `json:"days_per_season"`
	Days          int              `json:"days"`
	Plants        []string         `json:"plants"`
	Climates      []ClimateSummary `json:"climates"`
}

// NewServer creates a preview server for the given plants and dataset
func NewServer(listenAddr string, port int, plants []catalog.PlantRecord, ds *climate.Dataset, logger *zap.SugaredLogger) *Server {
	s := &Server{
		addr:    net.JoinHostPort(listenAddr, fmt.Sprint(port)),
		plants:  plants,
		dataset: ds,
		logger:  logger,
		format:  responseformat.NewFormatter(),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(log.HTTPMiddleware(s.logger))

	router.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	router.HandleFunc("/charts/{name}", s.handleChart).Methods(http.MethodGet)
	router.HandleFunc("/data/plants.csv", s.handleTable(func() tabular.Table {
		return tabular.PlantTable(s.plants)
	})).Methods(http.MethodGet)
	router.HandleFunc("/data/climate.csv", s.handleTable(func() tabular.Table {
		return tabular.ClimateTable(s.dataset)
	})).Methods(http.MethodGet)
	router.HandleFunc("/data/summary", s.handleSummary).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)

	return router
}

// Handler returns the HTTP handler serving every preview route
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the host:port the server listens on
func (s *Server) Addr() string {
	return s.addr
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("unable to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run with a caller-supplied listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- server.Serve(ln)
	}()

	s.logger.Infof("chart preview available at http://%s/", ln.Addr())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down chart preview")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("preview shutdown: %w", err)
	}
	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := charts.RenderPage(&buf, s.plants, s.dataset); err != nil {
		s.logger.Errorf("error rendering chart page: %v", err)
		http.Error(w, "error rendering charts", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	chart, err := charts.Build(name, s.plants, s.dataset)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		s.logger.Errorf("error rendering chart %s: %v", name, err)
		http.Error(w, "error rendering chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleTable(build func() tabular.Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := build().WriteCSV(&buf); err != nil {
			s.logger.Errorf("error rendering table %s: %v", r.URL.Path, err)
			http.Error(w, "error rendering table", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Write(buf.Bytes())
	}
}

// Summary computes the wire summary of the served dataset
func (s *Server) Summary() DatasetSummary {
	toWire := func(cs climate.Summary) SeriesSummary {
		return SeriesSummary{Mean: cs.Mean, StdDev: cs.StdDev, Min: cs.Min, Max: cs.Max, Count: cs.Count}
	}

	out := DatasetSummary{
		DaysPerSeason: s.dataset.DaysPerSeason,
		Days:          s.dataset.Days(),
		Plants:        catalog.Names(s.plants),
	}
	for _, c := range s.dataset.Climates {
		out.Climates = append(out.Climates, ClimateSummary{
			Name:        c.Climate,
			Temperature: toWire(climate.Summarize(c.Temperature)),
			Rainfall:    toWire(climate.Summarize(c.Rainfall)),
			Sunlight:    toWire(climate.Summarize(c.Sunlight)),
		})
	}
	return out
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if err := s.format.WriteResponse(w, r, s.Summary(), nil); err != nil {
		s.logger.Errorf("error writing summary: %v", err)
	}
}
