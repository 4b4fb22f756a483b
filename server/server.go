// Package server answers spatial queries over a loaded dataset through a
// small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang/geo/s1"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/godeepar/geocore/config"
	"github.com/godeepar/geocore/convert"
	"github.com/godeepar/geocore/geodesy"
	"github.com/godeepar/geocore/geometry"
	"github.com/godeepar/geocore/locate"
	"github.com/godeepar/geocore/x"
)

// Server serves one dataset. The dataset is only read, so handlers run
// concurrently without locking; the request counters have their own mutex.
type Server struct {
	ds        *convert.Dataset
	rule      locate.BoundaryNodeRule
	ellipsoid *geodesy.Ellipsoid
	catalog   *geodesy.Catalog
	counter   *single
	router    *mux.Router
	http      *http.Server
}

// ErrorMsg is the body of every error response.
type ErrorMsg struct {
	Message string `json:"message"`
}

type featuresResponse struct {
	Features []*convert.Feature `json:"features"`
}

type locateResponse struct {
	X       float64         `json:"x"`
	Y       float64         `json:"y"`
	Matches []convert.Match `json:"matches"`
}

type distanceResponse struct {
	Ellipsoid string  `json:"ellipsoid"`
	Metres    float64 `json:"metres"`
	Azimuth   float64 `json:"azimuth"`
}

type statsResponse struct {
	Features   int               `json:"features"`
	IndexDepth int               `json:"index_depth"`
	Extent     geometry.Envelope `json:"extent"`
	S2         []string          `json:"s2"`
	Requests   map[string]int64  `json:"requests"`
}

// New builds a server for ds. The boundary rule, the default ellipsoid and
// the listen address come from cfg.
func New(ds *convert.Dataset, cfg config.Config) (*Server, error) {
	if ds == nil {
		return nil, x.InvalidArgf("server needs a dataset")
	}
	rule, err := cfg.Rule()
	if err != nil {
		return nil, err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	el, err := cfg.ResolveEllipsoid()
	if err != nil {
		return nil, err
	}

	s := &Server{
		ds:        ds,
		rule:      rule,
		ellipsoid: el,
		catalog:   catalog,
		counter:   newCounter(),
		router:    mux.NewRouter(),
	}
	s.router.HandleFunc("/features", s.timed("features", s.featuresHandler)).Methods("GET")
	s.router.HandleFunc("/features/{id}", s.timed("feature", s.featureHandler)).Methods("GET")
	s.router.HandleFunc("/locate", s.timed("locate", s.locateHandler)).Methods("GET")
	s.router.HandleFunc("/distance", s.timed("distance", s.distanceHandler)).Methods("GET")
	s.router.HandleFunc("/stats", s.statsHandler).Methods("GET")

	s.http = &http.Server{
		Addr:         cfg.Listen,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe blocks until the server fails or is shut down. A shutdown
// is not an error.
func (s *Server) ListenAndServe() error {
	glog.Infof("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "[ListenAndServe] in pkg [server] encountered")
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	defer glog.Infof("HTTP server stopped after requests %v", s.counter.Snapshot())
	return s.http.Shutdown(ctx)
}

// timed counts requests by name and logs how long each took.
func (s *Server) timed(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		count := s.counter.Incr(name)
		h(w, r)
		glog.Infof("%s count %d ms %d", name, count, int64(time.Since(start).Seconds()*1e3))
	}
}

func (s *Server) featuresHandler(w http.ResponseWriter, r *http.Request) {
	env := s.ds.Extent
	if bbox := r.URL.Query().Get("bbox"); bbox != "" {
		vals, err := parseFloats(bbox, 4)
		if err != nil {
			writeError(w, errors.Wrap(err, "bbox"))
			return
		}
		env = geometry.NewEnvelope(vals[0], vals[1], vals[2], vals[3])
	}
	found := s.ds.QuerySorted(env)
	if found == nil {
		found = []*convert.Feature{}
	}
	writeJSON(w, http.StatusOK, featuresResponse{Features: found})
}

func (s *Server) featureHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	f, ok := s.ds.Feature(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorMsg{Message: "no feature " + strconv.Quote(id)})
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) locateHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	px, err := parseFloat("x", q.Get("x"))
	if err != nil {
		writeError(w, err)
		return
	}
	py, err := parseFloat("y", q.Get("y"))
	if err != nil {
		writeError(w, err)
		return
	}
	matches := s.ds.Locate(geometry.XY(px, py), s.rule)
	if matches == nil {
		matches = []convert.Match{}
	}
	writeJSON(w, http.StatusOK, locateResponse{X: px, Y: py, Matches: matches})
}

func (s *Server) distanceHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := parseFloats(q.Get("from"), 2)
	if err != nil {
		writeError(w, errors.Wrap(err, "from"))
		return
	}
	to, err := parseFloats(q.Get("to"), 2)
	if err != nil {
		writeError(w, errors.Wrap(err, "to"))
		return
	}
	el := s.ellipsoid
	if name := q.Get("ellipsoid"); name != "" {
		var ok bool
		if el, ok = s.catalog.Lookup(name); !ok {
			writeError(w, x.InvalidArgf("unknown ellipsoid %q", name))
			return
		}
	}

	metres, err := el.DistanceMetres(from[0], from[1], to[0], to[1])
	if err != nil {
		writeError(w, err)
		return
	}
	az, err := el.AzimuthForwards(from[0], from[1], to[0], to[1])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, distanceResponse{
		Ellipsoid: el.Name(),
		Metres:    metres,
		Azimuth:   s1.Angle(az).Degrees(),
	})
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statsResponse{
		Features:   s.ds.Len(),
		IndexDepth: s.ds.IndexDepth(),
		Extent:     s.ds.Extent,
		S2:         s.ds.S2,
		Requests:   s.counter.Snapshot(),
	})
}

func parseFloat(name, value string) (float64, error) {
	if value == "" {
		return 0, x.InvalidArgf("missing %s", name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, x.InvalidArgf("%s is not a finite number: %q", name, value)
	}
	return v, nil
}

// parseFloats reads exactly n comma separated numbers.
func parseFloats(value string, n int) ([]float64, error) {
	parts := strings.Split(value, ",")
	if len(parts) != n {
		return nil, x.InvalidArgf("want %d comma separated numbers, got %q", n, value)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := parseFloat(strconv.Itoa(i), p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		glog.Warningf("Non fatal: [writeJSON] in pkg [server] encountered: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, x.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, x.ErrNonConvergence):
		status = http.StatusUnprocessableEntity
	default:
		glog.Errorf("[server] %v", err)
	}
	writeJSON(w, status, ErrorMsg{Message: err.Error()})
}
