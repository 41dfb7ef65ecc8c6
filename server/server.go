// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package server exposes the synthesis pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/go-air/seqsynth/seq"
	"github.com/go-air/seqsynth/synth"
)

// GenerateRequest is the body of POST /generate.
type GenerateRequest struct {
	Sequence   string `json:"sequence"`
	FlipFlop   string `json:"ff_type"`
	Duplicates string `json:"duplicates,omitempty"`
	Verify     bool   `json:"verify,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DefaultTimeout bounds the pipeline run of one request.
const DefaultTimeout = 30 * time.Second

// Option configures a Server.
type Option func(s *Server)

// WithTimeout bounds the pipeline run of each request by d.  A request
// running out of time gets 503.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// Server serves /generate, /healthz and /metrics.
type Server struct {
	router  chi.Router
	opts    synth.Options
	log     logrus.FieldLogger
	timeout time.Duration

	reg       *prometheus.Registry
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	fallbacks prometheus.Counter
}

// New returns a server running the pipeline with opts.  Its metrics live
// in a registry of its own.
func New(opts synth.Options, log logrus.FieldLogger, options ...Option) *Server {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	s := &Server{
		opts:    opts,
		log:     log,
		timeout: DefaultTimeout,
		reg:     prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seqsynth_http_requests_total",
			Help: "HTTP requests by route and status code."},
			[]string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "seqsynth_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets},
			[]string{"route"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seqsynth_netlist_fallbacks_total",
			Help: "Signals rendered as text labels instead of netlists."})}
	for _, o := range options {
		o(s)
	}
	s.reg.MustRegister(s.requests, s.latency, s.fallbacks)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)
	r.Post("/generate", s.generate)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok\n"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Registry returns the registry holding the metrics of s.
func (s *Server) Registry() *prometheus.Registry {
	return s.reg
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		s.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		s.latency.WithLabelValues(route).Observe(d.Seconds())
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"route":    route,
			"status":   status,
			"duration": d,
			"id":       middleware.GetReqID(r.Context())}).Debug("request")
	})
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var body GenerateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		s.fail(w, http.StatusBadRequest, errors.Wrap(err, "decoding request"))
		return
	}
	req, err := synth.NewRequest(body.Sequence, body.FlipFlop)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	if req.Duplicates, err = seq.ParseDuplicates(body.Duplicates); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	opts := s.opts
	opts.Verify = opts.Verify || body.Verify
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	res, err := synth.Run(ctx, req, opts)
	switch {
	case err == nil:
	case synth.IsRequestError(err):
		s.fail(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		s.log.WithError(err).Warn("generate abandoned")
		s.fail(w, http.StatusServiceUnavailable, err)
		return
	default:
		s.log.WithError(err).Error("generate")
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	s.fallbacks.Add(float64(len(res.Fallbacks())))
	s.reply(w, http.StatusOK, res.Report())
}

func (s *Server) fail(w http.ResponseWriter, code int, err error) {
	s.reply(w, code, ErrorResponse{Error: err.Error()})
}

func (s *Server) reply(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Warn("writing response")
	}
}

// ListenAndServe serves h on addr until ctx is done, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, log logrus.FieldLogger) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("listening")
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}
