// Package server exposes rendering over HTTP. Each request gets its own
// generator; only pooled buffers are shared between requests.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Bastow2000/High-Pass-Filter/internal/audio"
	"github.com/Bastow2000/High-Pass-Filter/internal/config"
	"github.com/Bastow2000/High-Pass-Filter/internal/metrics"
	"github.com/Bastow2000/High-Pass-Filter/internal/middleware"
	"github.com/Bastow2000/High-Pass-Filter/internal/render"
	"github.com/Bastow2000/High-Pass-Filter/internal/wavfile"
)

const maxRequestBytes = 1 << 16

// RenderIDHeader carries the ID of the render that produced a response body.
const RenderIDHeader = "X-Render-Id"

// renderRequest overrides the parameters a caller may adjust. Omitted
// fields keep the configured defaults.
type renderRequest struct {
	Frequencies []float64 `json:"frequencies,omitempty"`
	GainsDB     []float64 `json:"gainsDb,omitempty"`
	CutoffHz    *float64  `json:"cutoffHz,omitempty"`
	Volume      *float64  `json:"volume,omitempty"`
}

func (req renderRequest) apply(cfg config.AudioConfig) config.AudioConfig {
	if len(req.Frequencies) > 0 {
		cfg.Frequencies = req.Frequencies
		cfg.NumChannels = len(req.Frequencies)
	}
	if len(req.GainsDB) > 0 {
		cfg.GainsDB = req.GainsDB
	}
	if req.CutoffHz != nil {
		cfg.CutoffHz = *req.CutoffHz
	}
	if req.Volume != nil {
		cfg.MasterVolume = *req.Volume
	}
	return cfg
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// Server renders WAV files on request.
type Server struct {
	cfg      *config.Config
	renderer *render.Renderer
	logger   *zap.Logger
}

// New creates a Server rendering from cfg.Audio defaults.
func New(cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		cfg:      cfg,
		renderer: render.New(logger),
		logger:   logger,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{RenderIDHeader, middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Route("/v1", func(r chi.Router) {
		r.Post("/renders", s.handleRender)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With(zap.String("requestId", middleware.RequestIDFrom(r.Context())))

	var req renderRequest
	if r.ContentLength != 0 {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid request: " + err.Error()})
			return
		}
	}

	cfg := req.apply(s.cfg.Audio.Clone())
	if err := cfg.Validate(); err != nil {
		metrics.RendersTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		resp := errorResponse{Error: err.Error()}
		var cerr *config.ConfigError
		if errors.As(err, &cerr) {
			resp.Field = cerr.Field
		}
		writeError(w, http.StatusBadRequest, resp)
		return
	}

	bufs := audio.AcquireRenderBuffers(cfg.BufferLen())
	defer audio.ReleaseRenderBuffers(bufs)

	res, err := s.renderer.Render(cfg, bufs.Samples)
	if err != nil {
		logger.Error("render failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errorResponse{Error: "render failed"})
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.FormatInt(res.Header.FileSize(), 10))
	w.Header().Set(RenderIDHeader, res.ID)
	w.WriteHeader(http.StatusCreated)

	if err := wavfile.EncodeWith(w, res.Header, res.Samples, bufs.Bytes); err != nil {
		metrics.RendersTotal.WithLabelValues(metrics.OutcomeSinkError).Inc()
		logger.Warn("response write failed", zap.String("render", res.ID), zap.Error(err))
		return
	}

	metrics.BytesWrittenTotal.Add(float64(res.Header.FileSize()))
	metrics.RendersTotal.WithLabelValues(metrics.OutcomeOK).Inc()
}

func writeError(w http.ResponseWriter, status int, resp errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
