package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/viant/convsim/genai/batch"
	"github.com/viant/convsim/genai/persona"
	"github.com/viant/convsim/genai/transcript"
	"github.com/viant/convsim/service"
)

// Server exposes simulator operations over REST:
//
//	POST /v1/api/chat                      -> single Responder reply
//	POST /v1/api/simulations               -> run (or start with async) a simulation
//	GET  /v1/api/simulations               -> tracked simulations
//	POST /v1/api/simulations/{id}/stop     -> stop a tracked simulation
//	POST /v1/api/batches                   -> run a batch
//	POST /v1/api/judge                     -> evaluate a saved transcript
//	GET  /v1/api/transcripts?dir=          -> list saved transcripts
//	GET  /v1/api/transcript?url=           -> load a saved transcript
//	GET  /v1/api/templates                 -> persona templates
//	GET  /metrics                          -> Prometheus metrics
type Server struct {
	svc     *service.Service
	logger  zerolog.Logger
	origins []string
}

// ServerOption customises HTTP server behaviour.
type ServerOption func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) ServerOption {
	return func(s *Server) { s.logger = logger.With().Str("component", "http").Logger() }
}

// WithAllowedOrigins restricts CORS to the listed origins.
func WithAllowedOrigins(origins ...string) ServerOption {
	return func(s *Server) { s.origins = origins }
}

// NewServer returns an http.Handler with routes bound.
func NewServer(svc *service.Service, opts ...ServerOption) http.Handler {
	s := &Server{svc: svc, logger: zerolog.Nop()}
	for _, o := range opts {
		if o != nil {
			o(s)
		}
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/api/chat", s.handleChat)
	mux.HandleFunc("POST /v1/api/simulations", s.handleSimulate)
	mux.HandleFunc("GET /v1/api/simulations", s.handleSimulations)
	mux.HandleFunc("POST /v1/api/simulations/{id}/stop", func(w http.ResponseWriter, r *http.Request) {
		s.handleStop(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("POST /v1/api/batches", s.handleBatch)
	mux.HandleFunc("POST /v1/api/judge", s.handleJudge)
	mux.HandleFunc("GET /v1/api/transcripts", s.handleTranscripts)
	mux.HandleFunc("GET /v1/api/transcript", s.handleTranscript)
	mux.HandleFunc("GET /v1/api/templates", func(w http.ResponseWriter, r *http.Request) {
		encode(w, http.StatusOK, svc.Templates(), nil)
	})
	if m := svc.Metrics(); m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}
	return WithCORS(s.withLogging(mux), s.origins...)
}

// apiResponse is the unified wrapper returned by all HTTP endpoints.
type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type judgeRequest struct {
	URL string `json:"url"`
}

// encode writes JSON response with the unified structure.
func encode(w http.ResponseWriter, statusCode int, data interface{}, err error) {
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		if statusCode == 0 {
			statusCode = statusOf(err)
		}
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(apiResponse{Status: "ERROR", Message: err.Error()})
		return
	}
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	status := "OK"
	if statusCode == http.StatusAccepted {
		status = "ACCEPTED"
	}
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(apiResponse{Status: status, Data: data})
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, persona.ErrInvalidSelection), errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, transcript.ErrLoad), errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func decode(r *http.Request, target interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidRequest, err)
	}
	return nil
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	request := &service.ChatRequest{}
	if err := decode(r, request); err != nil {
		encode(w, 0, nil, err)
		return
	}
	response, err := s.svc.Chat(r.Context(), request)
	encode(w, 0, response, err)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	request := &service.SimulationRequest{}
	if err := decode(r, request); err != nil {
		encode(w, 0, nil, err)
		return
	}
	if request.Async {
		status, err := s.svc.Start(r.Context(), request)
		if err != nil {
			encode(w, 0, nil, err)
			return
		}
		encode(w, http.StatusAccepted, status, nil)
		return
	}
	result, err := s.svc.Simulate(r.Context(), request)
	encode(w, 0, result, err)
}

func (s *Server) handleSimulations(w http.ResponseWriter, r *http.Request) {
	encode(w, http.StatusOK, s.svc.Simulations(), nil)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request, id string) {
	status, err := s.svc.Stop(id)
	encode(w, 0, status, err)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	request := &batch.Request{}
	if err := decode(r, request); err != nil {
		encode(w, 0, nil, err)
		return
	}
	report, err := s.svc.Batch(r.Context(), request)
	encode(w, 0, report, err)
}

func (s *Server) handleJudge(w http.ResponseWriter, r *http.Request) {
	request := &judgeRequest{}
	if err := decode(r, request); err != nil {
		encode(w, 0, nil, err)
		return
	}
	if request.URL == "" {
		encode(w, 0, nil, fmt.Errorf("%w: url was empty", service.ErrInvalidRequest))
		return
	}
	verdict, err := s.svc.Judge(r.Context(), request.URL)
	encode(w, 0, verdict, err)
}

func (s *Server) handleTranscripts(w http.ResponseWriter, r *http.Request) {
	URLs, err := s.svc.Transcripts(r.Context(), r.URL.Query().Get("dir"))
	encode(w, 0, URLs, err)
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	URL := r.URL.Query().Get("url")
	if URL == "" {
		encode(w, 0, nil, fmt.Errorf("%w: url was empty", service.ErrInvalidRequest))
		return
	}
	record, err := s.svc.Transcript(r.Context(), URL)
	encode(w, 0, record, err)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Dur("elapsed", time.Since(started)).Msg("request")
	})
}

// ListenAndServe serves handler on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
