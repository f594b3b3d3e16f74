package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finadvisor/retirement-forecast/internal/calculation"
	"github.com/finadvisor/retirement-forecast/internal/domain"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

const (
	defaultMonteCarloTimeout = 30 * time.Second
	maxRequestBodySize       = 1 << 20
)

// Server exposes the projection engine over a JSON HTTP API.
type Server struct {
	engine *calculation.ProjectionEngine
	log    zerolog.Logger

	// MonteCarloTimeout bounds a single simulation request.
	MonteCarloTimeout time.Duration

	now   func() time.Time
	newID func() string
}

// New creates a server over engine. A nil engine gets a default one.
func New(engine *calculation.ProjectionEngine, log zerolog.Logger) *Server {
	if engine == nil {
		engine = calculation.NewProjectionEngine()
	}
	return &Server{
		engine:            engine,
		log:               log.With().Str("component", "server").Logger(),
		MonteCarloTimeout: defaultMonteCarloTimeout,
		now:               time.Now,
		newID:             func() string { return uuid.New().String() },
	}
}

// Handler returns the routing request handler.
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.logRequests(s.route)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "fin-advisor",
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       s.MonteCarloTimeout + 10*time.Second,
		MaxRequestBodySize: maxRequestBodySize,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(addr) }()
	s.log.Info().Str("addr", addr).Msg("listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info().Msg("shutting down")
		return srv.Shutdown()
	}
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/healthz":
		if !ctx.IsGet() {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	case "/v1/project":
		s.calculate(ctx, "projection", s.project)
	case "/v1/explain":
		s.calculate(ctx, "explanation", s.explain)
	case "/v1/montecarlo":
		s.calculate(ctx, "monte_carlo", s.monteCarlo)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "not found")
	}
}

type calculationFunc func(ctx *fasthttp.RequestCtx, req *CalculationRequest) (any, error)

// calculate decodes the request, runs fn and wraps the result in the
// response envelope.
func (s *Server) calculate(ctx *fasthttp.RequestCtx, kind string, fn calculationFunc) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := s.newID()
	ctx.SetUserValue("calculation_id", id)
	start := s.now()

	req := CalculationRequest{Inputs: domain.DefaultUserInputs()}
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.writeFailure(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error(), kind, id, start)
		return
	}

	result, err := fn(ctx, &req)
	if err != nil {
		s.writeFailure(ctx, statusFor(err), err.Error(), kind, id, start)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, CalculationResponse{
		CalculationMetadata: s.metadata(kind, id, start, OutcomeSuccess),
		CalculationResult:   result,
	})
}

func (s *Server) metadata(kind, id string, start time.Time, outcome string) CalculationMetadata {
	completed := s.now()
	return CalculationMetadata{
		CalculationID:          id,
		CalculationType:        kind,
		CalculationStartedAt:   start.UTC().Format(time.RFC3339),
		CalculationCompletedAt: completed.UTC().Format(time.RFC3339),
		CalculationDurationMs:  completed.Sub(start).Milliseconds(),
		CalculationOutcome:     outcome,
	}
}

func (s *Server) writeFailure(ctx *fasthttp.RequestCtx, status int, message, kind, id string, start time.Time) {
	meta := s.metadata(kind, id, start, OutcomeFailure)
	writeJSON(ctx, status, ErrorResponse{Status: status, Message: message, CalculationMetadata: &meta})
}

func (s *Server) project(_ *fasthttp.RequestCtx, req *CalculationRequest) (any, error) {
	p, err := s.engine.Project(&req.Inputs)
	if err != nil {
		return nil, err
	}
	return ProjectionResult{Metrics: p.Metrics(), Projection: p}, nil
}

func (s *Server) explain(_ *fasthttp.RequestCtx, req *CalculationRequest) (any, error) {
	text, err := s.engine.ExplainProjectedBalance(&req.Inputs)
	if err != nil {
		return nil, err
	}
	return ExplanationResult{Explanation: text}, nil
}

func (s *Server) monteCarlo(ctx *fasthttp.RequestCtx, req *CalculationRequest) (any, error) {
	cfg := calculation.DefaultMonteCarloConfig()
	if req.MonteCarlo != nil {
		cfg = *req.MonteCarlo
	}
	runCtx, cancel := context.WithTimeout(ctx, s.MonteCarloTimeout)
	defer cancel()
	return s.engine.RunMonteCarlo(runCtx, &req.Inputs, cfg)
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrConfiguration):
		return fasthttp.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return fasthttp.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return fasthttp.StatusServiceUnavailable
	}
	return fasthttp.StatusInternalServerError
}

func (s *Server) logRequests(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		status := ctx.Response.StatusCode()

		event := s.log.Info()
		if status >= fasthttp.StatusInternalServerError {
			event = s.log.Error()
		} else if status >= fasthttp.StatusBadRequest {
			event = s.log.Warn()
		}
		if id, ok := ctx.UserValue("calculation_id").(string); ok {
			event = event.Str("calculation_id", id)
		}
		event.
			Str("method", string(ctx.Method())).
			Str("path", string(ctx.Path())).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		ctx.Error(fmt.Sprintf(`{"status":500,"message":%q}`, err.Error()), fasthttp.StatusInternalServerError)
		ctx.SetContentType("application/json")
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, ErrorResponse{Status: status, Message: message})
}
