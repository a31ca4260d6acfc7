// Package server exposes the planner over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rpgo/corpus-planner/internal/calculation"
	"github.com/rpgo/corpus-planner/internal/config"
	"github.com/rpgo/corpus-planner/internal/domain"
	"github.com/rpgo/corpus-planner/internal/marketdata"
	"github.com/rpgo/corpus-planner/internal/metrics"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const requestIDHeader = "X-Request-ID"

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Options tune the server.
type Options struct {
	CacheTTL     time.Duration
	CacheCleanup time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int
}

// OptionsFromSettings maps loaded settings onto server options.
func OptionsFromSettings(s config.ServerSettings) Options {
	return Options{
		CacheTTL:     s.CacheTTL,
		CacheCleanup: s.CacheCleanup,
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		MaxBodyBytes: s.MaxBodyBytes,
	}
}

// Server routes API requests to the planner.
type Server struct {
	planner   *calculation.Planner
	parser    *config.InputParser
	validator *config.CustomValidator
	cache     *PlanCache
	log       *logrus.Logger
	opts      Options
	metrics   fasthttp.RequestHandler
	// base bounds in-flight plans; ListenAndServe replaces it with its own context.
	base context.Context
}

// New creates a server around planner. The planner's registry is used for market lookups.
func New(planner *calculation.Planner, log *logrus.Logger, opts Options) *Server {
	return &Server{
		planner:   planner,
		parser:    config.NewInputParser(planner.Registry),
		validator: config.NewValidator(),
		cache:     NewPlanCache(opts.CacheTTL, opts.CacheCleanup),
		log:       log,
		opts:      opts,
		metrics:   fasthttpadaptor.NewFastHTTPHandler(metrics.Handler()),
		base:      context.Background(),
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "corpus-planner",
		ReadTimeout:        s.opts.ReadTimeout,
		WriteTimeout:       s.opts.WriteTimeout,
		MaxRequestBodySize: s.opts.MaxBodyBytes,
	}

	s.base = ctx
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("HTTP server starting")
		errCh <- srv.ListenAndServe(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info("HTTP server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.ShutdownWithContext(shutdownCtx)
	}
}

// Handler returns the routing handler wrapped with request ids, logging and metrics.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		id := string(ctx.Request.Header.Peek(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Response.Header.Set(requestIDHeader, id)

		path := string(ctx.Path())
		s.route(ctx, path)

		code := ctx.Response.StatusCode()
		metrics.RecordHTTPRequest(path, code)
		entry := s.log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     string(ctx.Method()),
			"path":       path,
			"status":     code,
			"duration":   time.Since(start).String(),
		})
		if code >= fasthttp.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Debug("request handled")
		}
	}
}

func (s *Server) route(ctx *fasthttp.RequestCtx, path string) {
	switch path {
	case "/healthz":
		s.handleHealth(ctx)
	case "/metrics":
		s.metrics(ctx)
	case "/v1/markets":
		s.requireMethod(ctx, fasthttp.MethodGet, s.handleMarkets)
	case "/v1/plan":
		s.requireMethod(ctx, fasthttp.MethodPost, s.handlePlan)
	case "/v1/yield":
		s.requireMethod(ctx, fasthttp.MethodPost, s.handleYield)
	case "/v1/simulate":
		s.requireMethod(ctx, fasthttp.MethodPost, s.handleSimulate)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
	}
}

func (s *Server) requireMethod(ctx *fasthttp.RequestCtx, method string, next fasthttp.RequestHandler) {
	if string(ctx.Method()) != method {
		ctx.Response.Header.Set("Allow", method)
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	next(ctx)
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{
		"status":       "ok",
		"data_version": s.planner.Registry.Version(),
	})
}

type marketsResponse struct {
	Version string              `json:"version"`
	Markets []marketdata.Market `json:"markets"`
}

func (s *Server) handleMarkets(ctx *fasthttp.RequestCtx) {
	registry := s.planner.Registry
	resp := marketsResponse{Version: registry.Version()}
	for _, id := range registry.IDs() {
		m, err := registry.Market(id)
		if err != nil {
			continue
		}
		resp.Markets = append(resp.Markets, m)
	}
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func (s *Server) handlePlan(ctx *fasthttp.RequestCtx) {
	var inputs domain.PlanInputs
	if err := json.Unmarshal(ctx.PostBody(), &inputs); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.parser.ValidateInputs(&inputs); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	key, err := PlanKey(s.planner.Registry.Version(), inputs)
	if err == nil {
		if cached, ok := s.cache.Get(key); ok {
			ctx.Response.Header.Set("X-Cache", "HIT")
			writeJSON(ctx, fasthttp.StatusOK, cached)
			return
		}
	}

	planCtx := s.base
	if s.opts.WriteTimeout > 0 {
		var cancel context.CancelFunc
		planCtx, cancel = context.WithTimeout(planCtx, s.opts.WriteTimeout)
		defer cancel()
	}
	result, err := s.planner.Plan(planCtx, inputs)
	if err != nil {
		switch {
		case errors.Is(err, marketdata.ErrUnknownMarket):
			writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			writeError(ctx, fasthttp.StatusServiceUnavailable, "Plan cancelled")
		default:
			s.log.WithError(err).Error("plan failed")
			writeError(ctx, fasthttp.StatusInternalServerError, "Plan failed")
		}
		return
	}

	if key != "" {
		s.cache.Set(key, result)
	}
	ctx.Response.Header.Set("X-Cache", "MISS")
	writeJSON(ctx, fasthttp.StatusOK, result)
}

// YieldRequest is the body of POST /v1/yield. Rates are whole percentages.
type YieldRequest struct {
	YearlyExpenses decimal.Decimal `json:"yearly_expenses" validate:"gte=0"`
	AverageReturn  decimal.Decimal `json:"average_return" validate:"gte=-50,lte=50"`
	TaxRate        decimal.Decimal `json:"tax_rate" validate:"gte=0,lt=100"`
	Inflation      decimal.Decimal `json:"inflation" validate:"gte=-10,lte=50"`
	MaxYears       int             `json:"max_years,omitempty" validate:"gte=0,lte=200"`
}

func (s *Server) handleYield(ctx *fasthttp.RequestCtx) {
	var req YieldRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Validate("yield request", &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	maxYears := req.MaxYears
	if maxYears == 0 {
		maxYears = calculation.DefaultYieldMaxYears
	}
	result := calculation.SolveYield(req.YearlyExpenses, req.AverageReturn, req.TaxRate, req.Inflation, maxYears)
	writeJSON(ctx, fasthttp.StatusOK, result)
}

// SimulateRequest is the body of POST /v1/simulate.
type SimulateRequest struct {
	Market         string          `json:"market" validate:"required"`
	StartingCorpus decimal.Decimal `json:"starting_corpus" validate:"gte=0"`
	YearlyExpenses decimal.Decimal `json:"yearly_expenses" validate:"gte=0"`
	EquityRatio    decimal.Decimal `json:"equity_ratio" validate:"gte=0,lte=1"`
	YieldRate      decimal.Decimal `json:"yield_rate"`
	DebtReturn     decimal.Decimal `json:"debt_return"`
	DividendYield  decimal.Decimal `json:"dividend_yield" validate:"gte=0"`
	InflationRate  decimal.Decimal `json:"inflation_rate"`
	TaxRate        decimal.Decimal `json:"tax_rate" validate:"gte=0,lte=100"`
	StartYear      int             `json:"start_year" validate:"required"`
	MaxYears       int             `json:"max_years,omitempty" validate:"gte=0,lte=200"`
}

func (s *Server) handleSimulate(ctx *fasthttp.RequestCtx) {
	var req SimulateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Validate("simulate request", &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	m, err := s.planner.Registry.Market(req.Market)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	if err := m.CheckStartYear(req.StartYear); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	maxYears := req.MaxYears
	if maxYears == 0 {
		maxYears = calculation.DefaultSimulationYears
	}
	result := calculation.Simulate(domain.SimulationParameters{
		StartingCorpus: req.StartingCorpus,
		YearlyExpenses: req.YearlyExpenses,
		EquityRatio:    req.EquityRatio,
		YieldRate:      req.YieldRate,
		DebtReturn:     req.DebtReturn,
		DividendYield:  req.DividendYield,
		InflationRate:  req.InflationRate,
		TaxRate:        req.TaxRate,
		StartYear:      req.StartYear,
		MaxYears:       maxYears,
	}, m.Returns)
	writeJSON(ctx, fasthttp.StatusOK, result)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to encode response")
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	body, _ := json.Marshal(ErrorResponse{Status: status, Message: message})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
