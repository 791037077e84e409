package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"

	"github.com/DrSkyle/stowage/pkg/catalog"
	"github.com/DrSkyle/stowage/pkg/config"
	"github.com/DrSkyle/stowage/pkg/engine/flow"
	"github.com/DrSkyle/stowage/pkg/engine/sizing"
	"github.com/DrSkyle/stowage/pkg/station"
	"github.com/DrSkyle/stowage/pkg/telemetry"
	"github.com/DrSkyle/stowage/pkg/version"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrStalePlan is returned by Apply when the station changed after the plan was made.
	ErrStalePlan = errors.New("plan is out of date, recompute it")
	// ErrPanic is returned when a recompute crashed.
	ErrPanic = errors.New("engine panic")
)

// Config holds engine settings.
type Config struct {
	Retention config.RetentionConfig
	Filter    config.FilterConfig
	Station   config.StationConfig
	Status    config.StatusConfig

	JsonLogs bool

	// Telemetry config.
	OtelEndpoint  string // "http://localhost:4318" or via env
	SkipTelemetry bool   // Set true if embedding in an app that already has OTEL

	// Dependencies.
	Logger    *slog.Logger
	LogOutput io.Writer
}

// ConfigFrom maps the file/env configuration onto engine settings.
func ConfigFrom(c config.Config) Config {
	return Config{
		Retention:    c.Retention,
		Filter:       c.Filter,
		Station:      c.Station,
		Status:       c.Status,
		JsonLogs:     c.JSONLogs,
		OtelEndpoint: c.OtelEndpoint,
	}
}

// Settings are the inputs of a recompute that the user can change at runtime.
type Settings struct {
	Retention config.RetentionConfig `json:"retention"`
	Filter    config.FilterConfig    `json:"filter"`
	Station   config.StationConfig   `json:"station"`
}

// Engine is the runtime core.
type Engine struct {
	// Core components.
	Catalog    *catalog.Catalog
	Station    *station.Station
	Source     flow.Source
	Calculator *sizing.Calculator
	Logger     *slog.Logger
	Tracer     trace.Tracer

	config    Config
	loggerSet bool
	rules     sizing.CandidateRules

	mu       sync.RWMutex
	settings Settings

	plans    metric.Int64Counter
	applied  metric.Int64Counter
	shutdown telemetry.Shutdown
}

// Option defines a functional configuration override.
type Option func(*Engine)

// New initializes the Engine. Missing dependencies fall back to the embedded
// catalog, an empty station and the catalog driven flow calculator.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	e := &Engine{
		Tracer: otel.Tracer("stowage/engine"),
		config: Config{
			Retention: config.DefaultRetentionConfig(),
			Filter:    config.DefaultFilterConfig(),
			Station:   config.DefaultStationConfig(),
			Status:    config.DefaultStatusConfig(),
			JsonLogs:  true,
		},
	}

	for _, opt := range opts {
		opt(e)
	}

	if !e.loggerSet {
		e.Logger = slog.New(e.newHandler())
	}
	slog.SetDefault(e.Logger)

	if !e.config.SkipTelemetry {
		shutdown, err := telemetry.Init(ctx, version.AppName, version.Current, e.config.OtelEndpoint)
		if err != nil {
			e.Logger.Warn("Telemetry failed", "error", err)
		} else {
			e.shutdown = shutdown
		}
	}

	if e.Catalog == nil {
		c, err := catalog.Default(e.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		e.Catalog = c
	}
	if e.Station == nil {
		e.Station = station.New(e.Catalog)
	}
	if e.Source == nil {
		e.Source = flow.NewResourceCalculator(e.Catalog)
	}
	e.Calculator = sizing.NewCalculator(e.Catalog, e.rules)

	e.settings = Settings{
		Retention: e.config.Retention.Normalize(),
		Filter:    e.config.Filter,
		Station:   e.config.Station.Normalize(),
	}
	e.initMetrics()

	return e, nil
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.Logger = l
			e.loggerSet = true
		}
	}
}

// WithConfig sets raw config.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.config = cfg
		if cfg.Status.DangerRatio == 0 {
			e.config.Status = config.DefaultStatusConfig()
		}
		if cfg.Logger != nil {
			e.Logger = cfg.Logger
			e.loggerSet = true
		}
	}
}

// WithCatalog sets the static game data.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) {
		e.Catalog = c
	}
}

// WithStation plans against an existing station.
func WithStation(s *station.Station) Option {
	return func(e *Engine) {
		e.Station = s
	}
}

// WithSource replaces the ware flow source.
func WithSource(s flow.Source) Option {
	return func(e *Engine) {
		e.Source = s
	}
}

// WithRules sets candidate rules applied before module selection.
func WithRules(r sizing.CandidateRules) Option {
	return func(e *Engine) {
		e.rules = r
	}
}

func (e *Engine) newHandler() slog.Handler {
	out := e.config.LogOutput
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{ReplaceAttr: redactSensitiveData}
	if e.config.JsonLogs {
		return slog.NewJSONHandler(out, opts)
	}
	return slog.NewTextHandler(out, opts)
}

func (e *Engine) initMetrics() {
	meter := otel.Meter("stowage/engine")

	var err error
	e.plans, err = meter.Int64Counter("stowage.plan.recomputes",
		metric.WithDescription("Storage plans computed"))
	if err != nil {
		e.Logger.Warn("Metric unavailable", "name", "stowage.plan.recomputes", "error", err)
		e.plans = noop.Int64Counter{}
	}
	e.applied, err = meter.Int64Counter("stowage.modules.applied",
		metric.WithDescription("Storage modules added to stations"))
	if err != nil {
		e.Logger.Warn("Metric unavailable", "name", "stowage.modules.applied", "error", err)
		e.applied = noop.Int64Counter{}
	}
}

// Settings returns the current recompute inputs.
func (e *Engine) Settings() Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.settings
}

// SetSettings replaces the recompute inputs. Retention and station
// environment are normalised.
func (e *Engine) SetSettings(s Settings) {
	s.Retention = s.Retention.Normalize()
	s.Station = s.Station.Normalize()
	e.mu.Lock()
	e.settings = s
	e.mu.Unlock()
}

// Close flushes telemetry.
func (e *Engine) Close(ctx context.Context) error {
	if e.shutdown == nil {
		return nil
	}
	return e.shutdown(ctx)
}

// Plan recomputes storage against the current station and settings.
func (e *Engine) Plan(ctx context.Context) (*Plan, error) {
	return e.PlanWith(ctx, e.Settings())
}

// PlanWith recomputes storage using s instead of the stored settings.
func (e *Engine) PlanWith(ctx context.Context, s Settings) (plan *Plan, err error) {
	ctx, span := e.Tracer.Start(ctx, "Engine.Plan")
	defer span.End()

	// Crash safety.
	defer e.recoverPanic(ctx, &err)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := e.Station.Snapshot()
	retention := s.Retention.Normalize()
	env := s.Station.Normalize()
	filter := sizing.FilterFromConfig(s.Filter)

	wf := flow.Balance(snap.Instances, env.AutoWorkforce, env.Workforce, env.HQ)
	flows := e.Source.ComputeWareFlows(snap.Instances, env.Sunlight, wf.Allocated)

	needs := e.Calculator.CalculateStorageNeeds(flows, retention)
	recs := e.Calculator.CalculateStorageRecommendations(needs, snap.Instances, filter)
	groups := e.Calculator.CalculateStorageCargoGroups(flows, retention, snap.Instances, filter)

	plan = &Plan{
		Version:         snap.Version,
		Retention:       retention,
		Filter:          filter,
		Workforce:       wf,
		Flows:           flowRows(flows),
		Needs:           needs,
		Recommendations: recs,
		Groups:          e.withStatus(groups),
	}

	span.SetAttributes(
		attribute.Int64("station.version", int64(snap.Version)),
		attribute.Int("station.modules", len(snap.Instances)),
		attribute.Int("plan.flows", len(flows)),
		attribute.Int("plan.short_groups", len(recs)),
	)
	e.plans.Add(ctx, 1)
	e.Logger.Debug("Plan computed", "version", snap.Version, "flows", len(flows), "short", len(recs))

	return plan, nil
}

// Apply merges every recommendation of plan into the station. A plan made
// against an older station version is rejected with ErrStalePlan.
func (e *Engine) Apply(ctx context.Context, plan *Plan) (station.MergeResult, error) {
	ctx, span := e.Tracer.Start(ctx, "Engine.Apply")
	defer span.End()

	if plan == nil {
		return station.MergeResult{}, errors.New("nil plan")
	}

	batch := plan.Additions()
	res, err := e.Station.MergeAt(ctx, plan.Version, batch)
	if errors.Is(err, station.ErrVersionMismatch) {
		span.SetStatus(codes.Error, "stale plan")
		return res, fmt.Errorf("%w: %v", ErrStalePlan, err)
	}
	if err != nil {
		span.RecordError(err)
		return res, err
	}

	var modules int64
	for _, a := range batch {
		modules += int64(a.Count)
	}
	span.SetAttributes(
		attribute.Int("apply.incremented", res.Incremented),
		attribute.Int("apply.appended", res.Appended),
		attribute.Int64("station.version", int64(res.Version)),
	)
	e.applied.Add(ctx, modules)
	e.Logger.Info("Recommended modules added", "modules", modules, "incremented", res.Incremented, "appended", res.Appended, "version", res.Version)

	return res, nil
}

// recoverPanic handles failures.
func (e *Engine) recoverPanic(ctx context.Context, errp *error) {
	if r := recover(); r != nil {
		tr := otel.Tracer("stowage/engine")
		_, span := tr.Start(ctx, "CriticalPanic")

		stack := debug.Stack()

		span.RecordError(fmt.Errorf("%v", r), trace.WithStackTrace(true))
		span.SetStatus(codes.Error, "CRITICAL FAILURE")
		span.SetAttributes(
			attribute.String("crash.stack", string(stack)),
			attribute.String("crash.reason", fmt.Sprintf("%v", r)),
		)
		span.End()

		e.Logger.Error("CRITICAL FAILURE", "error", r, "stack", string(stack))

		if errp != nil {
			*errp = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}
}

// redactSensitiveData scrubs sensitive keys from logs.
func redactSensitiveData(groups []string, a slog.Attr) slog.Attr {
	sensitiveKeys := map[string]bool{
		"account": true, "password": true, "access_key": true, "token": true,
		"secret": true, "api_key": true, "private_key": true, "auth_token": true,
		"refresh_token": true, "credential": true, "session_token": true,
	}

	if sensitiveKeys[a.Key] {
		return slog.Attr{
			Key:   a.Key,
			Value: slog.StringValue("[REDACTED]"),
		}
	}
	return a
}
