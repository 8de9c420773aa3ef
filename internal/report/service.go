package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/orderreport/internal/obs"
	"github.com/noah-isme/orderreport/internal/pricing"
	"github.com/noah-isme/orderreport/internal/shipping"
	"github.com/noah-isme/orderreport/internal/source"
)

const tracerName = "github.com/noah-isme/orderreport/internal/report"

// Service runs the full pipeline: load sources, aggregate, assemble.
type Service struct {
	Loader  *source.Loader
	Rules   pricing.Rules
	Logger  zerolog.Logger
	Metrics *obs.ReportMetrics
	Tracer  trace.Tracer
}

// NewService builds a service with a no-op logger and the global tracer.
func NewService(loader *source.Loader, rules pricing.Rules) *Service {
	return &Service{
		Loader: loader,
		Rules:  rules,
		Logger: zerolog.Nop(),
		Tracer: otel.Tracer(tracerName),
	}
}

// Run produces one report. Only an unreadable required source or a
// cancelled context fail the run; skipped rows are logged and counted.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	log := s.Logger.With().Str("run_id", runID).Logger()
	tracer := s.tracer()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "report.run", trace.WithAttributes(attribute.String("report.run_id", runID)))
	defer span.End()

	ds, err := s.load(ctx, tracer)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load sources")
		s.Metrics.ObserveRun(obs.OutcomeError, time.Since(start), 0, 0)
		log.Error().Err(err).Msg("report run failed")
		return nil, err
	}
	s.logDiagnostics(log, ds)

	engine := pricing.NewEngine(s.Rules, ds.Tables)
	shipper := shipping.NewCalculator(s.Rules.Shipping, ds.Tables.Zones)

	_, aggSpan := tracer.Start(ctx, "report.aggregate", trace.WithAttributes(attribute.Int("report.orders", len(ds.Orders))))
	agg := engine.Aggregate(ds.Orders)
	aggSpan.SetAttributes(attribute.Int("report.customers", len(agg.Totals)))
	aggSpan.End()

	_, asmSpan := tracer.Start(ctx, "report.assemble")
	rep := NewAssembler(engine, shipper).Build(agg)
	rep.RunID = runID
	asmSpan.End()

	s.Metrics.ObserveRun(obs.OutcomeSuccess, time.Since(start), len(rep.Statements), rep.GrandTotal)
	log.Info().
		Int("orders", len(ds.Orders)).
		Int("customers", len(rep.Statements)).
		Int("skipped", len(ds.Skipped)).
		Float64("grand_total", rep.GrandTotal).
		Dur("duration", time.Since(start)).
		Msg("report run completed")
	return rep, nil
}

func (s *Service) load(ctx context.Context, tracer trace.Tracer) (*source.Dataset, error) {
	ctx, span := tracer.Start(ctx, "report.load")
	defer span.End()
	ds, err := s.Loader.Load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("report.orders", len(ds.Orders)),
		attribute.Int("report.skipped_rows", len(ds.Skipped)),
	)
	return ds, nil
}

func (s *Service) logDiagnostics(log zerolog.Logger, ds *source.Dataset) {
	for _, sk := range ds.Skipped {
		log.Warn().
			Str("source", sk.Source).
			Int("line", sk.Line).
			Str("raw", sk.Raw).
			Str("reason", sk.Reason).
			Msg("invalid row skipped")
	}
	counts := ds.SkippedBySource()
	for src, n := range counts {
		log.Debug().Str("source", src).Int("count", n).Msg("invalid rows skipped")
	}
	s.Metrics.ObserveSkipped(counts)
}

func (s *Service) tracer() trace.Tracer {
	if s.Tracer != nil {
		return s.Tracer
	}
	return otel.Tracer(tracerName)
}
