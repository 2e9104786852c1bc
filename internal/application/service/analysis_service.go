package service

import (
	"context"
	"time"

	"phpcsutils/internal/application/common"
	"phpcsutils/internal/application/common/slogger"
	"phpcsutils/internal/application/dto"
	"phpcsutils/internal/domain/compensation"
	"phpcsutils/internal/domain/entity"
	"phpcsutils/internal/domain/structure"
	"phpcsutils/internal/domain/token"
	"phpcsutils/internal/domain/valueobject"
	"phpcsutils/internal/port/outbound"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const instrumentationName = "phpcsutils/analysis-service"

// Metric names.
const (
	MetricUnitsAnalyzed   = "analysis_units_total"
	MetricAnalysisErrors  = "analysis_errors_total"
	MetricAnalysisSeconds = "analysis_duration_seconds"
)

// Attribute keys.
const (
	AttrPath   = "path"
	AttrCached = "cached"
	AttrMethod = "method"
)

// AnalysisService builds analysis units from source and reports their structural facts.
type AnalysisService struct {
	tokenizer outbound.Tokenizer
	store     outbound.UnitStore
	rules     *compensation.Table
	workers   int

	tracer        trace.Tracer
	unitCounter   metric.Int64Counter
	errorCounter  metric.Int64Counter
	unitDurations metric.Float64Histogram
}

type serviceOptions struct {
	rules          *compensation.Table
	workers        int
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
}

// Option configures an AnalysisService.
type Option func(*serviceOptions)

// WithRules replaces the embedded compensation table.
func WithRules(t *compensation.Table) Option {
	return func(o *serviceOptions) { o.rules = t }
}

// WithWorkers bounds the number of units analysed in parallel by ReportAll.
func WithWorkers(n int) Option {
	return func(o *serviceOptions) { o.workers = n }
}

// WithMeterProvider records metrics with mp instead of the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *serviceOptions) { o.meterProvider = mp }
}

// WithTracerProvider records spans with tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *serviceOptions) { o.tracerProvider = tp }
}

// NewAnalysisService creates a service analysing sources with tokenizer. store may be nil, in
// which case every call builds a fresh unit.
func NewAnalysisService(tokenizer outbound.Tokenizer, store outbound.UnitStore, opts ...Option) *AnalysisService {
	o := serviceOptions{
		workers:        1,
		meterProvider:  otel.GetMeterProvider(),
		tracerProvider: otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rules == nil {
		o.rules = compensation.Default()
	}
	if o.workers < 1 {
		o.workers = 1
	}

	meter := o.meterProvider.Meter(instrumentationName)
	unitCounter, _ := meter.Int64Counter(
		MetricUnitsAnalyzed,
		metric.WithDescription("Total number of analysed units"),
	)
	errorCounter, _ := meter.Int64Counter(
		MetricAnalysisErrors,
		metric.WithDescription("Total number of units that could not be analysed"),
	)
	unitDurations, _ := meter.Float64Histogram(
		MetricAnalysisSeconds,
		metric.WithDescription("Time spent building and reporting one unit"),
		metric.WithUnit("s"),
	)

	return &AnalysisService{
		tokenizer:     tokenizer,
		store:         store,
		rules:         o.rules,
		workers:       o.workers,
		tracer:        o.tracerProvider.Tracer(instrumentationName),
		unitCounter:   unitCounter,
		errorCounter:  errorCounter,
		unitDurations: unitDurations,
	}
}

// HostVersion returns the host version units are analysed for.
func (s *AnalysisService) HostVersion() valueobject.HostVersion {
	return s.tokenizer.HostVersion()
}

// Open returns the unit of source, reusing the stored one when the source is unchanged. The
// boolean reports whether the unit came from the store.
func (s *AnalysisService) Open(ctx context.Context, path string, source []byte) (*entity.AnalysisUnit, bool, error) {
	v := s.tokenizer.HostVersion()
	if s.store != nil {
		if unit, ok := s.store.Get(ctx, path, source, v); ok {
			return unit, true, nil
		}
	}

	stream, err := s.tokenizer.Tokenize(ctx, source)
	if err != nil {
		return nil, false, common.WrapServiceError(common.OpTokenize, path, err)
	}

	analyzer := structure.New(stream, structure.WithHostVersion(v), structure.WithRules(s.rules))
	unit := entity.NewAnalysisUnit(path, source, analyzer)
	if s.store != nil {
		s.store.Put(ctx, unit)
	}

	slogger.Debug(ctx, "Built analysis unit", slogger.Fields{
		"path":         path,
		"unit_id":      unit.ID().String(),
		"tokens":       stream.Len(),
		"active_rules": len(analyzer.ActiveRules()),
	})
	return unit, false, nil
}

// Report analyses one source and collects its structural facts.
func (s *AnalysisService) Report(ctx context.Context, file dto.SourceFile) (*dto.UnitReport, error) {
	ctx, span := s.tracer.Start(ctx, "AnalysisService.Report")
	defer span.End()
	span.SetAttributes(attribute.String(AttrPath, file.Path))

	start := time.Now()
	unit, cached, err := s.Open(ctx, file.Path, file.Content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		s.errorCounter.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrMethod, "report")))
		slogger.ErrorWithError(ctx, err, "Failed to analyse source", slogger.Fields{"path": file.Path})
		return nil, err
	}

	report := buildReport(unit, cached)

	attrs := metric.WithAttributes(attribute.Bool(AttrCached, cached))
	s.unitCounter.Add(ctx, 1, attrs)
	s.unitDurations.Record(ctx, time.Since(start).Seconds(), attrs)
	span.SetAttributes(
		attribute.Bool(AttrCached, cached),
		attribute.String("unit_id", unit.ID().String()),
		attribute.Int("tokens", report.Tokens),
	)

	slogger.Info(ctx, "Analysed source", slogger.Fields{
		"path":       file.Path,
		"cached":     cached,
		"brackets":   len(report.Brackets),
		"arrows":     len(report.Arrows),
		"owners":     len(report.Owners),
		"references": len(report.References),
	})
	return report, nil
}

// ReportAll analyses files in parallel and returns their reports in input order. The first
// error cancels the remaining work.
func (s *AnalysisService) ReportAll(ctx context.Context, files []dto.SourceFile) ([]*dto.UnitReport, error) {
	ctx, span := s.tracer.Start(ctx, "AnalysisService.ReportAll")
	defer span.End()
	span.SetAttributes(attribute.Int("files", len(files)), attribute.Int("workers", s.workers))

	reports := make([]*dto.UnitReport, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := s.Report(gctx, file)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "analysis failed")
		return nil, err
	}
	return reports, nil
}

// Rules lists the rows of the compensation table and marks those active for v.
func (s *AnalysisService) Rules(v valueobject.HostVersion) []dto.RuleView {
	rules := s.rules.Rules()
	views := make([]dto.RuleView, 0, len(rules))
	for _, r := range rules {
		views = append(views, dto.RuleView{
			ID:          r.ID,
			Component:   string(r.Component),
			Versions:    r.Versions,
			Outcome:     string(r.Outcome),
			Description: r.Description,
			Active:      r.AppliesTo(v),
		})
	}
	return views
}

func position(s *token.Stream, i int) dto.Position {
	t := s.At(i)
	return dto.Position{Index: i, Line: t.Line, Column: t.Column}
}

// buildReport walks the stream once and queries the analyzer for every token that carries a
// structural fact.
func buildReport(unit *entity.AnalysisUnit, cached bool) *dto.UnitReport {
	a := unit.Analyzer()
	s := unit.Stream()

	report := &dto.UnitReport{
		Path:        unit.Path(),
		UnitID:      unit.ID(),
		HostVersion: unit.HostVersion().String(),
		Tokens:      s.Len(),
		Cached:      cached,
		ActiveRules: []string{},
		Brackets:    []dto.BracketFact{},
		Arrows:      []dto.ArrowFact{},
		Owners:      []dto.OwnerFact{},
		References:  []dto.ReferenceFact{},
	}
	for _, r := range a.ActiveRules() {
		report.ActiveRules = append(report.ActiveRules, r.ID)
	}

	for i := range s.Len() {
		switch s.Type(i) {
		case token.OpenSquareBracket, token.OpenShortArray, token.Array, token.List:
			if fact, ok := bracketFact(a, i); ok {
				report.Brackets = append(report.Brackets, fact)
			}
		case token.OpenParenthesis:
			report.Owners = append(report.Owners, ownerFact(a, i))
		case token.BitwiseAnd:
			report.References = append(report.References, dto.ReferenceFact{
				Position:    position(s, i),
				IsReference: a.IsReference(i),
			})
		}
		if a.IsArrowHeader(i) {
			if fact, ok := arrowFact(a, i); ok {
				report.Arrows = append(report.Arrows, fact)
			}
		}
	}

	report.Memo = a.Stats()
	return report
}

func bracketFact(a *structure.Analyzer, i int) (dto.BracketFact, bool) {
	s := a.Stream()
	open, closer, ok := a.OpenClose(i)
	if !ok {
		return dto.BracketFact{}, false
	}
	fact := dto.BracketFact{
		Position: position(s, i),
		Kind:     s.Type(i).String(),
		Close:    closer,
		Role:     a.Classify(i),
	}
	items, err := a.Segment(open, closer)
	if err == nil {
		fact.Items = len(items)
	}
	return fact, true
}

func ownerFact(a *structure.Analyzer, i int) dto.OwnerFact {
	s := a.Stream()
	fact := dto.OwnerFact{Position: position(s, i), Close: token.NoPos, Owner: token.NoPos}
	if closer, ok := s.Closer(i); ok {
		fact.Close = closer
	}
	if owner, ok := a.ResolveOwner(i); ok {
		fact.Owner = owner
		if kind, ok := a.OwnerKind(i); ok {
			fact.OwnerKind = kind.String()
		}
	}
	return fact
}

func arrowFact(a *structure.Analyzer, i int) (dto.ArrowFact, bool) {
	s := a.Stream()
	fn, ok := a.ArrowFunction(i)
	if !ok {
		return dto.ArrowFact{}, false
	}
	fact := dto.ArrowFact{
		Position:   position(s, i),
		Function:   fn,
		Body:       s.Text(fn.BodyStart, fn.BodyEnd),
		Parameters: []string{},
	}
	if params, err := a.DeclaredParameters(i); err == nil {
		for _, p := range params {
			fact.Parameters = append(fact.Parameters, p.Name)
		}
	}
	return fact, true
}
