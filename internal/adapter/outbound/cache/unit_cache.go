package cache

import (
	"context"
	"sync"
	"time"

	"phpcsutils/internal/application/common/slogger"
	"phpcsutils/internal/domain/entity"
	"phpcsutils/internal/domain/valueobject"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "phpcsutils/unit-cache"

// Metric names.
const (
	MetricHits          = "unit_cache_hits_total"
	MetricMisses        = "unit_cache_misses_total"
	MetricEvictions     = "unit_cache_evictions_total"
	MetricInvalidations = "unit_cache_invalidations_total"
	MetricSize          = "unit_cache_size"
)

// UnitCache keeps analysed units keyed by path with LRU eviction. A unit whose source or host
// version no longer matches is dropped together with its stream and memoized facts.
type UnitCache struct {
	entries  map[string]*unitEntry
	lruOrder []string
	maxSize  int
	mu       sync.Mutex
	stats    Statistics

	tracer trace.Tracer

	hitCounter          metric.Int64Counter
	missCounter         metric.Int64Counter
	evictionCounter     metric.Int64Counter
	invalidationCounter metric.Int64Counter
	sizeGauge           metric.Int64Gauge
}

type unitEntry struct {
	unit        *entity.AnalysisUnit
	accessedAt  time.Time
	accessCount int64
}

// Statistics tracks cache performance.
type Statistics struct {
	Hits          int64
	Misses        int64
	Evictions     int64
	Invalidations int64
	Size          int
	HitRate       float64
}

type options struct {
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
}

// Option configures a UnitCache.
type Option func(*options)

// WithMeterProvider records cache metrics with mp instead of the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// WithTracerProvider records cache spans with tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// NewUnitCache creates a cache holding at most maxSize units.
func NewUnitCache(maxSize int, opts ...Option) *UnitCache {
	o := options{
		meterProvider:  otel.GetMeterProvider(),
		tracerProvider: otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if maxSize < 1 {
		maxSize = 1
	}

	meter := o.meterProvider.Meter(instrumentationName)

	hitCounter, _ := meter.Int64Counter(
		MetricHits,
		metric.WithDescription("Total number of unit cache hits"),
	)
	missCounter, _ := meter.Int64Counter(
		MetricMisses,
		metric.WithDescription("Total number of unit cache misses"),
	)
	evictionCounter, _ := meter.Int64Counter(
		MetricEvictions,
		metric.WithDescription("Total number of units evicted to make room"),
	)
	invalidationCounter, _ := meter.Int64Counter(
		MetricInvalidations,
		metric.WithDescription("Total number of units dropped because their source changed"),
	)
	sizeGauge, _ := meter.Int64Gauge(
		MetricSize,
		metric.WithDescription("Current number of cached units"),
	)

	return &UnitCache{
		entries:             make(map[string]*unitEntry),
		lruOrder:            make([]string, 0, maxSize),
		maxSize:             maxSize,
		tracer:              o.tracerProvider.Tracer(instrumentationName),
		hitCounter:          hitCounter,
		missCounter:         missCounter,
		evictionCounter:     evictionCounter,
		invalidationCounter: invalidationCounter,
		sizeGauge:           sizeGauge,
	}
}

// Get returns the unit cached for path if it was built from source for host version v.
// A stale unit is invalidated.
func (c *UnitCache) Get(
	ctx context.Context,
	path string,
	source []byte,
	v valueobject.HostVersion,
) (*entity.AnalysisUnit, bool) {
	ctx, span := c.tracer.Start(ctx, "unit_cache.Get")
	defer span.End()
	span.SetAttributes(attribute.String("path", path))

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[path]
	if !exists {
		c.recordMiss(ctx, span)
		slogger.Debug(ctx, "Unit cache miss", slogger.Fields{"path": path})
		return nil, false
	}

	if !entry.unit.Matches(source, v) {
		c.remove(path)
		c.stats.Invalidations++
		c.invalidationCounter.Add(ctx, 1)
		c.recordMiss(ctx, span)
		c.sizeGauge.Record(ctx, int64(len(c.entries)))
		span.SetAttributes(attribute.Bool("stale", true))

		slogger.Debug(ctx, "Dropped stale unit", slogger.Fields{
			"path":         path,
			"unit_id":      entry.unit.ID().String(),
			"access_count": entry.accessCount,
		})
		return nil, false
	}

	entry.accessedAt = time.Now()
	entry.accessCount++
	c.stats.Hits++
	c.moveToFront(path)

	c.hitCounter.Add(ctx, 1)
	span.SetAttributes(attribute.Bool("cache_hit", true))

	slogger.Debug(ctx, "Unit cache hit", slogger.Fields{
		"path":         path,
		"unit_id":      entry.unit.ID().String(),
		"access_count": entry.accessCount,
	})

	return entry.unit, true
}

// Put stores unit under its path.
func (c *UnitCache) Put(ctx context.Context, unit *entity.AnalysisUnit) {
	if unit == nil {
		return
	}

	ctx, span := c.tracer.Start(ctx, "unit_cache.Put")
	defer span.End()
	span.SetAttributes(
		attribute.String("path", unit.Path()),
		attribute.String("unit_id", unit.ID().String()),
	)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[unit.Path()]; exists {
		c.remove(unit.Path())
	} else if len(c.entries) >= c.maxSize {
		c.evictLRU(ctx)
	}

	c.entries[unit.Path()] = &unitEntry{unit: unit, accessedAt: time.Now()}
	c.lruOrder = append([]string{unit.Path()}, c.lruOrder...)
	c.sizeGauge.Record(ctx, int64(len(c.entries)))

	slogger.Debug(ctx, "Cached unit", slogger.Fields{
		"path":       unit.Path(),
		"unit_id":    unit.ID().String(),
		"tokens":     unit.Stream().Len(),
		"cache_size": len(c.entries),
	})
}

// Invalidate drops the unit cached for path.
func (c *UnitCache) Invalidate(ctx context.Context, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[path]; !exists {
		return
	}
	c.remove(path)
	c.stats.Invalidations++
	c.invalidationCounter.Add(ctx, 1)
	c.sizeGauge.Record(ctx, int64(len(c.entries)))

	slogger.Debug(ctx, "Invalidated unit", slogger.Fields{"path": path})
}

// Len returns the number of cached units.
func (c *UnitCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// GetStatistics returns a snapshot of the cache statistics.
func (c *UnitCache) GetStatistics() Statistics {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = len(c.entries)
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats
}

func (c *UnitCache) recordMiss(ctx context.Context, span trace.Span) {
	c.stats.Misses++
	c.missCounter.Add(ctx, 1)
	span.SetAttributes(attribute.Bool("cache_hit", false))
}

// moveToFront moves path to the front of the LRU order.
func (c *UnitCache) moveToFront(path string) {
	c.dropFromOrder(path)
	c.lruOrder = append([]string{path}, c.lruOrder...)
}

func (c *UnitCache) dropFromOrder(path string) {
	for i, k := range c.lruOrder {
		if k == path {
			c.lruOrder = append(c.lruOrder[:i], c.lruOrder[i+1:]...)
			return
		}
	}
}

func (c *UnitCache) remove(path string) {
	delete(c.entries, path)
	c.dropFromOrder(path)
}

// evictLRU removes the least recently used unit.
func (c *UnitCache) evictLRU(ctx context.Context) {
	if len(c.lruOrder) == 0 {
		return
	}

	path := c.lruOrder[len(c.lruOrder)-1]
	entry := c.entries[path]
	c.remove(path)
	c.stats.Evictions++
	c.evictionCounter.Add(ctx, 1)

	fields := slogger.Fields{"path": path}
	if entry != nil {
		fields["access_count"] = entry.accessCount
		fields["age_seconds"] = time.Since(entry.unit.CreatedAt()).Seconds()
	}
	slogger.Debug(ctx, "Evicted unit", fields)
}
