package observability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// StartSpan starts a new span from context
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name, opts...)
}

// StartServiceSpan starts an internal span named component.operation
func StartServiceSpan(ctx context.Context, component, operation string) (context.Context, trace.Span) {
	return StartSpan(ctx, fmt.Sprintf("%s.%s", component, operation),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("service.component", component),
			Operation(operation),
		),
	)
}

// StartClientSpan starts a span for an outbound call to the photo backend
func StartClientSpan(ctx context.Context, method, route string) (context.Context, trace.Span) {
	return StartSpan(ctx, fmt.Sprintf("backend %s %s", method, route),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", route),
		),
	)
}

// RecordError records an error on the span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSuccess marks the span as successful
func SetSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// DatabaseMetrics holds key-value store query instruments
type DatabaseMetrics struct {
	queryDuration metric.Float64Histogram
	errorCount    metric.Int64Counter
}

// NewDatabaseMetrics creates database metrics instruments
func NewDatabaseMetrics() (*DatabaseMetrics, error) {
	meter := otel.Meter(instrumentationName)

	queryDuration, err := meter.Float64Histogram(
		"db.query.duration",
		metric.WithDescription("Database query duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"db.error.count",
		metric.WithDescription("Total number of database errors"),
		metric.WithUnit("{errors}"),
	)
	if err != nil {
		return nil, err
	}

	return &DatabaseMetrics{queryDuration: queryDuration, errorCount: errorCount}, nil
}

// RecordQuery records one statement
func (m *DatabaseMetrics) RecordQuery(ctx context.Context, system, kind string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("db.system", system),
		attribute.String("db.operation", kind),
	)
	m.queryDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if err != nil {
		m.errorCount.Add(ctx, 1, attrs)
	}
}

// TraceDB wraps sql.DB so every statement gets a client span and a duration sample
type TraceDB struct {
	db      *sql.DB
	system  string
	metrics *DatabaseMetrics
}

// NewTraceDB wraps db; system is the db.system attribute, e.g. "sqlite" or "postgresql"
func NewTraceDB(db *sql.DB, system string) (*TraceDB, error) {
	metrics, err := NewDatabaseMetrics()
	if err != nil {
		return nil, err
	}
	return &TraceDB{db: db, system: system, metrics: metrics}, nil
}

func (t *TraceDB) start(ctx context.Context, kind, query string) (context.Context, trace.Span) {
	return StartSpan(ctx, "DB "+kind,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", t.system),
			attribute.String("db.statement", truncateQuery(query)),
		),
	)
}

func (t *TraceDB) finish(ctx context.Context, span trace.Span, kind string, start time.Time, err error) {
	d := time.Since(start)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
	}
	if err != nil {
		RecordError(span, err)
	} else {
		SetSuccess(span)
	}
	span.SetAttributes(attribute.Int64("db.query_duration_ms", d.Milliseconds()))
	t.metrics.RecordQuery(ctx, t.system, kind, d, err)
}

// ExecContext executes a statement with tracing
func (t *TraceDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	ctx, span := t.start(ctx, "Exec", query)
	defer span.End()

	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.finish(ctx, span, "Exec", start, err)
	return result, err
}

// QueryRowScan runs a single-row query and scans it inside the span, so the
// span covers the whole round trip
func (t *TraceDB) QueryRowScan(ctx context.Context, query string, args []interface{}, dest ...interface{}) error {
	ctx, span := t.start(ctx, "QueryRow", query)
	defer span.End()

	start := time.Now()
	err := t.db.QueryRowContext(ctx, query, args...).Scan(dest...)
	t.finish(ctx, span, "QueryRow", start, err)
	return err
}

// PingContext checks connectivity
func (t *TraceDB) PingContext(ctx context.Context) error {
	return t.db.PingContext(ctx)
}

// Close closes the underlying pool
func (t *TraceDB) Close() error {
	return t.db.Close()
}

func truncateQuery(query string) string {
	if len(query) > 500 {
		return query[:500] + "..."
	}
	return query
}

// ListMetrics holds counters for the photo list cache
type ListMetrics struct {
	listsCreated   metric.Int64Counter
	listsEvicted   metric.Int64Counter
	backendCalls   metric.Int64Counter
	persistLatency metric.Float64Histogram
	persistErrors  metric.Int64Counter
}

// NewListMetrics creates list cache instruments
func NewListMetrics() (*ListMetrics, error) {
	meter := otel.Meter(instrumentationName)

	listsCreated, err := meter.Int64Counter(
		"photolist.lists.created",
		metric.WithDescription("Photo lists created, by source kind"),
		metric.WithUnit("{lists}"),
	)
	if err != nil {
		return nil, err
	}

	listsEvicted, err := meter.Int64Counter(
		"photolist.lists.evicted",
		metric.WithDescription("Photo lists evicted by the capacity limit"),
		metric.WithUnit("{lists}"),
	)
	if err != nil {
		return nil, err
	}

	backendCalls, err := meter.Int64Counter(
		"photolist.backend.calls",
		metric.WithDescription("Calls made to the photo backend"),
		metric.WithUnit("{calls}"),
	)
	if err != nil {
		return nil, err
	}

	persistLatency, err := meter.Float64Histogram(
		"photolist.persist.duration",
		metric.WithDescription("Time to write the list set to the store in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	persistErrors, err := meter.Int64Counter(
		"photolist.persist.errors",
		metric.WithDescription("Failed writes or reads of the list set"),
		metric.WithUnit("{errors}"),
	)
	if err != nil {
		return nil, err
	}

	return &ListMetrics{
		listsCreated:   listsCreated,
		listsEvicted:   listsEvicted,
		backendCalls:   backendCalls,
		persistLatency: persistLatency,
		persistErrors:  persistErrors,
	}, nil
}

// RecordCreated counts a new list
func (m *ListMetrics) RecordCreated(ctx context.Context, sourceKind string) {
	if m == nil {
		return
	}
	m.listsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("source.kind", sourceKind)))
}

// RecordEvicted counts lists dropped by capacity enforcement
func (m *ListMetrics) RecordEvicted(ctx context.Context, n int) {
	if m == nil || n == 0 {
		return
	}
	m.listsEvicted.Add(ctx, int64(n))
}

// RecordBackendCall counts one backend operation and whether it succeeded
func (m *ListMetrics) RecordBackendCall(ctx context.Context, operation string, err error) {
	if m == nil {
		return
	}
	m.backendCalls.Add(ctx, 1, metric.WithAttributes(
		Operation(operation),
		attribute.Bool("success", err == nil),
	))
}

// RecordPersist records one save or load of the list set
func (m *ListMetrics) RecordPersist(ctx context.Context, operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(Operation(operation))
	m.persistLatency.Record(ctx, float64(d.Microseconds())/1000, attrs)
	if err != nil {
		m.persistErrors.Add(ctx, 1, attrs)
	}
}
