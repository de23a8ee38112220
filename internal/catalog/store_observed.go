package catalog

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const (
	resultOK       = "ok"
	resultNotFound = "not_found"
	resultError    = "error"
)

type StoreMetrics struct {
	Operations *prometheus.CounterVec
	Books      prometheus.Gauge
}

func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "library",
				Subsystem: "catalog",
				Name:      "operations_total",
				Help:      "Catalog store operations by outcome",
			},
			[]string{"op", "result"},
		),
		Books: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "library",
				Subsystem: "catalog",
				Name:      "books",
				Help:      "Books currently held in the catalog",
			},
		),
	}

	reg.MustRegister(m.Operations, m.Books)
	return m
}

// ObservedStore wraps a Store with spans, metrics and logs.
type ObservedStore struct {
	next    Store
	tracer  trace.Tracer
	metrics *StoreMetrics
	log     *zap.Logger
}

func NewObservedStore(next Store, tracer trace.Tracer, metrics *StoreMetrics, log *zap.Logger) *ObservedStore {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ObservedStore{next: next, tracer: tracer, metrics: metrics, log: log}
}

func (s *ObservedStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *ObservedStore) Len(ctx context.Context) (int, error) {
	return s.next.Len(ctx)
}

func (s *ObservedStore) List(ctx context.Context) ([]Book, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.List")
	defer span.End()

	books, err := s.next.List(ctx)
	s.finish(span, "list", err)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("book.count", len(books)))
	return books, nil
}

func (s *ObservedStore) Insert(ctx context.Context, b Book) (Book, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Insert", trace.WithAttributes(
		attribute.String("book.name", b.Name),
		attribute.String("book.author", b.Author),
	))
	defer span.End()

	out, err := s.next.Insert(ctx, b)
	s.finish(span, "insert", err)
	s.refreshSize(ctx, err)
	return out, err
}

func (s *ObservedStore) TakeByName(ctx context.Context, name string) (Book, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.TakeByName", trace.WithAttributes(
		attribute.String("book.name", name),
	))
	defer span.End()

	out, err := s.next.TakeByName(ctx, name)
	s.finish(span, OpTake, err)
	s.refreshSize(ctx, err)
	return out, err
}

func (s *ObservedStore) Replace(ctx context.Context, name string, b Book) (Book, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Replace", trace.WithAttributes(
		attribute.String("book.name", name),
		attribute.String("book.new_name", b.Name),
	))
	defer span.End()

	old, err := s.next.Replace(ctx, name, b)
	s.finish(span, OpReplace, err)
	s.refreshSize(ctx, err)
	return old, err
}

func (s *ObservedStore) FilterByAuthor(ctx context.Context, author string) ([]Book, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.FilterByAuthor", trace.WithAttributes(
		attribute.String("book.author", author),
	))
	defer span.End()

	books, err := s.next.FilterByAuthor(ctx, author)
	s.finish(span, OpFilter, err)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("book.count", len(books)))
	return books, nil
}

func (s *ObservedStore) finish(span trace.Span, op string, err error) {
	result := resultOK

	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "")
	case errors.Is(err, ErrNotFound):
		result = resultNotFound
		span.RecordError(err)
		span.SetStatus(codes.Error, "not found")
		s.log.Debug("catalog lookup missed", zap.String("op", op), zap.Error(err))
	default:
		result = resultError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Error("catalog operation failed", zap.String("op", op), zap.Error(err))
	}

	if s.metrics != nil {
		s.metrics.Operations.WithLabelValues(op, result).Inc()
	}
}

func (s *ObservedStore) refreshSize(ctx context.Context, opErr error) {
	if s.metrics == nil || opErr != nil {
		return
	}
	n, err := s.next.Len(ctx)
	if err != nil {
		s.log.Warn("catalog size unavailable", zap.Error(err))
		return
	}
	s.metrics.Books.Set(float64(n))
}
