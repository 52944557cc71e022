package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pathline-dev/pathline/pkg/router"
)

const defaultTracerName = "pathline"

// TracingConfig configures the OpenTelemetry navigation observer.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "pathline").
	TracerName string

	// IncludeQuery includes the query string in spans.
	// May contain sensitive information. Disabled by default.
	IncludeQuery bool

	// Filter determines which navigations to trace.
	// If nil, all navigations are traced.
	Filter func(obs router.Observation) bool

	// AttributeExtractor adds custom attributes to every span.
	AttributeExtractor func(obs router.Observation) []attribute.KeyValue
}

// TracingOption configures the OpenTelemetry navigation observer.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithIncludeQuery enables including the query string in spans.
func WithIncludeQuery(include bool) TracingOption {
	return func(c *TracingConfig) {
		c.IncludeQuery = include
	}
}

// WithTraceFilter sets a filter function for navigations.
func WithTraceFilter(filter func(obs router.Observation) bool) TracingOption {
	return func(c *TracingConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(obs router.Observation) []attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.AttributeExtractor = extractor
	}
}

// Tracing is a router.Observer that records each navigation as a span.
//
// Observations arrive after the navigation has completed, so the span is
// created and ended in one step with the measured duration attached as an
// attribute. The tracer comes from the global OpenTelemetry tracer
// provider; configure it in main() before serving:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
type Tracing struct {
	config TracingConfig
	tracer trace.Tracer
}

// NewTracing creates an OpenTelemetry navigation observer.
func NewTracing(opts ...TracingOption) *Tracing {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	return &Tracing{
		config: config,
		tracer: otel.Tracer(config.TracerName),
	}
}

// ObserveNavigation implements router.Observer.
func (t *Tracing) ObserveNavigation(obs router.Observation) {
	if t.config.Filter != nil && !t.config.Filter(obs) {
		return
	}

	name := obs.Pattern
	if name == "" {
		name = obs.Event.To
	}

	attrs := []attribute.KeyValue{
		attribute.String("pathline.navigation.type", string(obs.Event.Type)),
		attribute.String("pathline.navigation.from", obs.Event.From),
		attribute.String("pathline.navigation.to", obs.Event.To),
		attribute.String("pathline.navigation.outcome", string(obs.Outcome)),
		attribute.Float64("pathline.navigation.duration_ms", float64(obs.Duration.Microseconds())/1000),
	}
	if obs.Pattern != "" {
		attrs = append(attrs, attribute.String("pathline.route.pattern", obs.Pattern))
	}
	if t.config.IncludeQuery && len(obs.Event.Query) > 0 {
		for key, value := range obs.Event.Query {
			attrs = append(attrs, attribute.String("pathline.query."+key, value))
		}
	}
	if t.config.AttributeExtractor != nil {
		attrs = append(attrs, t.config.AttributeExtractor(obs)...)
	}

	_, span := t.tracer.Start(context.Background(), "navigate "+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	if obs.Err != nil {
		span.RecordError(obs.Err)
		span.SetStatus(codes.Error, obs.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
