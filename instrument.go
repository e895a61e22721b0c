package multiauth

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/jonwraymond/multiauth"

// InstrumentedPolicy wraps a Policy with OpenTelemetry tracing and metrics:
// a span per operation plus counters for authentication outcomes. Exporter
// setup belongs to the embedding application; this wrapper only uses the
// globally registered providers.
type InstrumentedPolicy struct {
	inner  Policy
	tracer trace.Tracer

	attempts metric.Int64Counter
	errors   metric.Int64Counter
}

// NewInstrumentedPolicy wraps policy with telemetry.
func NewInstrumentedPolicy(policy Policy) (*InstrumentedPolicy, error) {
	meter := otel.Meter(instrumentationName)

	attempts, err := meter.Int64Counter(
		"multiauth.authenticate.total",
		metric.WithDescription("Total number of authentication attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	errors, err := meter.Int64Counter(
		"multiauth.authenticate.errors",
		metric.WithDescription("Total number of authentication errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return &InstrumentedPolicy{
		inner:    policy,
		tracer:   otel.Tracer(instrumentationName),
		attempts: attempts,
		errors:   errors,
	}, nil
}

func (p *InstrumentedPolicy) span(ctx context.Context, op string) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, "multiauth."+op,
		trace.WithAttributes(attribute.String("multiauth.op", op)))
}

func (p *InstrumentedPolicy) end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// AuthenticatedUserID delegates and records the attempt.
func (p *InstrumentedPolicy) AuthenticatedUserID(ctx context.Context, r *Request) (string, error) {
	ctx, span := p.span(ctx, "authenticated_userid")
	userid, err := p.inner.AuthenticatedUserID(ctx, r)
	p.end(span, err)

	outcome := "unauthenticated"
	if userid != "" {
		outcome = "authenticated"
	}
	p.attempts.Add(ctx, 1, metric.WithAttributes(attribute.String("multiauth.outcome", outcome)))
	if err != nil {
		p.errors.Add(ctx, 1)
	}
	return userid, err
}

// UnauthenticatedUserID delegates inside a span.
func (p *InstrumentedPolicy) UnauthenticatedUserID(ctx context.Context, r *Request) (string, error) {
	ctx, span := p.span(ctx, "unauthenticated_userid")
	userid, err := p.inner.UnauthenticatedUserID(ctx, r)
	p.end(span, err)
	return userid, err
}

// EffectivePrincipals delegates inside a span.
func (p *InstrumentedPolicy) EffectivePrincipals(ctx context.Context, r *Request) (PrincipalSet, error) {
	ctx, span := p.span(ctx, "effective_principals")
	principals, err := p.inner.EffectivePrincipals(ctx, r)
	if err == nil {
		span.SetAttributes(attribute.Int("multiauth.principals", len(principals)))
	}
	p.end(span, err)
	return principals, err
}

// Remember delegates inside a span.
func (p *InstrumentedPolicy) Remember(ctx context.Context, r *Request, userid string, opts RememberOptions) ([]Header, error) {
	ctx, span := p.span(ctx, "remember")
	headers, err := p.inner.Remember(ctx, r, userid, opts)
	p.end(span, err)
	return headers, err
}

// Forget delegates inside a span.
func (p *InstrumentedPolicy) Forget(ctx context.Context, r *Request) ([]Header, error) {
	ctx, span := p.span(ctx, "forget")
	headers, err := p.inner.Forget(ctx, r)
	p.end(span, err)
	return headers, err
}

// Ensure InstrumentedPolicy implements Policy
var _ Policy = (*InstrumentedPolicy)(nil)
