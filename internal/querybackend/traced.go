package querybackend

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/gabapcia/txbridge/internal/querybackend"

// traced records a span and a call counter around every call of the wrapped backend.
type traced struct {
	next    Backend
	kind    Kind
	tracer  trace.Tracer
	counter metric.Int64Counter
}

// Compile-time assertion that traced implements the Backend interface.
var _ Backend = (*traced)(nil)

// Traced wraps d with OpenTelemetry spans and a "querybackend.calls" counter,
// using the globally registered providers.
func Traced(d Dispatch) Backend {
	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"querybackend.calls",
		metric.WithDescription("Number of calls made to the query backend."),
	)
	if err != nil {
		otel.Handle(err)
	}

	return &traced{
		next:    d,
		kind:    d.Kind(),
		tracer:  otel.Tracer(instrumentationName),
		counter: counter,
	}
}

func (t *traced) observe(ctx context.Context, operation string, fn func(ctx context.Context) error) {
	ctx, span := t.tracer.Start(ctx, "querybackend."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("backend.kind", t.kind.String())),
	)
	defer span.End()

	err := fn(ctx)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	if t.counter != nil {
		t.counter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("backend.kind", t.kind.String()),
			attribute.String("operation", operation),
			attribute.String("outcome", outcome),
		))
	}
}

func (t *traced) Submit(ctx context.Context, tx []byte) (hash TxHash, err error) {
	t.observe(ctx, "submit", func(ctx context.Context) error {
		hash, err = t.next.Submit(ctx, tx)
		return err
	})
	return hash, err
}

func (t *traced) Evaluate(ctx context.Context, tx []byte) (result EvaluationResult, err error) {
	t.observe(ctx, "evaluate", func(ctx context.Context) error {
		result, err = t.next.Evaluate(ctx, tx)
		return err
	})
	return result, err
}

func (t *traced) IsConfirmed(ctx context.Context, hash TxHash) (confirmed bool, err error) {
	t.observe(ctx, "is_confirmed", func(ctx context.Context) error {
		confirmed, err = t.next.IsConfirmed(ctx, hash)
		return err
	})
	return confirmed, err
}

func (t *traced) GetMetadata(ctx context.Context, hash TxHash) (metadata Metadata, err error) {
	t.observe(ctx, "get_metadata", func(ctx context.Context) error {
		metadata, err = t.next.GetMetadata(ctx, hash)
		return err
	})
	return metadata, err
}

func (t *traced) UtxosAt(ctx context.Context, address string) (utxos UtxoSet, err error) {
	t.observe(ctx, "utxos_at", func(ctx context.Context) error {
		utxos, err = t.next.UtxosAt(ctx, address)
		return err
	})
	return utxos, err
}

func (t *traced) Close() error {
	return t.next.Close()
}
