package plaid

import (
	"context"

	"fintrack/internal/domain/item"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

var (
	syncTracer           = otel.Tracer("fintrack/sync")
	syncMeter            = otel.Meter("fintrack/sync")
	syncDeltasApplied, _ = syncMeter.Int64Counter("sync.transactions.applied",
		metric.WithDescription("Transaction deltas applied, by kind"),
	)
	syncItemFailures, _ = syncMeter.Int64Counter("sync.item.failures",
		metric.WithDescription("Per-item failures, by operation"),
	)
)

func recordDeltas(ctx context.Context, added, modified, removed int) {
	syncDeltasApplied.Add(ctx, int64(added), metric.WithAttributes(attribute.String("kind", "added")))
	syncDeltasApplied.Add(ctx, int64(modified), metric.WithAttributes(attribute.String("kind", "modified")))
	syncDeltasApplied.Add(ctx, int64(removed), metric.WithAttributes(attribute.String("kind", "removed")))
}

func recordItemFailure(ctx context.Context, operation string) {
	syncItemFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}

// forEachItem runs fn for every item with at most limit running at once.
// fn reports failures through its result; one item never cancels another.
func forEachItem[R any](ctx context.Context, items []*item.Item, limit int, fn func(ctx context.Context, it *item.Item) R) []R {
	if limit <= 0 {
		limit = 1
	}

	results := make([]R, len(items))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, it := range items {
		g.Go(func() error {
			results[i] = fn(ctx, it)
			return nil
		})
	}
	g.Wait()
	return results
}
