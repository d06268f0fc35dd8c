package quote

import (
	"context"

	domain "github.com/andrescamacho/quoteflow-go/internal/domain/quote"
)

// maxSaveAttempts bounds the load-mutate-save retries on optimistic-lock
// conflicts. Domain and validation errors are never retried.
const maxSaveAttempts = 3

// withConcurrencyRetry re-runs op with freshly loaded state while it keeps
// losing the optimistic-concurrency race, up to maxSaveAttempts times.
// The final conflict is surfaced to the caller.
func withConcurrencyRetry(ctx context.Context, op func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		err = op(ctx)
		if err == nil || !domain.IsKind(err, domain.KindConcurrentModification) {
			return err
		}
	}
	return err
}
