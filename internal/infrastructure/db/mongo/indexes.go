package mongo

import (
	"context"
	"fmt"
	"time"
)

const indexTimeout = 30 * time.Second

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// EnsureIndexes creates the indexes of every repository. Unique indexes are
// what keep emails, usernames, position names and grants unique under
// concurrent writers.
func EnsureIndexes(ctx context.Context, repos ...indexer) error {
	for _, r := range repos {
		if err := r.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure indexes (%T): %w", r, err)
		}
	}
	return nil
}
