// Package results provides a bounded, expiring store of recent
// classification results so the display layer can link back to a
// prediction without re-running inference.
package results

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/maypok86/otter/v2"
	"github.com/najmahf/spicelink/sdk/spice"
)

// Result is one stored classification outcome.
type Result struct {
	ID          uuid.UUID
	Model       string
	Prediction  spice.Prediction
	Description string
	CreatedDate time.Time
}

// Store keeps recent results keyed by id. Entries expire after the
// configured time to live and the store is bounded in size.
type Store struct {
	db *otter.Cache[string, Result]
}

// NewStore constructs the store for use. maxEntries defaults to 100
// and timeToLive to 15 minutes when zero values are provided.
func NewStore(maxEntries int, timeToLive time.Duration) (*Store, error) {
	if maxEntries <= 0 {
		maxEntries = 100
	}

	if timeToLive <= 0 {
		timeToLive = 15 * time.Minute
	}

	opt := otter.Options[string, Result]{
		MaximumSize:      maxEntries,
		ExpiryCalculator: otter.ExpiryWriting[string, Result](timeToLive),
	}

	cache, err := otter.New(&opt)
	if err != nil {
		return nil, fmt.Errorf("constructing cache: %w", err)
	}

	return &Store{db: cache}, nil
}

// Add stores a new result and returns it with its assigned id.
func (s *Store) Add(model string, prediction spice.Prediction, description string) Result {
	r := Result{
		ID:          uuid.New(),
		Model:       model,
		Prediction:  prediction,
		Description: description,
		CreatedDate: time.Now(),
	}

	s.db.Set(r.ID.String(), r)

	return r
}

// Retrieve returns the result for the specified id.
func (s *Store) Retrieve(id uuid.UUID) (Result, error) {
	r, found := s.db.GetIfPresent(id.String())
	if !found {
		return Result{}, fmt.Errorf("result %q not found", id)
	}

	return r, nil
}
