package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultBcryptCost is used when the configured cost is zero.
const DefaultBcryptCost = 12

// Hasher hashes and verifies passwords with bcrypt. At most `workers`
// bcrypt operations run at once; callers beyond that wait for a slot or
// for their context to end.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewHasher creates a Hasher. cost below bcrypt.MinCost is raised to
// bcrypt.MinCost and cost zero means DefaultBcryptCost; workers below one
// means one.
func NewHasher(cost, workers int) *Hasher {
	switch {
	case cost == 0:
		cost = DefaultBcryptCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	if workers < 1 {
		workers = 1
	}
	return &Hasher{cost: cost, sem: semaphore.NewWeighted(int64(workers))}
}

// Cost returns the effective bcrypt cost.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns a bcrypt digest of password. The digest embeds the cost and a
// random salt, so hashing the same password twice gives different digests.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches digest. A mismatch or an
// unparsable digest is (false, nil); the error is only set when ctx ends
// while waiting for a worker slot.
func (h *Hasher) Verify(ctx context.Context, password, digest string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)

	if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}
