package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotAcquired means another request currently holds the slot.
var ErrNotAcquired = errors.New("slot lock not acquired")

// SlotLocker serializes booking attempts for one (doctor, timestamp) slot so
// the check-then-create sequence cannot race. The database unique index is
// the authoritative guard; this keeps concurrent callers from ever reaching
// it at the same time.
type SlotLocker interface {
	// Acquire returns a release func on success, or ErrNotAcquired when the
	// slot is held by a concurrent request.
	Acquire(ctx context.Context, doctorID uuid.UUID, at time.Time) (func(), error)
}

// MemoryLocker is an in-process SlotLocker for tests and single-node runs.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}

func (l *MemoryLocker) Acquire(ctx context.Context, doctorID uuid.UUID, at time.Time) (func(), error) {
	key := slotKey(doctorID, at)

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, taken := l.held[key]; taken {
		return nil, ErrNotAcquired
	}
	l.held[key] = struct{}{}

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
	}, nil
}

func slotKey(doctorID uuid.UUID, at time.Time) string {
	return "slotlock:" + doctorID.String() + ":" + at.UTC().Format(time.RFC3339)
}
