package checkout

import (
	"sync"
	"time"
)

// defaultTakeoverAfter bounds how long a wedged submission can hold a user's
// checkout. After this, a new attempt may supersede it, and the old attempt's
// late response is discarded by the sequence check.
const defaultTakeoverAfter = 30 * time.Second

type attemptState struct {
	seq       uint64
	startedAt time.Time
}

// attemptTracker enforces one in-flight checkout per user and numbers each
// attempt so a superseded attempt's response can be recognized as stale.
// Sequence numbers come from a single counter, never reused, so a user's
// entry can be dropped once their attempt settles without a wedged older
// attempt later colliding with a fresh one.
type attemptTracker struct {
	mu            sync.Mutex
	lastSeq       uint64
	states        map[string]*attemptState
	takeoverAfter time.Duration
	now           func() time.Time
}

func newAttemptTracker() *attemptTracker {
	return &attemptTracker{
		states:        make(map[string]*attemptState),
		takeoverAfter: defaultTakeoverAfter,
		now:           time.Now,
	}
}

// begin claims the user's checkout. It fails while a recent attempt is still
// in flight, and supersedes one that has been running past the takeover window.
func (t *attemptTracker) begin(userID string) (uint64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if state, ok := t.states[userID]; ok && t.now().Sub(state.startedAt) < t.takeoverAfter {
		return 0, false
	}
	t.lastSeq++
	t.states[userID] = &attemptState{seq: t.lastSeq, startedAt: t.now()}
	return t.lastSeq, true
}

// finish releases the user's checkout if seq is still the current attempt,
// dropping the entry so settled users cost nothing. A superseded attempt's
// finish is a no-op.
func (t *attemptTracker) finish(userID string, seq uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if state, ok := t.states[userID]; ok && state.seq == seq {
		delete(t.states, userID)
	}
}

// isCurrent reports whether seq is still the user's latest attempt.
func (t *attemptTracker) isCurrent(userID string, seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.states[userID]
	return ok && state.seq == seq
}
