package mocks

import (
	"fmt"
	"sync"

	"github.com/clearview-aqi/dashboard/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
// Queued values are returned in order; once a queue is drained Token
// falls back to a numbered token so sessions stay distinct
type MockRandom struct {
	mu sync.Mutex

	tokens []string
	issued int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Token returns the next queued token, or "token-N" when none remain
func (r *MockRandom) Token() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.issued++
	if len(r.tokens) == 0 {
		return fmt.Sprintf("token-%d", r.issued)
	}
	result := r.tokens[0]
	r.tokens = r.tokens[1:]
	return result
}

// QueueToken adds values to the Token result queue
func (r *MockRandom) QueueToken(values ...string) {
	r.mu.Lock()
	r.tokens = append(r.tokens, values...)
	r.mu.Unlock()
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	r.tokens = nil
	r.issued = 0
	r.mu.Unlock()
}
