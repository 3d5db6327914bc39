package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/clearview-aqi/dashboard/internal/dependencies/mocks"
	"github.com/clearview-aqi/dashboard/internal/services/auth"
	"github.com/clearview-aqi/dashboard/internal/services/credentials"
	"github.com/clearview-aqi/dashboard/internal/storage/memory"
	"github.com/clearview-aqi/dashboard/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
// Passwords are hashed at bcrypt's minimum cost to keep tests fast
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, store, mockClock, mockRandom, credentials.NewBcryptHasher(bcrypt.MinCost), auth.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
