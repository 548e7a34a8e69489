package factory

import (
	"time"

	"github.com/mcoot/encounterlog/internal/dependencies/mocks"
	"github.com/mcoot/encounterlog/internal/services/roster"
	"github.com/mcoot/encounterlog/internal/storage/memory"
	"github.com/mcoot/encounterlog/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithRoster(roster.DefaultConfig())
}

// NewTestAppWithRoster creates a test App with the given display defaults
func NewTestAppWithRoster(cfg roster.Config) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	return &TestApp{
		App:       newWithDependencies(store, mockClock, cfg, testutil.NopLogger()),
		MockClock: mockClock,
	}
}
