package iostore

import (
	"context"
	"time"

	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/schema"
	"github.com/stretchr/testify/mock"
)

// MockTrackingManager is a mock implementation of TrackingManager for testing.
type MockTrackingManager struct {
	mock.Mock
}

var _ contract.TrackingManager = &MockTrackingManager{} // Compile-time check

// GetTrackingStore implements the TrackingManager interface.
func (m *MockTrackingManager) GetTrackingStore() contract.TrackingStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.TrackingStore)
	return store
}

// MockTrackingStore is a mock implementation of TrackingStore for testing.
type MockTrackingStore struct {
	mock.Mock
}

var _ contract.TrackingStore = &MockTrackingStore{} // Compile-time check

// RecordRun implements the TrackingStore interface.
func (m *MockTrackingStore) RecordRun(runID string, report *schema.Report) error {
	args := m.Called(runID, report)
	return args.Error(0)
}

// GetAllRuns implements the TrackingStore interface.
func (m *MockTrackingStore) GetAllRuns() ([]schema.TrackingRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.TrackingRunRecord)
	return runs, args.Error(1)
}

// GetSubjectRecords implements the TrackingStore interface.
func (m *MockTrackingStore) GetSubjectRecords() ([]schema.TrackingSubjectRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.TrackingSubjectRecord)
	return records, args.Error(1)
}

// GetStatus implements the TrackingStore interface.
func (m *MockTrackingStore) GetStatus() (schema.TrackingStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.TrackingStatus), args.Error(1)
}

// Close implements the TrackingStore interface.
func (m *MockTrackingStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// Load implements the HistoryStore interface.
func (m *MockHistoryStore) Load() schema.HistoryLoad {
	args := m.Called()
	return args.Get(0).(schema.HistoryLoad)
}

// Append implements the HistoryStore interface.
func (m *MockHistoryStore) Append(ctx context.Context, snapshot schema.HistorySnapshot) ([]schema.HistorySnapshot, error) {
	args := m.Called(ctx, snapshot)
	history, _ := args.Get(0).([]schema.HistorySnapshot)
	return history, args.Error(1)
}

// Save implements the HistoryStore interface.
func (m *MockHistoryStore) Save(ctx context.Context, history []schema.HistorySnapshot) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

// Path implements the HistoryStore interface.
func (m *MockHistoryStore) Path() string {
	args := m.Called()
	return args.String(0)
}

// MockArchiver is a mock implementation of Archiver for testing.
type MockArchiver struct {
	mock.Mock
}

var _ contract.Archiver = &MockArchiver{} // Compile-time check

// Archive implements the Archiver interface.
func (m *MockArchiver) Archive(ctx context.Context, resultsDir string, subjects []schema.ParsedSubject, now time.Time) (string, error) {
	args := m.Called(ctx, resultsDir, subjects, now)
	return args.String(0), args.Error(1)
}
