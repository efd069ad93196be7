package scheduler

import (
	"context"
	"sync/atomic"

	"fintrack/internal/domain/networth"
	"fintrack/internal/domain/plaid"
)

type MockJob struct {
	JobName     string
	ExecuteFunc func(ctx context.Context) error
	runs        atomic.Int32
}

func (m *MockJob) Execute(ctx context.Context) error {
	m.runs.Add(1)
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx)
	}
	return nil
}

func (m *MockJob) Name() string        { return m.JobName }
func (m *MockJob) Description() string { return "mock job " + m.JobName }

type MockTransactionSyncer struct {
	SyncAllFunc      func(ctx context.Context) (*plaid.SyncReport, error)
	SyncItemByIDFunc func(ctx context.Context, itemID string) (plaid.ItemSyncResult, error)
}

func (m *MockTransactionSyncer) SyncAll(ctx context.Context) (*plaid.SyncReport, error) {
	if m.SyncAllFunc != nil {
		return m.SyncAllFunc(ctx)
	}
	return &plaid.SyncReport{}, nil
}

func (m *MockTransactionSyncer) SyncItemByID(ctx context.Context, itemID string) (plaid.ItemSyncResult, error) {
	if m.SyncItemByIDFunc != nil {
		return m.SyncItemByIDFunc(ctx, itemID)
	}
	return plaid.ItemSyncResult{ItemID: itemID}, nil
}

// MockRefresher serves both balance and liability jobs
type MockRefresher struct {
	Func func(ctx context.Context) (*plaid.RefreshReport, error)
}

func (m *MockRefresher) RefreshAll(ctx context.Context) (*plaid.RefreshReport, error) {
	return m.run(ctx)
}

func (m *MockRefresher) SyncAll(ctx context.Context) (*plaid.RefreshReport, error) {
	return m.run(ctx)
}

func (m *MockRefresher) run(ctx context.Context) (*plaid.RefreshReport, error) {
	if m.Func != nil {
		return m.Func(ctx)
	}
	return &plaid.RefreshReport{}, nil
}

type MockSnapshotSaver struct {
	SaveSnapshotFunc func(ctx context.Context) (*networth.Snapshot, error)
}

func (m *MockSnapshotSaver) SaveSnapshot(ctx context.Context) (*networth.Snapshot, error) {
	if m.SaveSnapshotFunc != nil {
		return m.SaveSnapshotFunc(ctx)
	}
	return &networth.Snapshot{SnapshotDate: "2024-05-01"}, nil
}
