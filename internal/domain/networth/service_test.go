package networth

import (
	"context"
	"errors"
	"testing"
	"time"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	ListAccountBalancesFunc func(ctx context.Context) ([]AccountBalance, error)
	CreateSnapshotFunc      func(ctx context.Context, date string, totals Totals, balances []AccountBalance) (*Snapshot, error)
	ListSnapshotsFunc       func(ctx context.Context, r DateRange) ([]*Snapshot, error)
	ListBalanceSamplesFunc  func(ctx context.Context, r DateRange, accountID string) ([]BalanceSample, error)
}

func (m *MockRepository) ListAccountBalances(ctx context.Context) ([]AccountBalance, error) {
	if m.ListAccountBalancesFunc != nil {
		return m.ListAccountBalancesFunc(ctx)
	}
	return nil, nil
}

func (m *MockRepository) CreateSnapshot(ctx context.Context, date string, totals Totals, balances []AccountBalance) (*Snapshot, error) {
	if m.CreateSnapshotFunc != nil {
		return m.CreateSnapshotFunc(ctx, date, totals, balances)
	}
	return &Snapshot{}, nil
}

func (m *MockRepository) ListSnapshots(ctx context.Context, r DateRange) ([]*Snapshot, error) {
	if m.ListSnapshotsFunc != nil {
		return m.ListSnapshotsFunc(ctx, r)
	}
	return nil, nil
}

func (m *MockRepository) ListBalanceSamples(ctx context.Context, r DateRange, accountID string) ([]BalanceSample, error) {
	if m.ListBalanceSamplesFunc != nil {
		return m.ListBalanceSamplesFunc(ctx, r, accountID)
	}
	return nil, nil
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return tm
}

func newTestService(t *testing.T, repo Repository, today string) *Service {
	svc := NewService(repo)
	now := mustDate(t, today)
	svc.now = func() time.Time { return now }
	return svc
}

func TestSaveSnapshot(t *testing.T) {
	balances := []AccountBalance{
		{AccountID: "chk", Name: "Checking", Type: "depository", CurrentBalance: nd("1000")},
		{AccountID: "cc", Name: "Card", Type: "credit", CurrentBalance: nd("-250")},
	}

	var gotDate string
	var gotTotals Totals
	var gotBalances []AccountBalance
	repo := &MockRepository{
		ListAccountBalancesFunc: func(ctx context.Context) ([]AccountBalance, error) {
			return balances, nil
		},
		CreateSnapshotFunc: func(ctx context.Context, date string, totals Totals, b []AccountBalance) (*Snapshot, error) {
			gotDate, gotTotals, gotBalances = date, totals, b
			return &Snapshot{ID: 1, SnapshotDate: date, TotalAssets: totals.TotalAssets, TotalLiabilities: totals.TotalLiabilities, NetWorth: totals.NetWorth}, nil
		},
	}

	snap, err := newTestService(t, repo, "2024-06-30").SaveSnapshot(context.Background())
	if err != nil {
		t.Fatalf("SaveSnapshot() error: %v", err)
	}
	if gotDate != "2024-06-30" {
		t.Errorf("snapshot date = %s, want 2024-06-30", gotDate)
	}
	if !gotTotals.NetWorth.Equal(d("750")) {
		t.Errorf("net worth = %s, want 750", gotTotals.NetWorth)
	}
	if len(gotBalances) != 2 {
		t.Errorf("balance rows = %d, want 2", len(gotBalances))
	}
	if !snap.TotalLiabilities.Equal(d("250")) {
		t.Errorf("liabilities = %s, want 250", snap.TotalLiabilities)
	}
}

func TestSaveSnapshot_RepoError(t *testing.T) {
	repoErr := errors.New("db down")
	repo := &MockRepository{
		ListAccountBalancesFunc: func(ctx context.Context) ([]AccountBalance, error) {
			return nil, repoErr
		},
	}

	_, err := NewService(repo).SaveSnapshot(context.Background())
	if !errors.Is(err, repoErr) {
		t.Errorf("error = %v, want wrapped %v", err, repoErr)
	}
}

func TestHistory(t *testing.T) {
	var gotRange DateRange
	repo := &MockRepository{
		ListSnapshotsFunc: func(ctx context.Context, r DateRange) ([]*Snapshot, error) {
			gotRange = r
			return nil, nil
		},
	}
	svc := newTestService(t, repo, "2024-04-30")

	got, err := svc.History(context.Background(), DefaultHistoryDays)
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if gotRange.StartDate != "2024-01-31" || gotRange.EndDate != "" {
		t.Errorf("range = %+v, want start 2024-01-31", gotRange)
	}
	if got == nil {
		t.Error("History() should return an empty slice, not nil")
	}

	if _, err := svc.History(context.Background(), -1); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("negative days error = %v, want %v", err, ErrInvalidRange)
	}
}

func TestCompositionTrends(t *testing.T) {
	var gotRange DateRange
	repo := &MockRepository{
		ListSnapshotsFunc: func(ctx context.Context, r DateRange) ([]*Snapshot, error) {
			gotRange = r
			return []*Snapshot{
				{SnapshotDate: "2024-01-01", TotalAssets: d("100"), TotalLiabilities: d("50"), NetWorth: d("50")},
				{SnapshotDate: "2024-02-01", TotalAssets: d("150"), TotalLiabilities: d("40"), NetWorth: d("110")},
			}, nil
		},
	}

	trend, err := newTestService(t, repo, "2024-02-10").CompositionTrends(context.Background(), DateFilter{Days: 10})
	if err != nil {
		t.Fatalf("CompositionTrends() error: %v", err)
	}
	if gotRange.StartDate != "2024-01-31" {
		t.Errorf("start = %s, want 2024-01-31", gotRange.StartDate)
	}
	if len(trend.Data) != 2 || trend.Data[1].Date != "2024-02-01" || !trend.Data[1].NetWorth.Equal(d("110")) {
		t.Errorf("data = %+v", trend.Data)
	}
	if !trend.Changes.AssetChangePercent.Equal(d("50")) {
		t.Errorf("asset_change_percent = %s, want 50", trend.Changes.AssetChangePercent)
	}
}

func TestAccountTrends_PassesAccountFilter(t *testing.T) {
	var gotAccount string
	repo := &MockRepository{
		ListBalanceSamplesFunc: func(ctx context.Context, r DateRange, accountID string) ([]BalanceSample, error) {
			gotAccount = accountID
			return []BalanceSample{{SnapshotDate: "2024-01-01", AccountID: accountID, Balance: nd("5")}}, nil
		},
	}

	trends, err := NewService(repo).AccountTrends(context.Background(), "acc-9", DateFilter{})
	if err != nil {
		t.Fatalf("AccountTrends() error: %v", err)
	}
	if gotAccount != "acc-9" {
		t.Errorf("account filter = %q, want acc-9", gotAccount)
	}
	if len(trends.Accounts) != 1 || trends.Accounts[0].ID != "acc-9" {
		t.Errorf("accounts = %+v", trends.Accounts)
	}
}
