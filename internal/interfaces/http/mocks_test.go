package http

import (
	"context"

	"fintrack/internal/domain/account"
	"fintrack/internal/domain/item"
	"fintrack/internal/domain/liability"
	"fintrack/internal/domain/networth"
	"fintrack/internal/domain/plaid"
	"fintrack/internal/domain/transaction"
)

type MockLinker struct {
	CreateLinkTokenFunc     func(ctx context.Context) (string, error)
	ExchangePublicTokenFunc func(ctx context.Context, publicToken string, inst *plaid.Institution) (*item.Item, error)
	RemoveItemFunc          func(ctx context.Context, itemID string) error
}

func (m *MockLinker) CreateLinkToken(ctx context.Context) (string, error) {
	if m.CreateLinkTokenFunc != nil {
		return m.CreateLinkTokenFunc(ctx)
	}
	return "", nil
}

func (m *MockLinker) ExchangePublicToken(ctx context.Context, publicToken string, inst *plaid.Institution) (*item.Item, error) {
	if m.ExchangePublicTokenFunc != nil {
		return m.ExchangePublicTokenFunc(ctx, publicToken, inst)
	}
	return &item.Item{}, nil
}

func (m *MockLinker) RemoveItem(ctx context.Context, itemID string) error {
	if m.RemoveItemFunc != nil {
		return m.RemoveItemFunc(ctx, itemID)
	}
	return nil
}

type MockQueue struct {
	Queued []string
	Full   bool
}

func (m *MockQueue) EnqueueItemSync(itemID string) bool {
	if m.Full {
		return false
	}
	m.Queued = append(m.Queued, itemID)
	return true
}

type MockSyncer struct {
	SyncAllFunc func(ctx context.Context) (*plaid.SyncReport, error)
}

func (m *MockSyncer) SyncAll(ctx context.Context) (*plaid.SyncReport, error) {
	if m.SyncAllFunc != nil {
		return m.SyncAllFunc(ctx)
	}
	return &plaid.SyncReport{}, nil
}

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

type MockAccountService struct {
	ListItemsFunc     func(ctx context.Context) ([]*account.ItemWithAccounts, error)
	ListAccountsFunc  func(ctx context.Context) ([]*account.AccountWithInstitution, error)
	RenameAccountFunc func(ctx context.Context, id, name string) (*account.Account, error)
}

func (m *MockAccountService) ListItems(ctx context.Context) ([]*account.ItemWithAccounts, error) {
	if m.ListItemsFunc != nil {
		return m.ListItemsFunc(ctx)
	}
	return []*account.ItemWithAccounts{}, nil
}

func (m *MockAccountService) ListAccounts(ctx context.Context) ([]*account.AccountWithInstitution, error) {
	if m.ListAccountsFunc != nil {
		return m.ListAccountsFunc(ctx)
	}
	return nil, nil
}

func (m *MockAccountService) RenameAccount(ctx context.Context, id, name string) (*account.Account, error) {
	if m.RenameAccountFunc != nil {
		return m.RenameAccountFunc(ctx, id, name)
	}
	return &account.Account{ID: id, Name: name}, nil
}

type MockLiabilityService struct {
	ListFunc func(ctx context.Context) ([]*liability.LiabilityWithAccount, error)
}

func (m *MockLiabilityService) List(ctx context.Context) ([]*liability.LiabilityWithAccount, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*liability.LiabilityWithAccount{}, nil
}

type MockTransactionService struct {
	ListFunc               func(ctx context.Context, filter transaction.Filter) (*transaction.Page, error)
	SpendingByCategoryFunc func(ctx context.Context, r transaction.DateRange) ([]transaction.CategoryTotal, error)
	IncomeFunc             func(ctx context.Context, r transaction.DateRange) (*transaction.Income, error)
}

func (m *MockTransactionService) List(ctx context.Context, filter transaction.Filter) (*transaction.Page, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return &transaction.Page{}, nil
}

func (m *MockTransactionService) SpendingByCategory(ctx context.Context, r transaction.DateRange) ([]transaction.CategoryTotal, error) {
	if m.SpendingByCategoryFunc != nil {
		return m.SpendingByCategoryFunc(ctx, r)
	}
	return []transaction.CategoryTotal{}, nil
}

func (m *MockTransactionService) Income(ctx context.Context, r transaction.DateRange) (*transaction.Income, error) {
	if m.IncomeFunc != nil {
		return m.IncomeFunc(ctx, r)
	}
	return &transaction.Income{}, nil
}

type MockNetWorthService struct {
	CalculateFunc         func(ctx context.Context) (networth.Totals, error)
	SaveSnapshotFunc      func(ctx context.Context) (*networth.Snapshot, error)
	HistoryFunc           func(ctx context.Context, days int) ([]*networth.Snapshot, error)
	CompositionTrendsFunc func(ctx context.Context, filter networth.DateFilter) (*networth.CompositionTrend, error)
	AccountTrendsFunc     func(ctx context.Context, accountID string, filter networth.DateFilter) (*networth.AccountTrends, error)
}

func (m *MockNetWorthService) Calculate(ctx context.Context) (networth.Totals, error) {
	if m.CalculateFunc != nil {
		return m.CalculateFunc(ctx)
	}
	return networth.Totals{}, nil
}

func (m *MockNetWorthService) SaveSnapshot(ctx context.Context) (*networth.Snapshot, error) {
	if m.SaveSnapshotFunc != nil {
		return m.SaveSnapshotFunc(ctx)
	}
	return &networth.Snapshot{}, nil
}

func (m *MockNetWorthService) History(ctx context.Context, days int) ([]*networth.Snapshot, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, days)
	}
	return []*networth.Snapshot{}, nil
}

func (m *MockNetWorthService) CompositionTrends(ctx context.Context, filter networth.DateFilter) (*networth.CompositionTrend, error) {
	if m.CompositionTrendsFunc != nil {
		return m.CompositionTrendsFunc(ctx, filter)
	}
	return &networth.CompositionTrend{}, nil
}

func (m *MockNetWorthService) AccountTrends(ctx context.Context, accountID string, filter networth.DateFilter) (*networth.AccountTrends, error) {
	if m.AccountTrendsFunc != nil {
		return m.AccountTrendsFunc(ctx, accountID, filter)
	}
	return &networth.AccountTrends{}, nil
}

type MockPinger struct {
	Err error
}

func (m *MockPinger) PingContext(ctx context.Context) error {
	return m.Err
}
