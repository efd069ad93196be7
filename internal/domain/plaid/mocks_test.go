package plaid

import (
	"context"
	"sync"

	"fintrack/internal/domain/account"
	"fintrack/internal/domain/item"
	"fintrack/internal/domain/liability"
	"fintrack/internal/domain/transaction"
	plaidclient "fintrack/internal/infrastructure/plaid"
)

type MockClient struct {
	CreateLinkTokenFunc     func(ctx context.Context, req plaidclient.LinkTokenRequest) (*plaidclient.LinkTokenResponse, error)
	ExchangePublicTokenFunc func(ctx context.Context, publicToken string) (*plaidclient.ExchangeResponse, error)
	GetAccountsFunc         func(ctx context.Context, accessToken string) (*plaidclient.AccountsResponse, error)
	GetBalancesFunc         func(ctx context.Context, accessToken string) (*plaidclient.AccountsResponse, error)
	SyncTransactionsFunc    func(ctx context.Context, accessToken, cursor string) (*plaidclient.TransactionsSyncResponse, error)
	GetLiabilitiesFunc      func(ctx context.Context, accessToken string) (*plaidclient.LiabilitiesResponse, error)
	RemoveItemFunc          func(ctx context.Context, accessToken string) error
}

func (m *MockClient) CreateLinkToken(ctx context.Context, req plaidclient.LinkTokenRequest) (*plaidclient.LinkTokenResponse, error) {
	if m.CreateLinkTokenFunc != nil {
		return m.CreateLinkTokenFunc(ctx, req)
	}
	return &plaidclient.LinkTokenResponse{}, nil
}

func (m *MockClient) ExchangePublicToken(ctx context.Context, publicToken string) (*plaidclient.ExchangeResponse, error) {
	if m.ExchangePublicTokenFunc != nil {
		return m.ExchangePublicTokenFunc(ctx, publicToken)
	}
	return &plaidclient.ExchangeResponse{}, nil
}

func (m *MockClient) GetAccounts(ctx context.Context, accessToken string) (*plaidclient.AccountsResponse, error) {
	if m.GetAccountsFunc != nil {
		return m.GetAccountsFunc(ctx, accessToken)
	}
	return &plaidclient.AccountsResponse{}, nil
}

func (m *MockClient) GetBalances(ctx context.Context, accessToken string) (*plaidclient.AccountsResponse, error) {
	if m.GetBalancesFunc != nil {
		return m.GetBalancesFunc(ctx, accessToken)
	}
	return &plaidclient.AccountsResponse{}, nil
}

func (m *MockClient) SyncTransactions(ctx context.Context, accessToken, cursor string) (*plaidclient.TransactionsSyncResponse, error) {
	if m.SyncTransactionsFunc != nil {
		return m.SyncTransactionsFunc(ctx, accessToken, cursor)
	}
	return &plaidclient.TransactionsSyncResponse{}, nil
}

func (m *MockClient) GetLiabilities(ctx context.Context, accessToken string) (*plaidclient.LiabilitiesResponse, error) {
	if m.GetLiabilitiesFunc != nil {
		return m.GetLiabilitiesFunc(ctx, accessToken)
	}
	return &plaidclient.LiabilitiesResponse{}, nil
}

func (m *MockClient) RemoveItem(ctx context.Context, accessToken string) error {
	if m.RemoveItemFunc != nil {
		return m.RemoveItemFunc(ctx, accessToken)
	}
	return nil
}

type MockItemRepository struct {
	CreateFunc       func(ctx context.Context, params item.CreateParams) (*item.Item, error)
	GetByIDFunc      func(ctx context.Context, id string) (*item.Item, error)
	ListFunc         func(ctx context.Context) ([]*item.Item, error)
	UpdateCursorFunc func(ctx context.Context, id, cursor string) error
	DeleteFunc       func(ctx context.Context, id string) error
}

func (m *MockItemRepository) Create(ctx context.Context, params item.CreateParams) (*item.Item, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return &item.Item{ID: params.ID, AccessToken: params.AccessToken}, nil
}

func (m *MockItemRepository) GetByID(ctx context.Context, id string) (*item.Item, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockItemRepository) List(ctx context.Context) ([]*item.Item, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockItemRepository) UpdateCursor(ctx context.Context, id, cursor string) error {
	if m.UpdateCursorFunc != nil {
		return m.UpdateCursorFunc(ctx, id, cursor)
	}
	return nil
}

func (m *MockItemRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type MockAccountRepository struct {
	UpsertFunc         func(ctx context.Context, params account.UpsertParams) error
	UpdateBalancesFunc func(ctx context.Context, id string, balances account.Balances) (bool, error)
}

func (m *MockAccountRepository) Upsert(ctx context.Context, params account.UpsertParams) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, params)
	}
	return nil
}

func (m *MockAccountRepository) UpdateBalances(ctx context.Context, id string, balances account.Balances) (bool, error) {
	if m.UpdateBalancesFunc != nil {
		return m.UpdateBalancesFunc(ctx, id, balances)
	}
	return true, nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	return nil, nil
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*account.AccountWithInstitution, error) {
	return nil, nil
}

func (m *MockAccountRepository) ListByItemID(ctx context.Context, itemID string) ([]*account.Account, error) {
	return nil, nil
}

func (m *MockAccountRepository) UpdateName(ctx context.Context, id, name string) (*account.Account, error) {
	return nil, nil
}

type MockLiabilityRepository struct {
	UpsertFunc func(ctx context.Context, params liability.UpsertParams) error
}

func (m *MockLiabilityRepository) Upsert(ctx context.Context, params liability.UpsertParams) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, params)
	}
	return nil
}

func (m *MockLiabilityRepository) List(ctx context.Context) ([]*liability.LiabilityWithAccount, error) {
	return nil, nil
}

// memoryTransactions is a transaction store keyed by id, safe for concurrent syncs.
type memoryTransactions struct {
	mu        sync.Mutex
	rows      map[string]transaction.UpsertParams
	UpsertErr error
}

func newMemoryTransactions() *memoryTransactions {
	return &memoryTransactions{rows: map[string]transaction.UpsertParams{}}
}

func (m *memoryTransactions) Upsert(ctx context.Context, params transaction.UpsertParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.rows[params.ID] = params
	return nil
}

func (m *memoryTransactions) Modify(ctx context.Context, id string, params transaction.ModifyParams) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return 0, nil
	}
	row.Amount = params.Amount
	row.Name = params.Name
	row.MerchantName = params.MerchantName
	row.Category = params.Category
	row.Pending = params.Pending
	m.rows[id] = row
	return 1, nil
}

func (m *memoryTransactions) Delete(ctx context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return 0, nil
	}
	delete(m.rows, id)
	return 1, nil
}

func (m *memoryTransactions) get(id string) (transaction.UpsertParams, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	return row, ok
}

func (m *memoryTransactions) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *memoryTransactions) List(ctx context.Context, filter transaction.Filter) ([]*transaction.TransactionWithAccount, int, error) {
	return nil, 0, nil
}

func (m *memoryTransactions) SpendingByCategory(ctx context.Context, r transaction.DateRange) ([]transaction.CategoryTotal, error) {
	return nil, nil
}

func (m *memoryTransactions) ListIncome(ctx context.Context, r transaction.DateRange) ([]*transaction.IncomeItem, error) {
	return nil, nil
}

// cursorLog records cursor writes per item.
type cursorLog struct {
	mu      sync.Mutex
	cursors map[string][]string
}

func newCursorLog() *cursorLog {
	return &cursorLog{cursors: map[string][]string{}}
}

func (c *cursorLog) update(ctx context.Context, id, cursor string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursors[id] = append(c.cursors[id], cursor)
	return nil
}

func (c *cursorLog) get(id string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.cursors[id]...)
}
