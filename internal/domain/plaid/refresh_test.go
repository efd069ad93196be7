package plaid

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/domain/account"
	"fintrack/internal/domain/item"
	"fintrack/internal/domain/liability"
	plaidclient "fintrack/internal/infrastructure/plaid"

	"github.com/shopspring/decimal"
)

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func twoItems() *MockItemRepository {
	return &MockItemRepository{
		ListFunc: func(ctx context.Context) ([]*item.Item, error) {
			return []*item.Item{
				{ID: "item-a", AccessToken: "access-a"},
				{ID: "item-b", AccessToken: "access-b"},
			}, nil
		},
	}
}

func TestRefreshAll(t *testing.T) {
	client := &MockClient{
		GetBalancesFunc: func(ctx context.Context, accessToken string) (*plaidclient.AccountsResponse, error) {
			if accessToken == "access-a" {
				return nil, errors.New("institution down")
			}
			return &plaidclient.AccountsResponse{Accounts: []plaidclient.Account{
				{AccountID: "acc-1", Balances: plaidclient.Balances{Current: nullDec("120.5"), Available: nullDec("100")}},
				{AccountID: "unknown", Balances: plaidclient.Balances{Current: nullDec("1")}},
			}}, nil
		},
	}

	updated := map[string]account.Balances{}
	accounts := &MockAccountRepository{
		UpdateBalancesFunc: func(ctx context.Context, id string, b account.Balances) (bool, error) {
			if id == "unknown" {
				return false, nil
			}
			updated[id] = b
			return true, nil
		},
	}

	svc := NewBalanceSyncService(client, twoItems(), accounts, 1)
	report, err := svc.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("RefreshAll() failed: %v", err)
	}

	if len(report.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(report.Items))
	}
	if report.Items[0].Error == "" {
		t.Error("item-a should report its error")
	}
	b := report.Items[1]
	if b.Updated != 1 || b.Skipped != 1 || b.Error != "" {
		t.Errorf("item-b = %+v, want 1 updated, 1 skipped", b)
	}
	if got := updated["acc-1"]; !got.Current.Decimal.Equal(dec("120.5")) || !got.Available.Decimal.Equal(dec("100")) {
		t.Errorf("acc-1 balances = %+v", got)
	}
	if report.FailedItems() != 1 {
		t.Errorf("FailedItems() = %d, want 1", report.FailedItems())
	}
}

func TestLiabilitySyncAll(t *testing.T) {
	client := &MockClient{
		GetLiabilitiesFunc: func(ctx context.Context, accessToken string) (*plaidclient.LiabilitiesResponse, error) {
			if accessToken == "access-a" {
				return nil, &plaidclient.Error{StatusCode: 400, Code: "PRODUCTS_NOT_SUPPORTED", Message: "not supported"}
			}
			return &plaidclient.LiabilitiesResponse{Liabilities: plaidclient.Liabilities{
				Credit: []plaidclient.CreditLiability{
					{
						AccountID: strPtr("card-1"),
						APRs: []plaidclient.APR{
							{APRPercentage: nullDec("24.99"), APRType: "purchase_apr"},
							{APRPercentage: nullDec("29.99"), APRType: "cash_apr"},
						},
						MinimumPaymentAmount:   nullDec("35"),
						LastStatementIssueDate: strPtr("2024-04-28"),
					},
					{AccountID: nil},
				},
				Mortgage: []plaidclient.MortgageLiability{
					{
						AccountID:          strPtr("mortgage-1"),
						InterestRate:       plaidclient.InterestRate{Percentage: nullDec("3.99")},
						NextMonthlyPayment: nullDec("3141.54"),
						NextPaymentDueDate: strPtr("2024-11-15"),
					},
				},
				Student: []plaidclient.StudentLoanLiability{
					{AccountID: strPtr("student-1"), InterestRatePercentage: nullDec("5.25"), MinimumPaymentAmount: nullDec("25")},
				},
			}}, nil
		},
	}

	saved := map[string]liability.UpsertParams{}
	repo := &MockLiabilityRepository{
		UpsertFunc: func(ctx context.Context, params liability.UpsertParams) error {
			if params.AccountID == "student-1" {
				return errors.New("foreign key violation")
			}
			saved[params.AccountID] = params
			return nil
		},
	}

	svc := NewLiabilitySyncService(client, twoItems(), repo, 1)
	report, err := svc.SyncAll(context.Background())
	if err != nil {
		t.Fatalf("SyncAll() failed: %v", err)
	}

	if report.Items[0].Error == "" {
		t.Error("item-a should report that liabilities are unsupported")
	}
	b := report.Items[1]
	if b.Updated != 2 || b.Skipped != 1 || b.Failed != 1 {
		t.Errorf("item-b = %+v, want 2 updated, 1 skipped, 1 failed", b)
	}

	card := saved["card-1"]
	if card.Type != liability.TypeCredit || !card.APR.Decimal.Equal(dec("24.99")) {
		t.Errorf("card = %+v, want credit with the first APR tier", card)
	}
	if card.LastStatementDate == nil || *card.LastStatementDate != "2024-04-28" {
		t.Errorf("LastStatementDate = %v", card.LastStatementDate)
	}

	mortgage := saved["mortgage-1"]
	if mortgage.Type != liability.TypeMortgage || !mortgage.APR.Decimal.Equal(dec("3.99")) {
		t.Errorf("mortgage = %+v", mortgage)
	}
	if !mortgage.MinimumPayment.Decimal.Equal(dec("3141.54")) {
		t.Errorf("mortgage MinimumPayment = %v, want next monthly payment", mortgage.MinimumPayment)
	}
}

func TestLiabilityParams_CreditWithoutAPRs(t *testing.T) {
	params := liabilityParams(plaidclient.Liabilities{
		Credit: []plaidclient.CreditLiability{{AccountID: strPtr("card-1")}},
	})
	if len(params) != 1 {
		t.Fatalf("params = %d, want 1", len(params))
	}
	if params[0].APR.Valid {
		t.Errorf("APR = %v, want null", params[0].APR)
	}
}
