package plaid

import (
	"github.com/shopspring/decimal"
)

// LinkTokenRequest scopes a link token to one user session.
// An empty RedirectURI is left out of the request body.
type LinkTokenRequest struct {
	ClientUserID string
	RedirectURI  string
}

type LinkTokenResponse struct {
	LinkToken  string `json:"link_token"`
	Expiration string `json:"expiration"`
	RequestID  string `json:"request_id"`
}

type ExchangeResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
	RequestID   string `json:"request_id"`
}

// Balances as reported for one account. Any field may be null.
type Balances struct {
	Available       decimal.NullDecimal `json:"available"`
	Current         decimal.NullDecimal `json:"current"`
	Limit           decimal.NullDecimal `json:"limit"`
	IsoCurrencyCode *string             `json:"iso_currency_code"`
}

type Account struct {
	AccountID    string   `json:"account_id"`
	Balances     Balances `json:"balances"`
	Mask         *string  `json:"mask"`
	Name         string   `json:"name"`
	OfficialName *string  `json:"official_name"`
	Type         string   `json:"type"`
	Subtype      *string  `json:"subtype"`
}

type ItemInfo struct {
	ItemID        string  `json:"item_id"`
	InstitutionID *string `json:"institution_id"`
}

// AccountsResponse is returned by both /accounts/get and /accounts/balance/get
type AccountsResponse struct {
	Accounts  []Account `json:"accounts"`
	Item      ItemInfo  `json:"item"`
	RequestID string    `json:"request_id"`
}

type PersonalFinanceCategory struct {
	Primary  string `json:"primary"`
	Detailed string `json:"detailed"`
}

// Transaction is an added or modified record in a sync page.
// Positive amounts are money leaving the account.
type Transaction struct {
	TransactionID           string                   `json:"transaction_id"`
	AccountID               string                   `json:"account_id"`
	Amount                  decimal.Decimal          `json:"amount"`
	Date                    string                   `json:"date"`
	Name                    string                   `json:"name"`
	MerchantName            *string                  `json:"merchant_name"`
	Category                []string                 `json:"category"`
	PersonalFinanceCategory *PersonalFinanceCategory `json:"personal_finance_category"`
	Pending                 bool                     `json:"pending"`
	IsoCurrencyCode         *string                  `json:"iso_currency_code"`
}

type RemovedTransaction struct {
	TransactionID string `json:"transaction_id"`
}

// TransactionsSyncResponse is one page of the incremental transaction feed
type TransactionsSyncResponse struct {
	Added      []Transaction        `json:"added"`
	Modified   []Transaction        `json:"modified"`
	Removed    []RemovedTransaction `json:"removed"`
	NextCursor string               `json:"next_cursor"`
	HasMore    bool                 `json:"has_more"`
	RequestID  string               `json:"request_id"`
}

type APR struct {
	APRPercentage decimal.NullDecimal `json:"apr_percentage"`
	APRType       string              `json:"apr_type"`
}

type CreditLiability struct {
	AccountID              *string             `json:"account_id"`
	APRs                   []APR               `json:"aprs"`
	MinimumPaymentAmount   decimal.NullDecimal `json:"minimum_payment_amount"`
	NextPaymentDueDate     *string             `json:"next_payment_due_date"`
	LastStatementBalance   decimal.NullDecimal `json:"last_statement_balance"`
	LastStatementIssueDate *string             `json:"last_statement_issue_date"`
}

type InterestRate struct {
	Percentage decimal.NullDecimal `json:"percentage"`
	Type       *string             `json:"type"`
}

type MortgageLiability struct {
	AccountID          *string             `json:"account_id"`
	InterestRate       InterestRate        `json:"interest_rate"`
	NextMonthlyPayment decimal.NullDecimal `json:"next_monthly_payment"`
	NextPaymentDueDate *string             `json:"next_payment_due_date"`
}

type StudentLoanLiability struct {
	AccountID              *string             `json:"account_id"`
	InterestRatePercentage decimal.NullDecimal `json:"interest_rate_percentage"`
	MinimumPaymentAmount   decimal.NullDecimal `json:"minimum_payment_amount"`
	NextPaymentDueDate     *string             `json:"next_payment_due_date"`
	LastStatementBalance   decimal.NullDecimal `json:"last_statement_balance"`
	LastStatementIssueDate *string             `json:"last_statement_issue_date"`
}

type Liabilities struct {
	Credit   []CreditLiability      `json:"credit"`
	Mortgage []MortgageLiability    `json:"mortgage"`
	Student  []StudentLoanLiability `json:"student"`
}

type LiabilitiesResponse struct {
	Accounts    []Account   `json:"accounts"`
	Liabilities Liabilities `json:"liabilities"`
	RequestID   string      `json:"request_id"`
}
