package transaction

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultLimit = 100
	dateLayout   = "2006-01-02"
)

// Domain errors
var (
	ErrInvalidFilter = errors.New("invalid filter")
)

// Transaction mirrors one provider transaction. Positive amounts are outflows.
type Transaction struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"account_id"`
	Amount          decimal.Decimal `json:"amount"`
	Date            string          `json:"date"`
	Name            string          `json:"name"`
	MerchantName    *string         `json:"merchant_name"`
	Category        *string         `json:"category"`
	Pending         bool            `json:"pending"`
	IsoCurrencyCode *string         `json:"iso_currency_code"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TransactionWithAccount is a transaction joined with its account and institution (for API responses)
type TransactionWithAccount struct {
	Transaction
	AccountName     *string `json:"account_name"`
	InstitutionName *string `json:"institution_name"`
}

// UpsertParams is used for rows added by the provider
type UpsertParams struct {
	ID              string
	AccountID       string
	Amount          decimal.Decimal
	Date            string
	Name            string
	MerchantName    *string
	Category        *string
	Pending         bool
	IsoCurrencyCode *string
}

func (p UpsertParams) Validate() error {
	if p.ID == "" {
		return errors.New("transaction ID is required")
	}
	if p.AccountID == "" {
		return errors.New("account ID is required")
	}
	if _, err := time.Parse(dateLayout, p.Date); err != nil {
		return fmt.Errorf("invalid transaction date %q", p.Date)
	}
	return nil
}

// ModifyParams holds the fields refreshed when the provider reports a modification
type ModifyParams struct {
	Amount       decimal.Decimal
	Name         string
	MerchantName *string
	Category     *string
	Pending      bool
}

// DateRange bounds queries by transaction date, inclusive. Empty means unbounded.
type DateRange struct {
	StartDate string
	EndDate   string
}

func (r DateRange) Validate() error {
	for _, d := range []string{r.StartDate, r.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			return fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidFilter, d)
		}
	}
	return nil
}

// Filter narrows the transaction listing
type Filter struct {
	DateRange
	AccountID string
	Search    string
	Category  string
	Limit     int
	Offset    int
}

// Normalize applies pagination defaults and validates dates.
func (f Filter) Normalize() (Filter, error) {
	if err := f.DateRange.Validate(); err != nil {
		return f, err
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f, nil
}

// Page is one page of a filtered listing plus the unpaginated match count
type Page struct {
	Transactions []*TransactionWithAccount `json:"transactions"`
	Total        int                       `json:"total"`
	Limit        int                       `json:"limit"`
	Offset       int                       `json:"offset"`
}

// CategoryTotal is the settled outflow for one category
type CategoryTotal struct {
	Category *string         `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// IncomeItem is a settled inflow row
type IncomeItem struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"account_id"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date"`
	Name         string          `json:"name"`
	MerchantName *string         `json:"merchant_name"`
	Category     *string         `json:"category"`
	AccountName  *string         `json:"account_name"`
}

// Income lists settled inflows and their absolute total
type Income struct {
	Transactions []*IncomeItem   `json:"transactions"`
	Total        decimal.Decimal `json:"total"`
}
