package liability

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Liability kinds reported by the provider
const (
	TypeCredit   = "credit"
	TypeMortgage = "mortgage"
	TypeStudent  = "student"
)

// Liability holds debt details for one account. Dates are YYYY-MM-DD.
type Liability struct {
	AccountID            string              `json:"account_id"`
	Type                 string              `json:"type"`
	APR                  decimal.NullDecimal `json:"apr"`
	MinimumPayment       decimal.NullDecimal `json:"minimum_payment"`
	NextPaymentDueDate   *string             `json:"next_payment_due_date"`
	LastStatementBalance decimal.NullDecimal `json:"last_statement_balance"`
	LastStatementDate    *string             `json:"last_statement_date"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// LiabilityWithAccount is a liability joined with its account and institution (for API responses)
type LiabilityWithAccount struct {
	Liability
	AccountName     *string             `json:"account_name"`
	CurrentBalance  decimal.NullDecimal `json:"current_balance"`
	InstitutionName *string             `json:"institution_name"`
}

type UpsertParams struct {
	AccountID            string
	Type                 string
	APR                  decimal.NullDecimal
	MinimumPayment       decimal.NullDecimal
	NextPaymentDueDate   *string
	LastStatementBalance decimal.NullDecimal
	LastStatementDate    *string
}

func (p UpsertParams) Validate() error {
	if p.AccountID == "" {
		return errors.New("account ID is required")
	}
	switch p.Type {
	case TypeCredit, TypeMortgage, TypeStudent:
		return nil
	default:
		return errors.New("invalid liability type")
	}
}
