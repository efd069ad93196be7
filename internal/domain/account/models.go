package account

import (
	"errors"
	"strings"
	"time"

	"fintrack/internal/domain/item"

	"github.com/shopspring/decimal"
)

var (
	// Types counted towards assets and liabilities in net worth.
	assetTypes = map[string]struct{}{
		"depository": {},
		"investment": {},
		"brokerage":  {},
	}
	liabilityTypes = map[string]struct{}{
		"credit": {},
		"loan":   {},
	}
)

// Domain errors
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidName     = errors.New("name is required")
	ErrInvalidInput    = errors.New("invalid input")
)

// Balances is the provider-reported balance block of an account.
type Balances struct {
	Current         decimal.NullDecimal
	Available       decimal.NullDecimal
	Limit           decimal.NullDecimal
	IsoCurrencyCode *string
}

// Account mirrors one provider account under an item.
type Account struct {
	ID               string              `json:"id"`
	ItemID           string              `json:"item_id"`
	Name             string              `json:"name"`
	OfficialName     *string             `json:"official_name"`
	Type             string              `json:"type"`
	Subtype          *string             `json:"subtype"`
	Mask             *string             `json:"mask"`
	CurrentBalance   decimal.NullDecimal `json:"current_balance"`
	AvailableBalance decimal.NullDecimal `json:"available_balance"`
	CreditLimit      decimal.NullDecimal `json:"credit_limit"`
	IsoCurrencyCode  *string             `json:"iso_currency_code"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// AccountWithInstitution is an account joined with its item's institution (for API responses)
type AccountWithInstitution struct {
	Account
	InstitutionName *string `json:"institution_name"`
}

// ItemWithAccounts is an item with its accounts nested (for API responses)
type ItemWithAccounts struct {
	item.Item
	Accounts []*Account `json:"accounts"`
}

// UpsertParams contains the identity and balance fields mirrored from the provider
type UpsertParams struct {
	ID           string
	ItemID       string
	Name         string
	OfficialName *string
	Type         string
	Subtype      *string
	Mask         *string
	Balances     Balances
}

func (p UpsertParams) Validate() error {
	if p.ID == "" {
		return errors.New("account ID is required for upsert")
	}
	if p.ItemID == "" {
		return errors.New("item ID is required for upsert")
	}
	return nil
}

// IsAssetType reports whether balances of this account type count as assets.
func IsAssetType(t string) bool {
	_, ok := assetTypes[strings.ToLower(t)]
	return ok
}

// IsLiabilityType reports whether balances of this account type count as liabilities.
func IsLiabilityType(t string) bool {
	_, ok := liabilityTypes[strings.ToLower(t)]
	return ok
}
