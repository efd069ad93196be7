package networth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultHistoryDays = 90
	dateLayout         = "2006-01-02"
)

// Domain errors
var (
	ErrInvalidRange = errors.New("invalid date range")
)

// Totals is a computed net worth figure
type Totals struct {
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	NetWorth         decimal.Decimal `json:"net_worth"`
}

// AccountBalance is the current balance of one account as read for aggregation
type AccountBalance struct {
	AccountID      string
	Name           string
	Type           string
	CurrentBalance decimal.NullDecimal
}

// Snapshot is one persisted net worth record
type Snapshot struct {
	ID               int64           `json:"-"`
	SnapshotDate     string          `json:"snapshot_date"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	NetWorth         decimal.Decimal `json:"net_worth"`
	CreatedAt        time.Time       `json:"-"`
}

// BalanceSample is one account balance captured by a snapshot
type BalanceSample struct {
	SnapshotID   int64
	SnapshotDate string
	AccountID    string
	AccountName  *string
	AccountType  *string
	Balance      decimal.NullDecimal
}

// DateFilter selects snapshots. Explicit dates win over Days; zero values mean unset.
type DateFilter struct {
	StartDate string
	EndDate   string
	Days      int
}

// DateRange is an inclusive snapshot date window. Empty bounds are open.
type DateRange struct {
	StartDate string
	EndDate   string
}

// Resolve turns the filter into a concrete window relative to today.
func (f DateFilter) Resolve(today time.Time) (DateRange, error) {
	for _, d := range []string{f.StartDate, f.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			return DateRange{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidRange, d)
		}
	}
	if f.Days < 0 {
		return DateRange{}, fmt.Errorf("%w: days must not be negative", ErrInvalidRange)
	}

	switch {
	case f.StartDate != "" || f.EndDate != "":
		return DateRange{StartDate: f.StartDate, EndDate: f.EndDate}, nil
	case f.Days > 0:
		return DateRange{StartDate: today.AddDate(0, 0, -f.Days).Format(dateLayout)}, nil
	default:
		return DateRange{}, nil
	}
}

// CompositionPoint is one snapshot in a composition trend
type CompositionPoint struct {
	Date        string          `json:"date"`
	Assets      decimal.Decimal `json:"assets"`
	Liabilities decimal.Decimal `json:"liabilities"`
	NetWorth    decimal.Decimal `json:"net_worth"`
}

// Changes compares the first and last snapshot of a window
type Changes struct {
	AssetChange            decimal.Decimal `json:"asset_change"`
	AssetChangePercent     decimal.Decimal `json:"asset_change_percent"`
	LiabilityChange        decimal.Decimal `json:"liability_change"`
	LiabilityChangePercent decimal.Decimal `json:"liability_change_percent"`
	NetWorthChange         decimal.Decimal `json:"net_worth_change"`
	NetWorthChangePercent  decimal.Decimal `json:"net_worth_change_percent"`
}

type CompositionTrend struct {
	Data    []CompositionPoint `json:"data"`
	Changes Changes            `json:"changes"`
}

// TrendAccount describes an account that appears in an account trend
type TrendAccount struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// AccountTrendRow is one date with a balance per account id.
// It encodes as a flat object: {"date": ..., "<account id>": balance, ...}.
type AccountTrendRow struct {
	Date     string
	Balances map[string]decimal.NullDecimal
}

func (r AccountTrendRow) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Balances)+1)
	for id, balance := range r.Balances {
		out[id] = balance
	}
	out["date"] = r.Date
	return json.Marshal(out)
}

type AccountTrends struct {
	Data     []AccountTrendRow `json:"data"`
	Accounts []TrendAccount    `json:"accounts"`
}
