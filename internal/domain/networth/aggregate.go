package networth

import (
	"fintrack/internal/domain/account"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeTotals sums asset balances and absolute liability balances.
// Missing balances count as zero; other account types are ignored.
func ComputeTotals(balances []AccountBalance) Totals {
	assets, liabilities := decimal.Zero, decimal.Zero
	for _, b := range balances {
		current := decimal.Zero
		if b.CurrentBalance.Valid {
			current = b.CurrentBalance.Decimal
		}
		switch {
		case account.IsAssetType(b.Type):
			assets = assets.Add(current)
		case account.IsLiabilityType(b.Type):
			liabilities = liabilities.Add(current.Abs())
		}
	}
	return Totals{
		TotalAssets:      assets,
		TotalLiabilities: liabilities,
		NetWorth:         assets.Sub(liabilities),
	}
}

// ComputeChanges compares the first and last snapshot. Fewer than two snapshots yield zeros.
func ComputeChanges(snapshots []*Snapshot) Changes {
	if len(snapshots) < 2 {
		return Changes{
			AssetChange:            decimal.Zero,
			AssetChangePercent:     decimal.Zero,
			LiabilityChange:        decimal.Zero,
			LiabilityChangePercent: decimal.Zero,
			NetWorthChange:         decimal.Zero,
			NetWorthChangePercent:  decimal.Zero,
		}
	}

	first, last := snapshots[0], snapshots[len(snapshots)-1]
	return Changes{
		AssetChange:            last.TotalAssets.Sub(first.TotalAssets),
		AssetChangePercent:     percentChange(first.TotalAssets, last.TotalAssets),
		LiabilityChange:        last.TotalLiabilities.Sub(first.TotalLiabilities),
		LiabilityChangePercent: percentChange(first.TotalLiabilities, last.TotalLiabilities),
		NetWorthChange:         last.NetWorth.Sub(first.NetWorth),
		NetWorthChangePercent:  percentChange(first.NetWorth, last.NetWorth),
	}
}

// percentChange is (last-first)/|first|*100 rounded to two places, or 0 when first is 0.
func percentChange(first, last decimal.Decimal) decimal.Decimal {
	if first.IsZero() {
		return decimal.Zero
	}
	return last.Sub(first).Div(first.Abs()).Mul(hundred).Round(2)
}

// CompositionPoints maps snapshots to trend points in the same order.
func CompositionPoints(snapshots []*Snapshot) []CompositionPoint {
	points := make([]CompositionPoint, 0, len(snapshots))
	for _, s := range snapshots {
		points = append(points, CompositionPoint{
			Date:        s.SnapshotDate,
			Assets:      s.TotalAssets,
			Liabilities: s.TotalLiabilities,
			NetWorth:    s.NetWorth,
		})
	}
	return points
}

// GroupAccountTrends pivots samples (ordered by date ascending) into one row per date.
// Rows appear in order of first occurrence; a later sample for the same date and
// account overwrites the earlier one. Accounts are listed in order of first appearance
// with their most recently observed name and type.
func GroupAccountTrends(samples []BalanceSample) AccountTrends {
	rows := []AccountTrendRow{}
	rowIndex := make(map[string]int)
	accounts := []TrendAccount{}
	accountIndex := make(map[string]int)

	for _, s := range samples {
		idx, ok := rowIndex[s.SnapshotDate]
		if !ok {
			idx = len(rows)
			rowIndex[s.SnapshotDate] = idx
			rows = append(rows, AccountTrendRow{
				Date:     s.SnapshotDate,
				Balances: make(map[string]decimal.NullDecimal),
			})
		}
		rows[idx].Balances[s.AccountID] = s.Balance

		ta := TrendAccount{ID: s.AccountID, Name: deref(s.AccountName), Type: deref(s.AccountType)}
		if ai, seen := accountIndex[s.AccountID]; seen {
			accounts[ai] = ta
		} else {
			accountIndex[s.AccountID] = len(accounts)
			accounts = append(accounts, ta)
		}
	}

	return AccountTrends{Data: rows, Accounts: accounts}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
