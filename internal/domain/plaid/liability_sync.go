package plaid

import (
	"context"
	"fmt"

	"fintrack/internal/domain/item"
	"fintrack/internal/domain/liability"
	plaidclient "fintrack/internal/infrastructure/plaid"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LiabilitySyncService mirrors credit, mortgage and student loan details.
// Each account keeps one liability row that is replaced on every pass.
type LiabilitySyncService struct {
	client      plaidclient.ClientInterface
	items       item.Repository
	liabilities liability.Repository
	concurrency int
}

func NewLiabilitySyncService(client plaidclient.ClientInterface, items item.Repository, liabilities liability.Repository, concurrency int) *LiabilitySyncService {
	return &LiabilitySyncService{client: client, items: items, liabilities: liabilities, concurrency: concurrency}
}

// SyncAll mirrors liabilities for every item. Institutions without liability
// support fail only their own item.
func (s *LiabilitySyncService) SyncAll(ctx context.Context) (*RefreshReport, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	results := forEachItem(ctx, items, s.concurrency, s.syncItem)

	report := &RefreshReport{Items: results}
	zap.L().Info("Liability sync completed",
		zap.Int("items", len(items)),
		zap.Int("failed_items", report.FailedItems()),
	)
	return report, nil
}

func (s *LiabilitySyncService) syncItem(ctx context.Context, it *item.Item) ItemRefreshResult {
	res := newItemRefreshResult(it)

	resp, err := s.client.GetLiabilities(ctx, it.AccessToken)
	if err != nil {
		res.Error = err.Error()
		recordItemFailure(ctx, "liabilities")
		zap.L().Warn("Could not fetch liabilities for item", zap.String("item_id", it.ID), zap.Error(err))
		return res
	}

	for _, params := range liabilityParams(resp.Liabilities) {
		if params.AccountID == "" {
			res.Skipped++
			continue
		}
		if err := s.liabilities.Upsert(ctx, params); err != nil {
			res.Failed++
			zap.L().Warn("Failed to save liability",
				zap.String("item_id", it.ID),
				zap.String("account_id", params.AccountID),
				zap.Error(err),
			)
			continue
		}
		res.Updated++
	}
	return res
}

// liabilityParams flattens the three provider collections. The APR comes from
// the first APR tier for credit and the interest rate for loans.
// Records without an account id are returned with an empty AccountID.
func liabilityParams(l plaidclient.Liabilities) []liability.UpsertParams {
	var out []liability.UpsertParams

	for _, c := range l.Credit {
		var apr decimal.NullDecimal
		if len(c.APRs) > 0 {
			apr = c.APRs[0].APRPercentage
		}
		out = append(out, liability.UpsertParams{
			AccountID:            deref(c.AccountID),
			Type:                 liability.TypeCredit,
			APR:                  apr,
			MinimumPayment:       c.MinimumPaymentAmount,
			NextPaymentDueDate:   c.NextPaymentDueDate,
			LastStatementBalance: c.LastStatementBalance,
			LastStatementDate:    c.LastStatementIssueDate,
		})
	}

	for _, m := range l.Mortgage {
		out = append(out, liability.UpsertParams{
			AccountID:          deref(m.AccountID),
			Type:               liability.TypeMortgage,
			APR:                m.InterestRate.Percentage,
			MinimumPayment:     m.NextMonthlyPayment,
			NextPaymentDueDate: m.NextPaymentDueDate,
		})
	}

	for _, st := range l.Student {
		out = append(out, liability.UpsertParams{
			AccountID:            deref(st.AccountID),
			Type:                 liability.TypeStudent,
			APR:                  st.InterestRatePercentage,
			MinimumPayment:       st.MinimumPaymentAmount,
			NextPaymentDueDate:   st.NextPaymentDueDate,
			LastStatementBalance: st.LastStatementBalance,
			LastStatementDate:    st.LastStatementIssueDate,
		})
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
