package transaction

import (
	"context"

	"github.com/shopspring/decimal"
)

// Service serves the transaction query endpoints
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a filtered page. Total ignores limit and offset.
func (s *Service) List(ctx context.Context, filter Filter) (*Page, error) {
	f, err := filter.Normalize()
	if err != nil {
		return nil, err
	}

	rows, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*TransactionWithAccount{}
	}

	return &Page{Transactions: rows, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

func (s *Service) SpendingByCategory(ctx context.Context, r DateRange) ([]CategoryTotal, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	totals, err := s.repo.SpendingByCategory(ctx, r)
	if err != nil {
		return nil, err
	}
	if totals == nil {
		totals = []CategoryTotal{}
	}
	return totals, nil
}

// Income returns settled inflows with the sum of their absolute amounts.
func (s *Service) Income(ctx context.Context, r DateRange) (*Income, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListIncome(ctx, r)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Amount.Abs())
	}
	if rows == nil {
		rows = []*IncomeItem{}
	}
	return &Income{Transactions: rows, Total: total}, nil
}
