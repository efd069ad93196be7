package networth

import (
	"context"
	"fmt"
	"time"
)

// Service computes net worth, records snapshots and builds trends
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Calculate returns the live net worth over current account balances.
func (s *Service) Calculate(ctx context.Context) (Totals, error) {
	balances, err := s.repo.ListAccountBalances(ctx)
	if err != nil {
		return Totals{}, fmt.Errorf("failed to list account balances: %w", err)
	}
	return ComputeTotals(balances), nil
}

// SaveSnapshot records today's net worth and each account's balance.
func (s *Service) SaveSnapshot(ctx context.Context) (*Snapshot, error) {
	balances, err := s.repo.ListAccountBalances(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list account balances: %w", err)
	}

	totals := ComputeTotals(balances)
	snap, err := s.repo.CreateSnapshot(ctx, s.now().Format(dateLayout), totals, balances)
	if err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return snap, nil
}

// History returns snapshots from the last days days, oldest first.
func (s *Service) History(ctx context.Context, days int) ([]*Snapshot, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: days must not be negative", ErrInvalidRange)
	}
	start := s.now().AddDate(0, 0, -days).Format(dateLayout)

	snapshots, err := s.repo.ListSnapshots(ctx, DateRange{StartDate: start})
	if err != nil {
		return nil, err
	}
	if snapshots == nil {
		snapshots = []*Snapshot{}
	}
	return snapshots, nil
}

func (s *Service) CompositionTrends(ctx context.Context, filter DateFilter) (*CompositionTrend, error) {
	r, err := filter.Resolve(s.now())
	if err != nil {
		return nil, err
	}

	snapshots, err := s.repo.ListSnapshots(ctx, r)
	if err != nil {
		return nil, err
	}

	return &CompositionTrend{
		Data:    CompositionPoints(snapshots),
		Changes: ComputeChanges(snapshots),
	}, nil
}

// AccountTrends returns per-account balance series. An empty accountID covers all accounts.
func (s *Service) AccountTrends(ctx context.Context, accountID string, filter DateFilter) (*AccountTrends, error) {
	r, err := filter.Resolve(s.now())
	if err != nil {
		return nil, err
	}

	samples, err := s.repo.ListBalanceSamples(ctx, r, accountID)
	if err != nil {
		return nil, err
	}

	trends := GroupAccountTrends(samples)
	return &trends, nil
}
