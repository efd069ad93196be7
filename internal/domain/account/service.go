package account

import (
	"context"
	"fmt"
	"strings"

	"fintrack/internal/domain/item"
)

// Service contains the read and rename operations over mirrored accounts
type Service struct {
	repo  Repository
	items item.Repository
}

func NewService(repo Repository, items item.Repository) *Service {
	return &Service{repo: repo, items: items}
}

// ListAccounts returns every account with its institution name.
func (s *Service) ListAccounts(ctx context.Context) ([]*AccountWithInstitution, error) {
	return s.repo.List(ctx)
}

// ListItems returns items newest first, each with its accounts nested.
func (s *Service) ListItems(ctx context.Context) ([]*ItemWithAccounts, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	byItem := make(map[string][]*Account, len(items))
	for _, a := range accounts {
		acc := a.Account
		byItem[a.ItemID] = append(byItem[a.ItemID], &acc)
	}

	result := make([]*ItemWithAccounts, 0, len(items))
	for _, it := range items {
		nested := byItem[it.ID]
		if nested == nil {
			nested = []*Account{}
		}
		result = append(result, &ItemWithAccounts{Item: *it, Accounts: nested})
	}
	return result, nil
}

// RenameAccount sets a user-chosen display name.
func (s *Service) RenameAccount(ctx context.Context, id, name string) (*Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if id == "" {
		return nil, ErrInvalidInput
	}

	acc, err := s.repo.UpdateName(ctx, id, name)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrAccountNotFound
	}
	return acc, nil
}
