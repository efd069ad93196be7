package plaid

import (
	"context"
	"fmt"
	"strings"

	"fintrack/internal/domain/item"
	plaidclient "fintrack/internal/infrastructure/plaid"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Institution is the optional institution hint sent by the link widget
type Institution struct {
	InstitutionID string `json:"institution_id"`
	Name          string `json:"name"`
}

// LinkService creates link tokens, turns public tokens into stored items
// and unlinks items.
type LinkService struct {
	client      plaidclient.ClientInterface
	items       item.Repository
	accounts    *AccountSyncService
	redirectURI string
	newUserID   func() string
}

func NewLinkService(
	client plaidclient.ClientInterface,
	items item.Repository,
	accounts *AccountSyncService,
	redirectURI string,
) *LinkService {
	return &LinkService{
		client:      client,
		items:       items,
		accounts:    accounts,
		redirectURI: strings.TrimSpace(redirectURI),
		newUserID:   uuid.NewString,
	}
}

// CreateLinkToken requests a link token for a fresh anonymous user id.
// Provider errors are returned unchanged.
func (s *LinkService) CreateLinkToken(ctx context.Context) (string, error) {
	if s.redirectURI != "" {
		zap.L().Info("Creating link token with redirect_uri", zap.String("redirect_uri", s.redirectURI))
	} else {
		zap.L().Info("Creating link token without redirect_uri")
	}

	resp, err := s.client.CreateLinkToken(ctx, plaidclient.LinkTokenRequest{
		ClientUserID: s.newUserID(),
		RedirectURI:  s.redirectURI,
	})
	if err != nil {
		zap.L().Error("Failed to create link token", zap.Error(err))
		return "", err
	}
	return resp.LinkToken, nil
}

// ExchangePublicToken stores the item behind publicToken and mirrors its accounts.
// The item is kept even when the account mirror fails; that error is returned
// together with the item.
func (s *LinkService) ExchangePublicToken(ctx context.Context, publicToken string, inst *Institution) (*item.Item, error) {
	if strings.TrimSpace(publicToken) == "" {
		return nil, ErrPublicTokenRequired
	}

	exchange, err := s.client.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, err
	}

	params := item.CreateParams{
		ID:          exchange.ItemID,
		AccessToken: exchange.AccessToken,
	}
	if inst != nil {
		params.InstitutionID = optional(inst.InstitutionID)
		params.InstitutionName = optional(inst.Name)
	}

	it, err := s.items.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	zap.L().Info("Linked item",
		zap.String("item_id", it.ID),
		zap.String("institution", it.DisplayName()),
	)

	if _, err := s.accounts.SyncItem(ctx, it); err != nil {
		zap.L().Error("Account mirror failed after link", zap.String("item_id", it.ID), zap.Error(err))
		return it, fmt.Errorf("item %s linked but accounts could not be mirrored: %w", it.ID, err)
	}
	return it, nil
}

// RemoveItem revokes the item's credential at the provider and deletes it
// locally. A missing item is a no-op; a failed revocation is logged and the
// local delete still happens.
func (s *LinkService) RemoveItem(ctx context.Context, itemID string) error {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to load item: %w", err)
	}
	if it == nil {
		return nil
	}

	if err := s.client.RemoveItem(ctx, it.AccessToken); err != nil {
		zap.L().Warn("Could not remove item from provider", zap.String("item_id", it.ID), zap.Error(err))
	}

	if err := s.items.Delete(ctx, it.ID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	zap.L().Info("Removed item", zap.String("item_id", it.ID))
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
