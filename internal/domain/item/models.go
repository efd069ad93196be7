package item

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrItemNotFound = errors.New("item not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Item is one linked credential set at one institution.
type Item struct {
	ID              string    `json:"id"`
	AccessToken     string    `json:"-"`
	InstitutionID   *string   `json:"institution_id"`
	InstitutionName *string   `json:"institution_name"`
	Cursor          *string   `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

// SyncCursor returns the stored transaction cursor, or "" before the first sync.
func (i *Item) SyncCursor() string {
	if i.Cursor == nil {
		return ""
	}
	return *i.Cursor
}

// DisplayName returns the institution name, falling back to the item id.
func (i *Item) DisplayName() string {
	if i.InstitutionName != nil && *i.InstitutionName != "" {
		return *i.InstitutionName
	}
	return i.ID
}

// CreateParams contains parameters for persisting a newly linked item
type CreateParams struct {
	ID              string
	AccessToken     string
	InstitutionID   *string
	InstitutionName *string
}

func (p CreateParams) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("item ID is required")
	}
	if p.AccessToken == "" {
		return errors.New("access token is required")
	}
	return nil
}
