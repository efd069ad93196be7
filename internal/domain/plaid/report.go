package plaid

import (
	"errors"

	"fintrack/internal/domain/item"
)

// Domain errors
var (
	ErrPublicTokenRequired = errors.New("public_token is required and cannot be empty")
	ErrInitialDataNotReady = errors.New("initial transaction data not ready")
	ErrSyncInProgress      = errors.New("transaction sync already in progress for item")
)

// ItemSyncResult is the outcome of one item's transaction sync.
// Counts cover the pages applied before any error.
type ItemSyncResult struct {
	ItemID          string  `json:"item_id"`
	InstitutionName *string `json:"institution_name"`
	Added           int     `json:"added"`
	Modified        int     `json:"modified"`
	Removed         int     `json:"removed"`
	Error           string  `json:"error,omitempty"`
}

func (r ItemSyncResult) Failed() bool {
	return r.Error != ""
}

// SyncReport lists every item's outcome. Totals only include items that
// finished without error.
type SyncReport struct {
	Items    []ItemSyncResult `json:"items"`
	Added    int              `json:"added"`
	Modified int              `json:"modified"`
	Removed  int              `json:"removed"`
}

func newSyncReport(results []ItemSyncResult) *SyncReport {
	report := &SyncReport{Items: results}
	for _, r := range results {
		if r.Failed() {
			continue
		}
		report.Added += r.Added
		report.Modified += r.Modified
		report.Removed += r.Removed
	}
	return report
}

// FailedItems returns how many items ended with an error
func (r *SyncReport) FailedItems() int {
	n := 0
	for _, it := range r.Items {
		if it.Failed() {
			n++
		}
	}
	return n
}

// ItemRefreshResult is the outcome of a balance refresh or liability mirror for one item.
// Skipped records had nothing to attach to; Failed records hit a storage error.
type ItemRefreshResult struct {
	ItemID          string  `json:"item_id"`
	InstitutionName *string `json:"institution_name"`
	Updated         int     `json:"updated"`
	Skipped         int     `json:"skipped"`
	Failed          int     `json:"failed"`
	Error           string  `json:"error,omitempty"`
}

type RefreshReport struct {
	Items []ItemRefreshResult `json:"items"`
}

// FailedItems returns how many items could not be fetched at all
func (r *RefreshReport) FailedItems() int {
	n := 0
	for _, it := range r.Items {
		if it.Error != "" {
			n++
		}
	}
	return n
}

func newItemSyncResult(it *item.Item) ItemSyncResult {
	return ItemSyncResult{ItemID: it.ID, InstitutionName: it.InstitutionName}
}

func newItemRefreshResult(it *item.Item) ItemRefreshResult {
	return ItemRefreshResult{ItemID: it.ID, InstitutionName: it.InstitutionName}
}
