package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fintrack/internal/domain/plaid"
)

func TestHandleSync(t *testing.T) {
	syncer := &MockSyncer{
		SyncAllFunc: func(ctx context.Context) (*plaid.SyncReport, error) {
			return &plaid.SyncReport{
				Items: []plaid.ItemSyncResult{
					{ItemID: "item-a", Added: 3, Error: "ITEM_LOGIN_REQUIRED"},
					{ItemID: "item-b", Added: 2, Modified: 1, Removed: 1},
				},
				Added:    2,
				Modified: 1,
				Removed:  1,
			}, nil
		},
	}
	h := NewSyncHandler(syncer, &MockRefresher{}, &MockRefresher{})

	rr := httptest.NewRecorder()
	h.HandleSync(rr, httptest.NewRequest(http.MethodPost, "/api/sync", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body struct {
		Success  bool                   `json:"success"`
		Added    int                    `json:"added"`
		Modified int                    `json:"modified"`
		Removed  int                    `json:"removed"`
		Items    []plaid.ItemSyncResult `json:"items"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if !body.Success || body.Added != 2 || body.Modified != 1 || body.Removed != 1 {
		t.Errorf("body = %+v", body)
	}
	if len(body.Items) != 2 || body.Items[0].Error != "ITEM_LOGIN_REQUIRED" {
		t.Errorf("items = %+v", body.Items)
	}
}

func TestHandleRefreshEndpoints(t *testing.T) {
	report := &plaid.RefreshReport{Items: []plaid.ItemRefreshResult{{ItemID: "item-a", Updated: 2}}}

	tests := []struct {
		name           string
		err            error
		call           func(h *SyncHandler, w http.ResponseWriter, r *http.Request)
		expectedStatus int
	}{
		{"refresh balances", nil, (*SyncHandler).HandleRefreshBalances, http.StatusOK},
		{"sync liabilities", nil, (*SyncHandler).HandleSyncLiabilities, http.StatusOK},
		{"refresh balances fails", errors.New("db down"), (*SyncHandler).HandleRefreshBalances, http.StatusInternalServerError},
		{"sync liabilities fails", errors.New("db down"), (*SyncHandler).HandleSyncLiabilities, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refresher := &MockRefresher{
				Func: func(ctx context.Context) (*plaid.RefreshReport, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return report, nil
				},
			}
			h := NewSyncHandler(&MockSyncer{}, refresher, refresher)

			rr := httptest.NewRecorder()
			tt.call(h, rr, httptest.NewRequest(http.MethodPost, "/api/x", nil))

			if rr.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.expectedStatus)
			}
			if tt.err != nil {
				return
			}

			var body struct {
				Success bool                      `json:"success"`
				Items   []plaid.ItemRefreshResult `json:"items"`
			}
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			if !body.Success || len(body.Items) != 1 || body.Items[0].Updated != 2 {
				t.Errorf("body = %+v", body)
			}
		})
	}
}
