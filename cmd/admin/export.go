package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"fintrack/internal/domain/transaction"
)

const exportPageSize = 500

type transactionLister interface {
	List(ctx context.Context, filter transaction.Filter) (*transaction.Page, error)
}

var exportHeader = []string{
	"date", "name", "merchant_name", "amount", "category", "pending",
	"account_id", "account_name", "institution_name", "id",
}

// exportTransactions pages through the filtered listing and writes one CSV row
// per transaction. It returns the number of rows written.
func exportTransactions(ctx context.Context, lister transactionLister, filter transaction.Filter, out io.Writer) (int, error) {
	w := csv.NewWriter(out)
	if err := w.Write(exportHeader); err != nil {
		return 0, err
	}

	filter.Limit = exportPageSize
	written := 0
	for {
		filter.Offset = written
		page, err := lister.List(ctx, filter)
		if err != nil {
			return written, fmt.Errorf("failed to list transactions: %w", err)
		}

		for _, t := range page.Transactions {
			if err := w.Write(exportRow(t)); err != nil {
				return written, err
			}
			written++
		}

		if len(page.Transactions) == 0 || written >= page.Total {
			break
		}
	}

	w.Flush()
	return written, w.Error()
}

func exportRow(t *transaction.TransactionWithAccount) []string {
	return []string{
		t.Date,
		t.Name,
		str(t.MerchantName),
		t.Amount.StringFixed(2),
		str(t.Category),
		strconv.FormatBool(t.Pending),
		t.AccountID,
		str(t.AccountName),
		str(t.InstitutionName),
		t.ID,
	}
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
