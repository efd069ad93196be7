package storage

import (
	"database/sql"
	"time"
)

const dateLayout = "2006-01-02"

type rowScanner interface {
	Scan(dest ...any) error
}

func formatDate(t sql.NullTime) *string {
	if !t.Valid {
		return nil
	}
	s := t.Time.Format(dateLayout)
	return &s
}

func formatRequiredDate(t time.Time) string {
	return t.Format(dateLayout)
}
