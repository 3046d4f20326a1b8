package reminders

import (
	"fmt"
	"time"

	"driver-portal/internal/shared/clock"
)

// ExpiredBucket is the single ledger bucket for any already-expired document.
// All overdue amounts collapse into it, so an expired document produces at
// most one reminder per calendar day regardless of how long ago it expired.
const ExpiredBucket = -1

// Evaluate computes whole days between today and expiresOn and reports
// whether that distance crosses a notify-worthy threshold. due is false for
// every non-threshold distance. For expired documents daysLeft keeps the raw
// negative count while bucket is ExpiredBucket.
func Evaluate(expiresOn, today time.Time) (daysLeft, bucket int, due bool) {
	daysLeft = int(clock.Midnight(expiresOn).Sub(clock.Midnight(today)).Hours() / 24)
	if daysLeft < 0 {
		return daysLeft, ExpiredBucket, true
	}
	switch daysLeft {
	case 30, 7, 1, 0:
		return daysLeft, daysLeft, true
	}
	return daysLeft, 0, false
}

// Message renders the notification body for a threshold crossing. The label
// falls back to "Document" when the record carries no type.
func Message(docType string, bucket, daysLeft int, expiresOn time.Time) string {
	label := docType
	if label == "" {
		label = "Document"
	}
	date := expiresOn.Format(clock.DateFormat)
	switch bucket {
	case 30, 7:
		return fmt.Sprintf("%s expires in %d days (on %s).", label, daysLeft, date)
	case 1:
		return fmt.Sprintf("%s expires tomorrow (%s).", label, date)
	case 0:
		return fmt.Sprintf("%s expires TODAY (%s).", label, date)
	default:
		return fmt.Sprintf("%s is EXPIRED (expired on %s).", label, date)
	}
}
