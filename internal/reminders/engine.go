package reminders

import (
	"context"

	"driver-portal/internal/documents"
	"driver-portal/internal/push"
	"driver-portal/internal/shared/clock"
	"driver-portal/internal/shared/metrics"
	"driver-portal/internal/shared/telemetry"
)

// DocumentSource is the read-only slice of the document store the engine
// consumes. It never mutates document records.
type DocumentSource interface {
	ListByUser(ctx context.Context, username string) ([]documents.Document, error)
	ListUsers(ctx context.Context) ([]string, error)
}

// Pusher delivers one payload to all of a user's endpoints.
type Pusher interface {
	Dispatch(ctx context.Context, username string, payload push.Payload) (push.Result, error)
}

// Detail outcomes. Skips that the portal used to swallow silently are
// surfaced here so runs stay observable.
const (
	OutcomeNotified = "notified" // reminder sent to at least one endpoint
	OutcomeRecorded = "recorded" // due and ledgered, but zero deliveries
	OutcomeDeduped  = "deduped"  // already ledgered earlier today
	OutcomeSkipped  = "skipped"  // malformed metadata, not evaluated
)

// Detail describes one document's fate during a run.
type Detail struct {
	File      string   `json:"file"`
	DaysLeft  int      `json:"days_left"`
	Bucket    int      `json:"bucket"`
	PushCount int      `json:"push_count"`
	Outcome   string   `json:"outcome"`
	Reason    string   `json:"reason,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// Summary aggregates one user's run. Checked counts documents with valid
// metadata whether or not any threshold fired; Notified counts documents
// that reached at least one endpoint.
type Summary struct {
	Checked  int      `json:"checked"`
	Notified int      `json:"notified"`
	Details  []Detail `json:"details"`
}

// RunAllSummary aggregates a sweep across every user with documents. A
// single user's storage failure is reported here instead of aborting the
// remaining users.
type RunAllSummary struct {
	Users  map[string]Summary `json:"users"`
	Errors []string           `json:"errors,omitempty"`
}

// Engine decides which reminders are due, dedupes them against the ledger,
// and hands delivery to the dispatcher.
type Engine struct {
	Docs    DocumentSource
	Ledger  Ledger
	Pusher  Pusher
	Clock   clock.Clock
	AppName string
}

func NewEngine(docs DocumentSource, ledger Ledger, pusher Pusher, clk clock.Clock, appName string) *Engine {
	return &Engine{Docs: docs, Ledger: ledger, Pusher: pusher, Clock: clk, AppName: appName}
}

// RunForUser sweeps one user's documents sequentially. Each due document is
// ledgered whether or not any endpoint accepted the push, so a user with no
// subscriptions is not re-evaluated on the next run of the same day. The
// only error returned is a StorageError; delivery failures land in the
// detail records instead.
func (e *Engine) RunForUser(ctx context.Context, username string) (Summary, error) {
	start := metrics.NowMillis()
	metrics.IncReminderRun()

	today := e.Clock.Today()
	todayStr := today.Format(clock.DateFormat)

	docs, err := e.Docs.ListByUser(ctx, username)
	if err != nil {
		return Summary{}, &StorageError{Op: "list documents", Err: err}
	}

	summary := Summary{Details: []Detail{}}
	for _, doc := range docs {
		if doc.Filename == "" {
			summary.Details = append(summary.Details, Detail{
				Outcome: OutcomeSkipped,
				Reason:  "missing filename",
			})
			continue
		}
		expires, ok := clock.ParseDate(doc.ExpiresOn)
		if !ok {
			summary.Details = append(summary.Details, Detail{
				File:    doc.Filename,
				Outcome: OutcomeSkipped,
				Reason:  "missing or unparseable expiry date",
			})
			continue
		}
		summary.Checked++

		daysLeft, bucket, due := Evaluate(expires, today)
		if !due {
			continue
		}

		key := Key(doc.Filename, bucket)
		seen, err := e.Ledger.AlreadySent(ctx, username, key, todayStr)
		if err != nil {
			return summary, &StorageError{Op: "ledger lookup", Err: err}
		}
		if seen {
			summary.Details = append(summary.Details, Detail{
				File:     doc.Filename,
				DaysLeft: daysLeft,
				Bucket:   bucket,
				Outcome:  OutcomeDeduped,
			})
			continue
		}

		result, err := e.Pusher.Dispatch(ctx, username, push.Payload{
			Title: e.AppName,
			Body:  Message(documents.NormalizeDocType(doc.DocType), bucket, daysLeft, expires),
			Data:  push.PayloadData{URL: "/portal"},
		})
		if err != nil {
			return summary, &StorageError{Op: "dispatch", Err: err}
		}

		// Ledger the attempt even when nothing was delivered.
		if err := e.Ledger.MarkSent(ctx, username, key, todayStr); err != nil {
			return summary, &StorageError{Op: "ledger write", Err: err}
		}

		detail := Detail{
			File:      doc.Filename,
			DaysLeft:  daysLeft,
			Bucket:    bucket,
			PushCount: result.Sent,
			Outcome:   OutcomeRecorded,
			Errors:    result.Errors,
		}
		if result.Sent > 0 {
			summary.Notified++
			detail.Outcome = OutcomeNotified
		}
		summary.Details = append(summary.Details, detail)
	}

	metrics.AddRemindersSent(summary.Notified)
	metrics.ObserveReminderRunDurationMs(metrics.NowMillis() - start)
	telemetry.Info("reminders.run", map[string]any{
		"username": username,
		"checked":  summary.Checked,
		"notified": summary.Notified,
	})
	return summary, nil
}

// RunAll sweeps every user that has document records. One user's storage
// failure is collected and the sweep continues; user summaries are keyed by
// username.
func (e *Engine) RunAll(ctx context.Context) (RunAllSummary, error) {
	users, err := e.Docs.ListUsers(ctx)
	if err != nil {
		return RunAllSummary{}, &StorageError{Op: "list users", Err: err}
	}

	out := RunAllSummary{Users: make(map[string]Summary, len(users))}
	for _, username := range users {
		summary, err := e.RunForUser(ctx, username)
		if err != nil {
			out.Errors = append(out.Errors, username+": "+err.Error())
			telemetry.Error("reminders.run_failed", map[string]any{
				"username": username,
				"error":    err.Error(),
			})
			continue
		}
		out.Users[username] = summary
	}
	return out, nil
}
