package reminders

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func ledgerImpls(t *testing.T) map[string]Ledger {
	t.Helper()
	return map[string]Ledger{
		"memory": NewMemoryLedger(),
		"file":   NewFileLedger(t.TempDir()),
	}
}

func TestLedgerMarkAndLookup(t *testing.T) {
	for name, ledger := range ledgerImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			seen, err := ledger.AlreadySent(ctx, "driver", "cdl.pdf|7", "2025-03-15")
			if err != nil {
				t.Fatalf("AlreadySent: %v", err)
			}
			if seen {
				t.Fatal("empty ledger reported an entry")
			}

			if err := ledger.MarkSent(ctx, "driver", "cdl.pdf|7", "2025-03-15"); err != nil {
				t.Fatalf("MarkSent: %v", err)
			}

			seen, err = ledger.AlreadySent(ctx, "driver", "cdl.pdf|7", "2025-03-15")
			if err != nil {
				t.Fatalf("AlreadySent: %v", err)
			}
			if !seen {
				t.Fatal("marked entry not found")
			}

			// Same key on the next day is a fresh reminder.
			seen, err = ledger.AlreadySent(ctx, "driver", "cdl.pdf|7", "2025-03-16")
			if err != nil {
				t.Fatalf("AlreadySent: %v", err)
			}
			if seen {
				t.Fatal("entry leaked across dates")
			}

			// Other users are independent.
			seen, err = ledger.AlreadySent(ctx, "other", "cdl.pdf|7", "2025-03-15")
			if err != nil {
				t.Fatalf("AlreadySent: %v", err)
			}
			if seen {
				t.Fatal("entry leaked across users")
			}
		})
	}
}

func TestLedgerEviction(t *testing.T) {
	for name, ledger := range ledgerImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < maxLedgerEntries+1; i++ {
				key := fmt.Sprintf("doc-%d.pdf|7", i)
				if err := ledger.MarkSent(ctx, "driver", key, "2025-03-15"); err != nil {
					t.Fatalf("MarkSent %d: %v", i, err)
				}
			}

			seen, err := ledger.AlreadySent(ctx, "driver", "doc-0.pdf|7", "2025-03-15")
			if err != nil {
				t.Fatalf("AlreadySent: %v", err)
			}
			if seen {
				t.Fatal("oldest entry should have been evicted")
			}

			seen, err = ledger.AlreadySent(ctx, "driver", "doc-1.pdf|7", "2025-03-15")
			if err != nil {
				t.Fatalf("AlreadySent: %v", err)
			}
			if !seen {
				t.Fatal("second-oldest entry should survive eviction")
			}

			last := fmt.Sprintf("doc-%d.pdf|7", maxLedgerEntries)
			seen, err = ledger.AlreadySent(ctx, "driver", last, "2025-03-15")
			if err != nil {
				t.Fatalf("AlreadySent: %v", err)
			}
			if !seen {
				t.Fatal("newest entry missing after eviction")
			}
		})
	}
}

func TestFileLedgerShape(t *testing.T) {
	dir := t.TempDir()
	ledger := NewFileLedger(dir)
	ctx := context.Background()

	if err := ledger.MarkSent(ctx, "driver", "cdl.pdf|-1", "2025-03-15"); err != nil {
		t.Fatalf("MarkSent: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "driver", "_reminder_log.json"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}

	var log struct {
		Sent []struct {
			Key  string `json:"key"`
			Date string `json:"date"`
		} `json:"sent"`
	}
	if err := json.Unmarshal(data, &log); err != nil {
		t.Fatalf("decode log file: %v", err)
	}
	if len(log.Sent) != 1 || log.Sent[0].Key != "cdl.pdf|-1" || log.Sent[0].Date != "2025-03-15" {
		t.Fatalf("unexpected log contents: %+v", log)
	}
}

func TestFileLedgerCorruptFileTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "driver"), 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "driver", "_reminder_log.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	ledger := NewFileLedger(dir)
	seen, err := ledger.AlreadySent(context.Background(), "driver", "cdl.pdf|7", "2025-03-15")
	if err != nil {
		t.Fatalf("AlreadySent: %v", err)
	}
	if seen {
		t.Fatal("corrupt file should read as empty ledger")
	}
}
