package reminders

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGLedgerAlreadySent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("driver", "cdl.pdf|7", "2025-03-15").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ledger := &PGLedger{DB: db}
	seen, err := ledger.AlreadySent(context.Background(), "driver", "cdl.pdf|7", "2025-03-15")
	if err != nil {
		t.Fatalf("AlreadySent: %v", err)
	}
	if !seen {
		t.Fatal("expected entry to be reported")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPGLedgerMarkSentInsertsAndTrims(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO reminder_log").
		WithArgs("driver", "cdl.pdf|-1", "2025-03-15").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM reminder_log").
		WithArgs("driver", maxLedgerEntries).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ledger := &PGLedger{DB: db}
	if err := ledger.MarkSent(context.Background(), "driver", "cdl.pdf|-1", "2025-03-15"); err != nil {
		t.Fatalf("MarkSent: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
