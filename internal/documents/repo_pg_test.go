package documents

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	doc := Document{
		Filename:   "cdl.pdf",
		DocType:    "CDL",
		ExpiresOn:  "2026-09-06",
		UploadedAt: time.Now().UTC(),
		Pages:      2,
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs("driver", doc.Filename, doc.DocType, doc.ExpiresOn, doc.UploadedAt, doc.Pages).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Upsert(context.Background(), "driver", doc); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	uploaded := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"filename", "doc_type", "expires_on", "uploaded_at", "pages"}).
		AddRow("cdl.pdf", "CDL", "2026-09-06", uploaded, 2).
		AddRow("w9.pdf", "W-9", "", uploaded, 1)
	mock.ExpectQuery("SELECT filename, doc_type, expires_on, uploaded_at, pages").
		WithArgs("driver").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	docs, err := repo.ListByUser(context.Background(), "driver")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(docs))
	}
	if docs[0].Filename != "cdl.pdf" || docs[0].Pages != 2 {
		t.Fatalf("unexpected first doc: %+v", docs[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListUsers(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	rows := sqlmock.NewRows([]string{"username"}).AddRow("alpha").AddRow("bravo")
	mock.ExpectQuery("SELECT DISTINCT username FROM documents").WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	users, err := repo.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 || users[0] != "alpha" {
		t.Fatalf("unexpected users: %v", users)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
