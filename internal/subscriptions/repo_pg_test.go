package subscriptions

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoAdd(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	sub := testSub("https://push.example/a")
	mock.ExpectExec("INSERT INTO push_subscriptions").
		WithArgs("driver", sub.Endpoint, sub.Keys.P256dh, sub.Keys.Auth).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := &PGRepo{DB: db}
	if err := repo.Add(context.Background(), "driver", sub); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoRemove(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("DELETE FROM push_subscriptions").
		WithArgs("driver", "https://push.example/a").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	if err := repo.Remove(context.Background(), "driver", "https://push.example/a"); err != nil {
		t.Fatalf("Remove: %v", err)
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

	rows := sqlmock.NewRows([]string{"endpoint", "p256dh", "auth"}).
		AddRow("https://push.example/a", "k1", "a1").
		AddRow("https://push.example/b", "k2", "a2")
	mock.ExpectQuery("SELECT endpoint, p256dh, auth").
		WithArgs("driver").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	subs, err := repo.ListByUser(context.Background(), "driver")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(subs) != 2 || subs[0].Endpoint != "https://push.example/a" {
		t.Fatalf("unexpected subs: %+v", subs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoAddRefreshesCreatedAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	sub := testSub("https://push.example/a")
	// Re-subscribing must bump created_at so the endpoint moves to the end
	// of the insertion order, like the memory and file repos.
	mock.ExpectExec(`ON CONFLICT \(username, endpoint\) DO UPDATE SET\s+p256dh = EXCLUDED.p256dh,\s+auth = EXCLUDED.auth,\s+created_at = now\(\)`).
		WithArgs("driver", sub.Endpoint, sub.Keys.P256dh, sub.Keys.Auth).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := &PGRepo{DB: db}
	if err := repo.Add(context.Background(), "driver", sub); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
