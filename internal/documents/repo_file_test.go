package documents

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileRepoUpsertReplacesByFilename(t *testing.T) {
	repo := NewFileRepo(t.TempDir())
	ctx := context.Background()

	first := Document{Filename: "cdl.pdf", DocType: "CDL", ExpiresOn: "2026-09-06", UploadedAt: time.Now().UTC()}
	if err := repo.Upsert(ctx, "driver", first); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	second := first
	second.ExpiresOn = "2027-09-06"
	if err := repo.Upsert(ctx, "driver", second); err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}

	docs, err := repo.ListByUser(ctx, "driver")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 doc, got %d", len(docs))
	}
	if docs[0].ExpiresOn != "2027-09-06" {
		t.Fatalf("expected replacement to win, got %q", docs[0].ExpiresOn)
	}
}

func TestFileRepoPersistsPortalShape(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileRepo(dir)
	ctx := context.Background()

	doc := Document{Filename: "cdl.pdf", DocType: "CDL", ExpiresOn: "2026-09-06", UploadedAt: time.Now().UTC()}
	if err := repo.Upsert(ctx, "Driver One", doc); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "driver-one", "_docs_meta.json"))
	if err != nil {
		t.Fatalf("read meta file: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("decode meta file: %v", err)
	}
	if _, ok := raw["docs"]; !ok {
		t.Fatalf("expected top-level docs key, got %v", raw)
	}
}

func TestFileRepoToleratesCorruptMeta(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "driver"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "driver", "_docs_meta.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := NewFileRepo(dir)
	docs, err := repo.ListByUser(context.Background(), "driver")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected empty list for corrupt meta, got %d", len(docs))
	}
}

func TestFileRepoListUsers(t *testing.T) {
	repo := NewFileRepo(t.TempDir())
	ctx := context.Background()

	for _, u := range []string{"bravo", "alpha"} {
		doc := Document{Filename: "w9.pdf", DocType: "W-9", UploadedAt: time.Now().UTC()}
		if err := repo.Upsert(ctx, u, doc); err != nil {
			t.Fatalf("Upsert %s: %v", u, err)
		}
	}

	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 || users[0] != "alpha" || users[1] != "bravo" {
		t.Fatalf("unexpected users: %v", users)
	}
}
