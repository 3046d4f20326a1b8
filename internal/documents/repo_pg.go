package documents

import (
	"context"
	"database/sql"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, username string, doc Document) error {
	if username == "" || doc.Filename == "" {
		return ErrInvalidInput
	}
	const query = `
INSERT INTO documents (username, filename, doc_type, expires_on, uploaded_at, pages)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (username, filename) DO UPDATE SET
  doc_type = EXCLUDED.doc_type,
  expires_on = EXCLUDED.expires_on,
  uploaded_at = EXCLUDED.uploaded_at,
  pages = EXCLUDED.pages`
	_, err := r.DB.ExecContext(ctx, query,
		username,
		doc.Filename,
		doc.DocType,
		doc.ExpiresOn,
		doc.UploadedAt,
		doc.Pages,
	)
	return err
}

func (r *PGRepo) ListByUser(ctx context.Context, username string) ([]Document, error) {
	const query = `
SELECT filename, doc_type, expires_on, uploaded_at, pages
FROM documents
WHERE username = $1
ORDER BY uploaded_at`
	rows, err := r.DB.QueryContext(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.Filename, &doc.DocType, &doc.ExpiresOn, &doc.UploadedAt, &doc.Pages); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *PGRepo) ListUsers(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT username FROM documents ORDER BY username`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
