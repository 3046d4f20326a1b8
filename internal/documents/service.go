package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"driver-portal/internal/shared/clock"
	"driver-portal/internal/shared/storage/files"
)

// Service contains business logic for document metadata and stored files.
type Service struct {
	Repo           Repo
	Store          files.Store
	MaxUploadBytes int64
}

// Upload stores the file and records its metadata. The stored filename wins
// over the submitted one when the store had to rename on collision.
func (s *Service) Upload(ctx context.Context, username, docType, expiresOn, fileName string, r io.Reader) (Document, error) {
	if username == "" || fileName == "" {
		return Document{}, ErrInvalidInput
	}

	limit := s.MaxUploadBytes
	if limit <= 0 {
		limit = 25 << 20
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return Document{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return Document{}, ErrTooLarge
	}

	storedName, _, err := s.Store.Save(ctx, username, files.CategoryDocs, fileName, bytes.NewReader(data))
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		Filename:   storedName,
		DocType:    NormalizeDocType(docType),
		ExpiresOn:  strings.TrimSpace(expiresOn),
		UploadedAt: time.Now().UTC(),
		Pages:      pdfPageCount(storedName, data),
	}
	if err := s.Repo.Upsert(ctx, username, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// pdfPageCount counts pages for PDF uploads; anything unparseable gets zero.
func pdfPageCount(fileName string, data []byte) int {
	if !strings.HasSuffix(strings.ToLower(fileName), ".pdf") {
		return 0
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0
	}
	return reader.NumPage()
}

// UploadFile stores a file in a non-docs category (photos, contract) without
// metadata tracking.
func (s *Service) UploadFile(ctx context.Context, username, category, fileName string, r io.Reader) (string, error) {
	if username == "" || fileName == "" {
		return "", ErrInvalidInput
	}
	limit := s.MaxUploadBytes
	if limit <= 0 {
		limit = 25 << 20
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return "", ErrTooLarge
	}
	storedName, _, err := s.Store.Save(ctx, username, category, fileName, bytes.NewReader(data))
	return storedName, err
}

// SignedAgreement is the record written to the contract folder when the
// driver signs the carrier agreement.
type SignedAgreement struct {
	DriverUser string `json:"driver_user"`
	FullName   string `json:"full_name"`
	SignedAt   string `json:"signed_at"`
	IP         string `json:"ip,omitempty"`
	UserAgent  string `json:"user_agent,omitempty"`
}

// SignContract stores a timestamped signed-agreement record and returns the
// stored file name.
func (s *Service) SignContract(ctx context.Context, username, fullName, ip, userAgent string) (string, error) {
	fullName = strings.TrimSpace(fullName)
	if username == "" || fullName == "" {
		return "", ErrInvalidInput
	}

	now := time.Now().UTC()
	record := SignedAgreement{
		DriverUser: username,
		FullName:   fullName,
		SignedAt:   now.Format(time.RFC3339),
		IP:         ip,
		UserAgent:  userAgent,
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", err
	}

	name := "signed_" + now.Format("20060102_150405") + ".json"
	storedName, _, err := s.Store.Save(ctx, username, files.CategoryContract, name, bytes.NewReader(data))
	return storedName, err
}

// Open opens a stored file for download.
func (s *Service) Open(ctx context.Context, username, category, fileName string) (io.ReadCloser, error) {
	return s.Store.Open(ctx, username, category, fileName)
}

// FileView is a stored file joined with its metadata and expiry health.
type FileView struct {
	Name       string     `json:"name"`
	Size       int64      `json:"size"`
	ModTime    time.Time  `json:"mtime"`
	DocType    string     `json:"docType,omitempty"`
	ExpiresOn  string     `json:"expiresOn,omitempty"`
	DaysLeft   *int       `json:"daysLeft,omitempty"`
	UploadedAt *time.Time `json:"uploadedAt,omitempty"`
	Pages      int        `json:"pages,omitempty"`
}

// ChecklistItem is the status of one required document type.
type ChecklistItem struct {
	DocType   string `json:"docType"`
	Status    string `json:"status"`
	Badge     string `json:"badge"`
	ExpiresOn string `json:"expiresOn,omitempty"`
	DaysLeft  *int   `json:"daysLeft,omitempty"`
	File      string `json:"file,omitempty"`
}

// Overview is the docs page payload: files with metadata, the required
// checklist, and expiry groupings.
type Overview struct {
	Files             []FileView      `json:"files"`
	RequiredChecklist []ChecklistItem `json:"requiredChecklist"`
	MissingCount      int             `json:"missingCount"`
	AttentionCount    int             `json:"attentionCount"`
	ExpiringSoon      []FileView      `json:"expiringSoon"`
	Expired           []FileView      `json:"expired"`
}

// Listing builds the document overview for a user as of today.
func (s *Service) Listing(ctx context.Context, username string, today time.Time) (Overview, error) {
	stored, err := s.Store.List(ctx, username, files.CategoryDocs)
	if err != nil {
		return Overview{}, err
	}
	docs, err := s.Repo.ListByUser(ctx, username)
	if err != nil {
		return Overview{}, err
	}

	metaByName := make(map[string]Document, len(docs))
	for _, d := range docs {
		metaByName[d.Filename] = d
	}

	views := make([]FileView, 0, len(stored))
	for _, f := range stored {
		view := FileView{Name: f.Name, Size: f.Size, ModTime: f.ModTime}
		if m, ok := metaByName[f.Name]; ok {
			view.DocType = m.DocType
			view.ExpiresOn = m.ExpiresOn
			view.Pages = m.Pages
			uploaded := m.UploadedAt
			view.UploadedAt = &uploaded
			if exp, ok := clock.ParseDate(m.ExpiresOn); ok {
				left := daysBetween(today, exp)
				view.DaysLeft = &left
			}
		}
		views = append(views, view)
	}

	overview := Overview{Files: views}
	overview.RequiredChecklist, overview.MissingCount, overview.AttentionCount = buildChecklist(views)
	overview.ExpiringSoon, overview.Expired = groupByExpiry(views)
	return overview, nil
}

// ListByUser exposes the raw metadata records (used by the reminder engine).
func (s *Service) ListByUser(ctx context.Context, username string) ([]Document, error) {
	return s.Repo.ListByUser(ctx, username)
}

func daysBetween(today, expires time.Time) int {
	return int(clock.Midnight(expires).Sub(clock.Midnight(today)).Hours() / 24)
}

// buildChecklist reports, per required type, the latest-expiring document of
// that type and how urgent it is.
func buildChecklist(views []FileView) ([]ChecklistItem, int, int) {
	type candidate struct {
		file      string
		expiresOn string
		daysLeft  *int
	}
	latest := make(map[string]candidate)
	for _, v := range views {
		dt := NormalizeDocType(v.DocType)
		if !isRequiredType(dt) {
			continue
		}
		cur, ok := latest[dt]
		if !ok {
			latest[dt] = candidate{file: v.Name, expiresOn: v.ExpiresOn, daysLeft: v.DaysLeft}
			continue
		}
		if v.DaysLeft != nil && (cur.daysLeft == nil || *v.DaysLeft > *cur.daysLeft) {
			latest[dt] = candidate{file: v.Name, expiresOn: v.ExpiresOn, daysLeft: v.DaysLeft}
		}
	}

	var checklist []ChecklistItem
	missing, attention := 0, 0
	for _, rt := range RequiredDocTypes {
		item, ok := latest[rt]
		if !ok {
			missing++
			checklist = append(checklist, ChecklistItem{DocType: rt, Status: "Missing", Badge: "danger"})
			continue
		}
		switch {
		case item.daysLeft == nil:
			attention++
			checklist = append(checklist, ChecklistItem{
				DocType: rt, Status: "No expiry date", Badge: "danger",
				ExpiresOn: item.expiresOn, File: item.file,
			})
		case *item.daysLeft < 0:
			attention++
			checklist = append(checklist, ChecklistItem{
				DocType: rt, Status: "Expired", Badge: "danger",
				ExpiresOn: item.expiresOn, DaysLeft: item.daysLeft, File: item.file,
			})
		case *item.daysLeft <= 30:
			attention++
			checklist = append(checklist, ChecklistItem{
				DocType: rt, Status: fmt.Sprintf("Expiring in %d day(s)", *item.daysLeft), Badge: "warn",
				ExpiresOn: item.expiresOn, DaysLeft: item.daysLeft, File: item.file,
			})
		default:
			checklist = append(checklist, ChecklistItem{
				DocType: rt, Status: "OK", Badge: "ok",
				ExpiresOn: item.expiresOn, DaysLeft: item.daysLeft, File: item.file,
			})
		}
	}
	return checklist, missing, attention
}

func isRequiredType(dt string) bool {
	for _, rt := range RequiredDocTypes {
		if dt == rt {
			return true
		}
	}
	return false
}

func groupByExpiry(views []FileView) (soon, expired []FileView) {
	for _, v := range views {
		if v.DaysLeft == nil {
			continue
		}
		switch {
		case *v.DaysLeft < 0:
			expired = append(expired, v)
		case *v.DaysLeft <= 30:
			soon = append(soon, v)
		}
	}
	sortByDaysLeft(soon)
	sortByDaysLeft(expired)
	return soon, expired
}

func sortByDaysLeft(views []FileView) {
	sort.Slice(views, func(i, j int) bool { return *views[i].DaysLeft < *views[j].DaysLeft })
}
