package documents

import (
	"regexp"
	"strings"
	"time"
)

// Document is a per-user document metadata record, keyed by filename.
// Re-uploading the same filename overwrites the record.
type Document struct {
	Filename   string    `json:"filename"`
	DocType    string    `json:"doc_type"`
	ExpiresOn  string    `json:"expires_on"`
	UploadedAt time.Time `json:"uploaded_at"`
	Pages      int       `json:"pages,omitempty"`
}

// RequiredDocTypes is the compliance checklist every driver must cover.
var RequiredDocTypes = []string{
	"CDL",
	"Insurance",
	"Medical Card",
	"W-9",
}

var spaceRun = regexp.MustCompile(`\s+`)

// NormalizeDocType maps free-form labels onto the controlled vocabulary.
// Unrecognized labels are kept as entered; blank becomes "Document".
func NormalizeDocType(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return "Document"
	}
	t = spaceRun.ReplaceAllString(t, " ")
	switch strings.ToLower(t) {
	case "cdl":
		return "CDL"
	case "medical", "medicalcard", "medical card", "med card":
		return "Medical Card"
	case "w9", "w-9":
		return "W-9"
	case "insurance", "ins":
		return "Insurance"
	}
	return t
}
