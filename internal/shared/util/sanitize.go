package util

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9.\-_\s()]`)
	unsafeSlugChars = regexp.MustCompile(`[^a-z0-9\-_\s]`)
	whitespace      = regexp.MustCompile(`\s+`)
)

// SanitizeFileName strips any path components and replaces unsafe characters.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := filepath.Base(strings.TrimSpace(name))
	s = unsafeFileChars.ReplaceAllString(s, "_")
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
	if s == "" || s == "." {
		return "", errors.New("invalid file name")
	}
	return s, nil
}

// Slug returns a filesystem-safe identifier for a username.
func Slug(value string) string {
	s := strings.ToLower(strings.TrimSpace(value))
	s = unsafeSlugChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-_")
	if s == "" {
		return "driver"
	}
	return s
}
