package core

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Suffix is carried by every managed document name.
const Suffix = ".xml"

// SanitizeFilename replaces every rune outside [a-zA-Z0-9._-] with '_' and
// appends Suffix when it is missing. Replacement is per code point, so a
// character outside the Basic Multilingual Plane becomes a single '_'.
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name) + len(Suffix))
	for _, r := range name {
		if isSafeRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	if !strings.HasSuffix(b.String(), Suffix) {
		b.WriteString(Suffix)
	}
	return b.String()
}

func isSafeRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == '-':
		return true
	}
	return false
}

// IsManaged reports whether name belongs to the listed document set.
func IsManaged(name string) bool {
	return strings.HasSuffix(name, Suffix)
}

// CheckFilename accepts the verbatim lookup names used by Load and Delete as
// long as they stay inside the storage location.
func CheckFilename(name string) error {
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: null byte in %q", ErrInvalidFilename, name)
	}
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return fmt.Errorf("%w: %q escapes the storage location", ErrInvalidFilename, name)
	}
	return nil
}
