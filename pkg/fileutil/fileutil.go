package fileutil

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// maxNameLen bounds the sanitized filename component of an object path.
const maxNameLen = 120

// SafeName makes a filename safe to embed in an object-store key.
// Whitespace becomes underscores, anything outside [A-Za-z0-9._-] is
// dropped, and the result is truncated. A name that sanitizes to nothing
// falls back to "archivo" plus the original extension.
func SafeName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r == ' ' || r == '\t':
			b.WriteByte('_')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		}
	}

	safe := b.String()
	// Collapse leading dots so the key can never look like a relative path.
	safe = strings.TrimLeft(safe, ".")
	if len(safe) > maxNameLen {
		safe = safe[:maxNameLen]
	}
	if safe == "" || safe == strings.Repeat("_", len(safe)) {
		safe = "archivo" + Ext(name)
	}
	return safe
}

// Ext returns the lowercased extension of name including the dot, with any
// character outside [a-z0-9] removed. Returns "" when there is none.
func Ext(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range ext[1:] {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "." + b.String()
}

// ObjectPath derives a collision-free object-store key for an upload:
// {scope}/{ownerID}/{folder}/{uuid}_{sanitized-filename}.
// The UUID component guarantees uniqueness, so an existing key is never
// overwritten.
func ObjectPath(scope, ownerID, folder, fileName string) string {
	return fmt.Sprintf("%s/%s/%s/%s_%s", scope, ownerID, folder, uuid.NewString(), SafeName(fileName))
}
