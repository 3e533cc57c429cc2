/*
Package randx provides generators for identifiers and names.

Connection and message identifiers are UUID v4 strings; upload keys combine a
UUID with a sanitised copy of the client's file name.
*/
package randx

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// DefaultNamePrefix is prepended to the generated display name of users who join without one.
	DefaultNamePrefix = "User_"

	// DefaultNameSuffixLength is how many trailing characters of the connection id form the default name.
	DefaultNameSuffixLength = 4

	// MaxFileNameLength bounds the sanitised part of an upload key, in bytes.
	MaxFileNameLength = 180
)

// ConnectionID returns a new identifier for a websocket connection.
func ConnectionID() string {
	return uuid.New().String()
}

// MessageID generates a UUID v4 string used as a chat message identifier.
func MessageID() string {
	return uuid.New().String()
}

// DefaultName derives a display name from the last characters of a connection id.
func DefaultName(connID string) string {
	suffix := connID
	if len(suffix) > DefaultNameSuffixLength {
		suffix = suffix[len(suffix)-DefaultNameSuffixLength:]
	}
	return DefaultNamePrefix + suffix
}

// SanitizeFileName reduces a client supplied file name to a single safe path
// element. It returns "" when nothing usable is left.
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '%' || r == '?' || r == '#':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, name)

	cleaned = strings.TrimSpace(cleaned)
	for len(cleaned) > MaxFileNameLength {
		_, size := utf8.DecodeLastRuneInString(cleaned)
		cleaned = cleaned[:len(cleaned)-size]
	}

	if strings.Trim(cleaned, ".") == "" {
		return ""
	}

	return cleaned
}

// UploadKey returns the storage key "<uuid>-<name>" for an uploaded file.
func UploadKey(sanitizedName string) string {
	return uuid.New().String() + "-" + sanitizedName
}

// OriginalNameFromKey strips the UUID prefix added by UploadKey.
func OriginalNameFromKey(key string) string {
	const prefixLen = 36 + 1
	if len(key) > prefixLen && key[prefixLen-1] == '-' {
		if _, err := uuid.Parse(key[:prefixLen-1]); err == nil {
			return key[prefixLen:]
		}
	}
	return key
}
