package files

import (
	"path"
	"regexp"
	"strings"
)

// Verdict is the outcome of validating a candidate upload's type.
type Verdict int

const (
	Accepted Verdict = iota
	RejectedExtension
	RejectedMimeType
)

// Validator checks a filename/declared-MIME pair against fixed
// allow-sets. Both sets are configured at process start; comparison is
// case-insensitive for extensions and exact for MIME strings.
type Validator struct {
	extensions map[string]bool
	mimeTypes  map[string]bool
}

// NewValidator creates a Validator from the configured allow-sets.
func NewValidator(extensions, mimeTypes []string) *Validator {
	v := &Validator{
		extensions: make(map[string]bool, len(extensions)),
		mimeTypes:  make(map[string]bool, len(mimeTypes)),
	}
	for _, ext := range extensions {
		v.extensions[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	for _, mt := range mimeTypes {
		v.mimeTypes[mt] = true
	}
	return v
}

// Validate checks the extension allow-set first, then the declared MIME
// type. Both must pass. The returned extension is the lower-cased
// validated one and is only meaningful when the verdict is Accepted;
// downstream code must use it instead of the raw user-supplied suffix.
func (v *Validator) Validate(filename, declaredMime string) (Verdict, string) {
	ext, ok := extensionOf(filename)
	if !ok || !v.extensions[ext] {
		return RejectedExtension, ""
	}
	if !v.mimeTypes[declaredMime] {
		return RejectedMimeType, ""
	}
	return Accepted, ext
}

// extensionOf returns the lower-cased substring after the last dot.
// A filename with no dot, or with nothing after it, has no extension.
func extensionOf(filename string) (string, bool) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return "", false
	}
	return strings.ToLower(filename[idx+1:]), true
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename strips directory components and unsafe characters
// from a user-supplied filename. The result is used for extension
// extraction and audit logs only; storage names always come from the
// name generator.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}
