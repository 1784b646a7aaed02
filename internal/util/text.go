package util

import "strings"

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// CleanText drops invalid UTF-8 and NUL bytes, normalizes line endings and
// trims surrounding whitespace. OCR output goes through it before it is
// stored as node data.
func CleanText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	sanitized = strings.ReplaceAll(sanitized, "\x00", "")
	return strings.TrimSpace(lineEndings.Replace(sanitized))
}
