package ocr

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cyber-phys/hyperplex/pkg/loader"
)

const fence = "```"

// Unwrap strips the wrapper OCR services put around recovered text.
//
// The rule, applied to the whitespace-trimmed payload:
//  1. A JSON string literal is decoded; a JSON array of strings is decoded
//     and joined with newlines.
//  2. If the result opens with a code fence (optionally followed by a
//     language tag) on its own line, it must also close with one, and the
//     text between the fences is returned.
//  3. Anything else is returned as is.
//
// An opening fence without a closing fence is reported as
// loader.ErrEncoding; callers may fall back to the raw payload.
func Unwrap(raw string) (string, error) {
	text := strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(text, `"`):
		var s string
		if err := json.Unmarshal([]byte(text), &s); err != nil {
			return "", fmt.Errorf("%w: malformed string literal: %v", loader.ErrEncoding, err)
		}
		text = strings.TrimSpace(s)
	case strings.HasPrefix(text, "["):
		var parts []string
		if err := json.Unmarshal([]byte(text), &parts); err == nil {
			text = strings.TrimSpace(strings.Join(parts, "\n"))
		}
	}

	if !strings.HasPrefix(text, fence) {
		return text, nil
	}

	newline := strings.IndexByte(text, '\n')
	if newline < 0 {
		return "", fmt.Errorf("%w: fenced block has no body", loader.ErrEncoding)
	}
	tag := strings.TrimSpace(text[len(fence):newline])
	if strings.Contains(tag, fence) || strings.ContainsAny(tag, " \t") {
		return "", fmt.Errorf("%w: malformed fence header %q", loader.ErrEncoding, text[:newline])
	}

	body := text[newline+1:]
	if !strings.HasSuffix(body, fence) {
		return "", fmt.Errorf("%w: fenced block is not closed", loader.ErrEncoding)
	}
	body = strings.TrimSuffix(body, fence)

	return strings.TrimSpace(body), nil
}
