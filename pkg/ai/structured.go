package ai

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/kaptinlin/jsonrepair"
)

// replyPreviewLen bounds how much of a bad reply ends up in an error.
const replyPreviewLen = 200

// GenerateSchema reflects the JSON Schema a structured completion must
// follow. Definitions are inlined and extra properties are rejected, as the
// strict structured-output modes of both backends require.
func GenerateSchema(value any) any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return reflector.Reflect(reflect.New(t).Interface())
}

// UnmarshalFlexible decodes a structured model reply into out. A code fence
// around the reply is dropped, a reply sent as a JSON string is unwrapped,
// and anything still unparsable goes through jsonrepair once. Failures wrap
// ErrMalformedReply.
func UnmarshalFlexible(reply string, out any) error {
	candidate := stripCodeFence(reply)
	if json.Unmarshal([]byte(candidate), out) == nil {
		return nil
	}

	if inner, ok := unquoteReply(candidate); ok {
		if json.Unmarshal([]byte(inner), out) == nil {
			return nil
		}
		candidate = inner
	}

	repaired, err := jsonrepair.JSONRepair(stripDuplicateLeadingBrace(candidate))
	if err != nil {
		return fmt.Errorf("%w: %w (reply: %s)", ErrMalformedReply, err, replyPreview(reply))
	}
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return fmt.Errorf("%w: %w (reply: %s)", ErrMalformedReply, err, replyPreview(reply))
	}
	return nil
}

// unquoteReply unwraps a reply the model encoded as a JSON string.
func unquoteReply(s string) (string, bool) {
	var inner string
	if err := json.Unmarshal([]byte(s), &inner); err != nil {
		return "", false
	}
	return strings.TrimSpace(inner), true
}

// stripCodeFence removes a ```json fence some models put around their output.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	body := strings.TrimSuffix(s[3:], "```")
	if i := strings.IndexByte(body, '\n'); i >= 0 && !strings.ContainsAny(body[:i], "{[") {
		body = body[i+1:]
	}
	return strings.TrimSpace(body)
}

// stripDuplicateLeadingBrace turns "{ {..." into "{..."; small models
// sometimes open the object twice.
func stripDuplicateLeadingBrace(s string) string {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "{"); ok {
		rest = strings.TrimSpace(rest)
		if strings.HasPrefix(rest, "{") {
			return rest
		}
	}
	return s
}

func replyPreview(s string) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= replyPreviewLen {
		return string(r)
	}
	return string(r[:replyPreviewLen]) + "..."
}
