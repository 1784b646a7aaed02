package ai

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestUnmarshalFlexible_ConceptVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Concept
	}{
		{
			name:  "valid json object",
			input: `{"name":"Apple","relation":"mentions"}`,
			want:  Concept{Name: "Apple", Relation: "mentions"},
		},
		{
			name:  "unquoted key and single quotes",
			input: `{name: 'Apple', relation: 'defines'}`,
			want:  Concept{Name: "Apple", Relation: "defines"},
		},
		{
			name:  "trailing comma",
			input: `{"name":"Apple",}`,
			want:  Concept{Name: "Apple"},
		},
		{
			name:  "missing endbracket",
			input: `{"name":"Apple`,
			want:  Concept{Name: "Apple"},
		},
		{
			name:  "stringified invalid json object",
			input: `"{name: 'Apple'}"`,
			want:  Concept{Name: "Apple"},
		},
		{
			name:  "duplicate leading brace",
			input: "{\n{\n  \"name\": \"Apple\"\n}\n",
			want:  Concept{Name: "Apple"},
		},
		{
			name:  "json code fence",
			input: "```json\n{\"name\": \"Apple\", \"relation\": \"amends\"}\n```",
			want:  Concept{Name: "Apple", Relation: "amends"},
		},
		{
			name:  "bare code fence",
			input: "```\n{\"name\": \"Apple\"}\n```",
			want:  Concept{Name: "Apple"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got Concept
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("UnmarshalFlexible() got = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestUnmarshalFlexible_ConceptSet(t *testing.T) {
	input := `{concepts: [{name:'A', relation:'mentions'},{name:'B',}]}`
	var got ConceptSet
	if err := UnmarshalFlexible(input, &got); err != nil {
		t.Fatalf("UnmarshalFlexible() error = %v", err)
	}
	if len(got.Concepts) != 2 || got.Concepts[0].Name != "A" || got.Concepts[1].Name != "B" {
		t.Fatalf("UnmarshalFlexible() got = %+v, want concepts A,B", got)
	}
}

func TestUnmarshalFlexible_Unrecoverable(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "prose", input: "hello"},
		{name: "array for object", input: `[{"name":"Apple"}]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got Concept
			err := UnmarshalFlexible(tc.input, &got)
			if !errors.Is(err, ErrMalformedReply) {
				t.Fatalf("UnmarshalFlexible() error = %v, want ErrMalformedReply", err)
			}
		})
	}
}

func TestGenerateSchemaRequiresConceptFields(t *testing.T) {
	raw, err := json.Marshal(GenerateSchema(&ConceptSet{}))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"concepts"`, `"relation"`, `"additionalProperties":false`} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("schema missing %s: %s", want, raw)
		}
	}
}

func TestReplyPreview(t *testing.T) {
	long := strings.Repeat("a", replyPreviewLen+10)
	if got := replyPreview(long); got != strings.Repeat("a", replyPreviewLen)+"..." {
		t.Fatalf("replyPreview() = %q", got)
	}
	if got := replyPreview("  short  "); got != "short" {
		t.Fatalf("replyPreview() = %q", got)
	}
}
