package util

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain utf8",
			input: "hello world",
			want:  "hello world",
		},
		{
			name:  "contains null byte",
			input: "hel\x00lo",
			want:  "hello",
		},
		{
			name:  "contains invalid utf8",
			input: string([]byte{'a', 0xff, 'b'}),
			want:  "ab",
		},
		{
			name:  "windows line endings",
			input: "line one\r\nline two\rline three",
			want:  "line one\nline two\nline three",
		},
		{
			name:  "surrounding whitespace",
			input: "\n\n  body \n",
			want:  "body",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanText(tt.input)
			if got != tt.want {
				t.Fatalf("unexpected cleaned value: got %q, want %q", got, tt.want)
			}
		})
	}
}
