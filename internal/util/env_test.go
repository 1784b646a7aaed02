package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("HP_TEST_STRING", "value")
	t.Setenv("HP_TEST_EMPTY", "")

	if got := GetEnvString("HP_TEST_STRING", "def"); got != "value" {
		t.Fatalf("got %q, want value", got)
	}
	if got := GetEnvString("HP_TEST_EMPTY", "def"); got != "def" {
		t.Fatalf("empty value: got %q, want def", got)
	}
	if got := GetEnvString("HP_TEST_UNSET_STRING", "def"); got != "def" {
		t.Fatalf("unset: got %q, want def", got)
	}
}

func TestGetEnvNumbers(t *testing.T) {
	t.Setenv("HP_TEST_INT", " 12 ")
	t.Setenv("HP_TEST_BAD_INT", "twelve")
	t.Setenv("HP_TEST_FLOAT", "1.25")

	if got := GetEnvInt("HP_TEST_INT", 3); got != 12 {
		t.Fatalf("GetEnvInt = %d, want 12", got)
	}
	if got := GetEnvInt("HP_TEST_BAD_INT", 3); got != 3 {
		t.Fatalf("GetEnvInt fallback = %d, want 3", got)
	}
	if got := GetEnvFloat("HP_TEST_FLOAT", 1); got != 1.25 {
		t.Fatalf("GetEnvFloat = %v, want 1.25", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"true", false, true},
		{"false", true, false},
		{"yes", true, true},
		{"yes", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("HP_TEST_BOOL", tt.value)
			if got := GetEnvBool("HP_TEST_BOOL", tt.def); got != tt.want {
				t.Fatalf("GetEnvBool(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
			}
		})
	}
}

func TestLoadEnvKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	if err := os.WriteFile(file, []byte("HP_TEST_DOTENV=from-file\nHP_TEST_DOTENV_SET=from-file\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("HP_TEST_DOTENV_SET", "from-env")
	t.Setenv("HP_TEST_DOTENV", "")
	os.Unsetenv("HP_TEST_DOTENV")

	LoadEnv(file)
	t.Cleanup(func() { os.Unsetenv("HP_TEST_DOTENV") })

	if got := os.Getenv("HP_TEST_DOTENV"); got != "from-file" {
		t.Fatalf("HP_TEST_DOTENV = %q, want from-file", got)
	}
	if got := os.Getenv("HP_TEST_DOTENV_SET"); got != "from-env" {
		t.Fatalf("HP_TEST_DOTENV_SET = %q, want from-env", got)
	}
}
