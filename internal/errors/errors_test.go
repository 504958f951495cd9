package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "config error",
			code:    "E101",
			wantMsg: "Config file not found",
			wantCat: CategoryConfig,
		},
		{
			name:    "mount error",
			code:    "E301",
			wantMsg: "Container already mounted",
			wantCat: CategoryMount,
		},
		{
			name:    "reload error",
			code:    "E401",
			wantMsg: "WebSocket upgrade failed",
			wantCat: CategoryReload,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewReturnsFreshValue(t *testing.T) {
	sentinel := New("E301")
	decorated := New("E301").WithDetail("container app")

	if sentinel.Detail == decorated.Detail {
		t.Fatal("decorating a new error must not change other values")
	}
}

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New("E301")
	err := fmt.Errorf("bootstrap: %w", New("E301").WithDetail("app"))

	if !stderrors.Is(err, sentinel) {
		t.Error("errors.Is should match errors with the same code")
	}
	if stderrors.Is(err, New("E302")) {
		t.Error("errors.Is should not match a different code")
	}
	if stderrors.Is(err, Newf(CategoryMount, "no code")) {
		t.Error("errors.Is should not match an error without a code")
	}
}

func TestUnwrap(t *testing.T) {
	cause := io.ErrUnexpectedEOF
	err := New("E102").Wrap(cause)

	if !stderrors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("wrapped cause should be reachable through errors.Is")
	}
	if !strings.Contains(err.Error(), cause.Error()) {
		t.Errorf("Error() = %q, should mention the cause", err.Error())
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E501") != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New("E502")
	if got := FromError(orig, "E501"); got != orig {
		t.Error("FromError should return HotwebErrors unchanged")
	}

	got := FromError(io.EOF, "E501")
	if got.Code != "E501" || got.Wrapped != io.EOF {
		t.Errorf("FromError = %+v", got)
	}
}

func TestCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New("E403"))
	if got := Code(err); got != "E403" {
		t.Errorf("Code() = %q, want E403", got)
	}
	if got := Code(io.EOF); got != "" {
		t.Errorf("Code(io.EOF) = %q, want empty", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E301").
		WithDetail(`container "app" already holds a mounted root`).
		WithSuggestion("Unmount the existing handle first").
		WithLocation("hotweb.yaml", 4, 2)

	out := err.Format()
	for _, want := range []string{
		"ERROR E301: Container already mounted",
		"hotweb.yaml:4:2",
		`container "app" already holds a mounted root`,
		"Hint: Unmount the existing handle first",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E201").WithLocation("site.go", 10, 0)
	if got, want := err.FormatCompact(), "site.go:10: E201: Invalid selector"; got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E502").Wrap(io.EOF)

	var decoded map[string]any
	if jerr := json.Unmarshal([]byte(err.FormatJSON()), &decoded); jerr != nil {
		t.Fatalf("FormatJSON produced invalid JSON: %v", jerr)
	}
	if decoded["code"] != "E502" {
		t.Errorf("code = %v", decoded["code"])
	}
	if decoded["cause"] != "EOF" {
		t.Errorf("cause = %v", decoded["cause"])
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 40), 20)
	for _, line := range lines {
		if len(line) > 20 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should produce no lines")
	}
}

func TestCodesSorted(t *testing.T) {
	codes := Codes()
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
	if _, ok := Lookup("E301"); !ok {
		t.Error("E301 should be registered")
	}
}
