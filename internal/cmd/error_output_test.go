package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/tabkit/internal/output"
	"github.com/salmonumbrella/tabkit/internal/table"
)

func TestValidateErrorFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"", false},
		{"auto", false},
		{"json", false},
		{"YAML", false},
		{" text ", false},
		{"ndjson", true},
		{"xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := validateErrorFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateErrorFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestEffectiveErrorFormat(t *testing.T) {
	tests := []struct {
		errorFormat  string
		outputFormat output.Format
		want         string
	}{
		{"", output.FormatText, "text"},
		{"auto", output.FormatJSON, "json"},
		{"auto", output.FormatNDJSON, "json"},
		{"auto", output.FormatYAML, "yaml"},
		{"auto", output.FormatTable, "text"},
		{"json", output.FormatText, "json"},
		{"text", output.FormatJSON, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.errorFormat+"/"+string(tt.outputFormat), func(t *testing.T) {
			ctx := WithErrorFormat(context.Background(), tt.errorFormat)
			ctx = output.WithFormat(ctx, tt.outputFormat)
			if got := effectiveErrorFormat(ctx); got != tt.want {
				t.Errorf("effectiveErrorFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildErrorEnvelope(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantType     string
		wantCategory string
		wantHeader   string
	}{
		{
			name:         "generic",
			err:          errors.New("disk full"),
			wantType:     "error",
			wantCategory: "system",
		},
		{
			name:         "header not found",
			err:          table.HeaderNotFoundError{Op: "sort", Header: "pop"},
			wantType:     "header_not_found",
			wantCategory: "user",
			wantHeader:   "pop",
		},
		{
			name:         "wrapped header not found",
			err:          fmt.Errorf("step %q: %w", "sort pop asc", table.HeaderNotFoundError{Op: "sort", Header: "pop"}),
			wantType:     "header_not_found",
			wantCategory: "user",
			wantHeader:   "pop",
		},
		{
			name:         "malformed row",
			err:          table.MalformedRowError{Line: 3, Got: 1, Want: 2},
			wantType:     "malformed_row",
			wantCategory: "user",
		},
		{
			name:         "duplicate header",
			err:          table.DuplicateHeaderError{Header: "city"},
			wantType:     "duplicate_header",
			wantCategory: "user",
			wantHeader:   "city",
		},
		{
			name:         "type mismatch",
			err:          table.TypeMismatchError{Op: "sort", Header: "v", Row: 1, Kinds: []table.Kind{table.KindInt, table.KindText}},
			wantType:     "type_mismatch",
			wantCategory: "user",
			wantHeader:   "v",
		},
		{
			name:         "transform",
			err:          table.TransformError{Op: "where", Header: "pop", Row: 0, Err: errors.New("bad int")},
			wantType:     "transform",
			wantCategory: "user",
			wantHeader:   "pop",
		},
		{
			name:         "validation",
			err:          invalidInput("invalid --where %q", "x"),
			wantType:     "validation",
			wantCategory: "user",
		},
		{
			name:         "empty input",
			err:          table.ErrEmptyInput,
			wantType:     "validation",
			wantCategory: "user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errMap, ok := buildErrorEnvelope(tt.err)["error"].(map[string]interface{})
			if !ok {
				t.Fatal("expected 'error' map in result")
			}
			if errMap["message"] != tt.err.Error() {
				t.Errorf("message = %v, want %v", errMap["message"], tt.err.Error())
			}
			if errMap["type"] != tt.wantType {
				t.Errorf("type = %v, want %v", errMap["type"], tt.wantType)
			}
			if errMap["category"] != tt.wantCategory {
				t.Errorf("category = %v, want %v", errMap["category"], tt.wantCategory)
			}
			if tt.wantHeader != "" && errMap["header"] != tt.wantHeader {
				t.Errorf("header = %v, want %v", errMap["header"], tt.wantHeader)
			}
		})
	}
}

func TestBuildErrorEnvelopeMalformedLine(t *testing.T) {
	errMap := buildErrorEnvelope(table.MalformedRowError{Line: 4, Got: 3, Want: 2})["error"].(map[string]interface{})
	if errMap["line"] != 4 {
		t.Fatalf("line = %v, want 4", errMap["line"])
	}
}

func TestPrintCommandErrorNil(t *testing.T) {
	errBuf := &bytes.Buffer{}
	ctx := withIO(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, errBuf)

	printCommandError(ctx, nil)

	if errBuf.Len() != 0 {
		t.Errorf("expected no output for nil error, got %q", errBuf.String())
	}
}

func TestPrintCommandErrorText(t *testing.T) {
	errBuf := &bytes.Buffer{}
	ctx := withIO(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, errBuf)
	ctx = WithErrorFormat(ctx, "text")

	printCommandError(ctx, table.HeaderNotFoundError{Op: "where", Header: "pop"})

	got := strings.TrimSpace(errBuf.String())
	if got != `table: where: header "pop" not found` {
		t.Errorf("unexpected text error %q", got)
	}
}

func TestPrintCommandErrorJSON(t *testing.T) {
	errBuf := &bytes.Buffer{}
	ctx := withIO(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, errBuf)
	ctx = WithErrorFormat(ctx, "json")

	printCommandError(ctx, table.DuplicateHeaderError{Header: "city"})

	var result struct {
		Error struct {
			Type   string `json:"type"`
			Header string `json:"header"`
		} `json:"error"`
	}
	if err := json.Unmarshal(errBuf.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON output %q: %v", errBuf.String(), err)
	}
	if result.Error.Type != "duplicate_header" || result.Error.Header != "city" {
		t.Errorf("unexpected envelope %+v", result.Error)
	}
}

func TestPrintCommandErrorYAMLFollowsOutput(t *testing.T) {
	errBuf := &bytes.Buffer{}
	ctx := withIO(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, errBuf)
	ctx = WithErrorFormat(ctx, "auto")
	ctx = output.WithFormat(ctx, output.FormatYAML)

	printCommandError(ctx, invalidInput("--desc requires --sort"))

	var result map[string]map[string]interface{}
	if err := yaml.Unmarshal(errBuf.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse YAML output: %v", err)
	}
	if result["error"]["type"] != "validation" {
		t.Errorf("type = %v, want validation", result["error"]["type"])
	}
	if result["error"]["message"] != "--desc requires --sort" {
		t.Errorf("message = %v", result["error"]["message"])
	}
}
