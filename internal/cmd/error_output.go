package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/tabkit/internal/output"
	"github.com/salmonumbrella/tabkit/internal/table"
)

// validationError marks bad command input (flags, step syntax, empty input).
type validationError struct {
	err error
}

func (e validationError) Error() string { return e.err.Error() }

func (e validationError) Unwrap() error { return e.err }

func invalidInput(format string, args ...interface{}) error {
	return validationError{err: fmt.Errorf(format, args...)}
}

func asValidation(err error) error {
	if err == nil {
		return nil
	}
	return validationError{err: err}
}

func validateErrorFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "auto", "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("invalid --error-format %q (expected auto|text|json|yaml)", format)
	}
}

func effectiveErrorFormat(ctx context.Context) string {
	format := strings.ToLower(strings.TrimSpace(ErrorFormatFromContext(ctx)))
	if format == "" || format == "auto" {
		switch output.FormatFromContext(ctx) {
		case output.FormatJSON, output.FormatNDJSON:
			return "json"
		case output.FormatYAML:
			return "yaml"
		default:
			return "text"
		}
	}
	return format
}

func printCommandError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	switch effectiveErrorFormat(ctx) {
	case "json":
		enc := json.NewEncoder(stderrFromContext(ctx))
		enc.SetEscapeHTML(false)
		_ = enc.Encode(buildErrorEnvelope(err))
		return
	case "yaml":
		enc := yaml.NewEncoder(stderrFromContext(ctx))
		enc.SetIndent(2)
		_ = enc.Encode(buildErrorEnvelope(err))
		_ = enc.Close()
		return
	}

	_, _ = fmt.Fprintln(stderrFromContext(ctx), err)
}

func buildErrorEnvelope(err error) map[string]interface{} {
	errMap := map[string]interface{}{
		"message":  err.Error(),
		"category": "system",
		"type":     "error",
	}
	payload := map[string]interface{}{"error": errMap}

	var validationErr validationError
	if errors.As(err, &validationErr) || errors.Is(err, table.ErrEmptyInput) {
		errMap["type"] = "validation"
		errMap["category"] = "user"
	}

	var notFoundErr table.HeaderNotFoundError
	if errors.As(err, &notFoundErr) {
		errMap["type"] = "header_not_found"
		errMap["category"] = "user"
		errMap["header"] = notFoundErr.Header
	}

	var malformedErr table.MalformedRowError
	if errors.As(err, &malformedErr) {
		errMap["type"] = "malformed_row"
		errMap["category"] = "user"
		errMap["line"] = malformedErr.Line
	}

	var dupErr table.DuplicateHeaderError
	if errors.As(err, &dupErr) {
		errMap["type"] = "duplicate_header"
		errMap["category"] = "user"
		errMap["header"] = dupErr.Header
	}

	var mismatchErr table.TypeMismatchError
	if errors.As(err, &mismatchErr) {
		errMap["type"] = "type_mismatch"
		errMap["category"] = "user"
		errMap["header"] = mismatchErr.Header
	}

	var transformErr table.TransformError
	if errors.As(err, &transformErr) {
		errMap["type"] = "transform"
		errMap["category"] = "user"
		errMap["header"] = transformErr.Header
		errMap["row"] = transformErr.Row
	}

	return payload
}
