package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// readInputSource reads content from a file path or stdin when source is "-".
func readInputSource(source string, stdin io.Reader) (string, error) {
	data, err := readSource(source, stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(data), nil
}

// readTableInput reads raw table text without trimming, so leading blank
// cells and trailing newlines reach the parser untouched. With no argument
// it reads piped stdin.
func readTableInput(args []string, stdin io.Reader) (string, error) {
	source := "-"
	if len(args) > 0 {
		source = args[0]
	} else if !inputHasData(stdin) {
		return "", invalidInput("no table input: pass a file or pipe data on stdin")
	}
	return readSource(source, stdin)
}

func readSource(source string, stdin io.Reader) (string, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return "", invalidInput("empty input source")
	}

	var r io.Reader
	if trimmed == "-" {
		if stdin != nil {
			r = stdin
		} else {
			r = os.Stdin
		}
	} else {
		file, err := os.Open(trimmed)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", trimmed, err)
		}
		defer file.Close()
		r = file
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

func inputHasData(r io.Reader) bool {
	if r == nil {
		r = os.Stdin
	}
	if file, ok := r.(*os.File); ok {
		stat, err := file.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) == 0
	}
	return true
}
