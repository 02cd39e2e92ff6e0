// Package pipeline parses and runs textual table steps such as
//
//	where density int
//	sort density desc
//	add pct pop '. * 100 / 20 | round'
//
// Steps are split into words with shell quoting rules.
package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"
	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/tabkit/internal/table"
	"github.com/salmonumbrella/tabkit/internal/transform"
)

// Op names a step operation.
type Op string

const (
	OpWhere Op = "where"
	OpSort  Op = "sort"
	OpAdd   Op = "add"
)

// Step is one parsed operation.
type Step struct {
	Op        Op
	Header    string
	Source    string
	Transform string
	Direction table.Direction

	fn table.Transformer
}

// String renders the step back into its textual form.
func (s Step) String() string {
	switch s.Op {
	case OpWhere:
		return shellquote.Join(string(s.Op), s.Header, s.Transform)
	case OpSort:
		return shellquote.Join(string(s.Op), s.Header, strings.ToLower(string(s.Direction)))
	case OpAdd:
		return shellquote.Join(string(s.Op), s.Header, s.Source, s.Transform)
	default:
		return string(s.Op)
	}
}

// ParseStep parses a single step line.
func ParseStep(line string) (Step, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return Step{}, fmt.Errorf("parse step %q: %w", line, err)
	}
	if len(words) == 0 {
		return Step{}, fmt.Errorf("parse step: empty step")
	}

	op := Op(strings.ToLower(words[0]))
	args := words[1:]
	switch op {
	case OpWhere:
		if len(args) != 2 {
			return Step{}, fmt.Errorf("parse step %q: usage: where HEADER TRANSFORM", line)
		}
		fn, err := transform.Parse(args[1])
		if err != nil {
			return Step{}, fmt.Errorf("parse step %q: %w", line, err)
		}
		return Step{Op: op, Header: args[0], Transform: args[1], fn: fn}, nil
	case OpSort:
		if len(args) < 1 || len(args) > 2 {
			return Step{}, fmt.Errorf("parse step %q: usage: sort HEADER [asc|desc]", line)
		}
		dir := table.Asc
		if len(args) == 2 {
			dir, err = table.ParseDirection(args[1])
			if err != nil {
				return Step{}, fmt.Errorf("parse step %q: %w", line, err)
			}
		}
		return Step{Op: op, Header: args[0], Direction: dir}, nil
	case OpAdd:
		if len(args) != 3 {
			return Step{}, fmt.Errorf("parse step %q: usage: add NAME SOURCE TRANSFORM", line)
		}
		fn, err := transform.Parse(args[2])
		if err != nil {
			return Step{}, fmt.Errorf("parse step %q: %w", line, err)
		}
		return Step{Op: op, Header: args[0], Source: args[1], Transform: args[2], fn: fn}, nil
	default:
		return Step{}, fmt.Errorf("parse step %q: unknown operation %q (expected where|sort|add)", line, words[0])
	}
}

// ParseSteps parses every line, skipping blank lines and # comments.
func ParseSteps(lines []string) ([]Step, error) {
	steps := make([]Step, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		step, err := ParseStep(trimmed)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// Apply runs one step against t and returns the table's error state.
// Steps built as struct literals have their transform resolved here.
func (s Step) Apply(t *table.Table) error {
	fn := s.fn
	if fn == nil && (s.Op == OpWhere || s.Op == OpAdd) {
		var err error
		if fn, err = transform.Parse(s.Transform); err != nil {
			return err
		}
	}

	switch s.Op {
	case OpWhere:
		return t.Where(s.Header, fn).Err()
	case OpSort:
		dir := s.Direction
		if dir == "" {
			dir = table.Asc
		}
		return t.Sort(s.Header, dir).Err()
	case OpAdd:
		return t.AddColumn(s.Header, s.Source, fn).Err()
	default:
		return fmt.Errorf("unknown operation %q (expected where|sort|add)", s.Op)
	}
}

// Run applies steps in order and returns the first error.
func Run(t *table.Table, steps []Step) error {
	for _, s := range steps {
		if err := s.Apply(t); err != nil {
			return fmt.Errorf("step %q: %w", s.String(), err)
		}
	}
	return nil
}

// Recipe is a reusable list of steps stored as YAML.
type Recipe struct {
	Delimiter string   `yaml:"delimiter,omitempty"`
	Steps     []string `yaml:"steps"`
}

// LoadRecipe reads and parses a YAML recipe file.
func LoadRecipe(path string) (*Recipe, []Step, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading recipe: %w", err)
	}
	return ParseRecipe(data)
}

// ParseRecipe decodes a YAML recipe and parses its steps.
func ParseRecipe(data []byte) (*Recipe, []Step, error) {
	var r Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, nil, fmt.Errorf("parsing recipe: %w", err)
	}
	steps, err := ParseSteps(r.Steps)
	if err != nil {
		return nil, nil, err
	}
	return &r, steps, nil
}
