package cmd

import (
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/pflag"

	"github.com/salmonumbrella/tabkit/internal/pipeline"
)

// stringList is a repeatable string flag. Unlike pflag's stringArray it can
// be cleared between runs by resetting the slice.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func (l *stringList) Type() string { return "stringArray" }

// stepFlags holds the step-building flags shared by render and export.
type stepFlags struct {
	steps  stringList
	wheres stringList
	adds   stringList
	recipe string
	sortBy string
	desc   bool
}

func (f *stepFlags) register(fs *pflag.FlagSet) {
	fs.Var(&f.steps, "step", "Pipeline step, e.g. 'where pop int' (repeatable)")
	fs.StringVar(&f.recipe, "recipe", "", "YAML recipe file with a steps list")
	fs.Var(&f.wheres, "where", "Transform a column in place: HEADER=TRANSFORM (repeatable)")
	fs.Var(&f.adds, "add", "Derive a column: NAME=SOURCE:TRANSFORM (repeatable)")
	fs.StringVar(&f.sortBy, "sort", "", "Sort rows by column")
	fs.BoolVar(&f.desc, "desc", false, "Sort descending (with --sort)")
}

func (f *stepFlags) reset() {
	*f = stepFlags{}
}

// build assembles steps in application order: recipe, --where, --add,
// --sort, then --step. It also returns the recipe delimiter, if any.
func (f *stepFlags) build() (string, []pipeline.Step, error) {
	var (
		recipeDelimiter string
		steps           []pipeline.Step
	)

	if strings.TrimSpace(f.recipe) != "" {
		recipe, recipeSteps, err := pipeline.LoadRecipe(strings.TrimSpace(f.recipe))
		if err != nil {
			return "", nil, asValidation(err)
		}
		recipeDelimiter = recipe.Delimiter
		steps = append(steps, recipeSteps...)
	}

	lines := make([]string, 0, len(f.wheres)+len(f.adds)+len(f.steps)+1)
	for _, w := range f.wheres {
		line, err := whereStepLine(w)
		if err != nil {
			return "", nil, err
		}
		lines = append(lines, line)
	}
	for _, a := range f.adds {
		line, err := addStepLine(a)
		if err != nil {
			return "", nil, err
		}
		lines = append(lines, line)
	}
	if f.sortBy != "" {
		dir := "asc"
		if f.desc {
			dir = "desc"
		}
		lines = append(lines, shellquote.Join("sort", f.sortBy, dir))
	} else if f.desc {
		return "", nil, invalidInput("--desc requires --sort")
	}
	lines = append(lines, f.steps...)

	parsed, err := pipeline.ParseSteps(lines)
	if err != nil {
		return "", nil, asValidation(err)
	}
	return recipeDelimiter, append(steps, parsed...), nil
}

// whereStepLine turns HEADER=TRANSFORM into a where step.
func whereStepLine(v string) (string, error) {
	header, transform, ok := strings.Cut(v, "=")
	if !ok || strings.TrimSpace(header) == "" || strings.TrimSpace(transform) == "" {
		return "", invalidInput("invalid --where %q (expected HEADER=TRANSFORM)", v)
	}
	return shellquote.Join("where", strings.TrimSpace(header), transform), nil
}

// addStepLine turns NAME=SOURCE:TRANSFORM into an add step.
func addStepLine(v string) (string, error) {
	name, rest, ok := strings.Cut(v, "=")
	if !ok {
		return "", invalidInput("invalid --add %q (expected NAME=SOURCE:TRANSFORM)", v)
	}
	source, transform, ok := strings.Cut(rest, ":")
	if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(source) == "" || strings.TrimSpace(transform) == "" {
		return "", invalidInput("invalid --add %q (expected NAME=SOURCE:TRANSFORM)", v)
	}
	return shellquote.Join("add", strings.TrimSpace(name), strings.TrimSpace(source), transform), nil
}
