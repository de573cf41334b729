package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/dhamidi/sharp/csharp/refactor"
	_ "github.com/dhamidi/sharp/csharp/refactor/ctorfield"
	"github.com/dhamidi/sharp/csharp/syntax"
	"github.com/dhamidi/sharp/csharp/workspace"
	"github.com/dhamidi/sharp/textdiff"
)

type refactorOptions struct {
	line, column int
	title        string
	list         bool
	write        bool
	diff         bool
	color        string
}

func newRefactorCmd() *cobra.Command {
	var opts refactorOptions

	cmd := &cobra.Command{
		Use:   "refactor <file>",
		Short: "Apply a refactoring at a position in a .cs file",
		Long: `Apply the refactoring offered at --line and --column (both starting at 1)
and print the resulting file.

Use --list to print the titles of the refactorings offered at the position,
--diff to print a unified diff instead of the whole file, and -w to overwrite
the file in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.write && opts.diff {
				return fmt.Errorf("-w and --diff are mutually exclusive")
			}
			return runRefactor(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.line, "line", 1, "line of the caret")
	cmd.Flags().IntVar(&opts.column, "column", 1, "column of the caret, in characters")
	cmd.Flags().StringVar(&opts.title, "title", "", "apply the refactoring with this title")
	cmd.Flags().BoolVar(&opts.list, "list", false, "list the refactorings offered at the position")
	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "overwrite the file in place")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "print a unified diff")
	cmd.Flags().StringVar(&opts.color, "color", "auto", "color the diff (auto, always, never)")

	return cmd
}

func runRefactor(cmd *cobra.Command, filename string, opts refactorOptions) error {
	path, err := filepath.Abs(filename)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read source file: %w", err)
	}
	text := string(data)

	offset, ok := offsetAt(text, opts.line, opts.column)
	if !ok {
		return fmt.Errorf("%s:%d:%d: position outside the file", filename, opts.line, opts.column)
	}

	solution := workspace.NewSolution(solutionRoot(path))
	doc := solution.Open(path, text, 0)

	registry := refactor.DefaultRegistry
	registry.SetFormatOptions(settings.FormatOptions())

	ctx := context.Background()
	actions := registry.Compute(ctx, doc, syntax.TextSpan{Start: offset})
	if opts.list {
		for _, a := range actions {
			fmt.Fprintln(cmd.OutOrStdout(), a.Title)
		}
		return nil
	}

	action, ok := pickAction(actions, opts.title)
	if !ok {
		return fmt.Errorf("%s:%d:%d: no refactoring available", filename, opts.line, opts.column)
	}
	next, err := action.Apply(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", action.Title, err)
	}

	switch {
	case opts.write:
		if err := os.WriteFile(path, []byte(next.Text), 0644); err != nil {
			return err
		}
		added, removed := textdiff.Stat(textdiff.Compute(filename, filename, doc.Text, next.Text))
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: +%d -%d\n", filename, added, removed)
		return nil
	case opts.diff:
		out, err := textdiff.Unified(filename, filename, doc.Text, next.Text)
		if err != nil {
			return err
		}
		if r := diffRenderer(cmd.OutOrStdout(), opts.color); r != nil {
			out = textdiff.Colorize(out, r)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	default:
		_, err = fmt.Fprint(cmd.OutOrStdout(), next.Text)
		return err
	}
}

func pickAction(actions []refactor.CodeAction, title string) (refactor.CodeAction, bool) {
	for _, a := range actions {
		if title == "" || strings.EqualFold(a.Title, title) {
			return a, true
		}
	}
	return refactor.CodeAction{}, false
}

// offsetAt converts a 1-based line and character column to a byte offset.
// A column one past the end of the line addresses the line break.
func offsetAt(text string, line, column int) (int, bool) {
	if line < 1 || column < 1 {
		return 0, false
	}
	start := 0
	for l := 1; l < line; l++ {
		i := strings.IndexByte(text[start:], '\n')
		if i < 0 {
			return 0, false
		}
		start += i + 1
	}
	end := len(text)
	if i := strings.IndexByte(text[start:], '\n'); i >= 0 {
		end = start + i
	}
	rest := strings.TrimSuffix(text[start:end], "\r")

	offset := start
	for c := 1; c < column; c++ {
		if offset-start >= len(rest) {
			return 0, false
		}
		_, w := utf8.DecodeRuneInString(rest[offset-start:])
		offset += w
	}
	return offset, true
}
