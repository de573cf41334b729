package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/sharp/csharp/workspace"
	"github.com/dhamidi/sharp/format"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .cs file and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read source file: %w", err)
			}

			encoder := format.NewEncoder(outputFormat, cmd.OutOrStdout(), includePositions)
			if encoder == nil {
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			ctx := context.Background()
			doc := workspace.NewMiscellaneous().Open(filename, string(data), 0)
			root, err := doc.SyntaxRoot(ctx)
			if err != nil {
				return fmt.Errorf("parse %s: %w", filename, err)
			}
			if err := encoder.Encode(root); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			errs, err := doc.SyntaxErrors(ctx)
			if err != nil {
				return err
			}
			for _, e := range errs {
				if e.Got != nil {
					pos := e.Got.Span.Start
					fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d:%d: %s\n", filename, pos.Line, pos.Column, e.Message)
					continue
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", filename, e.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, tree, lines)")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include token positions in tree output")

	return cmd
}
