package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/sharp/csharp/diagnostics"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Report syntax errors in .cs files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, filename := range args {
				data, err := os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read source file: %w", err)
				}
				found, err := diagnostics.Check(context.Background(), data)
				if err != nil {
					return fmt.Errorf("check %s: %w", filename, err)
				}
				for _, d := range found {
					fmt.Fprintf(cmd.OutOrStdout(), "%s:%s\n", filename, d)
				}
				if len(found) > 0 {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files have syntax errors", failed, len(args))
			}
			return nil
		},
	}
}
