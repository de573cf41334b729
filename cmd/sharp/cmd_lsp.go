package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/sharp/csharp/lsp"
	"github.com/dhamidi/sharp/csharp/refactor"
	_ "github.com/dhamidi/sharp/csharp/refactor/ctorfield"
)

func newLSPCmd() *cobra.Command {
	var tcp, websocket string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the Language Server Protocol server.

The server talks over stdio unless --tcp or --websocket names an address to
listen on.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tcp != "" && websocket != "" {
				return fmt.Errorf("--tcp and --websocket are mutually exclusive")
			}
			refactor.DefaultRegistry.SetFormatOptions(settings.FormatOptions())
			server := lsp.NewServer(version, refactor.DefaultRegistry)
			switch {
			case tcp != "":
				return server.RunTCP(tcp)
			case websocket != "":
				return server.RunWebSocket(websocket)
			}
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVar(&tcp, "tcp", "", "listen for a client on this TCP address")
	cmd.Flags().StringVar(&websocket, "websocket", "", "listen for a client on this WebSocket address")

	return cmd
}
