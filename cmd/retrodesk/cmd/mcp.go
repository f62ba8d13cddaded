package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"retrodesk/pkg/store"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the desktop shell as MCP tools on stdio",
	Long: `Run the desktop shell without the HTTP server and expose it as MCP
tools over stdin and stdout. Icons are loaded from, and renames saved to,
the configured database when there is one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := store.Open(cfg.Storage.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		sup := newSupervisor("retrodesk-mcp")
		addShell(ctx, sup, st)
		return runSupervisor(ctx, sup)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
