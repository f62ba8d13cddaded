package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"retrodesk/pkg/api"
	"retrodesk/pkg/mail"
	"retrodesk/pkg/server"
	"retrodesk/pkg/store"
)

var serveMCP bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the REST API and the static client.

With --mcp the desktop shell also runs in-process and is exposed as MCP
tools over stdin and stdout; icon renames are saved to the same database.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := store.Open(cfg.Storage.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		if !st.Available() {
			logger.Warn("serve: no storage path configured, running without a database")
		}

		mailer := mail.New(mail.Config{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			User:     cfg.Email.User,
			Password: cfg.Email.Password,
			To:       cfg.Email.To,
		})
		if !mailer.Configured() {
			logger.Warn("serve: email is not configured")
		}

		handler, err := api.New(api.Config{
			Store:      st,
			Mailer:     mailer,
			UploadsDir: cfg.Server.UploadsDir,
			CORSOrigin: cfg.Server.CORSOrigin,
			Logger:     logger,
		})
		if err != nil {
			return err
		}

		srvCfg := server.Config{
			Addr:            cfg.Server.Addr,
			Handler:         handler,
			ReadTimeout:     cfg.Server.ReadTimeout,
			WriteTimeout:    cfg.Server.WriteTimeout,
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
			StaticDir:       cfg.Server.StaticDir,
			Logger:          logger,
		}
		if cfg.Server.TLSCert != "" {
			srvCfg.TLS = &server.TLSConfig{CertFile: cfg.Server.TLSCert, KeyFile: cfg.Server.TLSKey}
		}
		srv, err := server.New(srvCfg)
		if err != nil {
			return err
		}

		sup := newSupervisor("retrodesk")
		sup.Add(srv)
		if serveMCP {
			addShell(ctx, sup, st)
		}

		logger.Info("starting retrodesk", "addr", cfg.Server.Addr, "tls", srvCfg.TLS != nil, "mcp", serveMCP)
		return runSupervisor(ctx, sup)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "also serve the desktop shell as MCP tools on stdio")
	rootCmd.AddCommand(serveCmd)
}
