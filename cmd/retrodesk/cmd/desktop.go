package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/thejerf/suture/v4"

	"retrodesk/pkg/desktop"
	"retrodesk/pkg/mcptools"
	"retrodesk/pkg/shell"
	"retrodesk/pkg/store"
)

const version = "0.1.0"

// newSupervisor creates the root supervisor, logging its events.
func newSupervisor(name string) *suture.Supervisor {
	return suture.New(name, suture.Spec{
		EventHook: func(e suture.Event) {
			logger.Warn("supervisor: "+e.String(), "supervisor", name)
		},
	})
}

// runSupervisor serves sup until ctx ends or a service stops the tree.
func runSupervisor(ctx context.Context, sup *suture.Supervisor) error {
	err := sup.Serve(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, suture.ErrTerminateSupervisorTree) {
		return nil
	}
	return err
}

// addShell builds the desktop shell, seeds its icons from st and adds the
// shell loop, the save syncer and the MCP stdio server to sup.
func addShell(ctx context.Context, sup *suture.Supervisor, st *store.Store) {
	remote := store.Desktop{Store: st}
	syncer := desktop.NewSyncer(desktop.SyncerConfig{Logger: logger}, remote.Save)

	sh := shell.New(shell.Config{
		Viewport: desktop.Viewport{Width: cfg.Desktop.Width, Height: cfg.Desktop.Height},
		Saver:    syncer,
		Logger:   logger,
	})
	if st.Available() {
		if err := sh.Desktop.Load(ctx, remote); err != nil {
			logger.Warn("shell: using default icons", "error", err)
		}
	}
	loop := shell.NewLoop(sh, logger)

	mcpServer := server.NewMCPServer(
		"retrodesk",
		version,
		server.WithToolCapabilities(true),
	)
	mcptools.Register(mcpServer, loop)

	sup.Add(loop)
	sup.Add(syncer)
	sup.Add(&stdioService{server: server.NewStdioServer(mcpServer), in: os.Stdin, out: os.Stdout})
}

// stdioService serves MCP over stdin and stdout. When the client hangs up
// the whole tree stops.
type stdioService struct {
	server *server.StdioServer
	in     io.Reader
	out    io.Writer
}

func (s *stdioService) Serve(ctx context.Context) error {
	err := s.server.Listen(ctx, s.in, s.out)
	if err == nil || errors.Is(err, io.EOF) {
		logger.Info("mcp: client disconnected")
		return suture.ErrTerminateSupervisorTree
	}
	return err
}

func (s *stdioService) String() string {
	return "mcp-stdio"
}
