// Package server runs the retrodesk HTTP listener.
//
// The server supports:
//   - API paths (/api/, /uploads/, /health, /ready) going to one handler
//   - Static serving of the client build with an index.html fallback
//   - Single byte ranges, so audio can seek
//   - Optional TLS with h2 over ALPN
//   - Graceful shutdown when the serving context is cancelled
//
// Example usage:
//
//	srv, err := server.New(server.Config{Addr: ":5000", Handler: api, StaticDir: "client/build"})
//	if err != nil {
//		return err
//	}
//	return srv.Serve(ctx)
package server
