package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"agentplug/internal/catalog"
	"agentplug/internal/runner"
	"agentplug/internal/settings"
	"agentplug/internal/webui"
	"agentplug/pkg/logging"
)

// Options wires the server to its collaborators.
type Options struct {
	Addr            string
	ShutdownTimeout time.Duration

	Store    *catalog.Store
	Settings *settings.Resolver
	Broker   *webui.Broker
	Invoker  runner.Invoker

	// MCPHandler is mounted at MCPPath when non-nil.
	MCPHandler http.Handler
	MCPPath    string
}

// Server is the plugin host HTTP server.
type Server struct {
	addr            string
	shutdownTimeout time.Duration

	store    *catalog.Store
	settings *settings.Resolver
	broker   *webui.Broker
	invoker  runner.Invoker

	handler http.Handler
}

// New builds the routes and middleware chain.
func New(opts Options) *Server {
	s := &Server{
		addr:            opts.Addr,
		shutdownTimeout: opts.ShutdownTimeout,
		store:           opts.Store,
		settings:        opts.Settings,
		broker:          opts.Broker,
		invoker:         opts.Invoker,
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = 10 * time.Second
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /plugins/{id}/{path...}", s.handleAsset)
	mux.HandleFunc("POST /api/plugins/{id}/{handler}", s.handlePluginAPI)
	mux.HandleFunc("POST /api/plugins", s.handleManagement)
	mux.HandleFunc("GET /api/plugins", s.handleListPlugins)
	mux.HandleFunc("POST /api/plugins/reload", s.handleReload)
	mux.HandleFunc("POST /api/load_webui_extensions", s.handleWebUIExtensions)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if opts.MCPHandler != nil && opts.MCPPath != "" {
		mux.Handle(opts.MCPPath, opts.MCPHandler)
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "route not found")
	})

	s.handler = Chain(s.rawAssets(mux), RecoverPanic(), RequestID(), AccessLog(), CORS())
	return s
}

// Handler returns the full HTTP handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves HTTP/1.1 and cleartext HTTP/2 on the configured address until
// ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           h2c.NewHandler(s.handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server", "Listening on %s", ln.Addr())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	logging.Info("Server", "Shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
