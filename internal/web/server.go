package web

import "context"

// Server is the optional status API as seen by the board.
type Server interface {
	Start(ctx context.Context) error
	// ListenAddr is the bound address, or "" when nothing listens.
	ListenAddr() string
	Stop() error
}

var (
	_ Server = (*HTTPServer)(nil)
	_ Server = (*NoopServer)(nil)
)

// NoopServer stands in when the status API is disabled.
type NoopServer struct{}

func (*NoopServer) Start(context.Context) error { return nil }
func (*NoopServer) ListenAddr() string          { return "" }
func (*NoopServer) Stop() error                 { return nil }

// NewServer returns an HTTPServer, or a NoopServer when cfg.ListenAddr is
// empty.
func NewServer(cfg ServerConfig, sources Sources, logger Logger) Server {
	if cfg.ListenAddr == "" {
		return &NoopServer{}
	}
	return NewHTTPServer(cfg, sources, logger)
}
