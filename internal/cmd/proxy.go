package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/romyengine/romy/internal/log"
	"github.com/romyengine/romy/internal/server/proxy"
)

// Proxy forwards API connections to a romy server and logs the decoded traffic.
type Proxy struct {
	ListenAddr        string        `help:"Proxy listen address" default:":3243" env:"ROMY_PROXY_ADDR"`
	UpstreamAddr      string        `help:"Address of the romy API server" required:"" env:"ROMY_PROXY_UPSTREAM"`
	ConnectionTimeout time.Duration `help:"Timeout for connecting upstream and for the first bytes of a session" default:"30s" env:"ROMY_PROXY_TIMEOUT"`
}

// Run is called by Kong when the proxy command is executed.
func (p *Proxy) Run(logger *slog.Logger, frames log.FrameLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if p.UpstreamAddr == "" {
		return errors.New("upstream address is empty")
	}

	logger.Info("Starting romy proxy", "listen", p.ListenAddr, "upstream", p.UpstreamAddr)
	proxySrv := proxy.New(p.ListenAddr, p.UpstreamAddr, p.ConnectionTimeout, logger, frames)

	proxyErrCh := make(chan error, 1)
	go func() {
		proxyErrCh <- proxySrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down proxy server")
		_ = proxySrv.Close()
		return nil
	case err := <-proxyErrCh:
		return err
	}
}
