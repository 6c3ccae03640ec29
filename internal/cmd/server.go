package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/romyengine/romy/game"
	"github.com/romyengine/romy/internal/configpaths"
	"github.com/romyengine/romy/internal/log"
	"github.com/romyengine/romy/internal/metrics"
	"github.com/romyengine/romy/internal/server/api"
	"github.com/romyengine/romy/internal/server/api/auth"
	"github.com/romyengine/romy/internal/server/api/handler"
)

const keyFileName = "romy.key.txt"

// Version is reported by the ping route. Release builds set it with -ldflags.
var Version = "dev"

type Server struct {
	Game            game.Config      `embed:"" prefix:"game."`
	ApiServerConfig api.ServerConfig `embed:"" prefix:"api."`
	Metrics         metrics.Config   `embed:"" prefix:"metrics."`

	// KeyDir overrides where the generated API password is kept.
	KeyDir string `kong:"-"`
}

// Run is called by Kong when the server command is executed.
func (s *Server) Run(logger *slog.Logger, frames log.FrameLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.StartServer(ctx, logger, frames, nil)
}

// StartServer serves the API until ctx is done. ready, when not nil, is
// called with the listen address once the API accepts connections.
func (s *Server) StartServer(ctx context.Context, logger *slog.Logger, frames log.FrameLogger, ready func(addr string)) error {
	info, err := s.Game.Info()
	if err != nil {
		return err
	}
	if s.ApiServerConfig.Addr == "" {
		return errors.New("API server address must be set (default :3242)")
	}
	if s.ApiServerConfig.Password == "" && !s.ApiServerConfig.NoAuth {
		pwd, err := s.loadOrCreatePassword(logger)
		if err != nil {
			return err
		}
		s.ApiServerConfig.Password = pwd
	}

	logger.Info("Starting romy API server", "game", info.Name, "players", fmt.Sprint(info.Players), "stepInterval", info.StepInterval)

	m := metrics.New()
	apiSrv := api.New(s.ApiServerConfig.Addr, s.ApiServerConfig, logger)
	r := apiSrv.Router()
	r.Register("ping", handler.Ping(Version))
	r.Register("game/info", handler.GameInfo(info))
	r.Register("assign", handler.Assign(info, m))
	r.Register("player/{index}", handler.Player(info, m))
	r.RegisterStream("stream", handler.Stream(info, m, frames))

	if err := apiSrv.Start(); err != nil {
		logger.Error("failed to start API server", "error", err)
		return err
	}
	defer apiSrv.Close()

	metricsErrCh := make(chan error, 1)
	if s.Metrics.Addr != "" {
		go func() { metricsErrCh <- m.Serve(ctx, s.Metrics.Addr, logger) }()
	}
	if ready != nil {
		ready(apiSrv.Addr())
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutting down romy API server")
		if s.Metrics.Addr != "" {
			if err := <-metricsErrCh; err != nil {
				logger.Warn("metrics server stopped", "error", err)
			}
		}
		return nil
	case err := <-metricsErrCh:
		return fmt.Errorf("metrics server: %w", err)
	}
}

// loadOrCreatePassword reads the API password from the key file, creating
// the file with a fresh random password on first start.
func (s *Server) loadOrCreatePassword(logger *slog.Logger) (string, error) {
	keyFileDir := s.KeyDir
	if keyFileDir == "" {
		dir, err := configpaths.DefaultConfigDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve key file path: %w", err)
		}
		keyFileDir = dir
	}
	keyFilePath := filepath.Join(keyFileDir, keyFileName)
	if pwd, err := os.ReadFile(keyFilePath); err == nil {
		if p := strings.TrimSpace(string(pwd)); p != "" {
			return p, nil
		}
	}

	newPwd, err := auth.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate new API password: %w", err)
	}
	if err := os.MkdirAll(keyFileDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config dir for key file: %w", err)
	}
	if err := os.WriteFile(keyFilePath, []byte(newPwd), 0o600); err != nil {
		return "", fmt.Errorf("failed to write new API password to file: %w", err)
	}
	logger.Info("Generated API server password", "path", keyFilePath)
	logger.Info("-------------------------------------")
	logger.Info("Your romy API server password is:")
	logger.Info("-------------------------------------")
	logger.Info(newPwd)
	logger.Info("-------------------------------------")
	logger.Info("You can change this password at any time by editing the file")
	return newPwd, nil
}
