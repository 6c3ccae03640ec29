package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

const serviceName = "romy.service"

// Service manages the systemd unit running the API server.
type Service struct {
	Install   ServiceInstall   `cmd:"" help:"Install and start romy server as a systemd service"`
	Uninstall ServiceUninstall `cmd:"" help:"Stop and remove the systemd service"`
}

type ServiceInstall struct {
	Config string `help:"Configuration file passed to the service's server command" type:"path"`
}

func (s *ServiceInstall) Run(logger *slog.Logger) error {
	return install(logger, s.Config)
}

type ServiceUninstall struct{}

func (s *ServiceUninstall) Run(logger *slog.Logger) error {
	return uninstall(logger)
}

// serverCommand is the command line the unit starts.
func serverCommand(exePath, configPath string) string {
	parts := []string{fmt.Sprintf("%q", exePath), "server"}
	if configPath != "" {
		parts = append(parts, fmt.Sprintf("--config=%q", configPath))
	}
	return strings.Join(parts, " ")
}

func systemdUnitContent(exePath, configPath string) string {
	workingDir := filepath.Dir(exePath)
	return fmt.Sprintf(`[Unit]
Description=romy input engine API server
After=network-online.target
Wants=network-online.target

[Service]
Type=simple
ExecStart=%s
WorkingDirectory=%s
Restart=on-failure

[Install]
WantedBy=multi-user.target
`, serverCommand(exePath, configPath), workingDir)
}
