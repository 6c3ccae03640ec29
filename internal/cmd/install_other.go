//go:build !linux

package cmd

import (
	"errors"
	"log/slog"
)

var errServiceUnsupported = errors.New("service management requires linux with systemd")

func install(*slog.Logger, string) error { return errServiceUnsupported }

func uninstall(*slog.Logger) error { return errServiceUnsupported }
