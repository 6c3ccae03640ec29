package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/romyengine/romy/apitypes"
	"github.com/romyengine/romy/game"
	"github.com/romyengine/romy/input"
	"github.com/romyengine/romy/internal/server/api"
)

// GameInfo returns a handler describing the configured game.
func GameInfo(info game.Info) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		players := info.Players
		if players == nil {
			players = []input.DeviceType{}
		}
		b, err := json.Marshal(apitypes.GameInfoResponse{
			Name:           info.Name,
			StepsPerSecond: info.StepsPerSecond(),
			StepInterval:   info.StepInterval.String(),
			Players:        players,
		})
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}
