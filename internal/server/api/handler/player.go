package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/romyengine/romy/apitypes"
	"github.com/romyengine/romy/game"
	"github.com/romyengine/romy/input"
	"github.com/romyengine/romy/internal/metrics"
	"github.com/romyengine/romy/internal/server/api"
)

// Player returns a handler that assigns the posted devices and answers with
// the device of the player named by the {index} parameter, together with
// its NES view.
func Player(info game.Info, m *metrics.Metrics) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		index, err := strconv.Atoi(req.Params["index"])
		if err != nil || index < 0 {
			return api.ErrBadRequest(fmt.Sprintf("invalid player index: %q", req.Params["index"]))
		}
		if index >= len(info.Players) {
			return api.ErrNotFound(fmt.Sprintf("player %d does not exist", index))
		}
		pool, err := decodePool(req.Payload)
		if err != nil {
			return err
		}

		a, tr := input.AssignTrace(pool, info.Players)
		m.ObserveAssign("player", a, tr)
		args := input.NewArguments(a)
		p, ok := args.Player(index)
		if !ok {
			return api.ErrNotFound(fmt.Sprintf("player %d has no device", index))
		}

		view, ok := p.Device().Convert(input.Nes)
		if !ok {
			return api.ErrInternal(fmt.Sprintf("player %d: %s cannot be read as nes", index, p.Device().Type()))
		}
		st, _ := view.Nes()
		b, err := json.Marshal(apitypes.PlayerResponse{
			Index:  index,
			Device: apitypes.FromDevice(p.Device()),
			Nes:    apitypes.FromNes(st),
		})
		if err != nil {
			return api.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(b)
		return nil
	}
}
