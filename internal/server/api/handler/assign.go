package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/romyengine/romy/apitypes"
	"github.com/romyengine/romy/game"
	"github.com/romyengine/romy/input"
	"github.com/romyengine/romy/internal/metrics"
	"github.com/romyengine/romy/internal/server/api"
)

// decodePool parses an AssignRequest payload. An empty payload is an empty pool.
func decodePool(payload string) (input.Pool, error) {
	if strings.TrimSpace(payload) == "" {
		return input.Pool{}, nil
	}
	var req apitypes.AssignRequest
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return input.Pool{}, api.ErrBadRequest(fmt.Sprintf("invalid assign request: %v", err))
	}
	pool, err := req.Pool()
	if err != nil {
		return input.Pool{}, api.ErrBadRequest(fmt.Sprintf("invalid assign request: %v", err))
	}
	return pool, nil
}

// Assign returns a handler that distributes the posted devices over the
// game's players and answers with one entry per player.
func Assign(info game.Info, m *metrics.Metrics) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		pool, err := decodePool(req.Payload)
		if err != nil {
			return err
		}
		a, tr := input.AssignTrace(pool, info.Players)
		m.ObserveAssign("assign", a, tr)
		logger.Debug("assigned pool", "devices", pool.Len(), "claimed", tr.Claimed, "dropped", tr.Dropped, "passes", tr.Passes)

		b, err := json.Marshal(apitypes.NewAssignResponse(a))
		if err != nil {
			return api.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(b)
		return nil
	}
}
