package handlers

import (
	"net/http"

	"github.com/quantfolio/quantfolio/internal/modules/optimization"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// streamMessage is one websocket frame on the frontier stream. Exactly one
// of Point, Skip or Done is set.
type streamMessage struct {
	Point *optimization.FrontierPoint `json:"point,omitempty"`
	Skip  *streamSkip                 `json:"skip,omitempty"`
	Done  *streamDone                 `json:"done,omitempty"`
}

type streamSkip struct {
	TargetReturn float64 `json:"target_return"`
	Reason       string  `json:"reason"`
}

type streamDone struct {
	Points  int `json:"points"`
	Skipped int `json:"skipped"`
}

// HandleFrontierStream handles GET /api/optimize/frontier/stream. Each
// frontier point is pushed as a JSON frame as soon as its solve converges,
// followed by a final done frame.
func (h *Handler) HandleFrontierStream(w http.ResponseWriter, r *http.Request) {
	tickers, numPoints, lookbackDays, ok := h.frontierParams(w, r)
	if !ok {
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("Websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream aborted")

	ctx := r.Context()
	sent, skipped := 0, 0
	var writeErr error

	err = h.service.StreamFrontier(tickers, numPoints, lookbackDays,
		func(p optimization.FrontierPoint) {
			if writeErr != nil {
				return
			}
			point := p
			writeErr = wsjson.Write(ctx, conn, streamMessage{Point: &point})
			if writeErr == nil {
				sent++
			}
		},
		func(target float64, solveErr error) {
			skipped++
			if writeErr != nil {
				return
			}
			writeErr = wsjson.Write(ctx, conn, streamMessage{Skip: &streamSkip{
				TargetReturn: target,
				Reason:       solveErr.Error(),
			}})
		})
	if err != nil {
		h.log.Error().Err(err).Strs("tickers", tickers).Msg("Frontier stream failed")
		conn.Close(websocket.StatusInternalError, err.Error())
		return
	}
	if writeErr != nil {
		h.log.Warn().Err(writeErr).Msg("Frontier stream client write failed")
		return
	}

	if err := wsjson.Write(ctx, conn, streamMessage{Done: &streamDone{Points: sent, Skipped: skipped}}); err != nil {
		h.log.Warn().Err(err).Msg("Failed to write stream completion frame")
		return
	}

	conn.Close(websocket.StatusNormalClosure, "")
}
