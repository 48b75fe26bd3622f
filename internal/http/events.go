package http

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/labstack/echo/v4"
)

// Events upgrades to a websocket and streams invalidation signals, one
// JSON object per changed table. Clients re-fetch the named collection;
// no data rides on the feed itself.
func (h *Handler) Events(c echo.Context) error {
	conn, err := websocket.Accept(c.Response(), c.Request(), nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "websocket upgrade failed")
	}
	defer conn.Close(websocket.StatusInternalError, "closed")

	ctx := c.Request().Context()
	events, cancel := h.hub.Subscribe()
	defer cancel()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "")
				return nil
			}
			if err := wsjson.Write(ctx, conn, ev); err != nil {
				return nil
			}
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return nil
		}
	}
}
