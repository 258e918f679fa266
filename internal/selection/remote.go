package selection

import (
	"context"
	"fmt"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// RemoteChooser sends the request to an external bot over a websocket and
// reads back a single Response.
type RemoteChooser struct {
	URL string
}

func (c *RemoteChooser) Choose(ctx context.Context, req Request) (int, error) {
	conn, _, err := websocket.Dial(ctx, c.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("dial %s: %w", c.URL, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	if err := wsjson.Write(ctx, conn, req); err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	var resp Response
	if err := wsjson.Read(ctx, conn, &resp); err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}
	idx, ok := asInt(resp.MoveIndex)
	if !ok {
		return 0, fmt.Errorf("moveIndex %v is not an integer", resp.MoveIndex)
	}
	return idx, nil
}
