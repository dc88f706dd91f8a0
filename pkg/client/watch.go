package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"

	"github.com/kode4food/flowdraft/pkg/api"
	"github.com/kode4food/flowdraft/pkg/log"
)

const (
	msgSubscribe  = "subscribe"
	msgSubscribed = "subscribed"

	watchBufferSize = 16
)

// Watch streams workflow change events from the server until ctx is done or
// the connection drops, then closes the returned channel. A nil subscription
// receives every event
func (r *Remote) Watch(
	ctx context.Context, sub *api.ClientSubscription,
) (<-chan *api.WorkflowEvent, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, r.wsURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	filter := api.ClientSubscription{}
	if sub != nil {
		filter = *sub
		err := conn.WriteJSON(api.SubscribeRequest{
			Type: msgSubscribe,
			Data: filter,
		})
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
		}
	}

	res := make(chan *api.WorkflowEvent, watchBufferSize)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = conn.Close()
	}()
	go func() {
		defer close(res)
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			ev, ok := decodeEvent(data)
			// events sent before the server applied the subscription
			// are filtered here
			if !ok || !filter.Matches(ev) {
				continue
			}
			select {
			case res <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return res, nil
}

func (r *Remote) wsURL() string {
	switch {
	case strings.HasPrefix(r.baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(r.baseURL, "https://") +
			routeWebSocket
	case strings.HasPrefix(r.baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(r.baseURL, "http://") +
			routeWebSocket
	default:
		return r.baseURL + routeWebSocket
	}
}

func decodeEvent(data []byte) (*api.WorkflowEvent, bool) {
	if gjson.GetBytes(data, "type").String() == msgSubscribed {
		return nil, false
	}
	var ev api.WorkflowEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		slog.Debug("Ignoring undecodable event",
			log.Error(err))
		return nil, false
	}
	return &ev, true
}
