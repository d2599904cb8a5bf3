package adapter

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"luxdeck/internal/api"
	"luxdeck/internal/model"
)

// SceneEvent announces that the rig's stored scenes changed. SceneID is
// empty for bulk changes.
type SceneEvent struct {
	SceneID model.SceneID
}

// SubscribeScenes opens the rig's SSE stream and forwards scene-change
// events until ctx is cancelled or the stream drops. The channel is closed
// on exit; callers that want refresh-forever semantics resubscribe.
func (c *Client) SubscribeScenes(ctx context.Context) (<-chan SceneEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/events", nil)
	if err != nil {
		return nil, Wrap(ErrRejected, "subscribe events", "build request", err)
	}

	req.Header.Set("Accept", "text/event-stream")

	// The subscription outlives any single request timeout.
	httpc := &http.Client{Transport: c.httpc.Transport}

	resp, err := httpc.Do(req)
	if err != nil {
		return nil, Wrap(ErrTransient, "subscribe events", "request failed", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()

		return nil, classifyStatus("subscribe events", resp)
	}

	events := make(chan SceneEvent, 8)

	go func() {
		defer close(events)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)

		var eventName string

		for scanner.Scan() {
			line := scanner.Text()

			switch {
			case strings.HasPrefix(line, "event:"):
				eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				if eventName != api.EventScenes {
					continue
				}

				var payload api.Event

				data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
				if err := json.Unmarshal([]byte(data), &payload); err != nil {
					continue
				}

				select {
				case events <- SceneEvent{SceneID: model.SceneID(payload.SceneID)}:
				case <-ctx.Done():
					return
				}
			case line == "":
				eventName = ""
			}
		}
	}()

	return events, nil
}
