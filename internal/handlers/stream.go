package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/valyala/fasthttp"
)

var streamHeartbeat = 15 * time.Second

// stream serves a live collection as server-sent events. Every snapshot is
// sent as a "snapshot" event carrying the full item list. A failed load ends
// the stream with a single "error" event. The subscription is cancelled as
// soon as the client goes away.
//
// Callers must copy any request-scoped strings the subscription captures;
// the writer outlives the handler.
func stream[T any](c *fiber.Ctx, subscribe func(ctx context.Context) <-chan store.Snapshot[T]) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	ctx, cancel := context.WithCancel(context.Background())
	snapshots := subscribe(ctx)
	path := utils.CopyString(c.Path())

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		heartbeat := time.NewTicker(streamHeartbeat)
		defer heartbeat.Stop()

		for {
			select {
			case snap, ok := <-snapshots:
				if !ok {
					return
				}
				if snap.Err != nil {
					slog.Warn("live stream terminated", "path", path, "error", snap.Err)
					writeEvent(w, "error", dto.ErrorResponse{Error: true, Message: snap.Err.Error()})
					w.Flush()
					return
				}
				items := snap.Items
				if items == nil {
					items = []T{}
				}
				if err := writeEvent(w, "snapshot", items); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-heartbeat.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func writeEvent(w *bufio.Writer, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
