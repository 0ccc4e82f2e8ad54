package controllers

import (
	"bufio"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"plangen/middleware"
	"plangen/store"
)

// Stream pushes the caller's change-feed events as server-sent events, one
// JSON payload per event. Another tab writing the same dashboard shows up
// here; the client merges with replace-by-id semantics so a duplicate or an
// echo of its own write is harmless.
func (rc *RoadmapController) Stream(c *fiber.Ctx) error {
	profileID, ok := c.Locals("profileId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	dashboardID := uint(c.QueryInt("dashboard_id"))
	if dashboardID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "dashboard_id is required!", nil)
	}
	table := c.Query("table")

	events, unsubscribe := rc.Store.Subscribe(table, store.Filter{
		ProfileID:   profileID,
		DashboardID: dashboardID,
	})

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()
		for event := range events {
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			if err := w.Flush(); err != nil {
				// client went away
				return
			}
		}
	}))

	return nil
}
