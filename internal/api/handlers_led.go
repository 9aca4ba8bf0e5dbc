package api

import (
	"encoding/json"
	"net/http"

	"github.com/thingmesh/telemetry-go/internal/metrics"
	"github.com/thingmesh/telemetry-go/internal/util"
)

type ledReq struct {
	State *bool `json:"state"`
}

// PostLED handles POST /led (authorized): publishes "1" or "0" to the
// actuator topic. Fire-and-forget — the transport ack is the only
// success criterion, no device-side confirmation is awaited.
func (h *handlers) PostLED(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	var req ledReq
	if err := json.Unmarshal(body, &req); err != nil || req.State == nil {
		util.WriteError(w, http.StatusBadRequest, "invalid_request", "missing or invalid 'state' (boolean)")
		return
	}

	payload := "0"
	if *req.State {
		payload = "1"
	}

	if err := h.pub.Publish(r.Context(), h.actuatorTopic, payload); err != nil {
		metrics.CommandsPublished.WithLabelValues("error").Inc()
		util.WriteError(w, http.StatusInternalServerError, "transport_unavailable", "failed to publish command")
		return
	}
	metrics.CommandsPublished.WithLabelValues("ok").Inc()

	util.WriteJSON(w, http.StatusOK, map[string]any{
		"status": "LED command sent",
		"value":  *req.State,
	})
}
