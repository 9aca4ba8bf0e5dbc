package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thingmesh/telemetry-go/internal/store"
	"github.com/thingmesh/telemetry-go/internal/util"
)

func (h *handlers) GetHealth(w http.ResponseWriter, r *http.Request) {
	util.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListSensors handles GET /sensors with optional topic and limit query
// parameters. No matches yields an empty array, never an error.
func (h *handlers) ListSensors(w http.ResponseWriter, r *http.Request) {
	h.listRecent(w, r, r.URL.Query().Get("topic"))
}

// ListSensorsByTopic handles GET /sensors/* where the wildcard is the
// topic name (topics contain slashes, e.g. sensor/temperature).
func (h *handlers) ListSensorsByTopic(w http.ResponseWriter, r *http.Request) {
	h.listRecent(w, r, chi.URLParam(r, "*"))
}

func (h *handlers) listRecent(w http.ResponseWriter, r *http.Request, topic string) {
	limit := util.ParseLimit(r, 50, 200)
	records, err := h.repo.ListRecent(r.Context(), topic, limit)
	if err != nil {
		util.WriteError(w, http.StatusInternalServerError, "storage_unavailable", "failed to list records")
		return
	}
	util.WriteJSON(w, http.StatusOK, records)
}

type insertReq struct {
	Topic     string     `json:"topic"`
	Payload   string     `json:"payload"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// PostSensor handles POST /sensors (authorized): manual record insert.
func (h *handlers) PostSensor(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	var req insertReq
	if err := json.Unmarshal(body, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid JSON: "+err.Error())
		return
	}
	if req.Topic == "" || req.Payload == "" {
		util.WriteError(w, http.StatusBadRequest, "invalid_request", "topic and payload are required")
		return
	}

	var ts time.Time
	if req.Timestamp != nil {
		ts = *req.Timestamp
	}
	id, err := h.repo.Insert(r.Context(), req.Topic, req.Payload, ts)
	if err != nil {
		util.WriteError(w, http.StatusInternalServerError, "storage_unavailable", "failed to store record")
		return
	}
	util.WriteJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

type updateReq struct {
	Payload *string `json:"payload"`
}

// PutSensor handles PUT /sensors/{id} (authorized): replaces the
// payload in place, leaving topic and timestamp untouched.
func (h *handlers) PutSensor(w http.ResponseWriter, r *http.Request) {
	id, ok := util.ParseID(chi.URLParam(r, "id"))
	if !ok {
		util.WriteError(w, http.StatusNotFound, "not_found", "record not found")
		return
	}
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	var req updateReq
	if err := json.Unmarshal(body, &req); err != nil || req.Payload == nil {
		util.WriteError(w, http.StatusBadRequest, "invalid_request", "payload must be a string")
		return
	}

	if err := h.repo.Update(r.Context(), id, *req.Payload); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.WriteError(w, http.StatusNotFound, "not_found", "record not found")
			return
		}
		util.WriteError(w, http.StatusInternalServerError, "storage_unavailable", "failed to update record")
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]string{"message": "record updated"})
}

// DeleteSensor handles DELETE /sensors/{id} (authorized).
func (h *handlers) DeleteSensor(w http.ResponseWriter, r *http.Request) {
	id, ok := util.ParseID(chi.URLParam(r, "id"))
	if !ok {
		util.WriteError(w, http.StatusNotFound, "not_found", "record not found")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.WriteError(w, http.StatusNotFound, "not_found", "record not found")
			return
		}
		util.WriteError(w, http.StatusInternalServerError, "storage_unavailable", "failed to delete record")
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]string{"message": "record deleted"})
}

// readBody reads the request body with the configured size cap. It
// writes the error response itself when the read fails.
func (h *handlers) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxBody+1))
	if err != nil {
		util.WriteError(w, http.StatusBadRequest, "invalid_request", "failed to read body")
		return nil, false
	}
	if int64(len(body)) > h.maxBody {
		util.WriteError(w, http.StatusRequestEntityTooLarge, "invalid_request", "body too large")
		return nil, false
	}
	return body, true
}
