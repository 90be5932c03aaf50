package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"carepoint.io/care-assistant/internal/datasync"
)

const syncHeartbeat = 25 * time.Second

type SyncEvent struct {
	DataType datasync.DataType `json:"data_type"`
	At       time.Time         `json:"at"`
}

// SyncEventsHandler streams a "refresh" event every time the notifier fires
// for the requested data type. The subscription lives as long as the
// connection, so an open stream keeps the shared poller running.
func (h *APIHandler) SyncEventsHandler(w http.ResponseWriter, r *http.Request) {
	dt, err := datasync.ParseDataType(chi.URLParam(r, "dataType"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	// Coalesce bursts: one pending signal is enough for the client to refetch.
	signals := make(chan struct{}, 1)
	unsubscribe := h.notifier.Subscribe(dt, datasync.SubscriberFunc(func(datasync.DataType) {
		select {
		case signals <- struct{}{}:
		default:
		}
	}))
	defer unsubscribe()

	log := h.logger.With().Str("data_type", string(dt)).Logger()
	log.Debug().Msg("Sync stream opened")
	defer log.Debug().Msg("Sync stream closed")

	select {
	case <-h.done:
		return
	default:
	}

	if err := writeStreamEvent(w, "ready", SyncEvent{DataType: dt, At: time.Now().UTC()}); err != nil {
		return
	}

	heartbeat := time.NewTicker(syncHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.done:
			return
		case <-signals:
			if err := writeStreamEvent(w, "refresh", SyncEvent{DataType: dt, At: time.Now().UTC()}); err != nil {
				log.Debug().Err(err).Msg("Sync stream write failed")
				return
			}
		case <-heartbeat.C:
			if err := writeStreamEvent(w, "ping", struct{}{}); err != nil {
				return
			}
		}
	}
}

type RefreshRequest struct {
	DataTypes []string `json:"data_types" validate:"max=3,dive,required"`
}

// RefreshHandler is the manual refresh. An empty list refreshes every type.
func (h *APIHandler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	dts := make([]datasync.DataType, 0, len(req.DataTypes))
	for _, s := range req.DataTypes {
		dt, err := datasync.ParseDataType(s)
		if err != nil {
			respondWithError(w, h.logger, err)
			return
		}
		dts = append(dts, dt)
	}
	h.notifier.Refresh(dts...)
	respondWithJSON(w, h.logger, http.StatusAccepted, StatusResponse{Status: "refreshing"})
}
