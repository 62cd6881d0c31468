package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	appctx "airplane-watch/sleepwatch/internal/context"
	"airplane-watch/sleepwatch/internal/logging"

	"github.com/go-chi/chi/v5"
)

// streamKeepAlive is how often an idle event stream sends a comment line
// so proxies keep the connection open.
const streamKeepAlive = 15 * time.Second

// Dashboard handles GET /dashboard with the view composed from the
// latest feed snapshots.
func (h *Handlers) Dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := h.deps.Services.Dashboard.Compose()
		respondWithSuccess(w, http.StatusOK, &view)
	}
}

// Feeds handles GET /feeds
func (h *Handlers) Feeds() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := h.deps.Workers.Monitor.Health()
		respondWithSuccess(w, http.StatusOK, &health)
	}
}

// FeedSnapshot handles GET /feeds/{feed}, returning that feed's raw
// snapshot.
func (h *Handlers) FeedSnapshot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "feed")
		feed, ok := h.deps.Workers.Feeds.Handle(name)
		if !ok {
			respondWithError(w, http.StatusNotFound, fmt.Sprintf("unknown feed %q", name))
			return
		}

		payload, err := feed.MarshalSnapshot()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to encode snapshot")
			return
		}
		raw := json.RawMessage(payload)
		respondWithSuccess(w, http.StatusOK, &raw)
	}
}

// DashboardStream handles GET /dashboard/stream. It sends the composed
// view once on connect and again whenever any feed publishes, until the
// client goes away.
func (h *Handlers) DashboardStream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.WithRequest(appctx.GetRequestID(r.Context()), r.URL.Path)
		rc := http.NewResponseController(w)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		changes, release := h.deps.Workers.Feeds.Changes()
		defer release()

		send := func() error {
			payload, err := json.Marshal(h.deps.Services.Dashboard.Compose())
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "event: dashboard\ndata: %s\n\n", payload); err != nil {
				return err
			}
			return rc.Flush()
		}

		if err := send(); err != nil {
			log.Warnw("Dashboard stream write failed", "error", err)
			return
		}

		keepAlive := time.NewTicker(streamKeepAlive)
		defer keepAlive.Stop()

		for {
			select {
			case <-r.Context().Done():
				log.Debug("Dashboard stream client disconnected")
				return
			case <-changes:
				if err := send(); err != nil {
					log.Warnw("Dashboard stream write failed", "error", err)
					return
				}
			case <-keepAlive.C:
				if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
					return
				}
				if err := rc.Flush(); err != nil {
					return
				}
			}
		}
	}
}
