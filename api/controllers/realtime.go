package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/angelmondragon/canteen-backend/api/middleware"
	"github.com/angelmondragon/canteen-backend/api/responses"
	"github.com/angelmondragon/canteen-backend/api/validators"
	"github.com/angelmondragon/canteen-backend/internal/realtime"
	"github.com/angelmondragon/canteen-backend/pkg/config"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/canteen-backend/pkg/errors"
	"github.com/angelmondragon/canteen-backend/pkg/logger"
	"github.com/angelmondragon/canteen-backend/pkg/metrics"
)

const (
	realtimeReadLimit    = 4096
	defaultPingInterval  = 30 * time.Second
	defaultWriteDeadline = 10 * time.Second
)

// EventSubscriber hands out hub subscriptions.
type EventSubscriber interface {
	Subscribe(filters ...realtime.Filter) *realtime.Subscription
}

// RealtimeParams wires the change stream endpoint. Shutdown closes open
// streams when the server stops; hijacked connections outlive http.Server.Shutdown.
type RealtimeParams struct {
	Hub            EventSubscriber
	Config         config.RealtimeConfig
	AllowedOrigins []string
	Metrics        *metrics.CanteenMetrics
	Logger         *logger.Logger
	Shutdown       context.Context
}

// Realtime upgrades to a websocket and streams change events for the requested
// ?collections=, scoped to what the caller's role may read.
func Realtime(params RealtimeParams) http.HandlerFunc {
	logg := params.Logger
	pingInterval := params.Config.PingInterval
	if pingInterval <= 0 {
		pingInterval = defaultPingInterval
	}
	writeDeadline := params.Config.WriteDeadline
	if writeDeadline <= 0 {
		writeDeadline = defaultWriteDeadline
	}
	shutdown := params.Shutdown
	if shutdown == nil {
		shutdown = context.Background()
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(params.AllowedOrigins),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if params.Hub == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "realtime hub unavailable"))
			return
		}
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		collections, err := parseCollections(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := realtime.FiltersFor(middleware.RoleFromContext(r.Context()), userID, collections)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			if logg != nil {
				logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "realtime.upgrade_failed")
			}
			return
		}

		sub := params.Hub.Subscribe(filters...)
		params.Metrics.SessionOpened()
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithField(ctx, "collections", len(filters))
			logg.Info(ctx, "realtime.session_opened")
		}
		defer func() {
			sub.Close()
			_ = conn.Close()
			params.Metrics.SessionClosed()
			if logg != nil {
				logg.Info(ctx, "realtime.session_closed")
			}
		}()

		gone := make(chan struct{})
		go readPump(conn, pingInterval, gone)
		writePump(conn, sub, pingInterval, writeDeadline, gone, shutdown)
	}
}

// readPump discards client frames and keeps the read deadline alive on pongs.
// gone is closed once the client disconnects.
func readPump(conn *websocket.Conn, pingInterval time.Duration, gone chan<- struct{}) {
	defer close(gone)
	wait := 2 * pingInterval
	conn.SetReadLimit(realtimeReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(conn *websocket.Conn, sub *realtime.Subscription, pingInterval, writeDeadline time.Duration, gone <-chan struct{}, shutdown context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	closeWith := func(code int, text string) {
		msg := websocket.FormatCloseMessage(code, text)
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeDeadline))
	}

	for {
		select {
		case evt, ok := <-sub.C:
			if !ok {
				// The hub dropped us for falling behind; the client refetches on reconnect.
				closeWith(websocket.CloseTryAgainLater, "subscriber lagged")
				return
			}
			payload, err := json.Marshal(evt)
			if err != nil {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeDeadline)); err != nil {
				return
			}
		case <-gone:
			return
		case <-shutdown.Done():
			closeWith(websocket.CloseGoingAway, "server shutting down")
			return
		}
	}
}

func parseCollections(r *http.Request) ([]enums.Collection, error) {
	raw := validators.ParseQueryList(r, "collections")
	out := make([]enums.Collection, 0, len(raw))
	for _, name := range raw {
		collection, err := enums.ParseCollection(name)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid collections").
				WithDetails(map[string]any{"collection": name})
		}
		out = append(out, collection)
	}
	return out, nil
}

// originChecker allows same-host requests, requests without an Origin header
// and the configured CORS origins.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := map[string]bool{}
	for _, origin := range allowed {
		set[strings.TrimRight(strings.TrimSpace(origin), "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || set["*"] || set[origin] {
			return true
		}
		return strings.EqualFold(strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://"), r.Host)
	}
}
