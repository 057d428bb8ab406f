package web

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"planline/internal/store"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  8 * 1024,
	WriteBufferSize: 32 * 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			return true
		}
		// Basic same-origin check; good enough for localhost.
		host := strings.TrimSpace(r.Host)
		return strings.Contains(origin, "://"+host)
	},
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "websocket upgrade failed", http.StatusBadRequest)
		return
	}
	defer conn.Close()

	projectID := strings.TrimSpace(r.URL.Query().Get("project"))

	sess, err := newSession(store.Store{Dir: strings.TrimSpace(s.cfg.Dir)}, projectID, s.cfg.ReadOnly)
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"type": "error", "error": err.Error()})
		return
	}
	defer sess.close()

	// All frame writes funnel through the session lock, so the long-press
	// timer and the read loop never interleave on the connection.
	writeFrame := func() {
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		_ = conn.WriteJSON(sess.frame())
	}
	sess.onUpdate = writeFrame

	sess.mu.Lock()
	writeFrame()
	sess.mu.Unlock()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var ev inputEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			continue
		}
		sess.mu.Lock()
		sess.apply(ev)
		writeFrame()
		sess.mu.Unlock()
	}
}
