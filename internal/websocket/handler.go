package websocket

import (
	"net/http"
	"strings"

	"takatrack-backend/internal/middleware"
	"takatrack-backend/pkg/utils"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Any origin; the handshake is authenticated by token
		return true
	},
}

// tokenFromRequest prefers the query parameter since browsers cannot set
// headers on a WebSocket handshake.
func tokenFromRequest(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// HandleWebSocket authenticates the caller and upgrades the connection to
// an event subscription.
func HandleWebSocket(hub *Hub, v middleware.TokenVerifier, opts middleware.AuthOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := zap.S()

		var userID int64
		tokenString := tokenFromRequest(r)
		switch {
		case tokenString != "":
			id, err := v.Identity(tokenString)
			if err != nil {
				log.Debugw("❌ Invalid token on WebSocket handshake", "error", err)
				utils.RespondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			userID = id
		case !opts.Enforce:
			userID = opts.DemoUserID
		default:
			utils.RespondError(w, http.StatusUnauthorized, "Authorization token is required")
			return
		}

		// Upgrade HTTP connection to WebSocket
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warnw("❌ WebSocket upgrade failed", "error", err)
			return
		}

		client := NewClient(userID, conn, hub)
		if !hub.join(client) {
			conn.Close()
			return
		}

		// Start pumps in separate goroutines
		go client.WritePump()
		go client.ReadPump()
	}
}
