package ops

import (
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
)

// handleStream upgrades GET /ws and forwards every update published to the
// feed as one JSON text message. The connection is write-only from the
// server's point of view; closing the read side lets the peer's close
// handshake cancel the context.
func (s *Server) handleStream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			s.logger.Error("websocket accept failed", "error", err)
			return
		}
		defer func() {
			_ = conn.Close(websocket.StatusInternalError, "unexpected close")
		}()

		ctx := conn.CloseRead(r.Context())

		updates, cancel := s.feed.Subscribe()
		defer cancel()

		s.logger.Debug("stream subscriber connected", "remote", r.RemoteAddr)

		for {
			select {
			case <-ctx.Done():
				_ = conn.Close(websocket.StatusNormalClosure, "")
				return
			case u, ok := <-updates:
				if !ok {
					// Dropped by the feed for falling behind.
					_ = conn.Close(websocket.StatusPolicyViolation, "subscriber too slow")
					return
				}
				data, err := json.Marshal(u)
				if err != nil {
					s.logger.Error("marshal update for stream", "error", err)
					continue
				}
				if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
					return
				}
			}
		}
	}
}
