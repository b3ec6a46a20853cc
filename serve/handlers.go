package serve

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/DarlingtonDeveloper/listkey/jsonvalue"
)

// KeysResponse is the body of a successful POST /api/keys.
type KeysResponse struct {
	Keys []string `json:"keys"`
}

// Reply answers one WebSocket message.
type Reply struct {
	ID    string   `json:"id"`
	Keys  []string `json:"keys,omitempty"`
	Error string   `json:"error,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("[http] failed to write response", zap.Int("status", status), zap.Error(err))
	}
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleKeys handles POST /api/keys
func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	items, err := jsonvalue.DecodeArray(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		http.Error(w, "Invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.writeJSON(w, http.StatusOK, KeysResponse{Keys: s.keyer.Keys(items)})
}

// handleWebSocket keys every message received on the connection.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("[ws] upgrade error", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBody)

	s.log.Debug("[ws] client connected", zap.String("remote", r.RemoteAddr))
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("[ws] read error", zap.Error(err))
			}
			return
		}

		reply := s.keyMessage(msg)
		if err := conn.WriteJSON(reply); err != nil {
			s.log.Warn("[ws] write error", zap.String("id", reply.ID), zap.Error(err))
			return
		}
	}
}

func (s *Server) keyMessage(msg []byte) Reply {
	reply := Reply{ID: uuid.NewString()}
	items, err := jsonvalue.DecodeArray(bytes.NewReader(msg))
	if err != nil {
		reply.Error = err.Error()
		return reply
	}
	reply.Keys = s.keyer.Keys(items)
	return reply
}
