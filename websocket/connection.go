package websocket

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/thesrcielos/ZombieDefense/internal/game/state"
	"github.com/thesrcielos/ZombieDefense/pkg/logger"
	"github.com/thesrcielos/ZombieDefense/websocket/message"
)

func (f *LeaderboardFeed) listenClientMessages(clientID string, conn *websocket.Conn) {
	defer func() {
		logger.Debugf("Leaderboard client disconnected: %s", clientID)
		state.UnregisterClient(clientID)
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warnf("Error reading message: %v", err)
			}
			break
		}

		var msg message.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Debugf("Error decoding message: %v", err)
			continue
		}

		f.router.RouteMessage(clientID, msg)
	}
}
