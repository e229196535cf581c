package transport

import (
	"time"

	"github.com/thesrcielos/ZombieDefense/internal/game/state"
	"github.com/thesrcielos/ZombieDefense/pkg/logger"
)

// writeWait bounds how long a slow viewer can hold up a broadcast.
const writeWait = 5 * time.Second

type OutgoingMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func SendToClient(clientID string, msg OutgoingMessage) {
	client := state.GetClient(clientID)
	if client == nil {
		return
	}
	send(client, msg)
}

// BroadcastBy sends every client the message built for it, so clients that
// asked for different leaderboard sizes each get their own page.
func BroadcastBy(build func(client *state.Client) (OutgoingMessage, bool)) {
	for _, client := range state.GetAllClients() {
		msg, ok := build(client)
		if !ok {
			continue
		}
		send(client, msg)
	}
}

func send(client *state.Client, msg OutgoingMessage) {
	client.ConnMu.Lock()
	defer client.ConnMu.Unlock()

	if err := client.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		logger.Warnf("Error setting write deadline for %s: %v", client.ID, err)
		return
	}
	if err := client.Conn.WriteJSON(msg); err != nil {
		logger.Warnf("Error sending msg to %s: %v", client.ID, err)
	}
}
