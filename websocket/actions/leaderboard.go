package actions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/thesrcielos/ZombieDefense/internal/game"
	"github.com/thesrcielos/ZombieDefense/internal/game/state"
	"github.com/thesrcielos/ZombieDefense/pkg/logger"
	"github.com/thesrcielos/ZombieDefense/websocket/message"
	"github.com/thesrcielos/ZombieDefense/websocket/router"
	"github.com/thesrcielos/ZombieDefense/websocket/transport"
)

const readTimeout = 5 * time.Second

type LeaderboardReader interface {
	GetLeaderboard(ctx context.Context, limit int) ([]game.LeaderboardEntry, error)
}

type LeaderboardUpdatePayload struct {
	Entries []game.LeaderboardEntry `json:"entries"`
	// UserID is the player whose stats triggered the update; zero for
	// snapshots sent on request.
	UserID uint `json:"user_id,omitempty"`
}

// HandleLeaderboardRequest changes the client's page size and replies with a
// fresh snapshot.
func HandleLeaderboardRequest(reader LeaderboardReader) router.HandlerFunc {
	return func(clientID string, msg message.Message) {
		var payload message.LeaderboardRequestPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Limit < 1 {
			transport.SendToClient(clientID, transport.OutgoingMessage{
				Type:    message.Error,
				Payload: "limit must be a positive integer",
			})
			return
		}
		state.SetLimit(clientID, payload.Limit)
		SendLeaderboard(reader, clientID, payload.Limit)
	}
}

func SendLeaderboard(reader LeaderboardReader, clientID string, limit int) {
	ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()

	entries, err := reader.GetLeaderboard(ctx, limit)
	if err != nil {
		logger.Errorf("Error loading leaderboard for %s: %v", clientID, err)
		return
	}
	transport.SendToClient(clientID, transport.OutgoingMessage{
		Type:    message.LeaderboardUpdate,
		Payload: LeaderboardUpdatePayload{Entries: entries},
	})
}

// HandleStatsUpdated pushes the new leaderboard to every connected client,
// loading each distinct page size once.
func HandleStatsUpdated(reader LeaderboardReader) func(game.StatsEvent) {
	return func(event game.StatsEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()

		pages := map[int][]game.LeaderboardEntry{}
		transport.BroadcastBy(func(client *state.Client) (transport.OutgoingMessage, bool) {
			limit := client.Limit()
			entries, ok := pages[limit]
			if !ok {
				var err error
				entries, err = reader.GetLeaderboard(ctx, limit)
				if err != nil {
					logger.Errorf("Error loading leaderboard: %v", err)
					return transport.OutgoingMessage{}, false
				}
				pages[limit] = entries
			}
			return transport.OutgoingMessage{
				Type:    message.LeaderboardUpdate,
				Payload: LeaderboardUpdatePayload{Entries: entries, UserID: event.UserID},
			}, true
		})
	}
}
