package message

import (
	"encoding/json"
)

const (
	LeaderboardRequest = "LEADERBOARD_REQUEST"
	LeaderboardUpdate  = "LEADERBOARD_UPDATE"
	Error              = "ERROR"
)

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type LeaderboardRequestPayload struct {
	Limit int `json:"limit"`
}
