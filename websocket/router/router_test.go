package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thesrcielos/ZombieDefense/websocket/message"
)

func TestRouteMessage(t *testing.T) {
	r := New()
	var got string
	r.Handle(message.LeaderboardRequest, func(clientID string, msg message.Message) {
		got = clientID
	})

	assert.True(t, r.RouteMessage("c1", message.Message{Type: message.LeaderboardRequest}))
	assert.Equal(t, "c1", got)
	assert.False(t, r.RouteMessage("c2", message.Message{Type: "UNKNOWN"}))
	assert.Equal(t, "c1", got)
}
