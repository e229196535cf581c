package websocket

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/ZombieDefense/internal/game"
	"github.com/thesrcielos/ZombieDefense/internal/game/state"
	"github.com/thesrcielos/ZombieDefense/pkg/logger"
	"github.com/thesrcielos/ZombieDefense/websocket/actions"
	"github.com/thesrcielos/ZombieDefense/websocket/message"
	"github.com/thesrcielos/ZombieDefense/websocket/router"
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

// LeaderboardFeed streams leaderboard snapshots to websocket clients.
type LeaderboardFeed struct {
	reader actions.LeaderboardReader
	router *router.Router
}

func NewLeaderboardFeed(reader actions.LeaderboardReader) *LeaderboardFeed {
	r := router.New()
	r.Handle(message.LeaderboardRequest, actions.HandleLeaderboardRequest(reader))
	return &LeaderboardFeed{reader: reader, router: r}
}

func (f *LeaderboardFeed) Handler(c echo.Context) error {
	limit := game.DefaultLeaderboardLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = min(parsed, game.MaxLeaderboardLimit)
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warnf("WebSocket upgrade failed: %v", err)
		return nil
	}

	clientID := uuid.NewString()
	state.RegisterClient(clientID, limit, ws)
	logger.Debugf("Leaderboard client connected: %s", clientID)

	actions.SendLeaderboard(f.reader, clientID, limit)
	go f.listenClientMessages(clientID, ws)
	return nil
}

// OnStatsEvent is the subscriber callback for stats events.
func (f *LeaderboardFeed) OnStatsEvent(event game.StatsEvent) {
	actions.HandleStatsUpdated(f.reader)(event)
}
