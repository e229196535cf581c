package state

import (
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// Client is one connected leaderboard viewer.
type Client struct {
	ID     string
	Conn   *websocket.Conn
	ConnMu sync.Mutex

	limit atomic.Int64
}

// Limit is the leaderboard page size the client asked for. It may change
// while a broadcast is reading it.
func (c *Client) Limit() int {
	return int(c.limit.Load())
}

var (
	clients   = make(map[string]*Client)
	clientsMu sync.RWMutex
)

func RegisterClient(id string, limit int, conn *websocket.Conn) *Client {
	clientsMu.Lock()
	defer clientsMu.Unlock()

	client := &Client{ID: id, Conn: conn}
	client.limit.Store(int64(limit))
	clients[id] = client
	return client
}

func UnregisterClient(id string) {
	clientsMu.Lock()
	defer clientsMu.Unlock()

	delete(clients, id)
}

func GetClient(id string) *Client {
	clientsMu.RLock()
	defer clientsMu.RUnlock()

	return clients[id]
}

func GetAllClients() []*Client {
	clientsMu.RLock()
	defer clientsMu.RUnlock()

	all := make([]*Client, 0, len(clients))
	for _, c := range clients {
		all = append(all, c)
	}
	return all
}

func SetLimit(id string, limit int) {
	if c := GetClient(id); c != nil {
		c.limit.Store(int64(limit))
	}
}
