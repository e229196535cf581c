package router

import (
	"github.com/thesrcielos/ZombieDefense/pkg/logger"
	"github.com/thesrcielos/ZombieDefense/websocket/message"
)

type HandlerFunc func(clientID string, msg message.Message)

type Router struct {
	handlers map[string]HandlerFunc
}

func New() *Router {
	return &Router{handlers: map[string]HandlerFunc{}}
}

func (r *Router) Handle(msgType string, handler HandlerFunc) {
	r.handlers[msgType] = handler
}

// RouteMessage reports whether a handler existed for the message type.
func (r *Router) RouteMessage(clientID string, msg message.Message) bool {
	handler, ok := r.handlers[msg.Type]
	if !ok {
		logger.Debugf("Unknown message type: %s", msg.Type)
		return false
	}
	handler(clientID, msg)
	return true
}
