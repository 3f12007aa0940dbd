package api

import (
	"github.com/labstack/echo/v4"

	apimw "github.com/reelscout/reelscout/internal/api/middleware"
	"github.com/reelscout/reelscout/internal/search"
	"github.com/reelscout/reelscout/internal/websocket"
)

const (
	// MessageSearchState carries the session's search.View.
	MessageSearchState = "search:state"
	// MessageSearchGet asks for the current state.
	MessageSearchGet = "search:get"
	// MessageServerShutdown is broadcast before the server stops.
	MessageServerShutdown = "server:shutdown"
)

// serveWebSocket attaches the connection to the session's controller. The
// client gets the current view and then one message per transition.
// GET /ws
func (s *Server) serveWebSocket(c echo.Context) error {
	controller := apimw.Controller(c)

	client, err := s.hub.HandleWebSocket(c, apimw.SessionID(c))
	if err != nil {
		s.logger.Debug().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	unsubscribe := controller.Subscribe(func(v search.View) {
		s.sendView(client, v)
	})
	go func() {
		<-client.Done()
		unsubscribe()
	}()

	s.sendView(client, controller.View())
	return nil
}

// handleClientMessage answers requests sent over an open connection.
func (s *Server) handleClientMessage(client *websocket.Client, msg websocket.Message) {
	switch msg.Type {
	case MessageSearchGet:
		controller, ok := s.sessions.Get(client.SessionID())
		if !ok {
			s.logger.Debug().Str("session", client.SessionID()).Msg("State requested for expired session")
			return
		}
		s.sendView(client, controller.View())
	default:
		s.logger.Debug().Str("type", msg.Type).Msg("Ignoring unknown client message")
	}
}

func (s *Server) sendView(client *websocket.Client, v search.View) {
	if err := client.Send(MessageSearchState, v); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to encode search state")
	}
}
