package ws

import (
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/net/websocket"

	"harlos/internal/auth"
)

// Notifier is the connection notification channel. It only logs connect and
// disconnect events: there are no rooms, no message relay and no state, all
// real-time messaging is delegated to the chat provider.
type Notifier struct{}

// NewNotifier creates a new Notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Handler upgrades the request and holds the connection open until the
// client goes away.
func (n *Notifier) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		userID := ""
		if claims, ok := c.Get("user").(*auth.Claims); ok {
			userID = claims.UserID
		}
		websocket.Handler(func(conn *websocket.Conn) {
			connID := uuid.NewString()
			log.Printf("socket connected: conn=%s user=%s", connID, userID)
			defer log.Printf("socket disconnected: conn=%s user=%s", connID, userID)

			// drain until the peer closes
			_, _ = io.Copy(io.Discard, conn)
		}).ServeHTTP(c.Response(), c.Request())
		return nil
	}
}
