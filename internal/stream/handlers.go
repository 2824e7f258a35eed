package stream

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes exposes topic as a read-only websocket feed at /ws.
func RegisterRoutes(r fiber.Router, hub *Hub, topic string) {
	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		client := hub.Register(topic)
		defer hub.Unregister(client)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			}
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		hub.Unregister(client)
		<-done
	}))
}
