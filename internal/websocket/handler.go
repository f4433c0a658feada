package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches the connection to channel and blocks until it closes.
func ServeWs(hub *Hub, c *websocket.Conn, channel string) {
	client := &Client{Hub: hub, Conn: c, Channel: channel, Send: make(chan []byte, 256)}
	hub.attach(client)

	go client.writePump()
	client.readPump()
}

// Attach registers a client that is fed by something other than a websocket connection,
// such as an in-process consumer.
func Attach(hub *Hub, client *Client) {
	hub.attach(client)
}
