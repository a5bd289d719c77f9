package websocket

import (
	"context"
	"net/http"

	"github.com/Qitmeer/qitmeer-clbench/common"
	"github.com/gorilla/websocket"
	"github.com/mailru/easyjson/jwriter"
	"github.com/twinj/uuid"
)

const sendBuffer = 64

// Hub fans every broadcast message out to the connected clients.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

type Client struct {
	id     string
	hub    *Hub
	socket *websocket.Conn
	send   chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, sendBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func helloMessage(id string) []byte {
	w := jwriter.Writer{}
	w.RawString(`{"type":"hello","id":`)
	w.String(id)
	w.RawByte('}')
	b, _ := w.BuildBytes()
	return b
}

// Run serves register, unregister and broadcast until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for c := range h.clients {
			close(c.send)
			delete(h.clients, c)
		}
		close(h.done)
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = true
			c.send <- helloMessage(c.id)
			common.ProbeLoger.Debugf("stats client %s connected, %d client(s)", c.id, len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				close(c.send)
				delete(h.clients, c)
				common.ProbeLoger.Debugf("stats client %s disconnected", c.id)
			}
		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// too slow, drop it
					close(c.send)
					delete(h.clients, c)
				}
			}
		}
	}
}

// Broadcast queues message for every client. It returns false once the hub
// has stopped.
func (h *Hub) Broadcast(message []byte) bool {
	select {
	case h.broadcast <- message:
		return true
	case <-h.done:
		return false
	}
}

func (c *Client) read() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.socket.Close()
	}()
	for {
		// clients only listen; anything they send is discarded
		if _, _, err := c.socket.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) write() {
	defer func() {
		_ = c.socket.Close()
	}()
	for message := range c.send {
		if err := c.socket.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.socket.WriteMessage(websocket.CloseMessage, []byte{})
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func (h *Hub) WsPage(res http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(res, req, nil)
	if err != nil {
		common.ProbeLoger.Warningf("websocket upgrade: %v", err)
		return
	}
	client := &Client{id: uuid.NewV4().String(), hub: h, socket: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	}
	go client.read()
	go client.write()
}
