package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"

	"mafiaparty/game"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// HostClientID marks the shared-display connection; everything else is a
// player device.
const HostClientID = "host"

// Hub fans room document snapshots out to the websocket clients of each
// room. The first client of a room opens a store subscription, the last
// one closes it again, so every commit to a room reaches all of its
// connected displays and devices.
type Hub struct {
	clients     map[*Client]bool
	register    chan *Client
	unregister  chan *Client
	mutex       sync.RWMutex
	roomService *RoomService
	store       *RoomStore

	subscriptions map[string]func() // roomCode -> unsubscribe
}

type Client struct {
	hub      *Hub
	id       string
	socket   *websocket.Conn
	send     chan []byte
	roomCode string
	playerID string
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func NewHub(roomService *RoomService, store *RoomStore) *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		roomService:   roomService,
		store:         store,
		subscriptions: make(map[string]func()),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			if _, ok := h.subscriptions[client.roomCode]; !ok {
				h.subscriptions[client.roomCode] = h.store.Subscribe(context.Background(), client.roomCode, func(doc *game.RoomDoc) {
					h.BroadcastToRoom(doc.Code, "room_update", doc)
				})
			}
			h.mutex.Unlock()
			log.Printf("Client %s registered for room %s (player %s) - total clients: %d", client.id, client.roomCode, client.playerID, len(h.clients))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)

				if h.roomClientCount(client.roomCode) == 0 {
					if unsubscribe, ok := h.subscriptions[client.roomCode]; ok {
						unsubscribe()
						delete(h.subscriptions, client.roomCode)
					}
				}
			}
			h.mutex.Unlock()

			// Last-will presence write, firebase onDisconnect style.
			if client.playerID != HostClientID {
				h.roomService.MarkOffline(context.Background(), client.roomCode, client.playerID)
			}
			log.Printf("Client %s unregistered from room %s (player %s) - total clients: %d", client.id, client.roomCode, client.playerID, len(h.clients))
		}
	}
}

// roomClientCount counts remaining clients for a room. Caller holds mutex.
func (h *Hub) roomClientCount(roomCode string) int {
	n := 0
	for client := range h.clients {
		if strings.EqualFold(client.roomCode, roomCode) {
			n++
		}
	}
	return n
}

// BroadcastToRoom sends a typed message to every client of a room.
func (h *Hub) BroadcastToRoom(roomCode string, messageType string, payload interface{}) {
	data, err := json.Marshal(Message{Type: messageType, Payload: payload})
	if err != nil {
		log.Printf("Error marshaling %s message for room %s: %v", messageType, roomCode, err)
		return
	}

	h.mutex.Lock()
	for client := range h.clients {
		if !strings.EqualFold(client.roomCode, roomCode) {
			continue
		}
		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
	h.mutex.Unlock()
}

// sendTo delivers data to a client only while it is still registered.
// A broadcast can evict a slow client and close its send channel at any
// moment, so the membership check and the send happen under the mutex.
func (h *Hub) sendTo(client *Client, data []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if !h.clients[client] {
		return
	}
	select {
	case client.send <- data:
	default:
		log.Printf("Client %s send buffer full, dropping message", client.id)
	}
}

// SendRoomSync pushes the current document to one client, used when a
// client (re)connects or explicitly asks for state.
func (h *Hub) SendRoomSync(client *Client) {
	doc, err := h.store.Read(context.Background(), client.roomCode)
	if err != nil {
		log.Printf("Error reading room %s for sync to client %s: %v", client.roomCode, client.id, err)
		return
	}

	data, err := json.Marshal(Message{Type: "room_sync", Payload: doc})
	if err != nil {
		log.Printf("Error marshaling room sync for %s: %v", client.roomCode, err)
		return
	}

	h.sendTo(client, data)
}

// ConnectedPlayers lists the player ids currently connected for a room.
func (h *Hub) ConnectedPlayers(roomCode string) []string {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	var ids []string
	for client := range h.clients {
		if strings.EqualFold(client.roomCode, roomCode) {
			ids = append(ids, client.playerID)
		}
	}
	return ids
}

func (h *Hub) RegisterClient(conn *websocket.Conn, roomCode, playerID string) *Client {
	client := &Client{
		hub:      h,
		id:       uuid.NewString(),
		socket:   conn,
		send:     make(chan []byte, 256),
		roomCode: strings.ToLower(roomCode),
		playerID: playerID,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	return client
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.socket.Close()
	}()

	for {
		_, message, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	defer c.socket.Close()

	for message := range c.send {
		if err := c.socket.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.socket.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *Client) handleMessage(msg Message) {
	switch msg.Type {
	case "ping":
		data, _ := json.Marshal(Message{Type: "pong", Payload: "pong"})
		c.hub.sendTo(c, data)

	case "request_room_state":
		c.hub.SendRoomSync(c)

	default:
		log.Printf("Unknown message type %q from player %s in room %s", msg.Type, c.playerID, c.roomCode)
	}
}
