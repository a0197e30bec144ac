package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/cleantrack/utils"
)

// Event types
const (
	EventSnapshot  = "snapshot"
	EventStaleData = "stale_data"
	EventNotice    = "notice"
)

type Message struct {
	Event      string      `json:"event"`
	Collection string      `json:"collection,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

// Client membungkus satu koneksi websocket. Gorilla tidak mengizinkan
// penulis konkuren, jadi semua write lewat mutex per-client.
type Client struct {
	conn *websocket.Conn
	role string

	writeMu sync.Mutex
}

func (c *Client) Role() string { return c.role }

// Send menyerialisasi dan mengirim satu pesan. Error write dikembalikan
// ke pemanggil; sesi-lah yang memutuskan menutup koneksi.
func (c *Client) Send(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub menampung semua client stream yang sedang tersambung.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) Register(conn *websocket.Conn, role string) *Client {
	client := &Client{conn: conn, role: role}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	utils.InfoLogger.Printf("stream client registered (role=%s, total=%d)", role, count)
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	delete(h.clients, client)
	h.mu.Unlock()
	client.conn.Close()
}

// BroadcastNotice mengirim pesan sistem ke semua client dengan role
// tertentu (role kosong = semua).
func (h *Hub) BroadcastNotice(role, text string) {
	h.mu.Lock()
	targets := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		if role == "" || client.role == role {
			targets = append(targets, client)
		}
	}
	h.mu.Unlock()

	for _, client := range targets {
		if err := client.Send(Message{Event: EventNotice, Data: text}); err != nil {
			utils.ErrorLogger.Printf("stream notice send: %v", err)
		}
	}
}

// CloseAll menutup semua koneksi, dipakai saat shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.clients = make(map[*Client]struct{})
	h.mu.Unlock()

	for _, client := range clients {
		client.conn.Close()
	}
}
