package websockets

import (
	"context"
	"sync"
)

const (
	STATUS_UNAUTHENTICATED = iota
	STATUS_AUTHENTICATED
)

type Hub struct {
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	mutex      sync.RWMutex
}

func newHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]*Client),
	}
}

func (h *Hub) run(ctx context.Context, m *Manager) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			m.registerClient(client)

		case client := <-h.unregister:
			m.unregisterClient(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, client := range h.clients {
		close(client.send)
		delete(h.clients, id)
	}
}

func (m *Manager) registerClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	m.hub.clients[client.ID] = client
	m.log.Function("registerClient").Debug("Client registered", "clientID", client.ID)
}

// unregisterClient closes the send channel once; later calls are no-ops.
func (m *Manager) unregisterClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	if _, ok := m.hub.clients[client.ID]; !ok {
		return
	}
	delete(m.hub.clients, client.ID)
	close(client.send)

	m.log.Function("unregisterClient").Debug(
		"Client unregistered",
		"clientID", client.ID,
		"userID", client.UserID,
	)
}

func (h *Hub) authenticate(client *Client, userID uint, isStaff bool) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	client.UserID = userID
	client.IsStaff = isStaff
	client.Status = STATUS_AUTHENTICATED
}

func (h *Hub) isAuthenticated(client *Client) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return client.Status == STATUS_AUTHENTICATED
}

// deliver queues message for every authenticated client that include accepts
// and returns how many clients received it.
func (m *Manager) deliver(message Message, include func(*Client) bool) int {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	sent := 0
	for _, client := range m.hub.clients {
		if client.Status != STATUS_AUTHENTICATED || !include(client) {
			continue
		}
		if client.queue(message) {
			sent++
		}
	}
	return sent
}
