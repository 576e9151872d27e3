// The progress hub: a connection registry plus a per-job subscription
// multiplexer. Every pipeline state change is published here and fans
// out to the websocket clients subscribed to that job.
package websocket

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Hub tracks connected clients and which jobs each one follows. One
// coarse lock guards all three maps; fan-out volume is low enough that
// finer locking buys nothing.
type Hub struct {
	mu             sync.Mutex
	clients        map[string]*Client
	jobSubscribers map[string]map[string]struct{} // jobID -> clientIDs
	clientJobs     map[string]map[string]struct{} // clientID -> jobIDs
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients:        make(map[string]*Client),
		jobSubscribers: make(map[string]map[string]struct{}),
		clientJobs:     make(map[string]map[string]struct{}),
	}
}

// Connect registers a client. A client arriving without an id is
// assigned one. Returns the client id.
func (h *Hub) Connect(c *Client) string {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
	return c.ID
}

// Disconnect signals the client's pumps to exit and removes it from
// every subscription set it belonged to. Unknown ids are a no-op.
func (h *Hub) Disconnect(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeClientLocked(clientID)
}

func (h *Hub) removeClientLocked(clientID string) {
	c, ok := h.clients[clientID]
	if !ok {
		return
	}
	delete(h.clients, clientID)
	for jobID := range h.clientJobs[clientID] {
		subs := h.jobSubscribers[jobID]
		delete(subs, clientID)
		if len(subs) == 0 {
			delete(h.jobSubscribers, jobID)
		}
	}
	delete(h.clientJobs, clientID)
	// The send channel stays open: the read pump may still queue a
	// reply on it, and a send on a closed channel panics. Closing done
	// is the shutdown signal for both pumps.
	if c.done != nil {
		close(c.done)
	}
}

// Subscribe adds the client to a job's subscriber set. The client must
// already be connected.
func (h *Hub) Subscribe(clientID, jobID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[clientID]; !ok {
		return fmt.Errorf("client %s is not connected", clientID)
	}
	if h.jobSubscribers[jobID] == nil {
		h.jobSubscribers[jobID] = make(map[string]struct{})
	}
	h.jobSubscribers[jobID][clientID] = struct{}{}
	if h.clientJobs[clientID] == nil {
		h.clientJobs[clientID] = make(map[string]struct{})
	}
	h.clientJobs[clientID][jobID] = struct{}{}
	return nil
}

// Unsubscribe removes the client from one job's subscriber set, or
// from all of them when jobID is empty.
func (h *Hub) Unsubscribe(clientID, jobID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if jobID == "" {
		for id := range h.clientJobs[clientID] {
			h.unsubscribeLocked(clientID, id)
		}
		return
	}
	h.unsubscribeLocked(clientID, jobID)
}

func (h *Hub) unsubscribeLocked(clientID, jobID string) {
	if subs, ok := h.jobSubscribers[jobID]; ok {
		delete(subs, clientID)
		if len(subs) == 0 {
			delete(h.jobSubscribers, jobID)
		}
	}
	if jobs, ok := h.clientJobs[clientID]; ok {
		delete(jobs, jobID)
		if len(jobs) == 0 {
			delete(h.clientJobs, clientID)
		}
	}
}

// Publish sends the payload to every client subscribed to the job. A
// client whose send buffer is full is treated as dead and disconnected;
// delivery to the remaining clients continues.
func (h *Hub) Publish(jobID string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var dead []string
	for clientID := range h.jobSubscribers[jobID] {
		c, ok := h.clients[clientID]
		if !ok {
			continue
		}
		select {
		case c.send <- payload:
		default:
			dead = append(dead, clientID)
		}
	}
	for _, id := range dead {
		log.Printf("Dropping unresponsive websocket client %s", id)
		h.removeClientLocked(id)
	}
}

// Broadcast sends the payload to every connected client regardless of
// subscriptions. Used for system-wide notices.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var dead []string
	for clientID, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			dead = append(dead, clientID)
		}
	}
	for _, id := range dead {
		log.Printf("Dropping unresponsive websocket client %s", id)
		h.removeClientLocked(id)
	}
}

// PublishJSON marshals v and publishes it to the job's subscribers.
func (h *Hub) PublishJSON(jobID string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Publish(jobID, payload)
	return nil
}

// BroadcastJSON marshals v and broadcasts it to every client.
func (h *Hub) BroadcastJSON(v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(payload)
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// SubscriberCount returns the number of clients following a job.
func (h *Hub) SubscriberCount(jobID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.jobSubscribers[jobID])
}
