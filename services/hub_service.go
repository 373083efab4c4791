package services

import (
	"encoding/json"
	"log"

	"blogicum/models"
)

// HubService owns the websocket hub. All map access happens on the Run
// goroutine; other goroutines talk to it through the hub channels.
type HubService struct {
	hub *models.Hub
}

func NewHubService() *HubService {
	hub := models.NewHub()
	service := &HubService{hub: hub}

	go service.Run()

	return service
}

func (h *HubService) GetHub() *models.Hub {
	return h.hub
}

func (h *HubService) Run() {
	for {
		select {
		case client := <-h.hub.Register:
			h.registerClient(client)

		case client := <-h.hub.Unregister:
			h.unregisterClient(client)

		case envelope := <-h.hub.Direct:
			h.sendToUser(envelope)
		}
	}
}

func (h *HubService) registerClient(client *models.Client) {
	h.hub.Clients[client] = true
	h.hub.UserClients[client.UserID] = append(h.hub.UserClients[client.UserID], client)
	log.Printf("Client %s registered for user: %d", client.ID, client.UserID)
}

func (h *HubService) unregisterClient(client *models.Client) {
	if _, ok := h.hub.Clients[client]; !ok {
		return
	}
	delete(h.hub.Clients, client)
	close(client.Send)
	h.forget(client)
	log.Printf("Client %s unregistered for user: %d", client.ID, client.UserID)
}

func (h *HubService) forget(client *models.Client) {
	clients := h.hub.UserClients[client.UserID]
	for i, c := range clients {
		if c == client {
			h.hub.UserClients[client.UserID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.hub.UserClients[client.UserID]) == 0 {
		delete(h.hub.UserClients, client.UserID)
	}
}

func (h *HubService) sendToUser(envelope *models.Envelope) {
	for _, client := range append([]*models.Client(nil), h.hub.UserClients[envelope.UserID]...) {
		if envelope.ClientID != "" && envelope.ClientID != client.ID {
			continue
		}
		select {
		case client.Send <- envelope.Payload:
		default:
			// Slow consumer: drop the connection.
			delete(h.hub.Clients, client)
			close(client.Send)
			h.forget(client)
		}
	}
}

// BroadcastToUser queues a message for every open connection of userID.
// It never blocks the caller; messages are dropped when the hub is backed up.
func (h *HubService) BroadcastToUser(userID uint, messageType string, data interface{}) {
	h.enqueue(&models.Envelope{UserID: userID}, messageType, data)
}

// SendToClient queues a message for a single connection.
func (h *HubService) SendToClient(client *models.Client, messageType string, data interface{}) {
	h.enqueue(&models.Envelope{UserID: client.UserID, ClientID: client.ID}, messageType, data)
}

func (h *HubService) enqueue(envelope *models.Envelope, messageType string, data interface{}) {
	messageBytes, err := json.Marshal(models.WSMessage{
		Type: messageType,
		Data: data,
	})
	if err != nil {
		log.Printf("Error marshaling WebSocket message: %v", err)
		return
	}
	envelope.Payload = messageBytes

	select {
	case h.hub.Direct <- envelope:
	default:
		log.Printf("Hub queue full, dropping %s message for user %d", messageType, envelope.UserID)
	}
}
