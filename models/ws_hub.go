package models

import (
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Hub struct {
	Clients     map[*Client]bool
	Direct      chan *Envelope
	Register    chan *Client
	Unregister  chan *Client
	UserClients map[uint][]*Client
}

type Client struct {
	ID     string
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID uint
}

// Envelope is a payload addressed to every connection of one user, or only
// to ClientID when it is set.
type Envelope struct {
	UserID   uint
	ClientID string
	Payload  []byte
}

type WSMessage struct {
	Type     string      `json:"type"`
	Data     interface{} `json:"data"`
	ClientID string      `json:"client_id,omitempty"`
}

// CommentNotification is pushed to a post's author when someone else
// comments on it.
type CommentNotification struct {
	PostID    uint   `json:"post_id"`
	PostTitle string `json:"post_title"`
	CommentID uint   `json:"comment_id"`
	Author    string `json:"author"`
	Text      string `json:"text"`
}

func NewHub() *Hub {
	return &Hub{
		Clients:     make(map[*Client]bool),
		Direct:      make(chan *Envelope, 64),
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
		UserClients: make(map[uint][]*Client),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uint) *Client {
	return &Client{
		ID:     uuid.New().String(),
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		UserID: userID,
	}
}
