package websocket

import "encoding/json"

// Message is a realtime notification pushed to connected clients.
type Message struct {
	Type    string      `json:"type"` // "group-message", "user-online", "user-offline"
	From    string      `json:"from,omitempty"`
	GroupID string      `json:"group_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// EncodeMessage encodes a Message to JSON bytes
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
