package services

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// joinToken is the payload carried by a join link or QR code. Opaque to
// clients; the only thing the backend needs out of it is the room code.
type joinToken struct {
	R string `json:"r"`
}

// EncodeJoinToken packs a room code into an opaque join token.
func EncodeJoinToken(roomCode string) string {
	data, _ := json.Marshal(joinToken{R: roomCode})
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeJoinToken resolves a join token back to its room code.
func DecodeJoinToken(token string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("malformed join token: %w", err)
	}

	var t joinToken
	if err := json.Unmarshal(data, &t); err != nil {
		return "", fmt.Errorf("malformed join token: %w", err)
	}
	if t.R == "" {
		return "", fmt.Errorf("join token carries no room code")
	}
	return t.R, nil
}
