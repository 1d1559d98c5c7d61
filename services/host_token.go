package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IssueHostToken signs the room-scoped token handed to the host display
// when a room is created. Only the bearer may start, advance or reset
// that room.
func IssueHostToken(jwtSecret, roomCode string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"room": roomCode,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}
