package models

import (
	"time"

	"gorm.io/gorm"
)

// GameResult records the outcome of one finished game.
type GameResult struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	RoomID    uint           `json:"room_id" gorm:"not null;index"`
	Winner    string         `json:"winner" gorm:"not null"` // MAFIA or TOWN
	Turns     int            `json:"turns" gorm:"not null"`
	Survivors int            `json:"survivors" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Room Room `json:"room,omitempty"`
}
