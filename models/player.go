package models

import (
	"time"

	"gorm.io/gorm"
)

// Player is the durable join record of one device in one room.
type Player struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	RoomID    uint           `json:"room_id" gorm:"not null;index"`
	PlayerID  string         `json:"player_id" gorm:"not null;index"` // device-stable opaque id
	Name      string         `json:"name" gorm:"not null"`
	JoinedAt  time.Time      `json:"joined_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Room Room `json:"room,omitempty"`
}
