package models

import (
	"time"

	"gorm.io/gorm"
)

// Room is the durable record of a game session. The live state lives in
// the room store; this row mirrors phase and turn for history and room
// listing.
type Room struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Code      string         `json:"code" gorm:"uniqueIndex;not null"`
	Status    string         `json:"status" gorm:"not null;default:'LOBBY'"` // LOBBY, NIGHT, VOTING, DAY, GAMEOVER
	TurnCount int            `json:"turn_count" gorm:"not null;default:0"`
	StartedAt *time.Time     `json:"started_at"`
	EndedAt   *time.Time     `json:"ended_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Players []Player     `json:"players,omitempty" gorm:"foreignKey:RoomID"`
	Results []GameResult `json:"results,omitempty" gorm:"foreignKey:RoomID"`
}
