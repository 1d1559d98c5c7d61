package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"mafiaparty/game"
	"mafiaparty/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomService is the phase controller: it owns the authoritative phase,
// turn counter and role/alive fields, and is the only writer of those
// fields in the room document. Players reach in only through
// SubmitNightAction and SubmitVote, which write their own entries.
type RoomService struct {
	db    *gorm.DB
	store *RoomStore
}

func NewRoomService(db *gorm.DB, store *RoomStore) *RoomService {
	return &RoomService{db: db, store: store}
}

type JoinRoomRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=12"`
	PlayerID string `json:"playerId"`
}

type StartGameRequest struct {
	Config game.Config `json:"config"`
}

type NightActionRequest struct {
	PlayerID string          `json:"playerId" binding:"required"`
	Type     game.ActionType `json:"type" binding:"required"`
	TargetID string          `json:"targetId" binding:"required"`
}

type VoteRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
	TargetID string `json:"targetId" binding:"required"`
}

// CreateRoom opens a fresh lobby: a durable room row plus the live
// document in the store.
func (s *RoomService) CreateRoom(ctx context.Context) (*game.RoomDoc, error) {
	code := s.generateRoomCode()

	room := models.Room{
		Code:   code,
		Status: string(game.PhaseLobby),
	}
	if err := s.db.Create(&room).Error; err != nil {
		return nil, err
	}

	doc := game.NewRoomDoc(code)
	if err := s.store.WriteDoc(ctx, code, doc); err != nil {
		return nil, err
	}

	log.Printf("Created room %s", code)
	return doc, nil
}

// GetRoom returns the live document for a code.
func (s *RoomService) GetRoom(ctx context.Context, code string) (*game.RoomDoc, error) {
	return s.store.Read(ctx, normalizeCode(code))
}

// JoinRoom creates the player on first contact with the room, or marks a
// returning device online again. The device-stable id is preserved across
// reconnects when the client re-presents it.
func (s *RoomService) JoinRoom(ctx context.Context, code string, req *JoinRoomRequest) (*game.PlayerState, error) {
	code = normalizeCode(code)

	playerID := req.PlayerID
	if playerID == "" {
		playerID = newPlayerID()
	}

	var joined *game.PlayerState
	_, err := s.store.Update(ctx, code, func(doc *game.RoomDoc) error {
		if existing, ok := doc.Players[playerID]; ok {
			existing.IsOnline = true
			joined = existing
			return nil
		}
		if doc.GameState != game.PhaseLobby {
			return game.ErrInvalidTransition
		}
		p := &game.PlayerState{
			ID:       playerID,
			Name:     req.Name,
			Role:     game.RoleUnknown,
			IsAlive:  true,
			IsOnline: true,
		}
		doc.Players[playerID] = p
		joined = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Durable join record; the live document stays the source of truth.
	var room models.Room
	if err := s.db.Where("code = ?", code).First(&room).Error; err == nil {
		player := models.Player{
			RoomID:   room.ID,
			PlayerID: playerID,
			Name:     joined.Name,
			JoinedAt: time.Now(),
		}
		if err := s.db.Where("room_id = ? AND player_id = ?", room.ID, playerID).
			FirstOrCreate(&player).Error; err != nil {
			log.Printf("Failed to record player %s in room %s: %v", playerID, code, err)
		}
	}

	log.Printf("Player %s (%s) joined room %s", playerID, joined.Name, code)
	return joined, nil
}

// StartGame deals roles and opens the first night. Host command.
func (s *RoomService) StartGame(ctx context.Context, code string, cfg game.Config) (*game.RoomDoc, error) {
	code = normalizeCode(code)

	doc, err := s.store.Update(ctx, code, func(doc *game.RoomDoc) error {
		// nil rng: the global source is lock-protected, so rooms
		// starting at the same time do not race on a shared Rand.
		return game.Start(doc, cfg, nil)
	})
	if err != nil {
		return nil, err
	}

	s.updateRoomRecord(code, doc)
	log.Printf("Room %s started: %d players, turn %d", code, len(doc.Players), doc.TurnCount)
	return doc, nil
}

// AdvancePhase commits the single transition out of the current phase.
// Host command; resolution runs with whatever actions and votes exist at
// this moment, without waiting for stragglers.
func (s *RoomService) AdvancePhase(ctx context.Context, code string) (*game.RoomDoc, error) {
	code = normalizeCode(code)

	doc, err := s.store.Update(ctx, code, game.Advance)
	if err != nil {
		return nil, err
	}

	s.updateRoomRecord(code, doc)
	if doc.GameState == game.PhaseGameOver {
		s.recordResult(code, doc)
	}
	log.Printf("Room %s advanced to %s (turn %d): %s", code, doc.GameState, doc.TurnCount, doc.PublicMessage)
	return doc, nil
}

// ResetRoom returns a finished room to the lobby. Host command.
func (s *RoomService) ResetRoom(ctx context.Context, code string) (*game.RoomDoc, error) {
	code = normalizeCode(code)

	doc, err := s.store.Update(ctx, code, game.Reset)
	if err != nil {
		return nil, err
	}

	s.updateRoomRecord(code, doc)
	log.Printf("Room %s reset to lobby", code)
	return doc, nil
}

// SubmitNightAction stores one player's private night action.
func (s *RoomService) SubmitNightAction(ctx context.Context, code string, req *NightActionRequest) error {
	code = normalizeCode(code)

	_, err := s.store.Update(ctx, code, func(doc *game.RoomDoc) error {
		return game.SubmitNightAction(doc, req.PlayerID, game.NightAction{
			Type:     req.Type,
			TargetID: req.TargetID,
		})
	})
	return err
}

// SubmitVote stores one player's vote target.
func (s *RoomService) SubmitVote(ctx context.Context, code string, req *VoteRequest) error {
	code = normalizeCode(code)

	_, err := s.store.Update(ctx, code, func(doc *game.RoomDoc) error {
		return game.SubmitVote(doc, req.PlayerID, req.TargetID)
	})
	return err
}

// Investigate answers a living detective's query about a target during
// the night. Pure read: nothing is persisted, the reveal stays private to
// the asking client.
func (s *RoomService) Investigate(ctx context.Context, code, investigatorID, targetID string) (string, error) {
	doc, err := s.store.Read(ctx, normalizeCode(code))
	if err != nil {
		return "", err
	}

	if doc.GameState != game.PhaseNight {
		return "", game.ErrInvalidTransition
	}
	investigator, ok := doc.Players[investigatorID]
	if !ok || !investigator.IsAlive || investigator.Role != game.RoleDetective {
		return "", game.ErrInvalidTransition
	}
	target, ok := doc.Players[targetID]
	if !ok {
		return "", fmt.Errorf("unknown target %s", targetID)
	}
	return game.Investigate(target), nil
}

// MarkOffline flips a player's presence hint when their connection drops.
// Best-effort last-will write; resolution logic never reads it.
func (s *RoomService) MarkOffline(ctx context.Context, code, playerID string) {
	code = normalizeCode(code)

	_, err := s.store.Update(ctx, code, func(doc *game.RoomDoc) error {
		if p, ok := doc.Players[playerID]; ok {
			p.IsOnline = false
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrRoomNotFound) {
		log.Printf("Failed to mark player %s offline in room %s: %v", playerID, code, err)
	}
}

// updateRoomRecord mirrors phase and turn into the durable room row.
func (s *RoomService) updateRoomRecord(code string, doc *game.RoomDoc) {
	updates := map[string]interface{}{
		"status":     string(doc.GameState),
		"turn_count": doc.TurnCount,
	}
	switch doc.GameState {
	case game.PhaseNight:
		if doc.TurnCount == 1 {
			now := time.Now()
			updates["started_at"] = &now
		}
	case game.PhaseGameOver:
		now := time.Now()
		updates["ended_at"] = &now
	}
	if err := s.db.Model(&models.Room{}).Where("code = ?", code).Updates(updates).Error; err != nil {
		log.Printf("Failed to update room record %s: %v", code, err)
	}
}

// recordResult writes the game-over row for history.
func (s *RoomService) recordResult(code string, doc *game.RoomDoc) {
	var room models.Room
	if err := s.db.Where("code = ?", code).First(&room).Error; err != nil {
		log.Printf("Failed to load room %s for result recording: %v", code, err)
		return
	}

	result := models.GameResult{
		RoomID:    room.ID,
		Winner:    string(game.EvaluateWin(doc).Winner),
		Turns:     doc.TurnCount,
		Survivors: doc.AliveCount(),
	}
	if err := s.db.Create(&result).Error; err != nil {
		log.Printf("Failed to record result for room %s: %v", code, err)
	}
}

func (s *RoomService) generateRoomCode() string {
	bytes := make([]byte, 3)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)[:6]
}

func newPlayerID() string {
	return uuid.NewString()
}

func normalizeCode(code string) string {
	return strings.ToLower(code)
}
