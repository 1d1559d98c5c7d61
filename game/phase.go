package game

import (
	"errors"
	"fmt"
	"math/rand"
)

// Commands arriving in the wrong phase are rejected as no-ops with these
// errors; committed room state is never touched on rejection.
var (
	ErrInvalidTransition = errors.New("command not valid in current phase")
	ErrNotEnoughPlayers  = errors.New("at least 2 players are required to start")
)

// Public phase announcements written on every transition.
const (
	MsgNightFallen = "NIGHT HAS FALLEN"
	MsgDayVote     = "DAY — DISCUSS AND VOTE"
)

// Start moves a lobby into the first night: deals roles, opens turn 1 and
// clears any stale night actions. Rejected outside LOBBY or with fewer
// than 2 players.
func Start(doc *RoomDoc, cfg Config, rng *rand.Rand) error {
	if doc.GameState != PhaseLobby {
		return ErrInvalidTransition
	}
	if len(doc.Players) < 2 {
		return ErrNotEnoughPlayers
	}

	AssignRoles(doc, cfg, rng)
	doc.GameState = PhaseNight
	doc.TurnCount = 1
	doc.NightActions = nil
	doc.PublicMessage = MsgNightFallen
	return nil
}

// Advance commits the single transition out of the current phase. The
// cycle is fixed as NIGHT → DAY → VOTING → NIGHT; night and voting
// resolutions run on the way out of their phases, and the win evaluator
// runs after every resolution and may force GAMEOVER instead.
func Advance(doc *RoomDoc) error {
	switch doc.GameState {
	case PhaseNight:
		outcome := ResolveNight(doc)
		if win := EvaluateWin(doc); win.Over {
			endGame(doc, win.Winner)
			return nil
		}
		doc.GameState = PhaseDay
		doc.PublicMessage = outcome.Message
		return nil

	case PhaseDay:
		for _, p := range doc.Players {
			p.VoteTarget = ""
		}
		doc.GameState = PhaseVoting
		doc.PublicMessage = MsgDayVote
		return nil

	case PhaseVoting:
		ResolveVotes(doc)
		if win := EvaluateWin(doc); win.Over {
			endGame(doc, win.Winner)
			return nil
		}
		doc.GameState = PhaseNight
		doc.TurnCount++
		doc.NightActions = nil
		doc.PublicMessage = MsgNightFallen
		return nil

	default:
		return ErrInvalidTransition
	}
}

func endGame(doc *RoomDoc, winner Faction) {
	doc.GameState = PhaseGameOver
	doc.NightActions = nil
	doc.PublicMessage = fmt.Sprintf("%s WINS", winner)
}

// Reset returns a finished room to the lobby so the host can start a new
// game with the same group: roles back to UNKNOWN, everyone alive, every
// vote and night action gone.
func Reset(doc *RoomDoc) error {
	if doc.GameState != PhaseGameOver {
		return ErrInvalidTransition
	}
	for _, p := range doc.Players {
		p.Role = RoleUnknown
		p.IsAlive = true
		p.VoteTarget = ""
	}
	doc.GameState = PhaseLobby
	doc.TurnCount = 0
	doc.NightActions = nil
	doc.PublicMessage = ""
	return nil
}

// SubmitNightAction records one living player's private action for the
// current night. Only the acting player writes its own entry.
func SubmitNightAction(doc *RoomDoc, actorID string, action NightAction) error {
	if doc.GameState != PhaseNight {
		return ErrInvalidTransition
	}
	actor, ok := doc.Players[actorID]
	if !ok || !actor.IsAlive {
		return ErrInvalidTransition
	}
	if doc.NightActions == nil {
		doc.NightActions = make(map[string]NightAction)
	}
	doc.NightActions[actorID] = action
	return nil
}

// SubmitVote records one living player's vote target.
func SubmitVote(doc *RoomDoc, voterID, targetID string) error {
	if doc.GameState != PhaseVoting {
		return ErrInvalidTransition
	}
	voter, ok := doc.Players[voterID]
	if !ok || !voter.IsAlive {
		return ErrInvalidTransition
	}
	voter.VoteTarget = targetID
	return nil
}
