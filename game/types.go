package game

// Phase is the authoritative stage of the turn cycle.
type Phase string

const (
	PhaseLobby    Phase = "LOBBY"
	PhaseNight    Phase = "NIGHT"
	PhaseVoting   Phase = "VOTING"
	PhaseDay      Phase = "DAY"
	PhaseGameOver Phase = "GAMEOVER"
)

// Role is a player's assigned role. UNKNOWN until roles are dealt.
type Role string

const (
	RoleUnknown   Role = "UNKNOWN"
	RoleVillager  Role = "VILLAGER"
	RoleMafia     Role = "MAFIA"
	RoleDoctor    Role = "DOCTOR"
	RoleDetective Role = "DETECTIVE"
)

// ActionType is a night action kind.
type ActionType string

const (
	ActionKill        ActionType = "KILL"
	ActionSave        ActionType = "SAVE"
	ActionInvestigate ActionType = "INVESTIGATE"
)

// Faction groups roles for win evaluation. Everyone who is not mafia
// counts as town.
type Faction string

const (
	FactionMafia Faction = "MAFIA"
	FactionTown  Faction = "TOWN"
)

// Config holds the role counts fixed at game start.
type Config struct {
	MafiaCount         int  `json:"mafiaCount"`
	DoctorCount        int  `json:"doctorCount"`
	DetectiveCount     int  `json:"detectiveCount"`
	PeacefulFirstNight bool `json:"peacefulFirstNight"`
}

// NightAction is one player's private submission during NIGHT.
type NightAction struct {
	Type     ActionType `json:"type"`
	TargetID string     `json:"targetId"`
}

// PlayerState is a player's entry in the live room document.
type PlayerState struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	IsAlive    bool   `json:"isAlive"`
	VoteTarget string `json:"voteTarget,omitempty"`
	IsOnline   bool   `json:"isOnline"`
}

// RoomDoc is the shared room document. It is the single source of truth
// for a running game; the phase controller is its only writer for
// phase, turn, role and alive fields.
type RoomDoc struct {
	Code          string                  `json:"code"`
	GameState     Phase                   `json:"gameState"`
	TurnCount     int                     `json:"turnCount"`
	Config        Config                  `json:"config"`
	Players       map[string]*PlayerState `json:"players"`
	NightActions  map[string]NightAction  `json:"nightActions,omitempty"`
	PublicMessage string                  `json:"publicMessage"`
}

// NewRoomDoc creates a fresh lobby document for a room code.
func NewRoomDoc(code string) *RoomDoc {
	return &RoomDoc{
		Code:      code,
		GameState: PhaseLobby,
		Config:    SuggestConfig(0),
		Players:   make(map[string]*PlayerState),
	}
}

// AliveCount returns the number of living players.
func (d *RoomDoc) AliveCount() int {
	n := 0
	for _, p := range d.Players {
		if p.IsAlive {
			n++
		}
	}
	return n
}

// Faction returns the faction a role belongs to.
func (r Role) Faction() Faction {
	if r == RoleMafia {
		return FactionMafia
	}
	return FactionTown
}
