package game

import (
	"errors"
	"math/rand"
	"testing"
)

func TestStartRequiresLobbyAndPlayers(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	t.Run("too few players", func(t *testing.T) {
		doc := testDoc("p1")
		if err := Start(doc, SuggestConfig(1), rng); !errors.Is(err, ErrNotEnoughPlayers) {
			t.Fatalf("err = %v, want ErrNotEnoughPlayers", err)
		}
		if doc.GameState != PhaseLobby {
			t.Error("rejected start still changed phase")
		}
	})

	t.Run("wrong phase", func(t *testing.T) {
		doc := testDoc("p1", "p2")
		doc.GameState = PhaseNight
		if err := Start(doc, SuggestConfig(2), rng); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("err = %v, want ErrInvalidTransition", err)
		}
	})
}

func TestStartOpensFirstNight(t *testing.T) {
	doc := testDoc("p1", "p2", "p3", "p4", "p5")
	cfg := Config{MafiaCount: 1, DoctorCount: 1, DetectiveCount: 1, PeacefulFirstNight: true}

	if err := Start(doc, cfg, rand.New(rand.NewSource(7))); err != nil {
		t.Fatal(err)
	}

	if doc.GameState != PhaseNight {
		t.Errorf("phase = %s, want NIGHT", doc.GameState)
	}
	if doc.TurnCount != 1 {
		t.Errorf("turnCount = %d, want 1", doc.TurnCount)
	}
	if doc.PublicMessage != MsgNightFallen {
		t.Errorf("publicMessage = %q", doc.PublicMessage)
	}
	if doc.AliveCount() != 5 {
		t.Errorf("aliveCount = %d, want 5", doc.AliveCount())
	}
}

func TestAdvanceInvalidPhases(t *testing.T) {
	for _, phase := range []Phase{PhaseLobby, PhaseGameOver} {
		doc := testDoc("p1", "p2")
		doc.GameState = phase
		if err := Advance(doc); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Advance in %s: err = %v, want ErrInvalidTransition", phase, err)
		}
		if doc.GameState != phase {
			t.Errorf("Advance in %s mutated phase to %s", phase, doc.GameState)
		}
	}
}

// 5 players, peaceful first night: a kill on turn 1 is ignored and the
// room moves on to DAY untouched.
func TestFirstNightScenario(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	doc := testDoc("p1", "p2", "p3", "p4", "p5")
	cfg := Config{MafiaCount: 1, DoctorCount: 1, DetectiveCount: 1, PeacefulFirstNight: true}
	if err := Start(doc, cfg, rng); err != nil {
		t.Fatal(err)
	}

	var mafiaID, targetID string
	for id, p := range doc.Players {
		if p.Role == RoleMafia {
			mafiaID = id
		} else if targetID == "" {
			targetID = id
		}
	}

	if err := SubmitNightAction(doc, mafiaID, NightAction{Type: ActionKill, TargetID: targetID}); err != nil {
		t.Fatal(err)
	}
	if err := Advance(doc); err != nil {
		t.Fatal(err)
	}

	if doc.GameState != PhaseDay {
		t.Errorf("phase = %s, want DAY", doc.GameState)
	}
	if doc.PublicMessage != "no one died" {
		t.Errorf("publicMessage = %q, want %q", doc.PublicMessage, "no one died")
	}
	if doc.AliveCount() != 5 {
		t.Errorf("someone died on the peaceful first night")
	}
}

func TestFullCycleIncrementsTurn(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	doc := testDoc("p1", "p2", "p3", "p4", "p5", "p6")
	if err := Start(doc, Config{MafiaCount: 1}, rng); err != nil {
		t.Fatal(err)
	}

	// NIGHT -> DAY -> VOTING -> NIGHT with no actions or votes.
	for _, want := range []Phase{PhaseDay, PhaseVoting, PhaseNight} {
		if err := Advance(doc); err != nil {
			t.Fatal(err)
		}
		if doc.GameState != want {
			t.Fatalf("phase = %s, want %s", doc.GameState, want)
		}
	}
	if doc.TurnCount != 2 {
		t.Errorf("turnCount = %d, want 2", doc.TurnCount)
	}
	if doc.PublicMessage != MsgNightFallen {
		t.Errorf("publicMessage = %q", doc.PublicMessage)
	}
}

func TestDayToVotingResetsVotes(t *testing.T) {
	doc := testDoc("p1", "p2", "p3")
	doc.GameState = PhaseDay
	for _, p := range doc.Players {
		p.Role = RoleVillager
		p.VoteTarget = "p1"
	}
	doc.Players["p1"].Role = RoleMafia

	if err := Advance(doc); err != nil {
		t.Fatal(err)
	}
	if doc.GameState != PhaseVoting {
		t.Fatalf("phase = %s, want VOTING", doc.GameState)
	}
	if doc.PublicMessage != MsgDayVote {
		t.Errorf("publicMessage = %q", doc.PublicMessage)
	}
	for id, p := range doc.Players {
		if p.VoteTarget != "" {
			t.Errorf("vote of %s not reset entering VOTING", id)
		}
	}
}

func TestVotingEliminationEndsGameAtParity(t *testing.T) {
	doc := testDoc("m1", "v1", "v2")
	doc.GameState = PhaseVoting
	doc.TurnCount = 1
	doc.Players["m1"].Role = RoleMafia
	doc.Players["v1"].Role = RoleVillager
	doc.Players["v2"].Role = RoleVillager

	// Town mis-votes one of its own: 1 mafia vs 1 town left, mafia wins.
	doc.Players["m1"].VoteTarget = "v1"
	doc.Players["v2"].VoteTarget = "v1"

	if err := Advance(doc); err != nil {
		t.Fatal(err)
	}
	if doc.GameState != PhaseGameOver {
		t.Fatalf("phase = %s, want GAMEOVER", doc.GameState)
	}
	if doc.PublicMessage != "MAFIA WINS" {
		t.Errorf("publicMessage = %q", doc.PublicMessage)
	}

	// Terminal: no further advances or submissions accepted.
	if err := Advance(doc); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Advance after GAMEOVER: err = %v", err)
	}
	if err := SubmitVote(doc, "m1", "v2"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("SubmitVote after GAMEOVER: err = %v", err)
	}
}

func TestVotingEliminationEndsGameForTown(t *testing.T) {
	doc := testDoc("m1", "v1", "v2")
	doc.GameState = PhaseVoting
	doc.TurnCount = 1
	doc.Players["m1"].Role = RoleMafia
	doc.Players["v1"].Role = RoleVillager
	doc.Players["v2"].Role = RoleVillager
	doc.Players["v1"].VoteTarget = "m1"
	doc.Players["v2"].VoteTarget = "m1"

	if err := Advance(doc); err != nil {
		t.Fatal(err)
	}
	if doc.GameState != PhaseGameOver {
		t.Fatalf("phase = %s, want GAMEOVER", doc.GameState)
	}
	if doc.PublicMessage != "TOWN WINS" {
		t.Errorf("publicMessage = %q", doc.PublicMessage)
	}
}

func TestSubmitRejections(t *testing.T) {
	doc := testDoc("p1", "p2")
	doc.GameState = PhaseNight
	doc.Players["p1"].IsAlive = false

	if err := SubmitNightAction(doc, "p1", NightAction{Type: ActionKill, TargetID: "p2"}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("dead actor accepted: %v", err)
	}
	if err := SubmitNightAction(doc, "ghost", NightAction{Type: ActionKill, TargetID: "p2"}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("unknown actor accepted: %v", err)
	}

	doc.GameState = PhaseDay
	if err := SubmitNightAction(doc, "p2", NightAction{Type: ActionKill, TargetID: "p1"}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("night action outside NIGHT accepted: %v", err)
	}
	if err := SubmitVote(doc, "p2", "p1"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("vote outside VOTING accepted: %v", err)
	}
}

func TestResetReturnsToLobby(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	doc := testDoc("p1", "p2", "p3")
	if err := Start(doc, Config{MafiaCount: 2}, rng); err != nil {
		t.Fatal(err)
	}

	if err := Reset(doc); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("reset accepted mid-game: %v", err)
	}

	doc.GameState = PhaseGameOver
	if err := Reset(doc); err != nil {
		t.Fatal(err)
	}
	if doc.GameState != PhaseLobby {
		t.Fatalf("phase = %s, want LOBBY", doc.GameState)
	}
	for id, p := range doc.Players {
		if p.Role != RoleUnknown || !p.IsAlive || p.VoteTarget != "" {
			t.Errorf("player %s not reset: %+v", id, p)
		}
	}
	if doc.TurnCount != 0 || doc.NightActions != nil || doc.PublicMessage != "" {
		t.Error("room fields not reset")
	}

	// A fresh start from the reset lobby must be accepted again.
	if err := Start(doc, SuggestConfig(3), rng); err != nil {
		t.Fatal(err)
	}
}
