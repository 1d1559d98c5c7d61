package game

import (
	"math/rand"
	"testing"
)

func testDoc(ids ...string) *RoomDoc {
	doc := NewRoomDoc("abc123")
	for _, id := range ids {
		doc.Players[id] = &PlayerState{ID: id, Name: "player " + id, Role: RoleUnknown, IsAlive: true, IsOnline: true}
	}
	return doc
}

func countRoles(roster []Role) map[Role]int {
	counts := make(map[Role]int)
	for _, r := range roster {
		counts[r]++
	}
	return counts
}

func TestBuildRoster(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		cfg     Config
		wantLen int
		want    map[Role]int
	}{
		{
			name:    "specials plus villagers",
			n:       6,
			cfg:     Config{MafiaCount: 1, DoctorCount: 1, DetectiveCount: 1},
			wantLen: 6,
			want:    map[Role]int{RoleMafia: 1, RoleDoctor: 1, RoleDetective: 1, RoleVillager: 3},
		},
		{
			name:    "all villagers",
			n:       3,
			cfg:     Config{},
			wantLen: 3,
			want:    map[Role]int{RoleVillager: 3},
		},
		{
			name:    "specials exceeding players kept for the shuffle",
			n:       2,
			cfg:     Config{MafiaCount: 2, DoctorCount: 2, DetectiveCount: 1},
			wantLen: 5,
			want:    map[Role]int{RoleMafia: 2, RoleDoctor: 2, RoleDetective: 1},
		},
		{
			name:    "exact fit",
			n:       3,
			cfg:     Config{MafiaCount: 1, DoctorCount: 1, DetectiveCount: 1},
			wantLen: 3,
			want:    map[Role]int{RoleMafia: 1, RoleDoctor: 1, RoleDetective: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster := BuildRoster(tt.n, tt.cfg)
			if len(roster) != tt.wantLen {
				t.Fatalf("roster length = %d, want %d", len(roster), tt.wantLen)
			}
			got := countRoles(roster)
			for role, want := range tt.want {
				if got[role] != want {
					t.Errorf("%s count = %d, want %d", role, got[role], want)
				}
			}
		})
	}
}

func TestAssignRolesSideEffects(t *testing.T) {
	doc := testDoc("p1", "p2", "p3", "p4")
	cfg := Config{MafiaCount: 1, DoctorCount: 1}
	AssignRoles(doc, cfg, rand.New(rand.NewSource(1)))

	if doc.Config != cfg {
		t.Errorf("config not committed: got %+v", doc.Config)
	}
	assigned := make(map[Role]int)
	for id, p := range doc.Players {
		if p.Role == RoleUnknown {
			t.Errorf("player %s still UNKNOWN", id)
		}
		if !p.IsAlive {
			t.Errorf("player %s not alive after assignment", id)
		}
		if p.VoteTarget != "" {
			t.Errorf("player %s vote not cleared", id)
		}
		assigned[p.Role]++
	}
	if assigned[RoleMafia] != 1 || assigned[RoleDoctor] != 1 || assigned[RoleVillager] != 2 {
		t.Errorf("unexpected role distribution: %v", assigned)
	}
}

// Every player must be able to land every role: run many shuffles and
// check that each (player, special role) pairing shows up. Catches
// positional bias in the deal order.
func TestAssignRolesNoPositionalBias(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	seen := make(map[string]map[Role]bool)
	ids := []string{"p1", "p2", "p3", "p4"}
	for _, id := range ids {
		seen[id] = make(map[Role]bool)
	}

	for i := 0; i < 500; i++ {
		doc := testDoc(ids...)
		AssignRoles(doc, Config{MafiaCount: 1, DoctorCount: 1}, rng)
		for id, p := range doc.Players {
			seen[id][p.Role] = true
		}
	}

	for _, id := range ids {
		for _, role := range []Role{RoleMafia, RoleDoctor, RoleVillager} {
			if !seen[id][role] {
				t.Errorf("player %s never drew %s in 500 deals", id, role)
			}
		}
	}
}

// With more specials configured than players, the surviving roles must
// depend on the shuffle. Every configured special has to be dealt at
// least once across many deals; a fixed drop order would starve the
// roles built last.
func TestAssignRolesTruncationFollowsShuffle(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cfg := Config{MafiaCount: 1, DoctorCount: 1, DetectiveCount: 1}
	dealt := make(map[Role]bool)

	for i := 0; i < 500; i++ {
		doc := testDoc("p1", "p2")
		AssignRoles(doc, cfg, rng)
		for _, p := range doc.Players {
			dealt[p.Role] = true
		}
	}

	for _, role := range []Role{RoleMafia, RoleDoctor, RoleDetective} {
		if !dealt[role] {
			t.Errorf("%s never survived the cut in 500 deals", role)
		}
	}
}

func TestAssignRolesNilRNG(t *testing.T) {
	doc := testDoc("p1", "p2", "p3", "p4")
	cfg := Config{MafiaCount: 1, DoctorCount: 1}
	AssignRoles(doc, cfg, nil)

	assigned := make(map[Role]int)
	for id, p := range doc.Players {
		if p.Role == RoleUnknown {
			t.Errorf("player %s still UNKNOWN", id)
		}
		assigned[p.Role]++
	}
	if assigned[RoleMafia] != 1 || assigned[RoleDoctor] != 1 || assigned[RoleVillager] != 2 {
		t.Errorf("unexpected role distribution: %v", assigned)
	}
}

func TestSuggestConfig(t *testing.T) {
	tests := []struct {
		n    int
		want Config
	}{
		{2, Config{MafiaCount: 1, PeacefulFirstNight: true}},
		{4, Config{MafiaCount: 1, DoctorCount: 1, PeacefulFirstNight: true}},
		{5, Config{MafiaCount: 1, DoctorCount: 1, DetectiveCount: 1}},
		{8, Config{MafiaCount: 2, DoctorCount: 1, DetectiveCount: 1}},
		{12, Config{MafiaCount: 3, DoctorCount: 1, DetectiveCount: 1}},
	}
	for _, tt := range tests {
		if got := SuggestConfig(tt.n); got != tt.want {
			t.Errorf("SuggestConfig(%d) = %+v, want %+v", tt.n, got, tt.want)
		}
	}
}
