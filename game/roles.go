package game

import (
	"math/rand"
	"sort"
)

// SuggestConfig returns the advisory default role counts for a player
// count. Hosts may override any of these before starting.
func SuggestConfig(playerCount int) Config {
	cfg := Config{
		MafiaCount:         1,
		PeacefulFirstNight: playerCount <= 4,
	}
	if playerCount/4 > 1 {
		cfg.MafiaCount = playerCount / 4
	}
	if playerCount > 2 {
		cfg.DoctorCount = 1
	}
	if playerCount > 4 {
		cfg.DetectiveCount = 1
	}
	return cfg
}

// BuildRoster produces the full unshuffled role list for n players: the
// configured special roles first, villagers filling up to n. When n is
// smaller than the sum of specials the list is longer than n; the deal
// shuffles it whole and hands out only the first n, so which specialists
// miss the cut is down to the shuffle, not the build order.
func BuildRoster(n int, cfg Config) []Role {
	roster := make([]Role, 0, n)
	for i := 0; i < cfg.MafiaCount; i++ {
		roster = append(roster, RoleMafia)
	}
	for i := 0; i < cfg.DoctorCount; i++ {
		roster = append(roster, RoleDoctor)
	}
	for i := 0; i < cfg.DetectiveCount; i++ {
		roster = append(roster, RoleDetective)
	}
	for len(roster) < n {
		roster = append(roster, RoleVillager)
	}
	return roster
}

// sortedPlayerIDs is the stable player iteration order used everywhere a
// deterministic outcome is required: plain lexicographic sort of ids.
func sortedPlayerIDs(players map[string]*PlayerState) []string {
	ids := make([]string, 0, len(players))
	for id := range players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AssignRoles shuffles the full roster uniformly and deals the first
// len(players) roles in sorted-id order. Every player comes out alive
// with a cleared vote, and cfg is committed into the document for the
// rest of the game. A nil rng falls back to the lock-protected global
// source, which is safe to share across rooms.
func AssignRoles(doc *RoomDoc, cfg Config, rng *rand.Rand) {
	roster := BuildRoster(len(doc.Players), cfg)
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(roster), func(i, j int) {
		roster[i], roster[j] = roster[j], roster[i]
	})

	for i, id := range sortedPlayerIDs(doc.Players) {
		p := doc.Players[id]
		p.Role = roster[i]
		p.IsAlive = true
		p.VoteTarget = ""
	}
	doc.Config = cfg
}
