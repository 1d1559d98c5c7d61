package game

// WinResult is the outcome of a win-condition check.
type WinResult struct {
	Over   bool
	Winner Faction
}

// EvaluateWin checks the faction counts after a resolution. Town winning
// (no mafia left) is checked before mafia winning (mafia at parity with
// or outnumbering town), so a board that satisfies both goes to town.
func EvaluateWin(doc *RoomDoc) WinResult {
	mafiaAlive := 0
	townAlive := 0
	for _, p := range doc.Players {
		if !p.IsAlive {
			continue
		}
		if p.Role.Faction() == FactionMafia {
			mafiaAlive++
		} else {
			townAlive++
		}
	}

	if mafiaAlive == 0 {
		return WinResult{Over: true, Winner: FactionTown}
	}
	if mafiaAlive >= townAlive {
		return WinResult{Over: true, Winner: FactionMafia}
	}
	return WinResult{}
}
