package game

import (
	"fmt"
	"log"
)

// VoteOutcome describes what the voting resolution did.
type VoteOutcome struct {
	EliminatedID string
	Tally        map[string]int
	Message      string
}

// ResolveVotes tallies the voteTarget fields of living players and
// eliminates the plurality target. Null votes, self votes and votes on
// dead or unknown targets do not count. Ties break to the first target in
// sorted-id order; zero votes cast means no elimination. All vote fields
// are cleared afterward, so re-running on an unchanged vote set is
// idempotent.
func ResolveVotes(doc *RoomDoc) VoteOutcome {
	tally := make(map[string]int)
	for voterID, voter := range doc.Players {
		if !voter.IsAlive || voter.VoteTarget == "" || voter.VoteTarget == voterID {
			continue
		}
		target, ok := doc.Players[voter.VoteTarget]
		if !ok || !target.IsAlive {
			log.Printf("room %s: ignoring vote from %s on dead or unknown target %s", doc.Code, voterID, voter.VoteTarget)
			continue
		}
		tally[voter.VoteTarget]++
	}

	for _, p := range doc.Players {
		p.VoteTarget = ""
	}

	if len(tally) == 0 {
		return VoteOutcome{Tally: tally, Message: "no one was voted out"}
	}

	eliminatedID := ""
	best := 0
	for _, id := range sortedPlayerIDs(doc.Players) {
		if tally[id] > best {
			best = tally[id]
			eliminatedID = id
		}
	}

	eliminated := doc.Players[eliminatedID]
	eliminated.IsAlive = false
	return VoteOutcome{
		EliminatedID: eliminatedID,
		Tally:        tally,
		Message:      fmt.Sprintf("%s was voted out", eliminated.Name),
	}
}
