package game

import (
	"fmt"
	"log"
)

// NightOutcome describes what the night resolution did.
type NightOutcome struct {
	VictimID string
	Message  string
}

// ResolveNight consumes the collected night actions and applies the role
// interaction rules in their fixed order: the peaceful first night
// suppresses every kill, a save grants unconditional immunity against
// every kill on the same target, and at most one elimination happens per
// night (first unsaved kill target in sorted-id order). Investigations
// never touch shared state. Night actions are cleared on the way out.
func ResolveNight(doc *RoomDoc) NightOutcome {
	peaceful := doc.TurnCount == 1 && doc.Config.PeacefulFirstNight

	saved := make(map[string]bool)
	killTargets := make(map[string]bool)

	for actorID, action := range doc.NightActions {
		actor, ok := doc.Players[actorID]
		if !ok || !actor.IsAlive {
			log.Printf("room %s: ignoring night action from dead or unknown actor %s", doc.Code, actorID)
			continue
		}
		target, ok := doc.Players[action.TargetID]
		if !ok || !target.IsAlive {
			log.Printf("room %s: ignoring night action on dead or unknown target %s", doc.Code, action.TargetID)
			continue
		}

		switch action.Type {
		case ActionKill:
			if peaceful {
				continue
			}
			killTargets[action.TargetID] = true
		case ActionSave:
			saved[action.TargetID] = true
		case ActionInvestigate:
			// Resolved client-side by reading the target's role.
		}
	}

	doc.NightActions = nil

	victimID := ""
	for _, id := range sortedPlayerIDs(doc.Players) {
		if killTargets[id] && !saved[id] {
			victimID = id
			break
		}
	}

	if victimID == "" {
		return NightOutcome{Message: "no one died"}
	}

	victim := doc.Players[victimID]
	victim.IsAlive = false
	return NightOutcome{
		VictimID: victimID,
		Message:  fmt.Sprintf("%s died", victim.Name),
	}
}

// Investigate answers a detective's query about a target: mafia reads as
// MAFIA, every other role as INNOCENT. Pure read, never persisted.
func Investigate(target *PlayerState) string {
	if target.Role == RoleMafia {
		return "MAFIA"
	}
	return "INNOCENT"
}
